package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"footin-engine/internal/domain"
)

func TestKeywordScorer(t *testing.T) {
	s := KeywordScorer{Keywords: []string{"engineer", "platform"}}

	assert.Equal(t, 6, s.Score(domain.JobView{Title: "Platform Engineer"}))
	assert.Equal(t, 3, s.Score(domain.JobView{Title: "Engineer"}))
	assert.Equal(t, 1, s.Score(domain.JobView{Title: "Designer", Description: "works with engineers"}))
	assert.Equal(t, 0, s.Score(domain.JobView{Title: "Accountant"}))
}

func TestByRelevanceStable(t *testing.T) {
	jobs := []domain.JobView{
		{ID: 1, Title: "Accountant"},
		{ID: 2, Title: "Platform Engineer"},
		{ID: 3, Title: "Engineer"},
		{ID: 4, Title: "Designer"},
	}
	ByRelevance(jobs, KeywordScorer{Keywords: []string{"engineer", "platform"}})

	assert.Equal(t, int64(2), jobs[0].ID)
	assert.Equal(t, int64(3), jobs[1].ID)
	// Equal scores keep their original relative order.
	assert.Equal(t, int64(1), jobs[2].ID)
	assert.Equal(t, int64(4), jobs[3].ID)
}
