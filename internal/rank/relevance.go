package rank

import (
	"sort"
	"strings"

	"footin-engine/internal/domain"
)

type Scorer interface {
	Score(job domain.JobView) int
}

// KeywordScorer weighs a posting against the search keywords. Title hits
// count more than description hits.
type KeywordScorer struct {
	Keywords []string
}

func (s KeywordScorer) Score(job domain.JobView) int {
	title := strings.ToLower(job.Title)
	desc := strings.ToLower(job.Description)

	score := 0
	for _, kw := range s.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) {
			score += 3
		}
		if strings.Contains(desc, kw) {
			score++
		}
	}
	return score
}

// ByRelevance orders jobs by descending score in place. The sort is
// stable so equally scored jobs keep their recency order.
func ByRelevance(jobs []domain.JobView, s Scorer) {
	scores := make(map[int64]int, len(jobs))
	for _, j := range jobs {
		scores[j.ID] = s.Score(j)
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		return scores[jobs[i].ID] > scores[jobs[k].ID]
	})
}
