package contacts

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footin-engine/internal/domain"
)

func contact(name string, tier domain.SeniorityTier) domain.Contact {
	return domain.Contact{
		ID:    name,
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
		Tier:  tier,
	}
}

func TestDedupe(t *testing.T) {
	in := []domain.Contact{
		{ID: "a", Email: "a@example.com"},
		{ID: "b", Email: ""},
		{ID: "c", Email: "a@example.com"},
		{ID: "d", Email: "d@example.com"},
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "d", out[1].ID)
}

func TestPickBestExecsAndSenior(t *testing.T) {
	in := []domain.Contact{
		contact("exec1", domain.TierExecutive),
		contact("exec2", domain.TierExecutive),
		contact("exec3", domain.TierExecutive),
		contact("senior1", domain.TierSenior),
		contact("other1", domain.TierOther),
	}
	out := PickBest(in)
	require.Len(t, out, 3)
	assert.Equal(t, "exec1", out[0].ID)
	assert.Equal(t, "exec2", out[1].ID)
	assert.Equal(t, "senior1", out[2].ID)
}

func TestPickBestNoExecutives(t *testing.T) {
	in := []domain.Contact{
		contact("senior1", domain.TierSenior),
		contact("senior2", domain.TierSenior),
		contact("other1", domain.TierOther),
	}
	out := PickBest(in)
	require.Len(t, out, 2)
	assert.Equal(t, "senior1", out[0].ID)
	assert.Equal(t, "senior2", out[1].ID)
}

func TestPickBestOnlyOthers(t *testing.T) {
	in := []domain.Contact{
		contact("other1", domain.TierOther),
		contact("other2", domain.TierOther),
		contact("other3", domain.TierOther),
	}
	out := PickBest(in)
	require.Len(t, out, 2)
	assert.Equal(t, "other1", out[0].ID)
	assert.Equal(t, "other2", out[1].ID)
}

func TestPickBestSingleCandidate(t *testing.T) {
	out := PickBest([]domain.Contact{contact("other1", domain.TierOther)})
	require.Len(t, out, 1)
}

func TestPickBestEmpty(t *testing.T) {
	assert.Empty(t, PickBest(nil))
}

func TestPickBestCap(t *testing.T) {
	var in []domain.Contact
	for i := 0; i < 5; i++ {
		in = append(in, contact(fmt.Sprintf("exec%d", i), domain.TierExecutive))
	}
	for i := 0; i < 5; i++ {
		in = append(in, contact(fmt.Sprintf("senior%d", i), domain.TierSenior))
	}
	out := PickBest(in)
	assert.Len(t, out, 3)
}
