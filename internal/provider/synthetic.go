package provider

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"footin-engine/internal/domain"
)

// Synthetic data keeps the interactive flow alive when a live provider is
// down. Results carry ProvenanceSynthetic so callers can always tell them
// apart from live data; nothing synthetic is ever persisted.

// SyntheticJobs fabricates one posting per (company, role) pair. IDs are
// negative so they can never collide with persisted rows.
func SyntheticJobs(companies, roles []string) []domain.JobView {
	var out []domain.JobView
	id := int64(0)
	for _, company := range companies {
		for _, role := range roles {
			id--
			out = append(out, domain.JobView{
				ID:          id,
				Title:       role,
				CompanyName: company,
				Location:    "Remote",
				JobURL:      fmt.Sprintf("https://example.com/jobs/%s/%s", slug(company), slug(role)),
				Description: fmt.Sprintf("%s is hiring a %s. (sample posting, provider unavailable)", company, role),
			})
		}
	}
	return out
}

// SyntheticContacts fabricates a small plausible hiring panel for one
// company: an executive, a senior manager, and an individual contributor.
func SyntheticContacts(company string) []domain.Contact {
	dom := slug(company) + ".example.com"
	mk := func(first, last, title string, tier domain.SeniorityTier, dept string) domain.Contact {
		return domain.Contact{
			ID:         uuid.NewString(),
			Name:       first + " " + last,
			Email:      strings.ToLower(first + "." + last + "@" + dom),
			Title:      title,
			Tier:       tier,
			Department: dept,
			Company:    company,
		}
	}
	return []domain.Contact{
		mk("Jordan", "Reyes", "VP of Engineering", domain.TierExecutive, "it"),
		mk("Sam", "Okafor", "Senior Engineering Manager", domain.TierSenior, "it"),
		mk("Priya", "Nair", "Talent Partner", domain.TierOther, "management"),
	}
}

// SyntheticSignal feeds the draft generator a growth-flavored hook so
// degraded-mode drafts still read naturally.
func SyntheticSignal(company string) string {
	return fmt.Sprintf("%s appears to be hiring and growing the team", company)
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
}
