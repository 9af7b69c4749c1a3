package contacts

import "footin-engine/internal/domain"

const maxPicked = 3

// Dedupe drops candidates without an email (no verifiable identity) and
// keeps the first occurrence per exact address. Runs once per company,
// across all sub-query results, before ranking.
func Dedupe(candidates []domain.Contact) []domain.Contact {
	seen := make(map[string]bool, len(candidates))
	out := make([]domain.Contact, 0, len(candidates))
	for _, c := range candidates {
		if c.Email == "" || seen[c.Email] {
			continue
		}
		seen[c.Email] = true
		out = append(out, c)
	}
	return out
}

// PickBest selects a bounded, seniority-diverse subset: up to two
// executives, one senior, and a floor of two picks filled from remaining
// seniors then others when decision-makers are scarce. Never more than
// three, never fabricated.
func PickBest(candidates []domain.Contact) []domain.Contact {
	var executives, seniors, others []domain.Contact
	for _, c := range candidates {
		switch c.Tier {
		case domain.TierExecutive:
			executives = append(executives, c)
		case domain.TierSenior:
			seniors = append(seniors, c)
		default:
			others = append(others, c)
		}
	}

	var selected []domain.Contact
	if len(executives) > 2 {
		selected = append(selected, executives[:2]...)
	} else {
		selected = append(selected, executives...)
	}

	if len(seniors) > 0 {
		selected = append(selected, seniors[0])
		seniors = seniors[1:]
	}

	// Guarantee a minimally useful result when executives are missing.
	for _, pool := range [][]domain.Contact{seniors, others} {
		for _, c := range pool {
			if len(selected) >= 2 {
				break
			}
			selected = append(selected, c)
		}
	}

	if len(selected) > maxPicked {
		selected = selected[:maxPicked]
	}
	return selected
}
