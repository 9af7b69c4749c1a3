package outreach

import (
	"fmt"
	"strings"

	"footin-engine/internal/domain"
)

// Input is everything a draft depends on. Render is a pure function of
// this struct: identical input, byte-identical output.
type Input struct {
	ContactName    string
	ContactTitle   string
	Company        string
	Role           string
	ActivitySignal string
}

// hookRule maps substrings of the observed activity signal to a
// personalization sentence. Rules are checked in order; first match wins.
type hookRule struct {
	category string
	needles  []string
	render   func(in Input) string
}

var hookRules = []hookRule{
	{
		category: "funding",
		needles:  []string{"funding", "raised", "series"},
		render: func(in Input) string {
			return fmt.Sprintf("Congratulations on the recent funding news at %s.", in.Company)
		},
	},
	{
		category: "launch",
		needles:  []string{"launch", "announc", "ship", "release"},
		render: func(in Input) string {
			return fmt.Sprintf("I caught the recent launch news from %s and was impressed by the direction.", in.Company)
		},
	},
	{
		category: "growth",
		needles:  []string{"hiring", "growing", "expand"},
		render: func(in Input) string {
			return fmt.Sprintf("It looks like the team at %s is growing quickly right now.", in.Company)
		},
	},
	{
		category: "content",
		needles:  []string{"post", "article", "talk", "interview"},
		render: func(in Input) string {
			return "I enjoyed your recent post and the perspective it shared."
		},
	},
}

const genericCategory = "generic"

func genericHook(in Input) string {
	return fmt.Sprintf("I've been following %s and admire what the team is building.", in.Company)
}

// Render produces the outreach draft for one contact. Deterministic so it
// can be regenerated, diffed, and cached safely.
func Render(in Input) domain.Draft {
	category, hook := pickHook(in)

	subject := fmt.Sprintf("%s opportunity at %s — Quick intro", in.Role, in.Company)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(in.ContactName))
	fmt.Fprintf(&b, "%s I'm reaching out because I'm exploring %s roles and %s is at the top of my list.\n\n",
		hook, in.Role, in.Company)
	b.WriteString("I've spent the last few years building and shipping products end to end, and I care a lot about joining a team where I can contribute from week one.\n\n")
	fmt.Fprintf(&b, "Would you be open to a quick 15-minute chat about the %s role? Happy to work around your schedule.\n\n", in.Role)
	b.WriteString("Best regards")

	return domain.Draft{
		Subject:      subject,
		Body:         b.String(),
		HookCategory: category,
	}
}

func pickHook(in Input) (string, string) {
	signal := strings.ToLower(in.ActivitySignal)
	for _, rule := range hookRules {
		for _, needle := range rule.needles {
			if strings.Contains(signal, needle) {
				return rule.category, rule.render(in)
			}
		}
	}
	return genericCategory, genericHook(in)
}

// firstName takes the first whitespace token of a full name, or "there"
// when the name is empty.
func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
