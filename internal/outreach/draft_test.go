package outreach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDeterministic(t *testing.T) {
	in := Input{
		ContactName:    "Jordan Reyes",
		ContactTitle:   "VP of Engineering",
		Company:        "Acme",
		Role:           "Platform Engineer",
		ActivitySignal: "Acme raised a Series B",
	}
	a := Render(in)
	b := Render(in)
	assert.Equal(t, a, b)
}

func TestRenderSubjectAndGreeting(t *testing.T) {
	d := Render(Input{
		ContactName: "Jordan Reyes",
		Company:     "Acme",
		Role:        "Platform Engineer",
	})
	assert.Equal(t, "Platform Engineer opportunity at Acme — Quick intro", d.Subject)
	assert.True(t, strings.HasPrefix(d.Body, "Hi Jordan,"))
	assert.Contains(t, d.Body, "Platform Engineer")
	assert.Contains(t, d.Body, "15-minute chat")
}

func TestRenderEmptyNameFallsBack(t *testing.T) {
	d := Render(Input{Company: "Acme", Role: "SRE"})
	assert.True(t, strings.HasPrefix(d.Body, "Hi there,"))
}

func TestHookCategories(t *testing.T) {
	cases := []struct {
		signal   string
		category string
	}{
		{"Acme raised a Series B", "funding"},
		{"Acme announced a product launch", "launch"},
		{"Acme shipped a new release", "launch"},
		{"Acme is hiring and growing the team", "growth"},
		{"Loved your recent article on scaling", "content"},
		{"", "generic"},
		{"nothing matching here", "generic"},
	}
	for _, tc := range cases {
		d := Render(Input{Company: "Acme", Role: "SRE", ActivitySignal: tc.signal})
		assert.Equal(t, tc.category, d.HookCategory, tc.signal)
	}
}

func TestHookPriorityOrder(t *testing.T) {
	// Funding outranks launch when a signal mentions both.
	d := Render(Input{
		Company:        "Acme",
		Role:           "SRE",
		ActivitySignal: "after the funding round, Acme announced a launch",
	})
	require.Equal(t, "funding", d.HookCategory)
	assert.Contains(t, d.Body, "funding news")
}

func TestGenericHookNamesCompany(t *testing.T) {
	d := Render(Input{Company: "Globex", Role: "SRE"})
	assert.Contains(t, d.Body, "Globex")
}
