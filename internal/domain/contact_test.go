package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFrom(t *testing.T) {
	cases := map[string]SeniorityTier{
		"executive": TierExecutive,
		"c_suite":   TierExecutive,
		"VP":        TierExecutive,
		"Director":  TierExecutive,
		"owner":     TierExecutive,
		"partner":   TierExecutive,
		"senior":    TierSenior,
		"Manager":   TierSenior,
		"junior":    TierOther,
		"":          TierOther,
		"unknown":   TierOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, TierFrom(in), in)
	}
}
