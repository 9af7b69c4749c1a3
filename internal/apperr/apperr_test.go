package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation(t *testing.T) {
	err := Validation("companies", "at most %d entries", 5)
	assert.True(t, IsValidation(err))
	assert.False(t, IsProvider(err))
	assert.Contains(t, err.Error(), "companies")
	assert.Contains(t, err.Error(), "at most 5 entries")
}

func TestProviderWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := Provider("scraper", cause)
	assert.True(t, IsProvider(err))
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("discovery: %w", err)
	assert.True(t, IsProvider(wrapped))
}

func TestStorageNilPassthrough(t *testing.T) {
	require.Nil(t, Storage("query", nil))

	err := Storage("query", errors.New("disk full"))
	assert.True(t, IsStorage(err))
	assert.Contains(t, err.Error(), "query")
}
