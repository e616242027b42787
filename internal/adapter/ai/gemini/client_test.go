package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berachah-academy/ikigai-api/internal/adapter/ai/gemini"
	"github.com/berachah-academy/ikigai-api/internal/domain"
)

func TestNew_EmptyKeyIsRejected(t *testing.T) {
	_, err := gemini.New(context.Background(), "", "key1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	// The credential name, not the key value, is the only identifier in errors.
	assert.Contains(t, err.Error(), "key1")
}

func TestNew_NamesCredentialSlot(t *testing.T) {
	c, err := gemini.New(context.Background(), "test-key", "key2")
	require.NoError(t, err)
	assert.Equal(t, "key2", c.Name())
}
