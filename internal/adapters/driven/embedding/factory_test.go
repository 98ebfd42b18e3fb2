package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
)

func TestNew_DefaultsToLexical(t *testing.T) {
	svc, err := New(Settings{})

	require.NoError(t, err)
	defer svc.Close()
	assert.Equal(t, "lexical-hash", svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
}

func TestNew_LexicalWithDimensions(t *testing.T) {
	svc, err := New(Settings{Provider: ProviderLexical, Dimensions: 128})

	require.NoError(t, err)
	defer svc.Close()
	assert.Equal(t, 128, svc.Dimensions())
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Settings{Provider: "openai"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNew_OllamaUnreachable(t *testing.T) {
	// Nothing listens here; provider construction must fail the ping.
	_, err := New(Settings{
		Provider: ProviderOllama,
		BaseURL:  "http://127.0.0.1:1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
}
