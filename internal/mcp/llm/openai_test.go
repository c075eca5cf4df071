// internal/mcp/llm/openai_test.go
package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-reserves/internal/config"
	"dca-reserves/internal/mcp/llm"
)

func TestNewRequiresKey(t *testing.T) {
	_, err := llm.New(config.LLM{})
	assert.ErrorIs(t, err, llm.ErrNoAPIKey)

	c, err := llm.New(config.LLM{APIKey: "sk-test", APIBase: "http://localhost:9999/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.Model())
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, llm.StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "evaluate_reserves", llm.StripFences("  evaluate_reserves "))
}
