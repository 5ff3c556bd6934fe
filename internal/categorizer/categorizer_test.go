package categorizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAIClient records whether it was called and returns a fixed answer.
type stubAIClient struct {
	category string
	err      error
	calls    int
	lastText string
}

func (s *stubAIClient) Classify(ctx context.Context, text string) (string, error) {
	s.calls++
	s.lastText = text
	return s.category, s.err
}

func TestCategorizeMatchesKeywordWithoutRemoteCall(t *testing.T) {
	ai := &stubAIClient{category: "should not be used"}
	c := New(DefaultRules(), ai, nil)

	category, err := c.Categorize(context.Background(), "Locação de imóvel comercial", "")
	require.NoError(t, err)

	assert.Equal(t, "Locação de Imóveis", category)
	assert.Zero(t, ai.calls, "remote classifier must not be consulted when a rule matches")
}

func TestCategorizeJoinsObjectAndDetail(t *testing.T) {
	c := New(DefaultRules(), nil, nil)

	// Keyword only present in the detail text.
	category, err := c.Categorize(context.Background(), "Pagamento referente ao contrato 42", "fornecimento de energia")
	require.NoError(t, err)
	assert.Equal(t, "Despesas com Energia Elétrica", category)
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Keyword: "limpeza", Category: "Serviços de Limpeza"},
		{Keyword: "limpeza urbana", Category: "Serviços Urbanos"},
	}
	c := New(rules, nil, nil)

	category, ok := c.MatchRules("serviços de limpeza urbana")
	require.True(t, ok)
	assert.Equal(t, "Serviços de Limpeza", category, "first matching rule in table order must win")
}

func TestCategorizePluralMatch(t *testing.T) {
	c := New(DefaultRules(), nil, nil)

	// The table holds "locação de imóvel"; the plural form must still match.
	category, ok := c.MatchRules("LOCAÇÃO DE IMÓVEIS PARA FUNCIONAMENTO DA SECRETARIA")
	require.True(t, ok)
	assert.Equal(t, "Locação de Imóveis", category)
}

func TestCategorizeDelegatesToRemoteClassifier(t *testing.T) {
	ai := &stubAIClient{category: "Serviços Funerários"}
	c := New(DefaultRules(), ai, nil)

	category, err := c.Categorize(context.Background(), "xyz totally unmatched text", "")
	require.NoError(t, err)

	assert.Equal(t, "Serviços Funerários", category)
	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, "xyz totally unmatched text", ai.lastText)
}

func TestCategorizePropagatesRemoteError(t *testing.T) {
	remoteErr := &RemoteError{StatusCode: 500, Status: "500 Internal Server Error"}
	ai := &stubAIClient{err: remoteErr}
	c := New(DefaultRules(), ai, nil)

	_, err := c.Categorize(context.Background(), "xyz totally unmatched text", "")
	require.Error(t, err)

	var got *RemoteError
	assert.True(t, errors.As(err, &got))
}

func TestCategorizeWithoutAIClientReturnsUnclassified(t *testing.T) {
	c := New(DefaultRules(), nil, nil)

	category, err := c.Categorize(context.Background(), "xyz totally unmatched text", "")
	require.NoError(t, err)
	assert.Empty(t, category)
}

func TestDefaultRulesCoverage(t *testing.T) {
	c := New(DefaultRules(), nil, nil)

	testCases := []struct {
		text     string
		category string
	}{
		{"CONTRIBUIÇÃO PATRONAL COMPETÊNCIA 05/2024", "Folha de Pagamento"},
		{"manutenção de veículos da frota municipal", "Manutenção de Veículos"},
		{"aquisição de combustíveis (diesel)", "Combustível"},
		{"hospedagem de site institucional", "Sistemas"},
		{"serviços de vigilância armada", "Serviços de Segurança"},
		{"fornecimento de água tratada", "Despesas com Água"},
		{"contratação de banda larga", "Serviços de Internet"},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			category, ok := c.MatchRules(tc.text)
			require.True(t, ok, "expected a rule to match %q", tc.text)
			assert.Equal(t, tc.category, category)
		})
	}
}
