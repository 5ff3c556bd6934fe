package categorizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"vmalves/transparencia-sync/internal/config"
)

const (
	defaultCompletionsURL = "https://api.openai.com/v1/chat/completions"

	// The model must answer with the bare category label, nothing else.
	systemPrompt = `Você é um assistente que classifica textos de empenhos. Sua única resposta deve ser a categoria identificada, sem explicações ou frases adicionais. Exemplos de categorias: "Locação de Imóveis", "Manutenção de Veículos", "Prestação de Serviços de Engenharia", "Pagamento de Encargos Sociais e Trabalhistas", etc.`
)

// RemoteError is returned when the classification service answers with a
// non-success status or cannot be reached. The response body is captured for
// diagnostics. There is no retry; the caller decides whether to skip or halt.
type RemoteError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("classification service returned %s", e.Status)
}

// OpenAIClient implements AIClient against the OpenAI chat-completions API.
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// OpenAIOptions configures an OpenAIClient. Zero-value fields fall back to
// defaults; APIKey is mandatory.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewOpenAIClient creates the fallback classifier. A missing API key is a
// configuration error and blocks pipeline start.
func NewOpenAIClient(opts OpenAIOptions, log logrus.FieldLogger) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, config.ErrMissingAPIKey
	}
	if opts.Model == "" {
		opts.Model = "gpt-3.5-turbo"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultCompletionsURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logrus.New()
	}

	return &OpenAIClient{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		log:        log,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends a single-turn classification prompt and returns the category
// label from the first choice. Responses are free text; category labels may
// drift across calls.
func (c *OpenAIClient) Classify(ctx context.Context, text string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Classifique o seguinte empenho: %q", text)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding classification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building classification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RemoteError{Status: err.Error(), Body: ""}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Capture the body before failing so the cause shows up in the logs.
		respBody, _ := io.ReadAll(resp.Body)
		c.log.WithFields(logrus.Fields{
			"status": resp.Status,
			"body":   string(respBody),
		}).Error("Classification request failed")
		return "", &RemoteError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding classification response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("classification response contained no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
