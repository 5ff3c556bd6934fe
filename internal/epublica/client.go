// Package epublica is the client for the e-Publica transparency REST API.
// It fetches expense commitments and payroll entries for a period, optionally
// filtered by managing unit.
package epublica

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// StatusError is returned when the transparency API answers with a
// non-success HTTP status. It aborts the whole sync run.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transparency API returned %s", e.Status)
}

// Client talks to the transparency portal. It is safe for sequential use by
// a single pipeline run; no retries or pagination beyond what the API
// expresses through its query parameters.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a Client for the given portal base URL.
func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// FetchDespesas retrieves the expense commitments issued between the two
// reference periods (format "MM/YYYY"). codigoUnidade zero means no managing
// unit filter.
func (c *Client) FetchDespesas(ctx context.Context, periodoInicial, periodoFinal string, codigoUnidade int) ([]DespesaRegistro, error) {
	params := url.Values{}
	params.Set("periodo_inicial", periodoInicial)
	params.Set("periodo_final", periodoFinal)
	if codigoUnidade != 0 {
		params.Set("codigo_unidade", strconv.Itoa(codigoUnidade))
	}

	var envelope despesaEnvelope
	if err := c.get(ctx, "/despesa", params, &envelope); err != nil {
		return nil, err
	}

	registros := make([]DespesaRegistro, 0, len(envelope.Registros))
	for _, item := range envelope.Registros {
		if item.Registro == nil {
			continue
		}
		registros = append(registros, *item.Registro)
	}

	c.log.WithFields(logrus.Fields{
		"endpoint":        "despesa",
		"periodo_inicial": periodoInicial,
		"periodo_final":   periodoFinal,
		"count":           len(registros),
	}).Debug("Fetched expense records")

	return registros, nil
}

// FetchFolha retrieves the payroll entries for the given reference period
// (format "MM/YYYY"). codigoUnidade zero means no managing unit filter.
func (c *Client) FetchFolha(ctx context.Context, referencia string, codigoUnidade int) ([]FolhaRegistro, error) {
	params := url.Values{}
	params.Set("referencia", referencia)
	if codigoUnidade != 0 {
		params.Set("codigo_unidade", strconv.Itoa(codigoUnidade))
	}

	var envelope folhaEnvelope
	if err := c.get(ctx, "/pessoal", params, &envelope); err != nil {
		return nil, err
	}

	registros := make([]FolhaRegistro, 0, len(envelope.Registros))
	for _, item := range envelope.Registros {
		if item.Registro == nil {
			continue
		}
		registros = append(registros, *item.Registro)
	}

	c.log.WithFields(logrus.Fields{
		"endpoint":   "pessoal",
		"referencia": referencia,
		"count":      len(registros),
	}).Debug("Fetched payroll records")

	return registros, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling transparency API: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}

	return nil
}
