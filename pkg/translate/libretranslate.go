package translate

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
)

// DefaultLibreTranslateURL is the default base URL for a self-hosted
// LibreTranslate instance.
const DefaultLibreTranslateURL = "http://localhost:5000"

// LibreTranslateClient implements the Provider interface using
// LibreTranslate, a self-hosted open-source machine translation API.
// LibreTranslate returns a single translation, so Result carries only a
// primary candidate and no alternatives.
type LibreTranslateClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewLibreTranslateClient creates a new LibreTranslate client.
func NewLibreTranslateClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *LibreTranslateClient {
	if baseURL == "" {
		baseURL = DefaultLibreTranslateURL
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &LibreTranslateClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name identifies this backend in logs, errors and metrics.
func (c *LibreTranslateClient) Name() string { return "libretranslate" }

// libreTranslateRequest represents a LibreTranslate API request.
type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

// libreTranslateResponse represents a LibreTranslate API response.
type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Call translates one segment via POST /translate.
func (c *LibreTranslateClient) Call(ctx context.Context, segment, sourceLocale, targetLocale string) (*Result, error) {
	c.logger.WithFields(logrus.Fields{
		"source_locale":  sourceLocale,
		"target_locale":  targetLocale,
		"segment_length": len(segment),
	}).Debug("Translating segment with LibreTranslate")

	payload := libreTranslateRequest{
		Q:      segment,
		Source: sourceLocale,
		Target: targetLocale,
		Format: "text",
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&payload); err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", buf)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("LibreTranslate request failed")
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Debug("LibreTranslate request completed")

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(bodyBytes),
		}).Error("LibreTranslate returned non-OK status")
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var ltResp libreTranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ltResp); err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	return &Result{Primary: strings.TrimSpace(ltResp.TranslatedText)}, nil
}
