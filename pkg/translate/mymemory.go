package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultMyMemoryURL is the base URL of the free MyMemory API.
	DefaultMyMemoryURL = "https://api.mymemory.translated.net"
	// DefaultProviderTimeout bounds one provider request. A hung call is
	// treated like any other provider failure, never left pending.
	DefaultProviderTimeout = 10 * time.Second

	// myMemoryWarningPrefix marks responses where the primary field holds
	// an error/quota message instead of a translation.
	myMemoryWarningPrefix = "MYMEMORY WARNING"
)

// MyMemoryClient implements the Provider interface using the MyMemory
// translation memory API. MyMemory returns a primary machine translation
// plus a list of scored matches, which map directly onto Result.
type MyMemoryClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewMyMemoryClient creates a new MyMemory client. baseURL defaults to the
// public endpoint when empty.
func NewMyMemoryClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *MyMemoryClient {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &MyMemoryClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name identifies this backend in logs, errors and metrics.
func (c *MyMemoryClient) Name() string { return "mymemory" }

// qualityScore tolerates MyMemory returning the quality field as either a
// JSON number or a quoted string ("74"). Unparseable values score zero.
type qualityScore float64

func (q *qualityScore) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*q = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*q = 0
		return nil
	}
	*q = qualityScore(f)
	return nil
}

// myMemoryResponse is the wire shape of GET /get.
type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	Matches []struct {
		Translation string       `json:"translation"`
		Quality     qualityScore `json:"quality"`
	} `json:"matches"`
}

// Call translates one segment, returning the primary result and all scored
// alternatives. Warning placeholders are stripped from the primary field;
// ranking and identity filtering are the resolver's job.
func (c *MyMemoryClient) Call(ctx context.Context, segment, sourceLocale, targetLocale string) (*Result, error) {
	c.logger.WithFields(logrus.Fields{
		"source_locale":  sourceLocale,
		"target_locale":  targetLocale,
		"segment_length": len(segment),
	}).Debug("Translating segment with MyMemory")

	params := url.Values{}
	params.Set("q", segment)
	params.Set("langpair", sourceLocale+"|"+targetLocale)
	params.Set("mt", "1")
	reqURL := c.baseURL + "/get?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("create request: %w", err)}
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("MyMemory request failed")
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Debug("MyMemory request completed")

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(bodyBytes),
		}).Error("MyMemory returned non-OK status")
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var mmResp myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&mmResp); err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	result := &Result{}
	if primary := strings.TrimSpace(mmResp.ResponseData.TranslatedText); primary != "" &&
		!strings.HasPrefix(primary, myMemoryWarningPrefix) {
		result.Primary = primary
	}
	for _, m := range mmResp.Matches {
		text := strings.TrimSpace(m.Translation)
		if text == "" {
			continue
		}
		result.Alternatives = append(result.Alternatives, Candidate{
			Text:    text,
			Quality: float64(m.Quality),
		})
	}
	return result, nil
}
