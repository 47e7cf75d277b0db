package caption

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"alttext/internal/infra"
)

// ErrKeyRequired indicates a verification attempt without an API key. It fails
// locally, before any HTTP call.
var ErrKeyRequired = errors.New("caption: API Key is required")

// ErrKeyNotFound indicates the verification endpoint does not know the key.
var ErrKeyNotFound = errors.New("caption: API Key not found")

// ErrVerifyFailed indicates the verification endpoint rejected the request.
var ErrVerifyFailed = errors.New("caption: failed to verify API Key")

// ErrInvalidResponse indicates the verification response lacked the expected
// credits field.
var ErrInvalidResponse = errors.New("caption: invalid API response")

// Options configures the captioning client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	CaptionTimeout time.Duration
	VerifyTimeout  time.Duration
}

// Client performs HTTP calls to the remote captioning service. Captioning is a
// single attempt per invocation; retry policy, if any, belongs to the caller.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *infra.Logger
	captionTimeout time.Duration
	verifyTimeout  time.Duration
}

type captionRequest struct {
	Image    string `json:"image"`
	WPKey    string `json:"wpkey"`
	Language string `json:"language"`
}

type verifyRequest struct {
	APIKey string `json:"apiKey"`
}

type verifyResponse struct {
	FreeRewritesLeft *int `json:"freeRewritesLeft"`
}

// Verification reports a valid key and its remaining credits.
type Verification struct {
	Valid   bool
	Credits int
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://alttextgeneratorai.com"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	captionTimeout := opts.CaptionTimeout
	if captionTimeout <= 0 {
		captionTimeout = 30 * time.Second
	}
	verifyTimeout := opts.VerifyTimeout
	if verifyTimeout <= 0 {
		verifyTimeout = 10 * time.Second
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:        baseURL,
		httpClient:     httpClient,
		logger:         logger,
		captionTimeout: captionTimeout,
		verifyTimeout:  verifyTimeout,
	}
}

// Caption sends the image to the captioning endpoint and maps the response to
// a tagged Result. The image travels as a data URL so the remote service never
// needs to reach the (possibly private) origin.
func (c *Client) Caption(ctx context.Context, imageData []byte, mimeType, apiKey, lang string) Result {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(imageData)
	body, err := json.Marshal(captionRequest{Image: dataURL, WPKey: apiKey, Language: lang})
	if err != nil {
		return networkError(fmt.Errorf("caption: encode request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.captionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/craft", bytes.NewReader(body))
	if err != nil {
		return networkError(fmt.Errorf("caption: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(fmt.Errorf("caption: http request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(fmt.Errorf("caption: read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("caption: api returned non-200")
		return httpError(resp.StatusCode)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return emptyResponse()
	}
	return success(text)
}

// VerifyKey checks the API key against the verification endpoint and returns
// the remaining credits. An empty key fails before any HTTP call. This call
// never touches the asset store.
func (c *Client) VerifyKey(ctx context.Context, apiKey string) (Verification, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Verification{}, ErrKeyRequired
	}

	body, err := json.Marshal(verifyRequest{APIKey: apiKey})
	if err != nil {
		return Verification{}, fmt.Errorf("caption: encode verify request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/verify", bytes.NewReader(body))
	if err != nil {
		return Verification{}, fmt.Errorf("caption: build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verification{}, fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Verification{}, ErrKeyNotFound
	case resp.StatusCode != http.StatusOK:
		return Verification{}, fmt.Errorf("%w: status %d", ErrVerifyFailed, resp.StatusCode)
	}

	var decoded verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Verification{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if decoded.FreeRewritesLeft == nil {
		return Verification{}, ErrInvalidResponse
	}
	return Verification{Valid: true, Credits: *decoded.FreeRewritesLeft}, nil
}
