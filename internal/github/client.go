package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/brewform/internal/logger"
	"go.uber.org/zap"
)

// apiVersion is the GitHub REST API version header.
const apiVersion = "2022-11-28"

// DefaultBaseURL is the base URL for the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 10 << 20

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL defaults to DefaultBaseURL. Must use HTTPS.
	BaseURL string

	// Token is a personal access or fine-grained token.
	Token string

	// UserAgent defaults to "brewform".
	UserAgent string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger defaults to the process-wide logger.
	Logger *zap.SugaredLogger

	// After is used to wait out rate limits. Defaults to time.After.
	After func(time.Duration) <-chan time.Time
}

// Client is a GitHub REST API client.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	log        *zap.SugaredLogger
	after      func(time.Duration) <-chan time.Time
	now        func() time.Time
}

// NewClient creates a client. It fails when the base URL is not HTTPS or
// no token is configured.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("github: API client requires HTTPS (got %q)", baseURL)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("github: no token configured")
	}

	client := &Client{
		baseURL:    baseURL,
		token:      config.Token,
		userAgent:  config.UserAgent,
		httpClient: config.HTTPClient,
		log:        config.Logger,
		after:      config.After,
		now:        time.Now,
	}
	if client.userAgent == "" {
		client.userAgent = "brewform"
	}
	if client.httpClient == nil {
		client.httpClient = http.DefaultClient
	}
	if client.log == nil {
		client.log = logger.Logger()
	}
	if client.after == nil {
		client.after = time.After
	}
	return client, nil
}

// get fetches path and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	body, err := c.do(ctx, path, false)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("github: decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, isRetry bool) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("github: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("github: reading response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := parseAPIError(resp.StatusCode, body)
	if !isRetry && apiErr.rateLimited() {
		if wait := retryAfter(resp.Header, c.now()); wait > 0 {
			c.log.Infow("rate limited, backing off", "duration", wait, "path", path)

			select {
			case <-c.after(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return c.do(ctx, path, true)
		}
	}

	return nil, apiErr
}
