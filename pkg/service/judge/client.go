package judge

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
	"github.com/kensho-lab/acwatch/pkg/utils/safe"
)

const (
	// DefaultResourceBaseURL serves the shared problem datasets
	DefaultResourceBaseURL = "https://kenkoooo.com/atcoder/resources"
	// DefaultAPIBaseURL serves per-user queries
	DefaultAPIBaseURL = "https://kenkoooo.com/atcoder/atcoder-api"
)

// Client fetches the AtCoder Problems datasets over HTTP
type Client struct {
	httpClient   *http.Client
	resourceBase string
	apiBase      string
}

var _ interfaces.JudgeClient = &Client{}

// Option is a functional option for client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithResourceBaseURL overrides the resource endpoint base URL
func WithResourceBaseURL(base string) Option {
	return func(c *Client) {
		c.resourceBase = base
	}
}

// WithAPIBaseURL overrides the API endpoint base URL
func WithAPIBaseURL(base string) Option {
	return func(c *Client) {
		c.apiBase = base
	}
}

// New creates a judge client against the public AtCoder Problems endpoints
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		resourceBase: DefaultResourceBaseURL,
		apiBase:      DefaultAPIBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// getJSON performs one GET with gzip-accepting headers and decodes the JSON
// body into out. Non-2xx statuses and undecodable payloads are errors; there
// is no retry.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build judge request", goerr.V("url", reqURL))
	}
	// Asking for gzip explicitly disables the transport's transparent
	// decompression, so the body is unwrapped by hand below.
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call judge", goerr.V("url", reqURL))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status from judge",
			goerr.V("url", reqURL),
			goerr.V("status", resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return goerr.Wrap(err, "failed to open gzip body", goerr.V("url", reqURL))
		}
		defer safe.Close(ctx, gz)
		body = gz
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode judge response", goerr.V("url", reqURL))
	}
	return nil
}

// FetchProblemModels retrieves the difficulty model map, keyed by problem ID
func (c *Client) FetchProblemModels(ctx context.Context) (map[string]model.ProblemModel, error) {
	var models map[string]model.ProblemModel
	if err := c.getJSON(ctx, c.resourceBase+"/problem-models.json", &models); err != nil {
		return nil, err
	}
	return models, nil
}

// FetchProblems retrieves the global problem catalog
func (c *Client) FetchProblems(ctx context.Context) ([]model.Problem, error) {
	var problems []model.Problem
	if err := c.getJSON(ctx, c.resourceBase+"/problems.json", &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

// FetchUserSubmissions retrieves one account's submissions newer than
// fromSecond
func (c *Client) FetchUserSubmissions(ctx context.Context, user string, fromSecond int64) ([]model.Submission, error) {
	query := url.Values{}
	query.Set("user", user)
	query.Set("from_second", strconv.FormatInt(fromSecond, 10))
	reqURL := fmt.Sprintf("%s/v3/user/submissions?%s", c.apiBase, query.Encode())

	var submissions []model.Submission
	if err := c.getJSON(ctx, reqURL, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}
