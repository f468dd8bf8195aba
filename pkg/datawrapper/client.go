package datawrapper

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/httputil"
	"github.com/jplusplus/nwcharts/pkg/observability"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.datawrapper.de"

// TokenEnv is the environment variable holding the API token.
const TokenEnv = "DATAWRAPPER_API_KEY"

// Client talks to the Datawrapper API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a client authenticating with token.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be set in environment", TokenEnv)
	}
	c := &Client{
		http:    &http.Client{Timeout: 60 * time.Second},
		baseURL: DefaultBaseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromEnv creates a client with the token in DATAWRAPPER_API_KEY.
func FromEnv(opts ...Option) (*Client, error) {
	return New(os.Getenv(TokenEnv), opts...)
}

// CreateChart creates a chart from a chart object (type, title, metadata,
// ...) and returns its id.
func (c *Client) CreateChart(ctx context.Context, chart map[string]any) (string, error) {
	body, err := json.Marshal(chart)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "encode chart object")
	}
	var created struct {
		ID string `json:"id"`
	}
	err = httputil.RetryWithBackoff(ctx, func() error {
		data, err := c.do(ctx, http.MethodPost, "/v3/charts", nil, "application/json", "", body)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &created)
	})
	if err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", errors.New(errors.ErrCodeNetwork, "datawrapper returned no chart id")
	}
	return created.ID, nil
}

// UploadData replaces the data of a chart with rows encoded as CSV.
func (c *Client) UploadData(ctx context.Context, id string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode csv")
	}
	return httputil.RetryWithBackoff(ctx, func() error {
		_, err := c.do(ctx, http.MethodPut, "/v3/charts/"+url.PathEscape(id)+"/data", nil, "text/csv", "", buf.Bytes())
		return err
	})
}

// ExportOptions control Export.
type ExportOptions struct {
	Width, Height int // pixels; a zero height lets Datawrapper decide
	Scale         float64
	Plain         bool
}

// Export renders a chart and returns the file.
func (c *Client) Export(ctx context.Context, id, format string, opts ExportOptions) ([]byte, error) {
	q := url.Values{}
	q.Set("unit", "px")
	q.Set("mode", "rgb")
	q.Set("plain", strconv.FormatBool(opts.Plain))
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	q.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))
	if opts.Width > 0 {
		q.Set("width", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("height", strconv.Itoa(opts.Height))
	}

	var out []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		data, err := c.do(ctx, http.MethodGet, "/v3/charts/"+url.PathEscape(id)+"/export/"+format, q, "", "image/"+format, nil)
		out = data
		return err
	})
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType, accept string, body []byte) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad url")
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, u.Host, u.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, u.Host, u.Path, err)
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, u.Path)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(method, u.Path, resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", u.Path)}
	}
	return data, nil
}

func checkStatus(method, path string, resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s %s: not found", method, path)
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{
			Err:   errors.New(errors.ErrCodeNetwork, "%s %s: status %d", method, path, code),
			After: httputil.RetryAfter(resp.Header, time.Now()),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s %s: status %d", method, path, code)
	}
}

// String implements fmt.Stringer without leaking the token.
func (c *Client) String() string {
	return fmt.Sprintf("datawrapper.Client(%s)", c.baseURL)
}
