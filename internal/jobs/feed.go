package jobs

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

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/utils"
)

const (
	contentType      = "application/json"
	contentEncoding  = "gzip"
	defaultUserAgent = "spigell/jobmatch"
	defaultPerPage   = 100
)

var retryBaseDelay = 500 * time.Millisecond

// ItemResponse is one page of a job feed.
type ItemResponse struct {
	Items   []any `json:"items"`
	Found   int   `json:"found"`
	Pages   int   `json:"pages"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// Feed reads a paginated JSON job feed. Pages are zero-based and requested with
// the "page" and "per_page" query parameters.
type Feed struct {
	URL        string
	Token      string
	UserAgent  string
	PerPage    int
	MaxRetries int
	HTTPClient *http.Client

	logger *zap.Logger
}

func NewFeed(feedURL, token string, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		URL:       feedURL,
		Token:     token,
		UserAgent: defaultUserAgent,
		PerPage:   defaultPerPage,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Fetch downloads every page and returns the jobs in feed order.
func (f *Feed) Fetch(ctx context.Context) (*Pool, error) {
	var raw []any

	response, err := f.fetchPage(ctx, 0)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("got response from job feed", zap.Int("pages", response.Pages), zap.Int("found", response.Found))

	raw = append(raw, response.Items...)

	for response.Page < (response.Pages - 1) {
		f.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"current page (%d) < all page count (%d)", response.Page+1, response.Pages),
		))

		response, err = f.fetchPage(ctx, response.Page+1)
		if err != nil {
			return nil, err
		}

		raw = append(raw, response.Items...)
	}

	items, err := DecodeItems(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding feed items: %w", err)
	}

	return &Pool{Items: items}, nil
}

func (f *Feed) fetchPage(ctx context.Context, page int) (*ItemResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := utils.Backoff(retryBaseDelay, attempt)
			f.logger.Debug("retrying job feed request",
				zap.Int("page", page),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, delay); err != nil {
				return nil, err
			}
		}

		response, retry, err := f.doPage(ctx, page)
		if err == nil {
			return response, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("job feed page %d: %w", page, lastErr)
}

// doPage reports whether a failed request may be retried.
func (f *Feed) doPage(ctx context.Context, page int) (*ItemResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, false, err
	}

	req = f.setHeaders(req)

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	req.URL.RawQuery = q.Encode()

	f.logger.Debug("make request", zap.String("url", redact(req.URL)))
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, true, fmt.Errorf("bad status: %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("bad status: %s", resp.Status)
	}

	response, err := parseItemResponse(resp)
	if err != nil {
		return nil, false, err
	}
	return response, false, nil
}

func parseItemResponse(resp *http.Response) (*ItemResponse, error) {
	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var response ItemResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding feed page: %w", err)
	}

	return &response, nil
}

func (f *Feed) setHeaders(req *http.Request) *http.Request {
	if f.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", f.Token))
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func redact(u *url.URL) string {
	c := *u
	c.User = nil
	return c.String()
}
