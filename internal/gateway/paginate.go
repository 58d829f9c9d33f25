package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naka-gawa/harbor-summary/internal/domain"
)

const snippetLimit = 200

// PageOptions controls a paginated walk.
type PageOptions struct {
	PageSize int
	Params   url.Values
	Headers  http.Header
}

// Paginate walks a list endpoint page by page, starting at page 1, and
// yields every JSON object found in the page arrays. Elements that are not
// objects are skipped. The walk stops on an empty page or on a page shorter
// than PageSize; a short page is trusted to be the last one.
//
// The sequence is lazy and can only be consumed once. An error is yielded
// at most once and ends the sequence.
func (c *Client) Paginate(ctx context.Context, path string, opts PageOptions) iter.Seq2[map[string]any, error] {
	return func(yield func(map[string]any, error) bool) {
		if opts.PageSize < 1 {
			yield(nil, domain.NewConfigError("page size must be at least 1, got %d", opts.PageSize))
			return
		}
		for page := 1; ; page++ {
			items, err := c.fetchPage(ctx, path, page, opts)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(items) == 0 {
				return
			}
			for _, item := range items {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if !yield(obj, nil) {
					return
				}
			}
			if len(items) < opts.PageSize {
				return
			}
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, path string, page int, opts PageOptions) ([]any, error) {
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	query := u.Query()
	for k, vs := range opts.Params {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(opts.PageSize))
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	for k, vs := range opts.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	c.logger.Debug().Str("path", path).Int("page", page).Int("page_size", opts.PageSize).Msg("Fetching page")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{URL: u.String(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.HTTPError{URL: u.String(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, &domain.MalformedResponseError{Path: path, Snippet: truncate(string(body), snippetLimit), Err: err}
	}
	items, ok := data.([]any)
	if !ok {
		return nil, &domain.MalformedResponseError{Path: path, Snippet: truncate(string(body), snippetLimit)}
	}
	c.logger.Trace().Str("path", path).Int("page", page).Int("items", len(items)).Msg("Page fetched")
	return items, nil
}
