package adzuna

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

type searchResponse struct {
	Results []Item  `json:"results"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
}

type Item interface{}

// GetPageItems makes a GET request to the Adzuna API and returns raw items
// from a single results page together with the total match count.
func (c *Client) GetPageItems(url string, q url.Values) ([]Item, int, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	req = c.setHeaders(req)
	// Additional headers. For GET requests only
	req.Header.Set("Content-Type", contentType)
	req.URL.RawQuery = q.Encode()

	resp, err := c.request(req)
	if err != nil {
		return nil, 0, err
	}

	response, err := c.parseSearchResponse(resp)
	if err != nil {
		return nil, 0, err
	}

	c.logger.Debug("got response from Adzuna", zap.Int("found", response.Count), zap.Int("page items", len(response.Results)))

	return response.Results, response.Count, nil
}

func (c *Client) parseSearchResponse(resp *http.Response) (*searchResponse, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.ReadCloser
	var err error
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		body, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer body.Close()
	default:
		body = resp.Body
		defer body.Close()
	}

	var response *searchResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}

	// A bare `null` body decodes without error into a nil response.
	if response == nil {
		return nil, fmt.Errorf("malformed response: empty body")
	}

	return response, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", sanitizeURL(req.URL)))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// sanitizeURL masks the query credentials so they never reach the logs.
func sanitizeURL(u *url.URL) string {
	masked := *u
	q := masked.Query()
	for _, key := range []string{"app_id", "app_key"} {
		if q.Has(key) {
			q.Set(key, "xxx")
		}
	}
	masked.RawQuery = q.Encode()

	return masked.String()
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	// Adzuna authenticates with query credentials, not headers.
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
