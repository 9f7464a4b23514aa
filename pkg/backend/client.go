// Package backend talks to the remote places service over HTTP/JSON.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a client for the backend at baseURL, e.g.
// "http://192.168.1.84:3000". A nil httpClient means http.DefaultClient, which
// has no timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  "places-client/1.0",
	}
}

// FetchPlaces reads every place saved by nickname.
func (c *Client) FetchPlaces(ctx context.Context, nickname string) (*PlacesResponse, error) {
	var out PlacesResponse
	if err := c.do(ctx, http.MethodGet, "/places/"+url.PathEscape(nickname), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePlace registers a new place for req.Nickname.
func (c *Client) CreatePlace(ctx context.Context, req CreatePlaceRequest) (*Response, error) {
	var out Response
	if err := c.do(ctx, http.MethodPost, "/places", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePlace removes the place named req.Name from req.Nickname's list.
func (c *Client) DeletePlace(ctx context.Context, req DeletePlaceRequest) (*Response, error) {
	var out Response
	if err := c.do(ctx, http.MethodDelete, "/places", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends body as JSON (when non-nil) and decodes the JSON answer into out.
// The status code is not interpreted: the backend reports rejections through
// the result field, so any decodable body is handed back to the caller.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response (status %s): %w", method, path, resp.Status, err)
	}
	return nil
}
