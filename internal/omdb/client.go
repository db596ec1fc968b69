// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package omdb is the OMDb API client. Successful responses are written
// through the response cache so repeated queries skip the network; cache
// keys are derived from the query alone, never from the API key.
package omdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"movctl/internal/cacheutil"
)

// DefaultHost is the public OMDb endpoint.
const DefaultHost = "www.omdbapi.com"

const cacheSubdir = "omdb"

var (
	// ErrNotFound means the API answered but had no matching title.
	ErrNotFound = errors.New("movie not found")
	// ErrInvalidKey means the API rejected the supplied API key.
	ErrInvalidKey = errors.New("invalid API key")
)

// Client issues OMDb queries with a fixed API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client for the given key and host. An empty host
// selects DefaultHost. A host carrying a scheme (as httptest servers do) is
// used verbatim.
func NewClient(apiKey, host string) *Client {
	if host == "" {
		host = DefaultHost
	}
	baseURL := host
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, //nolint:mnd
		},
	}
}

// TitleQuery selects a single movie by title.
type TitleQuery struct {
	Title string
	Year  string
	Plot  string // "short" (default) or "full"
}

// SearchQuery is a paged title search.
type SearchQuery struct {
	Query string
	Page  int
}

// Title fetches one movie. The returned buffer holds the raw JSON document
// for the output layer; DecodeMovie turns it into a Movie.
func (c *Client) Title(ctx context.Context, q TitleQuery) (bytes.Buffer, error) {
	params := url.Values{}
	params.Set("t", q.Title)
	if q.Year != "" {
		params.Set("y", q.Year)
	}
	if q.Plot != "" {
		params.Set("plot", q.Plot)
	}

	cacheKey := strings.Join([]string{"t", q.Title, q.Year, q.Plot}, "|")
	return c.fetch(ctx, cacheKey, params)
}

// Search fetches one page of title search results.
func (c *Client) Search(ctx context.Context, q SearchQuery) (bytes.Buffer, error) {
	params := url.Values{}
	params.Set("s", q.Query)
	if q.Page > 1 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	cacheKey := strings.Join([]string{"s", q.Query, strconv.Itoa(q.Page)}, "|")
	return c.fetch(ctx, cacheKey, params)
}

// fetch serves the document from cache when possible, otherwise executes the
// request, maps API-level failures, and writes the document back through the
// cache. Cache write failures are warnings, never query failures.
func (c *Client) fetch(ctx context.Context, cacheKey string, params url.Values) (bytes.Buffer, error) {
	if data, ok := cacheutil.Read(cacheSubdir, cacheKey); ok {
		return *bytes.NewBuffer(data), nil
	}

	params.Set("apikey", c.apiKey)
	params.Set("r", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return bytes.Buffer{}, fmt.Errorf("failed to read response: %w", err)
	}

	// OMDb reports failures in the body envelope, with the HTTP status as a
	// secondary signal (401 for key problems). Map the envelope first.
	if envelope := gjson.GetBytes(doc.Bytes(), "Response"); envelope.String() == "False" {
		return bytes.Buffer{}, mapAPIError(gjson.GetBytes(doc.Bytes(), "Error").String())
	}
	if resp.StatusCode != http.StatusOK {
		return bytes.Buffer{}, fmt.Errorf("unexpected status from %s: %s", c.baseURL, resp.Status)
	}

	if err := cacheutil.Write(cacheSubdir, cacheKey, doc.Bytes()); err != nil {
		log.WithError(err).Warn("failed to write response to cache")
	}

	return doc, nil
}

// mapAPIError converts OMDb's stringly-typed Error field to sentinel errors.
func mapAPIError(msg string) error {
	switch {
	case strings.Contains(msg, "not found"), strings.Contains(msg, "Incorrect IMDb ID"):
		return ErrNotFound
	case strings.Contains(msg, "Invalid API key"):
		return ErrInvalidKey
	case msg == "":
		return errors.New("request failed")
	default:
		return errors.New(msg)
	}
}

// DecodeMovie unmarshals a Title document.
func DecodeMovie(doc bytes.Buffer) (*Movie, error) {
	var movie Movie
	if err := json.Unmarshal(doc.Bytes(), &movie); err != nil {
		return nil, fmt.Errorf("failed to decode movie: %w", err)
	}
	return &movie, nil
}

// DecodeSearchPage unmarshals a Search document.
func DecodeSearchPage(doc bytes.Buffer) (*SearchPage, error) {
	var page SearchPage
	if err := json.Unmarshal(doc.Bytes(), &page); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return &page, nil
}
