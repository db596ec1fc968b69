// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const alienDoc = `{"Title":"Alien","Year":"1979","Rated":"R","Runtime":"117 min",` +
	`"Genre":"Horror, Sci-Fi","imdbRating":"8.5","imdbVotes":"922,549",` +
	`"imdbID":"tt0078748","Type":"movie","Response":"True"}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestTitle(t *testing.T) {
	t.Setenv("MOVCTL_CACHE", "0")

	var gotQuery map[string]string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"t":      r.URL.Query().Get("t"),
			"y":      r.URL.Query().Get("y"),
			"plot":   r.URL.Query().Get("plot"),
			"apikey": r.URL.Query().Get("apikey"),
		}
		w.Write([]byte(alienDoc))
	})

	client := NewClient("ABC123", srv.URL)
	doc, err := client.Title(context.Background(), TitleQuery{Title: "Alien", Year: "1979", Plot: "full"})
	assert.NoError(t, err)

	assert.Equal(t, "Alien", gotQuery["t"])
	assert.Equal(t, "1979", gotQuery["y"])
	assert.Equal(t, "full", gotQuery["plot"])
	assert.Equal(t, "ABC123", gotQuery["apikey"])

	movie, err := DecodeMovie(doc)
	assert.NoError(t, err)
	assert.Equal(t, "Alien", movie.Title)
	assert.Equal(t, "tt0078748", movie.ImdbID)
	assert.Equal(t, "8.5", movie.ImdbRating)
}

func TestTitle_NotFound(t *testing.T) {
	t.Setenv("MOVCTL_CACHE", "0")

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	client := NewClient("ABC123", srv.URL)
	_, err := client.Title(context.Background(), TitleQuery{Title: "no such movie"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTitle_InvalidKey(t *testing.T) {
	t.Setenv("MOVCTL_CACHE", "0")

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
	})

	client := NewClient("BOGUS", srv.URL)
	_, err := client.Title(context.Background(), TitleQuery{Title: "Alien"})
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestSearch(t *testing.T) {
	t.Setenv("MOVCTL_CACHE", "0")

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "alien", r.URL.Query().Get("s"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"Search":[{"Title":"Alien","Year":"1979","imdbID":"tt0078748","Type":"movie"},` +
			`{"Title":"Aliens","Year":"1986","imdbID":"tt0090605","Type":"movie"}],` +
			`"totalResults":"2","Response":"True"}`))
	})

	client := NewClient("ABC123", srv.URL)
	doc, err := client.Search(context.Background(), SearchQuery{Query: "alien", Page: 2})
	assert.NoError(t, err)

	page, err := DecodeSearchPage(doc)
	assert.NoError(t, err)
	assert.Len(t, page.Search, 2)
	assert.Equal(t, "Aliens", page.Search[1].Title)
	assert.Equal(t, "2", page.TotalResults)
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	t.Setenv("MOVCTL_CACHE", "")
	t.Setenv("MOVCTL_CACHE_DIR", t.TempDir())

	hits := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(alienDoc))
	})

	client := NewClient("ABC123", srv.URL)
	for i := 0; i < 3; i++ {
		doc, err := client.Title(context.Background(), TitleQuery{Title: "Alien"})
		assert.NoError(t, err)
		movie, err := DecodeMovie(doc)
		assert.NoError(t, err)
		assert.Equal(t, "Alien", movie.Title)
	}

	assert.Equal(t, 1, hits)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	t.Setenv("MOVCTL_CACHE", "")
	t.Setenv("MOVCTL_CACHE_DIR", t.TempDir())

	hits := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	client := NewClient("ABC123", srv.URL)
	for i := 0; i < 2; i++ {
		_, err := client.Title(context.Background(), TitleQuery{Title: "nope"})
		assert.True(t, errors.Is(err, ErrNotFound))
	}

	assert.Equal(t, 2, hits)
}

func TestNewClient_Hosts(t *testing.T) {
	assert.Equal(t, "https://"+DefaultHost, NewClient("k", "").baseURL)
	assert.Equal(t, "https://omdb.example.com", NewClient("k", "omdb.example.com").baseURL)
	assert.Equal(t, "http://127.0.0.1:8080", NewClient("k", "http://127.0.0.1:8080").baseURL)
}
