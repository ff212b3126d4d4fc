// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kominfo-muaraenim/portal/internal/httputil"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(types.ContentConfig{BaseURL: ts.URL + "/", VillageID: "12"})
}

func TestListPressReleasesExtractsCursor(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/press-release", r.URL.Path)
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"data":[{"id":1,"title":"A","slug":"a"},{"id":2,"title":"B","slug":"b"}],
			"meta":{"next_page_url":"https://cms.example/api/press-release?cursor=eyJpZCI6Mn0%3D&page_size=2"}}`)
	}))
	defer ts.Close()

	c := newTestClient(ts)
	page, err := c.ListPressReleases(context.Background(), types.ContentQuery{Search: "banjir", PageSize: 2, With: "category"})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].Slug)
	assert.Equal(t, "eyJpZCI6Mn0=", page.NextCursor)
	assert.True(t, page.HasNext())
	assert.Contains(t, gotQuery, "search=banjir")
	assert.Contains(t, gotQuery, "with=category")
}

func TestListLastPageHasNoCursor(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tour", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":9,"title":"Air Terjun","slug":"air-terjun"}],"meta":{"next_page_url":null}}`)
	}))
	defer ts.Close()

	page, err := newTestClient(ts).ListTours(context.Background(), types.ContentQuery{})
	require.NoError(t, err)
	assert.False(t, page.HasNext())
	assert.Len(t, page.Items, 1)
}

func TestGetPressReleaseNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).GetPressRelease(context.Background(), "tidak-ada", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestGetPressReleaseDecodesDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/press-release/ulang-tahun-kabupaten", r.URL.Path)
		assert.Equal(t, "category,attachments", r.URL.Query().Get("with"))
		fmt.Fprint(w, `{"data":{"id":7,"title":"Ulang Tahun","slug":"ulang-tahun-kabupaten",
			"content":"<p>Isi</p>","thumbnail":"https://cdn/t.jpg",
			"attachments":[{"url":"https://cdn/a.jpg","original_name":"a.jpg"}]}}`)
	}))
	defer ts.Close()

	pr, err := newTestClient(ts).GetPressRelease(context.Background(), "ulang-tahun-kabupaten", "category,attachments")
	require.NoError(t, err)
	assert.Equal(t, 7, pr.ID)
	assert.Equal(t, "https://cdn/t.jpg", pr.Thumbnail)
	require.Len(t, pr.Attachments, 1)
	assert.Equal(t, "a.jpg", pr.Attachments[0].OriginalName)
}

func TestServerErrorIsNotRetriedByPlainCalls(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).ListArticles(context.Background(), types.ContentQuery{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetSettingWithRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/settings/chatbot-token", r.URL.Path)
		assert.Equal(t, "21", r.Header.Get("x-village-id"))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"data":{"id":3,"name":"chatbot-token","value":{"id":"bot-1","url":"https://chat"}}}`)
	}))
	defer ts.Close()

	s, err := newTestClient(ts).GetSettingWithRetry(context.Background(), "chatbot-token", map[string]string{"x-village-id": "21"}, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	v, ok, err := DecodeValue[struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}](s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bot-1", v.ID)
}

func TestDecodeValueAbsent(t *testing.T) {
	_, ok, err := DecodeValue[map[string]any](types.Setting{Name: "x", Value: []byte("null")})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetchBinary(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer ts.Close()

	c := newTestClient(ts)
	data, err := c.Fetch(context.Background(), ts.URL+"/logo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)

	_, err = c.Fetch(context.Background(), ts.URL+"/missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTenantKey(t *testing.T) {
	c := NewClient(types.ContentConfig{VillageID: "12"})
	assert.Equal(t, "features-12", c.TenantKey("features"))
	assert.Equal(t, "12", c.VillageID())
}
