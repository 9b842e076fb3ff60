package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/levelwatch/pkg/caching"
)

func TestGetHtml(t *testing.T) {
	var gotAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<h3>Netherworld</h3><table><tr><td>Rin</td></tr></table>`))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "levelwatch-test")
	doc, err := f.GetHtml(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHtml() error = %v", err)
	}
	if got := doc.Find("td").Text(); got != "Rin" {
		t.Errorf("GetHtml() td text = %q, want %q", got, "Rin")
	}
	if agent, _ := gotAgent.Load().(string); agent != "levelwatch-test" {
		t.Errorf("User-Agent = %q, want %q", agent, "levelwatch-test")
	}
}

func TestGetHtml_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewFetcher(5*time.Second, "").GetHtml(context.Background(), srv.URL)
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("GetHtml() error = %v, want ErrStatus", err)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("GetHtml() error = %q, want status code in message", err)
	}
}

func TestGetHtml_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewFetcher(50*time.Millisecond, "").GetHtml(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("GetHtml() error = nil, want timeout")
	}
}

func TestGetHtmlBytes_DecodesLatin1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<td>J\xfcrgen</td>"))
	}))
	defer srv.Close()

	body, err := NewFetcher(5*time.Second, "").GetHtmlBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHtmlBytes() error = %v", err)
	}
	if !strings.Contains(string(body), "Jürgen") {
		t.Errorf("GetHtmlBytes() = %q, want UTF-8 Jürgen", body)
	}
}

func TestGetHtmlBytes_UsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("<p>page</p>"))
	}))
	defer srv.Close()

	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	f := NewFetcher(5*time.Second, "").WithCache(cache)

	for i := 0; i < 3; i++ {
		if _, err := f.GetHtmlBytes(context.Background(), srv.URL); err != nil {
			t.Fatalf("GetHtmlBytes() call %d error = %v", i, err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}
