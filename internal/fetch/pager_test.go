package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"balanceScope/internal/api"
)

func TestFetchAllStopsOnEmptyToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		switch n {
		case 1:
			fmt.Fprint(w, `{"items": [{"hash": "a"}, {"hash": "b"}], "continuationToken": "t1"}`)
		case 2:
			if r.URL.Query().Get("continuationToken") != "t1" {
				t.Errorf("missing continuation token on page 2")
			}
			fmt.Fprint(w, `{"items": [{"hash": "c"}], "continuationToken": ""}`)
		default:
			t.Errorf("unexpected page request %d", n)
		}
	}))
	defer srv.Close()

	pager := NewPager(PagerConfig{Address: "addr"}, api.NewClient(srv.URL), nil)
	items, err := pager.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestFetchAllStopsOnEmptyPage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			// Token present but zero items: still a terminal page.
			fmt.Fprint(w, `{"items": [], "continuationToken": "t1"}`)
			return
		}
		t.Errorf("unexpected page request %d", n)
	}))
	defer srv.Close()

	pager := NewPager(PagerConfig{Address: "addr"}, api.NewClient(srv.URL), nil)
	items, err := pager.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %d, want 0", len(items))
	}
}

func TestFetchAllRespectsPageCap(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"items": [{"hash": "x"}], "continuationToken": "more"}`)
	}))
	defer srv.Close()

	pager := NewPager(PagerConfig{Address: "addr", MaxPages: 2}, api.NewClient(srv.URL), nil)
	items, err := pager.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
}

func TestFetchPageRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"items": [{"hash": "a"}]}`)
	}))
	defer srv.Close()

	pager := NewPager(PagerConfig{Address: "addr"}, api.NewClient(srv.URL), nil)
	items, err := pager.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestFetchPageExhaustionIsFatal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	// 4xx consumes attempts exactly like 5xx.
	pager := NewPager(PagerConfig{Address: "addr", MaxAttempts: 2}, api.NewClient(srv.URL), nil)
	_, err := pager.FetchAll(context.Background())
	if err == nil {
		t.Fatalf("expected fatal error after retry exhaustion")
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestPageBackoffShape(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, 2 * time.Second},
		{2, 4500 * time.Millisecond},
		{3, 5 * time.Second}, // 8s capped at 5s
		{4, 5 * time.Second},
	}
	for _, tc := range cases {
		if got := pageBackoff(tc.attempt); got != tc.want {
			t.Errorf("pageBackoff(%d) = %s, want %s", tc.attempt, got, tc.want)
		}
	}
}

func TestDetailBackoffShape(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 300 * time.Millisecond},
		{1, 600 * time.Millisecond},
		{2, 900 * time.Millisecond},
		{3, 1200 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := detailBackoff(tc.attempt); got != tc.want {
			t.Errorf("detailBackoff(%d) = %s, want %s", tc.attempt, got, tc.want)
		}
	}
}
