package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBalanceEnvelopeShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"top-level", `{"balance": "12.5"}`, "12.5"},
		{"result envelope", `{"result": {"Balance": "3.25"}}`, "3.25"},
		{"data envelope", `{"data": {"balance": 7}}`, "7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			got, ok, err := client.Balance(context.Background(), "addr")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				t.Fatalf("expected balance to be found")
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("balance = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestBalanceAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"address": "addr"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, ok, err := client.Balance(context.Background(), "addr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no balance")
	}
}

func TestTxDetail404IsDefinitiveAbsence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	raw, err := client.TxDetail(context.Background(), "deadbeef")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if raw != nil {
		t.Fatalf("404 must yield nil payload, got %s", raw)
	}
}

func TestStatusErrorRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.TxPage(context.Background(), "addr", 100, "")
	if err == nil {
		t.Fatalf("expected error for 502")
	}
	se, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if !se.Retryable() {
		t.Fatalf("5xx must be retryable")
	}
}

func TestMalformedJSONIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.TxPage(context.Background(), "addr", 100, ""); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestTxPageQueryParameters(t *testing.T) {
	var gotPath, gotLimit, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		gotToken = r.URL.Query().Get("continuationToken")
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.TxPage(context.Background(), "addr1", 50, "tok42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/Address/addr1/Txs" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotLimit != "50" || gotToken != "tok42" {
		t.Fatalf("query = limit %q token %q", gotLimit, gotToken)
	}
}
