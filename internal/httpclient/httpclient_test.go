package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestGetHTMLReturnsBodyOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := New(Options{})
	got, err := c.GetHTML(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHTML() error: %v", err)
	}
	if got != "<html>ok</html>" {
		t.Errorf("GetHTML() = %q", got)
	}
}

func TestGetHTML4xxIsPermanentNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Options{MaxTries: 3})
	_, err := c.GetHTML(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error for 404")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("server was called %d times, want exactly 1 (no retry on 4xx)", n)
	}
}

func TestGetHTML5xxRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	c := New(Options{MaxTries: 5})
	got, err := c.GetHTML(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHTML() error: %v", err)
	}
	if got != "recovered" {
		t.Errorf("GetHTML() = %q, want recovered", got)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("server was called %d times, want 3", n)
	}
}

func TestGetHTMLExhaustsRetriesOnPersistent5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{MaxTries: 2})
	_, err := c.GetHTML(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
}
