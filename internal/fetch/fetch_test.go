package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Subscription-Userinfo", "upload=0; download=100; total=1000")
		w.Header().Set("Profile-Update-Interval", "24")
		w.Header().Set("X-Unrelated", "nope")
		_, _ = w.Write([]byte("proxies: []\n"))
	}))
	defer srv.Close()

	got, err := Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "proxies: []\n" {
		t.Fatalf("text = %q", got.Text)
	}
	if got.Info.Get("Subscription-Userinfo") != "upload=0; download=100; total=1000" {
		t.Fatalf("info headers = %v", got.Info)
	}
	if got.Info.Get("Profile-Update-Interval") != "24" {
		t.Fatalf("info headers = %v", got.Info)
	}
	if got.Info.Get("X-Unrelated") != "" {
		t.Fatalf("unrelated header must not be forwarded: %v", got.Info)
	}
}

func TestFetch_InvalidScheme(t *testing.T) {
	for _, raw := range []string{"ftp://example.com/sub", "file:///etc/passwd", "not a url", ""} {
		_, err := Fetch(context.Background(), raw)
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("%q: expected *FetchError, got %T", raw, err)
		}
		if fe.Status != http.StatusBadRequest || fe.AppError.Code != "INVALID_ARGUMENT" {
			t.Fatalf("%q: got status=%d code=%s", raw, fe.Status, fe.AppError.Code)
		}
	}
}

func TestFetch_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.Status != http.StatusBadGateway || fe.AppError.Code != "FETCH_FAILED" {
		t.Fatalf("got status=%d code=%s", fe.Status, fe.AppError.Code)
	}
	if !strings.Contains(fe.AppError.Message, "404") {
		t.Fatalf("message should carry the upstream status: %q", fe.AppError.Message)
	}
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	_, err := FetchWithOptions(context.Background(), srv.URL, Options{MaxBytes: 32})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.Status != http.StatusUnprocessableEntity || fe.AppError.Code != "TOO_LARGE" {
		t.Fatalf("got status=%d code=%s", fe.Status, fe.AppError.Code)
	}
}

func TestFetch_ExactLimitPasses(t *testing.T) {
	body := strings.Repeat("b", 32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	got, err := FetchWithOptions(context.Background(), srv.URL, Options{MaxBytes: 32})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != body {
		t.Fatalf("text = %q", got.Text)
	}
}

func TestFetch_InvalidUTF8(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xff, 0xfe, 0xfd})
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.Status != http.StatusUnprocessableEntity || fe.AppError.Code != "FETCH_INVALID_UTF8" {
		t.Fatalf("got status=%d code=%s", fe.Status, fe.AppError.Code)
	}
}

func TestFetch_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/again", http.StatusFound)
	}))
	defer srv.Close()

	_, err := FetchWithOptions(context.Background(), srv.URL, Options{MaxRedirects: 2})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.Status != http.StatusBadGateway || fe.AppError.Code != "FETCH_FAILED" {
		t.Fatalf("got status=%d code=%s", fe.Status, fe.AppError.Code)
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte("too late"))
	}))
	defer srv.Close()

	_, err := FetchWithOptions(context.Background(), srv.URL, Options{Timeout: 50 * time.Millisecond})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.Status != http.StatusGatewayTimeout || fe.AppError.Code != "FETCH_TIMEOUT" {
		t.Fatalf("got status=%d code=%s", fe.Status, fe.AppError.Code)
	}
}
