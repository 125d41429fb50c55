package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet_DecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/staff/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"s1","name":"Ana"}]`))
	}))
	defer srv.Close()

	var out []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	c := New(srv.URL)
	if err := c.Get(context.Background(), "/staff/", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Ana" {
		t.Errorf("out = %+v", out)
	}
}

func TestGet_QueryParams(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("cert_period_id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/patient/p1/assigned-staff", map[string]string{"cert_period_id": "42"}, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "42" {
		t.Errorf("cert_period_id = %q", got)
	}
}

func TestNotFound_MapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such patient", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/patient/nope/cert-periods", nil, nil)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("err = %v", err)
	}
}

func TestUnauthorized_MapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/staff/", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestPost_SendsBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("token-abc"))
	if err := c.Post(context.Background(), "/assign-staff", nil, nil, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if auth != "Bearer token-abc" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestTransportFailure_Wrapped(t *testing.T) {
	c := New("http://127.0.0.1:1")
	err := c.Get(context.Background(), "/staff/", nil, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if IsNotFound(err) {
		t.Error("transport failure must not read as not-found")
	}
}
