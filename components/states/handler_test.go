package states

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type handlerResponse struct {
	Data []Option `json:"data"`
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeOptions(t *testing.T, rec *httptest.ResponseRecorder) []Option {
	t.Helper()
	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload.Data
}

func TestHandler_EmptyQueryListsStates(t *testing.T) {
	rec := serve(t, Handler(), http.MethodGet, "/api/states")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	data := decodeOptions(t, rec)
	if len(data) != 51 || data[0].Value != "AK" || data[0].Label != "Alaska" {
		t.Fatalf("unexpected options: %d %#v", len(data), data[:1])
	}
}

func TestHandler_SearchAndLimit(t *testing.T) {
	h := Handler(WithMaxLimit(1))
	data := decodeOptions(t, serve(t, h, http.MethodGet, "/api/states?q=new&limit=10"))
	if len(data) != 1 || data[0].Value != "NH" {
		t.Fatalf("unexpected options: %#v", data)
	}

	data = decodeOptions(t, serve(t, Handler(), http.MethodGet, "/api/states?q=zzz"))
	if data == nil || len(data) != 0 {
		t.Fatalf("expected empty data array, got %#v", data)
	}
}

func TestHandler_CodeLookup(t *testing.T) {
	data := decodeOptions(t, serve(t, Handler(), http.MethodGet, "/api/states?code=co"))
	if len(data) != 1 || data[0].Label != "Colorado" {
		t.Fatalf("unexpected options: %#v", data)
	}
	if rec := serve(t, Handler(), http.MethodGet, "/api/states?code=ZZ"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", rec.Code)
	}
}

func TestHandler_MethodsAndHead(t *testing.T) {
	rec := serve(t, Handler(), http.MethodPost, "/api/states")
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") == "" {
		t.Fatalf("expected 405 with Allow header, got %d", rec.Code)
	}
	rec = serve(t, Handler(), http.MethodHead, "/api/states")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200 for HEAD, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandler_Guard(t *testing.T) {
	h := Handler(WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("signed out")}
	}))
	if rec := serve(t, h, http.MethodGet, "/api/states"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected guard status, got %d", rec.Code)
	}

	h = Handler(WithGuard(func(*http.Request) error { return errors.New("nope") }))
	if rec := serve(t, h, http.MethodGet, "/api/states"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for plain guard error, got %d", rec.Code)
	}
}
