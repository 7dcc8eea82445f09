package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	r := NewRouter(NewHandler(&mockPricing{}, &mockUsers{}, &mockWishlist{}, &mockViews{}))

	cases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{name: "favicon", method: http.MethodGet, path: "/favicon.ico", status: http.StatusNoContent},
		{name: "price", method: http.MethodGet, path: "/price/42", status: http.StatusOK},
		{name: "history", method: http.MethodGet, path: "/history/42", status: http.StatusOK},
		{name: "view history", method: http.MethodGet, path: "/view-history/4", status: http.StatusOK},
		{name: "clear view history", method: http.MethodDelete, path: "/view-history/user/4", status: http.StatusOK},
		{name: "delete view record", method: http.MethodDelete, path: "/view-history/11", status: http.StatusOK},
		{name: "swagger ui", method: http.MethodGet, path: "/swagger/index.html", status: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/nope", status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Fatalf("expected X-Request-ID header to be set")
			}
		})
	}
}

func TestNewRouter_FaviconHasNoBody(t *testing.T) {
	r := NewRouter(NewHandler(nil, nil, nil, nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("code=%d body=%q", w.Code, w.Body.String())
	}
}
