package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func TestOAuthHandler(t *testing.T) {
	config := &oauth2.Config{ClientID: "id", ClientSecret: "secret"}

	t.Run("rejects invalid state", func(t *testing.T) {
		handler := NewOAuthHandler(config, "expected-state")

		req := httptest.NewRequest("GET", "/callback?state=wrong&code=abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected state validation error")
		}
	})

	t.Run("reports authorization errors", func(t *testing.T) {
		handler := NewOAuthHandler(config, "state")

		req := httptest.NewRequest("GET", "/callback?state=state&error=access_denied&error_description=denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected authorization error")
		}
	})

	t.Run("rejects replayed callbacks", func(t *testing.T) {
		handler := NewOAuthHandler(config, "state")

		first := httptest.NewRequest("GET", "/callback?state=wrong", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest("GET", "/callback?state=state&code=abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replay, got %d", rec.Code)
		}
	})

	t.Run("routes serve the callback path", func(t *testing.T) {
		handler := NewOAuthHandler(config, "state")
		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("unexpected routes %v", routes)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("applies middleware in order", func(t *testing.T) {
		router := NewBasicRouter()

		var trace []string
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, "outer")
				next.ServeHTTP(w, r)
			})
		})
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, "inner")
				next.ServeHTTP(w, r)
			})
		})

		router.Handle("GET", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trace = append(trace, "handler")
		}))

		req := httptest.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		if len(trace) != 3 || trace[0] != "outer" || trace[1] != "inner" || trace[2] != "handler" {
			t.Errorf("unexpected middleware order %v", trace)
		}
	})

	t.Run("filters by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest("POST", "/ping", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}
