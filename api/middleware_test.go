package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestTimeoutIsJSON504(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(Timeout(10 * time.Millisecond))
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
	}
	if body["error"] != msgRequestTimeout {
		t.Errorf("expected error %q, got %v", msgRequestTimeout, body)
	}
}

func TestRecovererKeepsStartedResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Get("/partial", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if rec.Code != http.StatusAccepted || rec.Body.String() != "partial" {
		t.Errorf("started response must be left alone, got %d %q", rec.Code, rec.Body.String())
	}
}
