package webutil

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, h AppHandler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	MakeHandler(h)(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	var body map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
		}
	}
	return rec, body
}

func TestMakeHandlerMapsErrors(t *testing.T) {
	dbErr := errors.New("disk I/O error")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", ErrBadRequest("Missing required fields"), http.StatusBadRequest, "Missing required fields"},
		{"auth", ErrUnauthorizedWrap("", errors.New("no user")), http.StatusUnauthorized, "Authentication required"},
		{"not found", ErrNotFound("Article not found"), http.StatusNotFound, "Article not found"},
		{"persistence", ErrPersistenceWrap("failed to save article", dbErr), http.StatusInternalServerError, "failed to save article: disk I/O error"},
		{"no rows", fmt.Errorf("lookup: %w", sql.ErrNoRows), http.StatusNotFound, "Resource not found"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
		{"route", ErrRouteNotFound(), http.StatusNotFound, "Resource not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) error { return tt.err })

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if body["error"] != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, body["error"])
			}
			if ct := rec.Header().Get(HeaderContentType); ct != ContentTypeJSONUTF8 {
				t.Errorf("expected JSON content type, got %q", ct)
			}
		})
	}
}

func TestMakeHandlerSuccessUntouched(t *testing.T) {
	rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) error {
		RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "ok"})
		return nil
	})
	if rec.Code != http.StatusCreated || body["message"] != "ok" {
		t.Errorf("unexpected response %d %v", rec.Code, body)
	}
}

func TestMakeHandlerErrorAfterWrite(t *testing.T) {
	rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) error {
		RespondWithJSON(w, http.StatusOK, map[string]string{"message": "partial"})
		return errors.New("late failure")
	})
	if rec.Code != http.StatusOK || body["message"] != "partial" {
		t.Errorf("a written response must not be replaced, got %d %v", rec.Code, body)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrNotFound("Article not found"))
	if KindOf(wrapped) != KindNotFound {
		t.Errorf("expected %s, got %s", KindNotFound, KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Errorf("plain errors should be %s", KindInternal)
	}

	cause := errors.New("constraint failed")
	if err := ErrPersistenceWrap("saving", cause); !errors.Is(err, cause) {
		t.Error("persistence error should unwrap to its cause")
	}
}

func TestGenerateHash(t *testing.T) {
	h, err := GenerateHash("abc")
	if err != nil {
		t.Fatalf("GenerateHash failed: %v", err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if h != want {
		t.Errorf("expected %s, got %s", want, h)
	}
}
