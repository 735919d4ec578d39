package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/quartermaster/api"
	dbfs "github.com/garnizeh/quartermaster/db"
	"github.com/garnizeh/quartermaster/internal/catalog"
	"github.com/garnizeh/quartermaster/internal/config"
	"github.com/garnizeh/quartermaster/internal/db"
	"github.com/garnizeh/quartermaster/pkg/models"
)

func newServer(t *testing.T) (http.Handler, func()) {
	t.Helper()
	ctx := context.Background()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	d, err := db.New(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     "testsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "unused",
		TokenDuration: time.Hour,
	}
	handler, err := api.SetupRoutes(cfg, "test", "unknown", d, cat, nil, nil)
	if err != nil {
		t.Fatalf("setup routes: %v", err)
	}

	return handler, func() { _ = d.Close() }
}

func authDo(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSetupRoutes(t *testing.T) {
	h, cleanup := newServer(t)
	defer cleanup()

	// open endpoints
	if w := authDo(t, h, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200 got %d", w.Code)
	}
	if w := authDo(t, h, http.MethodGet, "/version", "", nil); w.Code != http.StatusOK {
		t.Fatalf("version: expected 200 got %d", w.Code)
	}

	// protected endpoints reject anonymous calls
	if w := authDo(t, h, http.MethodGet, "/v1/requests?view=active", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: expected 401 got %d", w.Code)
	}

	// sign up an operator and use its token end to end
	w := authDo(t, h, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"name": "gateway", "email": "gw@example.com", "password": "s3cret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &auth); err != nil || auth.Token == "" {
		t.Fatalf("signup token: err=%v body=%s", err, w.Body.String())
	}

	w = authDo(t, h, http.MethodPost, "/v1/requests", auth.Token, craftBody(1))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	created := decodeRequest(t, w.Body.Bytes())

	w = authDo(t, h, http.MethodGet, "/v1/requests?view=active", auth.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", w.Code)
	}
	var active listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &active); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if active.Count != 1 || active.Items[0].ID != created.ID {
		t.Fatalf("unexpected active list: %+v", active)
	}

	w = authDo(t, h, http.MethodPost, "/v1/requests/"+itoa(created.ID)+"/claim", auth.Token, map[string]any{
		"crafter_id": 42, "crafter_name": "Smith",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("claim: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got := decodeRequest(t, w.Body.Bytes()); got.Status != models.StatusClaimed {
		t.Fatalf("expected claimed, got %s", got.Status)
	}

	// the fixed pending path is reachable, not swallowed by /requests/{id}
	w = authDo(t, h, http.MethodDelete, "/v1/requests/pending", auth.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("clear pending: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w = authDo(t, h, http.MethodGet, "/v1/catalog", auth.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("catalog: expected 200 got %d", w.Code)
	}

	// signin works against the stored operator
	w = authDo(t, h, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email": "gw@example.com", "password": "s3cret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signin: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}
