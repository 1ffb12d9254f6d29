package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/musubi/internal/config"
	"github.com/hyperjump/musubi/internal/directory"
	"github.com/hyperjump/musubi/internal/embedding"
	"github.com/hyperjump/musubi/internal/engine"
	"github.com/hyperjump/musubi/internal/fusion"
	"github.com/hyperjump/musubi/internal/models"
	"github.com/hyperjump/musubi/internal/store"
	"github.com/hyperjump/musubi/internal/traits"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	var cfg config.Config
	config.ApplyDefaults(&cfg)

	dir, err := directory.NewMemIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = dir.Close() })

	dims := cfg.Embedding.Dimensions
	emb := embedding.NewResilientEmbedder(
		embedding.NewFallbackEmbedder(dims),
		embedding.NewFallbackEmbedder(dims),
		zap.NewNop(),
	)
	eng := engine.New(
		store.New(),
		nil,
		dir,
		emb,
		traits.NewModel(traits.DefaultTable(), cfg.Profile.SignalStep),
		fusion.NewFuser(cfg.Profile.TraitWeight, cfg.Profile.SemanticWeight),
		engine.Config{
			Profile:      cfg.Profile,
			Cluster:      cfg.Cluster,
			Projection:   cfg.Projection,
			SemanticDims: dims,
		},
		zap.NewNop(),
	)
	return NewServer(eng, dir, &cfg.Server, zap.NewNop())
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleOnboardAndGet(t *testing.T) {
	s := newTestServer(t)
	r := s.Routes()

	w := doJSON(t, r, http.MethodPost, "/api/v1/people", models.OnboardInput{
		ID: "p1", DisplayName: "Aiko", Interests: []string{"jazz"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("onboard status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/people/p1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var p models.Person
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.DisplayName != "Aiko" || p.Confidence != 0 {
		t.Errorf("unexpected person: %+v", p)
	}
}

func TestHandleOnboard_badBody(t *testing.T) {
	s := newTestServer(t)
	r := s.Routes()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/people", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleGetPerson_notFound(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.Routes(), http.MethodGet, "/api/v1/people/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleTurn(t *testing.T) {
	s := newTestServer(t)
	r := s.Routes()
	doJSON(t, r, http.MethodPost, "/api/v1/people", models.OnboardInput{ID: "p1", DisplayName: "Aiko"})

	w := doJSON(t, r, http.MethodPost, "/api/v1/people/p1/turns", models.TurnInput{
		Message:    "went climbing with friends",
		Signals:    map[string]float64{"social_energy": 0.4},
		Confidence: 0.8,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("turn status = %d, body %s", w.Code, w.Body.String())
	}
	var res models.TurnResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Person.Traits.Extraversion <= 0.5 {
		t.Errorf("extraversion = %v, want > 0.5", res.Person.Traits.Extraversion)
	}
}

func TestHandleTurn_badConfidence(t *testing.T) {
	s := newTestServer(t)
	r := s.Routes()
	doJSON(t, r, http.MethodPost, "/api/v1/people", models.OnboardInput{ID: "p1", DisplayName: "Aiko"})
	w := doJSON(t, r, http.MethodPost, "/api/v1/people/p1/turns", models.TurnInput{Confidence: 2})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleMatches(t *testing.T) {
	s := newTestServer(t)
	r := s.Routes()
	for _, id := range []string{"a", "b", "c"} {
		doJSON(t, r, http.MethodPost, "/api/v1/people", models.OnboardInput{ID: id, DisplayName: id})
	}
	w := doJSON(t, r, http.MethodGet, "/api/v1/people/a/matches?k=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res struct {
		Matches []models.Match `json:"matches"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 2 {
		t.Errorf("matches = %d, want 2", len(res.Matches))
	}
	for _, m := range res.Matches {
		if m.PersonID == "a" {
			t.Error("query person in own matches")
		}
	}
}

func TestHandleExplain(t *testing.T) {
	s := newTestServer(t)
	r := s.Routes()
	doJSON(t, r, http.MethodPost, "/api/v1/people", models.OnboardInput{ID: "a", DisplayName: "A", Interests: []string{"jazz"}})
	doJSON(t, r, http.MethodPost, "/api/v1/people", models.OnboardInput{ID: "b", DisplayName: "B", Interests: []string{"jazz"}})
	w := doJSON(t, r, http.MethodGet, "/api/v1/people/a/explain/b", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var exp models.Explanation
	if err := json.Unmarshal(w.Body.Bytes(), &exp); err != nil {
		t.Fatal(err)
	}
	if len(exp.SharedInterests) != 1 || exp.SharedInterests[0] != "jazz" {
		t.Errorf("shared interests = %v", exp.SharedInterests)
	}
}

func TestHandleSearch(t *testing.T) {
	s := newTestServer(t)
	r := s.Routes()
	doJSON(t, r, http.MethodPost, "/api/v1/people", models.OnboardInput{ID: "p1", DisplayName: "Aiko", Interests: []string{"bouldering"}})
	w := doJSON(t, r, http.MethodGet, "/api/v1/people/search?q=bouldering", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res struct {
		Hits []models.DirectoryHit `json:"hits"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Hits) != 1 || res.Hits[0].PersonID != "p1" {
		t.Errorf("hits = %v", res.Hits)
	}
}

func TestHandleSearch_missingQuery(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.Routes(), http.MethodGet, "/api/v1/people/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleMap(t *testing.T) {
	s := newTestServer(t)
	r := s.Routes()
	for _, id := range []string{"a", "b", "c"} {
		doJSON(t, r, http.MethodPost, "/api/v1/people", models.OnboardInput{ID: id, DisplayName: id})
	}
	w := doJSON(t, r, http.MethodGet, "/api/v1/map", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var m models.CompatibilityMap
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if len(m.Points) != 3 {
		t.Errorf("points = %d, want 3", len(m.Points))
	}
	if !m.ProjectionFallback {
		t.Error("tiny set should use fallback projection")
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.Routes(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
}
