package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"giornobene/internal/middleware"
	"giornobene/internal/model"
	"giornobene/internal/service"
	"giornobene/internal/store"

	"github.com/gin-gonic/gin"
)

type stubGenerator struct {
	textCalls int
	jsonOut   string
	err       error
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.jsonOut, s.err
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.textCalls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("🌱 Fun Fact: numero %d.", s.textCalls), nil
}

func newAIEnv(gen *stubGenerator) (*gin.Engine, *service.LogService) {
	gin.SetMode(gin.TestMode)
	mem := store.NewMemoryStore()

	aiH := NewAIHandler(service.NewInsightService(gen), nil)
	svc := service.NewLogService(mem, mem, &stubAnalyzer{}, aiH.Invalidate)
	aiH.logs = svc

	r := gin.New()
	api := r.Group("/api", middleware.UserScope())
	api.GET("/insights", aiH.Insights)
	api.GET("/fun-fact", aiH.FunFact)
	return r, svc
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestFunFactIsCached(t *testing.T) {
	gen := &stubGenerator{}
	r, _ := newAIEnv(gen)

	first := get(r, "/api/fun-fact")
	second := get(r, "/api/fun-fact")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200s, got %d and %d", first.Code, second.Code)
	}
	if gen.textCalls != 1 {
		t.Errorf("expected one model call for two fetches, got %d", gen.textCalls)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached fact differs: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestMutationInvalidatesFunFact(t *testing.T) {
	gen := &stubGenerator{}
	r, svc := newAIEnv(gen)

	get(r, "/api/fun-fact")
	if _, err := svc.UpsertRating(context.Background(), middleware.DefaultUserID, "2024-05-10", 4, nil); err != nil {
		t.Fatalf("UpsertRating failed: %v", err)
	}
	get(r, "/api/fun-fact")

	if gen.textCalls != 2 {
		t.Errorf("expected regeneration after a mutation, got %d model calls", gen.textCalls)
	}
}

func TestFunFactFailureIs502(t *testing.T) {
	gen := &stubGenerator{err: &service.AnalysisError{Reason: "model call failed"}}
	r, _ := newAIEnv(gen)

	w := get(r, "/api/fun-fact")
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInsightsEndpoint(t *testing.T) {
	gen := &stubGenerator{jsonOut: `{"insights": [{"insight": "ok"}], "disclaimer": "Non è un consiglio medico."}`}
	r, svc := newAIEnv(gen)

	ctx := context.Background()
	for day := 8; day <= 10; day++ {
		date := fmt.Sprintf("2024-05-%02d", day)
		if _, err := svc.UpsertRating(ctx, middleware.DefaultUserID, date, 3, nil); err != nil {
			t.Fatalf("seed rating: %v", err)
		}
	}

	w := get(r, "/api/insights")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp model.InsightsResponse
	decodeInto(t, w, &resp)
	if len(resp.Insights) != 1 || resp.Disclaimer == "" {
		t.Errorf("unexpected insights response: %+v", resp)
	}
}

func TestInsightsFailureIs502(t *testing.T) {
	gen := &stubGenerator{err: &service.AnalysisError{Reason: "model call failed"}}
	r, svc := newAIEnv(gen)

	ctx := context.Background()
	for day := 8; day <= 10; day++ {
		date := fmt.Sprintf("2024-05-%02d", day)
		svc.UpsertRating(ctx, middleware.DefaultUserID, date, 3, nil)
	}

	w := get(r, "/api/insights")
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
}
