package service

import (
	"context"
	"testing"

	"giornobene/internal/model"
	"giornobene/internal/store"
)

type mockAnalyzer struct {
	calls     int
	watchlist []string
	result    *model.MealAnalysis
	err       error
}

func (m *mockAnalyzer) Analyze(ctx context.Context, description string, watchlist []string) (*model.MealAnalysis, error) {
	m.calls++
	m.watchlist = watchlist
	return m.result, m.err
}

func newTestService(analyzer Analyzer) (*LogService, *store.MemoryStore, *[]string) {
	mem := store.NewMemoryStore()
	var notified []string
	svc := NewLogService(mem, mem, analyzer, func(userID, date string) {
		notified = append(notified, date)
	})
	return svc, mem, &notified
}

func TestAddMealWithAnalysis(t *testing.T) {
	analyzer := &mockAnalyzer{result: &model.MealAnalysis{
		Ingredients: []string{"Pasta"},
		Allergens:   []model.Allergen{{Name: "Glutine", Reason: "grano"}},
	}}
	svc, mem, _ := newTestService(analyzer)
	ctx := context.Background()
	mem.SetWatchlist(ctx, "anonymous", []string{"Glutine", "Lattosio"})

	log, warning, err := svc.AddMeal(ctx, "anonymous", "2024-05-10", model.Meal{
		Type: "lunch", Time: "13:00", Description: "Pasta al pomodoro",
	})
	if err != nil {
		t.Fatalf("AddMeal failed: %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %q", warning)
	}
	if log.Meals[0].Analysis == nil || log.Meals[0].Analysis.Allergens[0].Name != "Glutine" {
		t.Errorf("analysis not attached: %+v", log.Meals[0].Analysis)
	}
	if len(analyzer.watchlist) != 2 {
		t.Errorf("watchlist not passed to analyzer: %v", analyzer.watchlist)
	}
}

func TestAddMealFailsOpen(t *testing.T) {
	analyzer := &mockAnalyzer{err: &AnalysisError{Reason: "model call failed"}}
	svc, _, _ := newTestService(analyzer)

	log, warning, err := svc.AddMeal(context.Background(), "anonymous", "2024-05-10", model.Meal{
		Type: "dinner", Time: "20:00", Description: "Zuppa di verdure",
	})
	if err != nil {
		t.Fatalf("meal write must succeed when analysis fails, got %v", err)
	}
	if warning == "" {
		t.Error("expected a warning when analysis fails")
	}
	if len(log.Meals) != 1 || log.Meals[0].Analysis != nil {
		t.Errorf("meal must be saved without analysis: %+v", log.Meals)
	}
}

func TestMutationsFireNotifier(t *testing.T) {
	analyzer := &mockAnalyzer{result: &model.MealAnalysis{}}
	svc, _, notified := newTestService(analyzer)
	ctx := context.Background()

	svc.UpsertRating(ctx, "anonymous", "2024-05-10", 3, nil)
	svc.AddMeal(ctx, "anonymous", "2024-05-10", model.Meal{Type: "lunch", Time: "13:00", Description: "Pasta"})
	svc.RemoveMeal(ctx, "anonymous", "2024-05-10", model.MealKey{Time: "13:00", Description: "Pasta"})

	if len(*notified) != 3 {
		t.Errorf("expected 3 notifications, got %d", len(*notified))
	}
}

func TestNotifierSkippedOnFailure(t *testing.T) {
	analyzer := &mockAnalyzer{result: &model.MealAnalysis{}}
	svc, _, notified := newTestService(analyzer)

	err := svc.RemoveMeal(context.Background(), "anonymous", "2024-05-10", model.MealKey{Time: "13:00", Description: "Pasta"})
	if err == nil {
		t.Fatal("expected error removing from missing log")
	}
	if len(*notified) != 0 {
		t.Errorf("failed mutation must not notify, got %v", *notified)
	}
}

func TestCorrectMealAnalysisSkipsAnalyzer(t *testing.T) {
	analyzer := &mockAnalyzer{result: &model.MealAnalysis{}}
	svc, mem, _ := newTestService(analyzer)
	ctx := context.Background()
	mem.AddMeal(ctx, "anonymous", "2024-05-10", model.Meal{Type: "lunch", Time: "13:00", Description: "Pasta"})

	corrected := &model.MealAnalysis{Allergens: []model.Allergen{{Name: "Nichel", Reason: "aggiunto manualmente"}}}
	key := model.MealKey{Time: "13:00", Description: "Pasta"}
	if err := svc.CorrectMealAnalysis(ctx, "anonymous", "2024-05-10", key, corrected); err != nil {
		t.Fatalf("CorrectMealAnalysis failed: %v", err)
	}
	if analyzer.calls != 0 {
		t.Errorf("manual correction must not re-invoke the analyzer, got %d calls", analyzer.calls)
	}

	log, _ := mem.GetLog(ctx, "anonymous", "2024-05-10")
	if log.Meals[0].Analysis == nil || log.Meals[0].Analysis.Allergens[0].Name != "Nichel" {
		t.Errorf("correction not persisted: %+v", log.Meals[0].Analysis)
	}
}
