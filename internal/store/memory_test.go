package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"giornobene/internal/model"
)

const testUser = "anonymous"

func TestGetLogNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetLog(context.Background(), testUser, "2024-05-10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertRatingCreatesThenUpdates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	log, err := s.UpsertRating(ctx, testUser, "2024-05-10", 2, []model.Symptom{{Category: "GI", Intensity: 3}})
	if err != nil {
		t.Fatalf("UpsertRating failed: %v", err)
	}
	if log.WellbeingRating != 2 || len(log.Symptoms) != 1 {
		t.Errorf("unexpected created log: %+v", log)
	}

	log, err = s.UpsertRating(ctx, testUser, "2024-05-10", 4, nil)
	if err != nil {
		t.Fatalf("second UpsertRating failed: %v", err)
	}
	if log.WellbeingRating != 4 || len(log.Symptoms) != 0 {
		t.Errorf("rating not updated: %+v", log)
	}

	all, _ := s.ListLogs(ctx, testUser, "2024-05-01", "2024-06-01")
	if len(all) != 1 {
		t.Errorf("upsert must not duplicate the day, got %d logs", len(all))
	}
}

func TestAddMealCreatesUnratedLog(t *testing.T) {
	s := NewMemoryStore()
	log, err := s.AddMeal(context.Background(), testUser, "2024-05-10", model.Meal{
		Type: "lunch", Time: "13:00", Description: "Pasta al pomodoro",
	})
	if err != nil {
		t.Fatalf("AddMeal failed: %v", err)
	}
	if log.WellbeingRating != model.RatingUnset {
		t.Errorf("auto-created log must be unrated, got %d", log.WellbeingRating)
	}
	if len(log.Meals) != 1 || log.Meals[0].ID == "" {
		t.Errorf("meal not stored with an id: %+v", log.Meals)
	}
}

func TestRemoveMeal(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.AddMeal(ctx, testUser, "2024-05-10", model.Meal{Type: "lunch", Time: "13:00", Description: "Pasta"})
	s.AddMeal(ctx, testUser, "2024-05-10", model.Meal{Type: "dinner", Time: "20:00", Description: "Zuppa"})

	if err := s.RemoveMeal(ctx, testUser, "2024-05-10", model.MealKey{Time: "13:00", Description: "Pasta"}); err != nil {
		t.Fatalf("RemoveMeal failed: %v", err)
	}
	log, _ := s.GetLog(ctx, testUser, "2024-05-10")
	if len(log.Meals) != 1 || log.Meals[0].Description != "Zuppa" {
		t.Errorf("wrong meal removed: %+v", log.Meals)
	}

	err := s.RemoveMeal(ctx, testUser, "2024-05-10", model.MealKey{Time: "13:00", Description: "Pasta"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing meal, got %v", err)
	}
	err = s.RemoveMeal(ctx, testUser, "2024-05-11", model.MealKey{Time: "13:00", Description: "Pasta"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing log, got %v", err)
	}
}

func TestUpdateMealAnalysis(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.AddMeal(ctx, testUser, "2024-05-10", model.Meal{Type: "lunch", Time: "13:00", Description: "Pasta"})

	analysis := &model.MealAnalysis{
		Ingredients: []string{"Pasta"},
		Allergens:   []model.Allergen{{Name: "Glutine", Reason: "la pasta contiene grano"}},
	}
	key := model.MealKey{Time: "13:00", Description: "Pasta"}
	if err := s.UpdateMealAnalysis(ctx, testUser, "2024-05-10", key, analysis); err != nil {
		t.Fatalf("UpdateMealAnalysis failed: %v", err)
	}

	log, _ := s.GetLog(ctx, testUser, "2024-05-10")
	if log.Meals[0].Analysis == nil || len(log.Meals[0].Analysis.Allergens) != 1 {
		t.Errorf("analysis not stored: %+v", log.Meals[0].Analysis)
	}

	err := s.UpdateMealAnalysis(ctx, testUser, "2024-05-10", model.MealKey{Time: "09:00", Description: "x"}, analysis)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing meal, got %v", err)
	}
}

func TestConcurrentAddMealKeepsBoth(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			desc := []string{"Pasta", "Zuppa"}[i]
			times := []string{"13:00", "20:00"}[i]
			if _, err := s.AddMeal(ctx, testUser, "2024-05-10", model.Meal{Type: "lunch", Time: times, Description: desc}); err != nil {
				t.Errorf("AddMeal failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	log, err := s.GetLog(ctx, testUser, "2024-05-10")
	if err != nil {
		t.Fatalf("GetLog failed: %v", err)
	}
	if len(log.Meals) != 2 {
		t.Errorf("concurrent inserts lost a meal: got %d meals", len(log.Meals))
	}
}

func TestListLogsRangeAndOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, date := range []string{"2024-05-20", "2024-05-01", "2024-06-01", "2024-04-30"} {
		s.UpsertRating(ctx, testUser, date, 3, nil)
	}

	logs, err := s.ListLogs(ctx, testUser, "2024-05-01", "2024-06-01")
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs in range, got %d", len(logs))
	}
	if logs[0].Date != "2024-05-01" || logs[1].Date != "2024-05-20" {
		t.Errorf("logs not ordered by date: %v, %v", logs[0].Date, logs[1].Date)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.AddMeal(ctx, testUser, "2024-05-10", model.Meal{Type: "lunch", Time: "13:00", Description: "Pasta"})

	log, _ := s.GetLog(ctx, testUser, "2024-05-10")
	log.Meals[0].Description = "mutated"
	log.WellbeingRating = 9

	fresh, _ := s.GetLog(ctx, testUser, "2024-05-10")
	if fresh.Meals[0].Description != "Pasta" || fresh.WellbeingRating != model.RatingUnset {
		t.Error("mutating a returned log leaked into the store")
	}
}
