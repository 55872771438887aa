package service

import (
	"context"

	"giornobene/internal/logger"
	"giornobene/internal/model"
	"giornobene/internal/store"
)

// Notifier is called after a successful mutation so dependent views
// (dashboard, fun-fact box) can refresh. Passed explicitly at wiring
// time instead of being ambient shared state.
type Notifier func(userID, date string)

// LogService orchestrates day-log mutations: validation happens in the
// handlers, analysis enrichment and persistence happen here.
type LogService struct {
	logs     store.LogStore
	settings store.SettingsStore
	analyzer Analyzer
	notify   Notifier
}

func NewLogService(logs store.LogStore, settings store.SettingsStore, analyzer Analyzer, notify Notifier) *LogService {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &LogService{logs: logs, settings: settings, analyzer: analyzer, notify: notify}
}

func (s *LogService) ListLogs(ctx context.Context, userID, from, to string) ([]model.DayLog, error) {
	return s.logs.ListLogs(ctx, userID, from, to)
}

func (s *LogService) GetLog(ctx context.Context, userID, date string) (*model.DayLog, error) {
	return s.logs.GetLog(ctx, userID, date)
}

func (s *LogService) UpsertRating(ctx context.Context, userID, date string, rating int, symptoms []model.Symptom) (*model.DayLog, error) {
	log, err := s.logs.UpsertRating(ctx, userID, date, rating, symptoms)
	if err != nil {
		return nil, err
	}
	s.notify(userID, date)
	return log, nil
}

// AddMeal enriches the meal with an analysis and saves it. Analysis is
// best-effort: on failure the meal is stored without it and the warning
// is surfaced to the caller, the write never blocks on the model.
func (s *LogService) AddMeal(ctx context.Context, userID, date string, meal model.Meal) (*model.DayLog, string, error) {
	warning := ""
	watchlist, err := s.settings.GetWatchlist(ctx, userID)
	if err != nil {
		logger.Warn("watchlist lookup failed, analyzing without it", "user", userID, "err", err)
		watchlist = nil
	}

	analysis, err := s.analyzer.Analyze(ctx, meal.Description, watchlist)
	if err != nil {
		logger.Warn("meal analysis failed, saving meal without analysis", "user", userID, "date", date, "err", err)
		warning = "Analisi del pasto non disponibile: il pasto è stato salvato senza analisi."
	} else {
		meal.Analysis = analysis
	}

	log, err := s.logs.AddMeal(ctx, userID, date, meal)
	if err != nil {
		return nil, "", err
	}
	s.notify(userID, date)
	return log, warning, nil
}

func (s *LogService) RemoveMeal(ctx context.Context, userID, date string, key model.MealKey) error {
	if err := s.logs.RemoveMeal(ctx, userID, date, key); err != nil {
		return err
	}
	s.notify(userID, date)
	return nil
}

// CorrectMealAnalysis applies a manual allergen correction. The
// analyzer is deliberately not re-invoked.
func (s *LogService) CorrectMealAnalysis(ctx context.Context, userID, date string, key model.MealKey, analysis *model.MealAnalysis) error {
	if err := s.logs.UpdateMealAnalysis(ctx, userID, date, key, analysis); err != nil {
		return err
	}
	s.notify(userID, date)
	return nil
}
