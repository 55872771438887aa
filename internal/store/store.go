// Package store persists day logs and user settings. Production uses
// the gorm/MySQL implementation; tests inject the in-memory one.
package store

import (
	"context"
	"errors"

	"giornobene/internal/model"
)

// ErrNotFound is returned by read paths when no document exists for the
// requested key. Read paths never auto-create; write paths upsert.
var ErrNotFound = errors.New("not found")

// LogStore is keyed by (user, date). AddMeal must be additive: two
// concurrent inserts for the same day may not lose either meal.
type LogStore interface {
	// ListLogs returns all logs with from <= date < to, ordered by date.
	ListLogs(ctx context.Context, userID, from, to string) ([]model.DayLog, error)
	// GetLog returns the log for one date or ErrNotFound.
	GetLog(ctx context.Context, userID, date string) (*model.DayLog, error)
	// UpsertRating sets the rating and symptoms, creating the log if needed.
	UpsertRating(ctx context.Context, userID, date string, rating int, symptoms []model.Symptom) (*model.DayLog, error)
	// AddMeal appends a meal, creating an unrated log if needed.
	AddMeal(ctx context.Context, userID, date string, meal model.Meal) (*model.DayLog, error)
	// RemoveMeal deletes the meal matching key; ErrNotFound when the log
	// or meal does not exist.
	RemoveMeal(ctx context.Context, userID, date string, key model.MealKey) error
	// UpdateMealAnalysis replaces the analysis of the meal matching key
	// without touching anything else; ErrNotFound when missing.
	UpdateMealAnalysis(ctx context.Context, userID, date string, key model.MealKey, analysis *model.MealAnalysis) error
}

type SettingsStore interface {
	// GetWatchlist returns the allergen watchlist, empty when unset.
	GetWatchlist(ctx context.Context, userID string) ([]string, error)
	SetWatchlist(ctx context.Context, userID string, list []string) error
}
