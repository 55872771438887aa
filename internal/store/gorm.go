package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"giornobene/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLogStore backs LogStore with MySQL. Meals live in their own table
// so inserting one is a single INSERT, never a read-modify-write of the
// whole day.
type GormLogStore struct {
	db *gorm.DB
}

func NewGormLogStore(db *gorm.DB) *GormLogStore { return &GormLogStore{db: db} }

func (s *GormLogStore) ListLogs(ctx context.Context, userID, from, to string) ([]model.DayLog, error) {
	var logs []model.DayLog
	err := s.db.WithContext(ctx).
		Preload("Meals").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date").Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	return logs, nil
}

func (s *GormLogStore) GetLog(ctx context.Context, userID, date string) (*model.DayLog, error) {
	var log model.DayLog
	err := s.db.WithContext(ctx).
		Preload("Meals").
		Where("user_id = ? AND date = ?", userID, date).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	return &log, nil
}

func (s *GormLogStore) UpsertRating(ctx context.Context, userID, date string, rating int, symptoms []model.Symptom) (*model.DayLog, error) {
	log, err := s.findOrCreate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(log).Updates(map[string]interface{}{
		"wellbeing_rating": rating,
		"symptoms":         model.SymptomList(symptoms),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}
	return s.GetLog(ctx, userID, date)
}

func (s *GormLogStore) AddMeal(ctx context.Context, userID, date string, meal model.Meal) (*model.DayLog, error) {
	log, err := s.findOrCreate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	meal.DayLogID = log.ID
	if err := s.db.WithContext(ctx).Create(&meal).Error; err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}
	return s.GetLog(ctx, userID, date)
}

func (s *GormLogStore) RemoveMeal(ctx context.Context, userID, date string, key model.MealKey) error {
	log, err := s.GetLog(ctx, userID, date)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("day_log_id = ? AND time = ? AND description = ?", log.ID, key.Time, key.Description).
		Delete(&model.Meal{})
	if res.Error != nil {
		return fmt.Errorf("delete meal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormLogStore) UpdateMealAnalysis(ctx context.Context, userID, date string, key model.MealKey, analysis *model.MealAnalysis) error {
	log, err := s.GetLog(ctx, userID, date)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&model.Meal{}).
		Where("day_log_id = ? AND time = ? AND description = ?", log.ID, key.Time, key.Description).
		Update("analysis", analysis)
	if res.Error != nil {
		return fmt.Errorf("update analysis: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormLogStore) findOrCreate(ctx context.Context, userID, date string) (*model.DayLog, error) {
	var log model.DayLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&log).Error
	if err == nil {
		return &log, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query log: %w", err)
	}

	log = model.DayLog{
		UserID:          userID,
		Date:            date,
		WellbeingRating: model.RatingUnset,
		Symptoms:        model.SymptomList{},
		CreatedAt:       time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
		// Concurrent creation of the same day hits the unique index;
		// the loser re-reads the winner's row.
		var existing model.DayLog
		if qerr := s.db.WithContext(ctx).
			Where("user_id = ? AND date = ?", userID, date).
			First(&existing).Error; qerr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create log: %w", err)
	}
	return &log, nil
}

// GormSettingsStore persists the per-user allergen watchlist.
type GormSettingsStore struct {
	db *gorm.DB
}

func NewGormSettingsStore(db *gorm.DB) *GormSettingsStore { return &GormSettingsStore{db: db} }

func (s *GormSettingsStore) GetWatchlist(ctx context.Context, userID string) ([]string, error) {
	var settings model.UserSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return settings.AllergenWatchlist, nil
}

func (s *GormSettingsStore) SetWatchlist(ctx context.Context, userID string, list []string) error {
	settings := model.UserSettings{UserID: userID, AllergenWatchlist: list}
	err := s.db.WithContext(ctx).Save(&settings).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// AutoMigrate creates the schema on startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.DayLog{}, &model.Meal{}, &model.UserSettings{})
}
