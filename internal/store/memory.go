package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"giornobene/internal/model"

	"github.com/google/uuid"
)

// MemoryStore implements LogStore and SettingsStore in process memory.
// It exists for tests and local experiments; production runs on gorm.
type MemoryStore struct {
	mu        sync.Mutex
	logs      map[string]map[string]*model.DayLog // userID -> date -> log
	watchlist map[string][]string
	nextID    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs:      map[string]map[string]*model.DayLog{},
		watchlist: map[string][]string{},
	}
}

func (s *MemoryStore) ListLogs(ctx context.Context, userID, from, to string) ([]model.DayLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.DayLog
	for date, log := range s.logs[userID] {
		if date >= from && date < to {
			out = append(out, *copyLog(log))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *MemoryStore) GetLog(ctx context.Context, userID, date string) (*model.DayLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.logs[userID][date]
	if !ok {
		return nil, ErrNotFound
	}
	return copyLog(log), nil
}

func (s *MemoryStore) UpsertRating(ctx context.Context, userID, date string, rating int, symptoms []model.Symptom) (*model.DayLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.findOrCreate(userID, date)
	log.WellbeingRating = rating
	log.Symptoms = append(model.SymptomList{}, symptoms...)
	return copyLog(log), nil
}

func (s *MemoryStore) AddMeal(ctx context.Context, userID, date string, meal model.Meal) (*model.DayLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.findOrCreate(userID, date)
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	meal.DayLogID = log.ID
	log.Meals = append(log.Meals, meal)
	return copyLog(log), nil
}

func (s *MemoryStore) RemoveMeal(ctx context.Context, userID, date string, key model.MealKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.logs[userID][date]
	if !ok {
		return ErrNotFound
	}
	kept := log.Meals[:0]
	removed := false
	for _, m := range log.Meals {
		if m.Time == key.Time && m.Description == key.Description {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	if !removed {
		return ErrNotFound
	}
	log.Meals = kept
	return nil
}

func (s *MemoryStore) UpdateMealAnalysis(ctx context.Context, userID, date string, key model.MealKey, analysis *model.MealAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.logs[userID][date]
	if !ok {
		return ErrNotFound
	}
	for i := range log.Meals {
		if log.Meals[i].Time == key.Time && log.Meals[i].Description == key.Description {
			log.Meals[i].Analysis = copyAnalysis(analysis)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) GetWatchlist(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.watchlist[userID]...), nil
}

func (s *MemoryStore) SetWatchlist(ctx context.Context, userID string, list []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchlist[userID] = append([]string{}, list...)
	return nil
}

func (s *MemoryStore) findOrCreate(userID, date string) *model.DayLog {
	if s.logs[userID] == nil {
		s.logs[userID] = map[string]*model.DayLog{}
	}
	if log, ok := s.logs[userID][date]; ok {
		return log
	}
	s.nextID++
	log := &model.DayLog{
		ID:              s.nextID,
		UserID:          userID,
		Date:            date,
		WellbeingRating: model.RatingUnset,
		Symptoms:        model.SymptomList{},
		CreatedAt:       time.Now(),
	}
	s.logs[userID][date] = log
	return log
}

// Callers must never observe internal state, so reads hand out copies.
func copyLog(log *model.DayLog) *model.DayLog {
	out := *log
	out.Symptoms = append(model.SymptomList{}, log.Symptoms...)
	out.Meals = make([]model.Meal, len(log.Meals))
	for i, m := range log.Meals {
		m.Analysis = copyAnalysis(m.Analysis)
		out.Meals[i] = m
	}
	return &out
}

func copyAnalysis(a *model.MealAnalysis) *model.MealAnalysis {
	if a == nil {
		return nil
	}
	out := *a
	out.Ingredients = append([]string{}, a.Ingredients...)
	out.Allergens = append([]model.Allergen{}, a.Allergens...)
	return &out
}
