package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DayLog is the journal document for one (user, date) pair. Date is the
// natural key; WellbeingRating 0 means the day has not been rated yet.
// Date stays a varchar, not a DATE column: with parseTime enabled the
// driver would hand a DATE back as time.Time and the string field would
// end up RFC3339, breaking the YYYY-MM-DD key the window policies and
// the API format depend on.
type DayLog struct {
	ID              int         `gorm:"primaryKey" json:"id"`
	UserID          string      `gorm:"size:64;uniqueIndex:uk_user_date" json:"userId"`
	Date            string      `gorm:"size:10;uniqueIndex:uk_user_date" json:"date"`
	WellbeingRating int         `json:"wellbeingRating"`
	Symptoms        SymptomList `gorm:"type:json" json:"symptoms"`
	Meals           []Meal      `gorm:"foreignKey:DayLogID" json:"meals"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Meal rows are inserted individually so two clients adding meals to the
// same day never overwrite each other. Within a day a meal is identified
// by (Time, Description).
type Meal struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	DayLogID    int           `gorm:"index" json:"-"`
	Type        string        `gorm:"size:16" json:"type"`
	Time        string        `gorm:"size:5" json:"time"`
	Description string        `gorm:"size:500" json:"description"`
	Analysis    *MealAnalysis `gorm:"type:json" json:"analysis,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type Symptom struct {
	Category  string `json:"category"`
	Intensity int    `json:"intensity"`
}

type MealAnalysis struct {
	Ingredients []string   `json:"ingredients"`
	Macros      Macros     `json:"macros"`
	Allergens   []Allergen `json:"allergens"`
}

type Macros struct {
	Carbohydrates float64 `json:"carbohydrates"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
}

type Allergen struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// UserSettings holds the per-user allergen watchlist.
type UserSettings struct {
	UserID            string     `gorm:"primaryKey;size:64" json:"userId"`
	AllergenWatchlist StringList `gorm:"type:json" json:"allergenWatchlist"`
}

// MealKey identifies a meal within a day log.
type MealKey struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

func (m Meal) Key() MealKey { return MealKey{Time: m.Time, Description: m.Description} }

func (DayLog) TableName() string       { return "day_logs" }
func (Meal) TableName() string         { return "meals" }
func (UserSettings) TableName() string { return "user_settings" }

type SymptomList []Symptom

type StringList []string

func (s SymptomList) Value() (driver.Value, error) { return jsonValue(s) }
func (s *SymptomList) Scan(src any) error          { return jsonScan(src, s) }

func (s StringList) Value() (driver.Value, error) { return jsonValue(s) }
func (s *StringList) Scan(src any) error          { return jsonScan(src, s) }

func (a *MealAnalysis) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return jsonValue(a)
}

func (a *MealAnalysis) Scan(src any) error { return jsonScan(src, a) }

func jsonValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	return string(data), nil
}

func jsonScan(src, dst any) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
