package model

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	MinDescriptionLen = 3
	MaxDescriptionLen = 500

	// RatingUnset marks a day that exists (it has meals) but has not
	// been rated; such days are excluded from every aggregation.
	RatingUnset = 0
	RatingMin   = 1
	RatingMax   = 5
)

var MealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

// RatingDomain lists the rating values that take part in aggregation.
func RatingDomain() []int {
	domain := make([]int, 0, RatingMax-RatingMin+1)
	for r := RatingMin; r <= RatingMax; r++ {
		domain = append(domain, r)
	}
	return domain
}

var SymptomCategories = []string{"GI", "SKIN", "RESPIRATORY", "NEUROLOGICAL", "ENERGY_MOOD", "SLEEP"}

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ValidationError rejects malformed input before it reaches a store.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

func ValidateDate(date string) error {
	if !dateRe.MatchString(date) {
		return invalid("date", "must be YYYY-MM-DD")
	}
	return nil
}

func ValidateRating(rating int) error {
	if rating < RatingUnset || rating > RatingMax {
		return invalid("rating", fmt.Sprintf("must be between %d and %d", RatingUnset, RatingMax))
	}
	return nil
}

func ValidateSymptoms(symptoms []Symptom) error {
	for _, s := range symptoms {
		if !contains(SymptomCategories, s.Category) {
			return invalid("symptoms", "unknown category "+s.Category)
		}
		if s.Intensity < 1 || s.Intensity > 3 {
			return invalid("symptoms", "intensity must be 1, 2 or 3")
		}
	}
	return nil
}

func (r AddMealRequest) Validate() error {
	if !contains(MealTypes, r.Type) {
		return invalid("type", "must be breakfast, lunch, dinner or snack")
	}
	if !timeRe.MatchString(r.Time) {
		return invalid("time", "must be HH:MM")
	}
	if n := utf8.RuneCountInString(r.Description); n < MinDescriptionLen || n > MaxDescriptionLen {
		return invalid("description", fmt.Sprintf("length must be %d-%d characters", MinDescriptionLen, MaxDescriptionLen))
	}
	return nil
}

// Normalize clamps macro estimates to non-negative values and replaces
// nil slices with empty ones. Applied to model output and to manual
// corrections alike.
func (a *MealAnalysis) Normalize() {
	if a == nil {
		return
	}
	if a.Macros.Carbohydrates < 0 {
		a.Macros.Carbohydrates = 0
	}
	if a.Macros.Protein < 0 {
		a.Macros.Protein = 0
	}
	if a.Macros.Fat < 0 {
		a.Macros.Fat = 0
	}
	if a.Ingredients == nil {
		a.Ingredients = []string{}
	}
	if a.Allergens == nil {
		a.Allergens = []Allergen{}
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
