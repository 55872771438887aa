package model

// Request/response shapes for the HTTP API.

type RateDayRequest struct {
	Rating   int       `json:"rating"`
	Symptoms []Symptom `json:"symptoms"`
}

type AddMealRequest struct {
	Type        string `json:"type" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type UpdateMealRequest struct {
	Time        string        `json:"time" binding:"required"`
	Description string        `json:"description" binding:"required"`
	Analysis    *MealAnalysis `json:"analysis"`
}

type RemoveMealRequest struct {
	Time        string `json:"time" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type MealResponse struct {
	Log     *DayLog `json:"log"`
	Warning string  `json:"warning,omitempty"`
}

type WatchlistRequest struct {
	AllergenWatchlist []string `json:"allergenWatchlist"`
}

type Insight struct {
	Insight string `json:"insight"`
}

type InsightsResponse struct {
	Insights   []Insight `json:"insights"`
	Disclaimer string    `json:"disclaimer"`
}
