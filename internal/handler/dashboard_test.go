package handler

import (
	"net/http"
	"testing"

	"giornobene/internal/correlation"
	"giornobene/internal/model"
)

// addMealVia posts a meal and fails the test if the write is rejected.
func addMealVia(t *testing.T, env *testEnv, date string, body model.AddMealRequest) {
	t.Helper()
	if w := env.do(t, http.MethodPost, "/api/logs/"+date+"/meals", body); w.Code != http.StatusOK {
		t.Fatalf("POST meal on %s: got %d: %s", date, w.Code, w.Body.String())
	}
}

func rateVia(t *testing.T, env *testEnv, date string, rating int) {
	t.Helper()
	body := model.RateDayRequest{Rating: rating}
	if w := env.do(t, http.MethodPut, "/api/logs/"+date+"/rating", body); w.Code != http.StatusOK {
		t.Fatalf("PUT rating on %s: got %d: %s", date, w.Code, w.Body.String())
	}
}

func TestWellbeingDashboardTrailingWindow(t *testing.T) {
	analyzer := &stubAnalyzer{result: &model.MealAnalysis{
		Allergens: []model.Allergen{{Name: "Nichel", Reason: "contiene nichel"}},
	}}
	env := newTestEnv(analyzer)

	// A meal the day before a bad day: the trailing window must pull it
	// into the bad day's bucket.
	addMealVia(t, env, "2024-05-09", model.AddMealRequest{Type: "dinner", Time: "20:00", Description: "Cioccolato fondente"})
	rateVia(t, env, "2024-05-09", 3)
	addMealVia(t, env, "2024-05-10", model.AddMealRequest{Type: "lunch", Time: "13:00", Description: "Lenticchie in umido"})
	rateVia(t, env, "2024-05-10", 1)

	w := env.do(t, http.MethodGet, "/api/dashboard/wellbeing?year=2024&month=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats map[int]correlation.RatingStats
	decodeInto(t, w, &stats)
	if stats[1].Count != 1 {
		t.Errorf("expected one day at rating 1, got %d", stats[1].Count)
	}
	if got := stats[1].AllergenFrequency["Nichel"]; got != 2 {
		t.Errorf("expected Nichel frequency 2 (own day + previous day), got %d", got)
	}
	if got := stats[3].AllergenFrequency["Nichel"]; got != 1 {
		t.Errorf("expected Nichel frequency 1 for rating 3, got %d", got)
	}
}

func TestRedDaysDashboard(t *testing.T) {
	analyzer := &stubAnalyzer{result: &model.MealAnalysis{
		Ingredients: []string{"Farina", "Mozzarella"},
		Allergens:   []model.Allergen{{Name: "Glutine"}, {Name: "Latticini"}},
	}}
	env := newTestEnv(analyzer)

	addMealVia(t, env, "2024-05-09", model.AddMealRequest{Type: "dinner", Time: "21:00", Description: "Pizza margherita"})
	rateVia(t, env, "2024-05-10", 1)
	rateVia(t, env, "2024-05-20", 4)

	w := env.do(t, http.MethodGet, "/api/dashboard/red-days?year=2024&month=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report correlation.RedDayReport
	decodeInto(t, w, &report)
	if report.RedDays != 1 {
		t.Fatalf("expected 1 red day, got %d", report.RedDays)
	}
	if len(report.Ingredients) != 2 {
		t.Errorf("expected the pre-event meal ingredients, got %v", report.Ingredients)
	}
	if len(report.Allergens) != 2 || report.Allergens[0].Frequency != 1 {
		t.Errorf("unexpected allergen report: %v", report.Allergens)
	}
}

func TestDashboardRequiresMonth(t *testing.T) {
	env := newTestEnv(&stubAnalyzer{})
	for _, path := range []string{"/api/dashboard/wellbeing", "/api/dashboard/red-days?year=2024&month=0"} {
		w := env.do(t, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}
