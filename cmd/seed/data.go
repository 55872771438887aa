package main

import (
	"context"
	"time"

	"giornobene/internal/logger"
	"giornobene/internal/model"
	"giornobene/internal/store"
)

// Starter watchlist: the EU Annex II allergens plus common intolerances.
var defaultWatchlist = []string{
	"Glutine", "Grano", "Orzo", "Segale", "Avena",
	"Crostacei", "Uova", "Pesce", "Arachidi", "Soia",
	"Latte", "Lattosio", "Frutta a guscio", "Mandorle", "Nocciole",
	"Noci", "Anacardi", "Pistacchi", "Sedano", "Senape",
	"Semi di sesamo", "Anidride solforosa e solfiti", "Lupini", "Molluschi",
	"Istamina", "Nichel", "Lievito", "Caffeina",
	"Solanacee", "Pomodoro", "Fragole", "Agrumi",
}

type demoMeal struct {
	mealType    string
	time        string
	description string
	analysis    *model.MealAnalysis
}

type demoDay struct {
	daysAgo  int
	rating   int
	symptoms []model.Symptom
	meals    []demoMeal
}

var demoDays = []demoDay{
	{
		daysAgo: 5, rating: 1,
		symptoms: []model.Symptom{{Category: "GI", Intensity: 2}},
		meals: []demoMeal{
			{"dinner", "21:00", "Pizza con mozzarella e salame piccante", &model.MealAnalysis{
				Ingredients: []string{"Farina", "Mozzarella", "Pomodoro", "Salame"},
				Macros:      model.Macros{Carbohydrates: 80, Protein: 30, Fat: 40},
				Allergens: []model.Allergen{
					{Name: "Latticini", Reason: "la mozzarella contiene latte"},
					{Name: "Glutine", Reason: "l'impasto della pizza contiene farina di grano"},
				},
			}},
		},
	},
	{
		daysAgo: 3, rating: 4,
		meals: []demoMeal{
			{"breakfast", "08:00", "Yogurt con frutta e semi di chia", &model.MealAnalysis{
				Ingredients: []string{"Yogurt", "Frutta", "Semi di chia"},
				Macros:      model.Macros{Carbohydrates: 30, Protein: 15, Fat: 10},
				Allergens:   []model.Allergen{},
			}},
			{"lunch", "13:00", "Insalata di pollo con verdure miste", &model.MealAnalysis{
				Ingredients: []string{"Pollo", "Insalata", "Verdure"},
				Macros:      model.Macros{Carbohydrates: 10, Protein: 30, Fat: 15},
				Allergens:   []model.Allergen{},
			}},
		},
	},
	{
		daysAgo: 2, rating: 1,
		symptoms: []model.Symptom{{Category: "GI", Intensity: 3}, {Category: "SKIN", Intensity: 2}},
		meals: []demoMeal{
			{"breakfast", "09:00", "Cappuccino e brioche", &model.MealAnalysis{
				Ingredients: []string{"Latte", "Caffè", "Farina", "Zucchero", "Burro"},
				Macros:      model.Macros{Carbohydrates: 50, Protein: 8, Fat: 20},
				Allergens: []model.Allergen{
					{Name: "Latticini", Reason: "cappuccino e burro contengono latte"},
				},
			}},
			{"lunch", "13:30", "Pasta al formaggio", &model.MealAnalysis{
				Ingredients: []string{"Pasta", "Formaggio"},
				Macros:      model.Macros{Carbohydrates: 70, Protein: 20, Fat: 25},
				Allergens: []model.Allergen{
					{Name: "Latticini", Reason: "il formaggio contiene latte"},
					{Name: "Glutine", Reason: "la pasta contiene grano"},
				},
			}},
		},
	},
	{
		daysAgo: 1, rating: 3,
		meals: []demoMeal{
			{"dinner", "20:00", "Salmone al forno con patate", &model.MealAnalysis{
				Ingredients: []string{"Salmone", "Patate"},
				Macros:      model.Macros{Carbohydrates: 40, Protein: 35, Fat: 20},
				Allergens:   []model.Allergen{},
			}},
		},
	},
}

func seedDemoLogs(ctx context.Context, logs store.LogStore, user string) error {
	today := time.Now()
	for _, day := range demoDays {
		date := today.AddDate(0, 0, -day.daysAgo).Format("2006-01-02")
		if _, err := logs.UpsertRating(ctx, user, date, day.rating, day.symptoms); err != nil {
			return err
		}
		for _, m := range day.meals {
			meal := model.Meal{
				Type:        m.mealType,
				Time:        m.time,
				Description: m.description,
				Analysis:    m.analysis,
				CreatedAt:   time.Now(),
			}
			if _, err := logs.AddMeal(ctx, user, date, meal); err != nil {
				return err
			}
		}
		logger.Info("day seeded", "date", date, "rating", day.rating, "meals", len(day.meals))
	}
	return nil
}
