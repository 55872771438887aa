// Package correlation computes allergen and ingredient frequencies from
// a user's day logs. It is a pure in-memory pass over a snapshot: no
// I/O, no mutation of the input, deterministic output.
//
// Allergen and ingredient names are compared case-insensitively but
// reported with the spelling they were first seen with.
package correlation

import (
	"sort"
	"strings"
	"time"

	"giornobene/internal/model"
)

const dateLayout = "2006-01-02"

// WindowPolicy maps a target date to the dates whose meals should be
// inspected when scoring that day. Dates without a log are skipped by
// the engine, so a policy never needs to check for existence.
type WindowPolicy func(date string) []string

// TrailingWindow inspects the day itself and the previous calendar day.
// This is the general dashboard aggregation mode.
func TrailingWindow(date string) []string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return []string{date}
	}
	return []string{date, d.AddDate(0, 0, -1).Format(dateLayout)}
}

// PreEventWindow inspects the 48 hours leading up to a day: the day
// itself plus the two days before it. Used for the worst-days report.
func PreEventWindow(date string) []string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return []string{date}
	}
	return []string{
		d.AddDate(0, 0, -2).Format(dateLayout),
		d.AddDate(0, 0, -1).Format(dateLayout),
		date,
	}
}

// RatingStats is the aggregation result for one well-being rating.
type RatingStats struct {
	Count             int            `json:"count"`
	AllergenFrequency map[string]int `json:"allergenFrequency"`
}

// AggregateByRating buckets logs by their well-being rating and counts
// allergen occurrences in each rated day's inspection window. Days whose
// rating is outside domain (e.g. 0/unrated) contribute to no bucket. An
// allergen appearing in several meals within the window counts once per
// occurrence; missing analyses count as zero.
func AggregateByRating(logs []model.DayLog, domain []int, window WindowPolicy) map[int]*RatingStats {
	byDate := indexByDate(logs)
	valid := make(map[int]bool, len(domain))
	for _, r := range domain {
		valid[r] = true
	}

	stats := make(map[int]*RatingStats)
	counters := make(map[int]*counter)
	for i := range logs {
		log := &logs[i]
		if !valid[log.WellbeingRating] {
			continue
		}
		st := stats[log.WellbeingRating]
		if st == nil {
			st = &RatingStats{AllergenFrequency: map[string]int{}}
			stats[log.WellbeingRating] = st
			counters[log.WellbeingRating] = newCounter()
		}
		st.Count++

		for _, date := range window(log.Date) {
			inspect, ok := byDate[date]
			if !ok {
				continue
			}
			for _, meal := range inspect.Meals {
				if meal.Analysis == nil {
					continue
				}
				for _, allergen := range meal.Analysis.Allergens {
					counters[log.WellbeingRating].add(allergen.Name, 1)
				}
			}
		}
	}

	for rating, c := range counters {
		for _, e := range c.entries() {
			stats[rating].AllergenFrequency[e.Item] = e.Frequency
		}
	}
	return stats
}

// FrequencyItem is one row of a top-N frequency table.
type FrequencyItem struct {
	Item      string `json:"item"`
	Frequency int    `json:"frequency"`
}

// RedDayReport correlates foods with the worst-rated days.
type RedDayReport struct {
	RedDays     int             `json:"redDays"`
	Ingredients []FrequencyItem `json:"ingredients"`
	Allergens   []FrequencyItem `json:"allergens"`
}

const topN = 5

// CorrelateRedDays restricts to days rated at the minimum value, unions
// the ingredients and allergens seen in each red day's inspection window
// (deduplicated within the window, not across windows) and counts each
// item once per window it appeared in. Returns the top 5 of each list,
// descending by frequency, ties kept in discovery order.
func CorrelateRedDays(logs []model.DayLog, window WindowPolicy) RedDayReport {
	byDate := indexByDate(logs)

	ingredients := newCounter()
	allergens := newCounter()
	report := RedDayReport{Ingredients: []FrequencyItem{}, Allergens: []FrequencyItem{}}

	for i := range logs {
		log := &logs[i]
		if log.WellbeingRating != model.RatingMin {
			continue
		}
		report.RedDays++

		windowIngredients := newOrderedSet()
		windowAllergens := newOrderedSet()
		for _, date := range window(log.Date) {
			inspect, ok := byDate[date]
			if !ok {
				continue
			}
			for _, meal := range inspect.Meals {
				if meal.Analysis == nil {
					continue
				}
				for _, ing := range meal.Analysis.Ingredients {
					windowIngredients.add(ing)
				}
				for _, allergen := range meal.Analysis.Allergens {
					windowAllergens.add(allergen.Name)
				}
			}
		}
		for _, name := range windowIngredients.items {
			ingredients.add(name, 1)
		}
		for _, name := range windowAllergens.items {
			allergens.add(name, 1)
		}
	}

	report.Ingredients = ingredients.top(topN)
	report.Allergens = allergens.top(topN)
	return report
}

func indexByDate(logs []model.DayLog) map[string]*model.DayLog {
	byDate := make(map[string]*model.DayLog, len(logs))
	for i := range logs {
		byDate[logs[i].Date] = &logs[i]
	}
	return byDate
}

// counter accumulates case-folded frequencies while remembering the
// first-seen spelling and discovery order of each key.
type counter struct {
	counts  map[string]int
	display map[string]string
	order   []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}, display: map[string]string{}}
}

func (c *counter) add(name string, n int) {
	key := strings.ToLower(name)
	if _, seen := c.counts[key]; !seen {
		c.display[key] = name
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *counter) entries() []FrequencyItem {
	items := make([]FrequencyItem, 0, len(c.order))
	for _, key := range c.order {
		items = append(items, FrequencyItem{Item: c.display[key], Frequency: c.counts[key]})
	}
	return items
}

func (c *counter) top(n int) []FrequencyItem {
	items := c.entries()
	sort.SliceStable(items, func(i, j int) bool { return items[i].Frequency > items[j].Frequency })
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// orderedSet is a dedup set that keeps deterministic insertion order,
// folding case the same way counter does.
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet { return &orderedSet{seen: map[string]bool{}} }

func (s *orderedSet) add(name string) {
	key := strings.ToLower(name)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.items = append(s.items, name)
}
