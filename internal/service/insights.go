package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"giornobene/internal/model"
)

// InsightGenerator is the slice of the LLM client the insight service
// needs; tests substitute a canned implementation.
type InsightGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// MinLogsForInsights is the smallest journal worth analyzing; below it
// the model would only produce noise.
const MinLogsForInsights = 3

const insightsDisclaimer = "Questi spunti non costituiscono un consiglio medico. Consulta un professionista per qualsiasi decisione sulla tua salute."

// InsightService generates narrative observations linking food intake to
// symptoms, plus the dashboard fun fact.
type InsightService struct {
	gen InsightGenerator
}

func NewInsightService(gen InsightGenerator) *InsightService { return &InsightService{gen: gen} }

// FoodInsights asks the model for correlations over the whole journal.
// Unlike the correlation engine this is free-form and non-deterministic;
// it complements the frequency tables, never replaces them.
func (s *InsightService) FoodInsights(ctx context.Context, logs []model.DayLog) (*model.InsightsResponse, error) {
	if len(logs) < MinLogsForInsights {
		return &model.InsightsResponse{
			Insights:   []model.Insight{},
			Disclaimer: "Aggiungi più dati per avere analisi più accurate.",
		}, nil
	}

	raw, err := s.gen.GenerateJSON(ctx, insightsPrompt(logs))
	if err != nil {
		return nil, err
	}

	var parsed model.InsightsResponse
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return nil, &AnalysisError{Reason: "malformed insights output", Err: err}
	}
	if parsed.Insights == nil {
		parsed.Insights = []model.Insight{}
	}
	if parsed.Disclaimer == "" {
		parsed.Disclaimer = insightsDisclaimer
	}
	return &parsed, nil
}

// FunFact returns a short food fun fact for the dashboard header.
func (s *InsightService) FunFact(ctx context.Context) (string, error) {
	prompt := `Scrivi un fun fact interessante e scientificamente accurato sul cibo, concentrandoti su uno di questi temi:
- Fonti sorprendenti di proteine vegetali
- Combinazioni alimentari che creano proteine complete
- Nutrienti inaspettati negli alimenti
- Miti alimentari sfatati
- Curiosità storiche o culturali sulla cucina
Il fun fact deve essere breve (2-3 frasi), educativo ma accessibile, sorprendente o contro-intuitivo.
Formato: '🌱 Fun Fact: [Fatto interessante]. [Spiegazione o contesto].'`
	return s.gen.GenerateText(ctx, prompt)
}

func insightsPrompt(logs []model.DayLog) string {
	var sb strings.Builder
	sb.WriteString(`Sei un assistente per la salute e il benessere che fornisce spunti sulle possibili connessioni tra l'assunzione di cibo e i sintomi.
Analizza i seguenti registri giornalieri per identificare potenziali cibi scatenanti e la loro correlazione con sintomi negativi.

Registri giornalieri:
`)
	for _, log := range logs {
		fmt.Fprintf(&sb, "Data: %s\nValutazione benessere: %d\n", log.Date, log.WellbeingRating)
		if len(log.Symptoms) > 0 {
			sb.WriteString("Sintomi:\n")
			for _, symptom := range log.Symptoms {
				fmt.Fprintf(&sb, "- Categoria: %s, Intensità: %d\n", symptom.Category, symptom.Intensity)
			}
		}
		if len(log.Meals) > 0 {
			sb.WriteString("Pasti:\n")
			for _, meal := range log.Meals {
				fmt.Fprintf(&sb, "- Orario: %s, Descrizione: %s\n", meal.Time, meal.Description)
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString(`Genera spunti sulle possibili connessioni tra cibo e sintomi, concentrandoti su schemi ricorrenti.
Rispondi solo con JSON in questa forma:
{"insights": [{"insight": "..."}], "disclaimer": "..."}
Il disclaimer deve ricordare che questo non è un consiglio medico.`)
	return sb.String()
}
