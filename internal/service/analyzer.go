package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"giornobene/internal/model"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Analyzer extracts ingredients, macro estimates and allergen warnings
// from a free-text meal description. The watchlist is a hint, never a
// filter: the model may report allergens outside it.
type Analyzer interface {
	Analyze(ctx context.Context, description string, watchlist []string) (*model.MealAnalysis, error)
}

// TextGenerator produces free-form text from a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// AnalysisError covers everything that can go wrong talking to the
// model: missing credentials, network failure, malformed output. It is
// always recoverable; the meal is saved without analysis.
type AnalysisError struct {
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meal analysis: %s: %v", e.Reason, e.Err)
	}
	return "meal analysis: " + e.Reason
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// GeminiClient talks to the Google AI API. The analysis model is pinned
// to JSON output with a low temperature; the text model keeps defaults
// for insights and fun facts.
type GeminiClient struct {
	client    *genai.Client
	jsonModel *genai.GenerativeModel
	textModel *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &AnalysisError{Reason: "missing API key"}
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	jsonModel := client.GenerativeModel(modelName)
	jsonModel.ResponseMIMEType = "application/json"
	jsonModel.SetTemperature(0.3)

	textModel := client.GenerativeModel(modelName)
	textModel.SetTemperature(0.9)

	return &GeminiClient{client: client, jsonModel: jsonModel, textModel: textModel}, nil
}

func (c *GeminiClient) Close() error { return c.client.Close() }

func (c *GeminiClient) Analyze(ctx context.Context, description string, watchlist []string) (*model.MealAnalysis, error) {
	prompt := analysisPrompt(description, watchlist)
	resp, err := c.jsonModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &AnalysisError{Reason: "model call failed", Err: err}
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}
	return ParseAnalysis(text)
}

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.textModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &AnalysisError{Reason: "model call failed", Err: err}
	}
	return firstText(resp)
}

func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.jsonModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &AnalysisError{Reason: "model call failed", Err: err}
	}
	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &AnalysisError{Reason: "empty model response"}
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", &AnalysisError{Reason: "model response is not text"}
	}
	return string(text), nil
}

func analysisPrompt(description string, watchlist []string) string {
	var sb strings.Builder
	sb.WriteString("You are a nutrition expert. Analyze the following meal description: \"")
	sb.WriteString(description)
	sb.WriteString("\".\n")
	if len(watchlist) > 0 {
		sb.WriteString("Consider the user's allergen watchlist: ")
		sb.WriteString(strings.Join(watchlist, ", "))
		sb.WriteString(".\n")
	}
	sb.WriteString(`Identify the ingredients, estimate the macronutrient content (carbohydrates, protein, fat, in grams) and list potential allergens.
Pay close attention to the watchlist: if an item from it appears to be in the meal, add it to the allergens list with a clear reason.
Treat explicit negations in the description ("senza lattosio", "lactose-free", "gluten free") as excluding that allergen, not including it.
Reply with JSON only, in this exact shape:
{"ingredients": ["..."], "macros": {"carbohydrates": 0, "protein": 0, "fat": 0}, "allergens": [{"name": "...", "reason": "..."}]}`)
	return sb.String()
}

// ParseAnalysis decodes the model's JSON reply, tolerating markdown
// fences, and clamps macro estimates to non-negative values.
func ParseAnalysis(raw string) (*model.MealAnalysis, error) {
	cleaned := stripFences(raw)
	var analysis model.MealAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, &AnalysisError{Reason: "malformed model output", Err: err}
	}
	analysis.Normalize()
	return &analysis, nil
}

// Disabled stands in when no API key is configured. Every call fails
// with an AnalysisError, so meal writes fail open and the LLM endpoints
// report unavailability instead of the server refusing to start.
type Disabled struct{}

func (Disabled) Analyze(ctx context.Context, description string, watchlist []string) (*model.MealAnalysis, error) {
	return nil, &AnalysisError{Reason: "analyzer not configured"}
}

func (Disabled) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", &AnalysisError{Reason: "analyzer not configured"}
}

func (Disabled) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return "", &AnalysisError{Reason: "analyzer not configured"}
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
