package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/pageza/fridgechef/backend/config"
)

const (
	generationTemperature = 0.7
	templateImageURL      = "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg"

	chefSystemPrompt = "Je bent een ervaren kok die recepten maakt op basis van beschikbare ingrediënten en voorkeuren. Antwoord alleen met geldige JSON."
)

var templateSteps = []string{
	"1. Bereid alle ingrediënten voor door ze te wassen en te snijden.",
	"2. Verhit een pan met een beetje olie.",
	"3. Voeg de ingrediënten toe in volgorde van kooktijd.",
	"4. Kruid naar smaak met zout, peper en kruiden.",
	"5. Laat alles goed gaar worden en serveer warm.",
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a DeepSeek chat-completions request
type ChatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	MaxTokens      int               `json:"max_tokens"`
	Temperature    float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// flexInt accepts a JSON number or a string such as "20" or "20 minuten"
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexInt(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid number format")
	}
	fields := strings.Fields(str)
	if len(fields) == 0 {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("invalid number format: %q", str)
	}
	*f = flexInt(n)
	return nil
}

// flexText accepts either a string or a list of strings joined by newlines
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = flexText(str)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("invalid instructions format")
	}
	*f = flexText(strings.Join(lines, "\n"))
	return nil
}

type generatedPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions flexText `json:"instructions"`
	PrepTime     flexInt  `json:"prep_time"`
	CookTime     flexInt  `json:"cook_time"`
	Servings     flexInt  `json:"servings"`
	Difficulty   string   `json:"difficulty"`
}

// DeepSeekGenerator is a RecipeGenerator backed by a DeepSeek-compatible
// chat-completions endpoint.
type DeepSeekGenerator struct {
	client    *resty.Client
	apiKey    string
	model     string
	maxTokens int
}

func NewDeepSeekGenerator(cfg config.LLMConfig) *DeepSeekGenerator {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))

	return &DeepSeekGenerator{
		client:    client,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Generate asks the model for one recipe. Without an API key it returns
// ErrProviderDisabled; callers substitute TemplateRecipe on any error.
func (g *DeepSeekGenerator) Generate(ctx context.Context, req GenerationRequest) (*GeneratedRecipe, error) {
	if g.apiKey == "" {
		return nil, ErrProviderDisabled
	}

	body := ChatRequest{
		Model: g.model,
		Messages: []Message{
			{Role: "system", Content: chefSystemPrompt},
			{Role: "user", Content: buildRecipePrompt(req)},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		MaxTokens:      g.maxTokens,
		Temperature:    generationTemperature,
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to DeepSeek: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("DeepSeek API returned status %d", resp.StatusCode())
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse DeepSeek response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in DeepSeek response")
	}

	return parseGeneratedRecipe(result.Choices[0].Message.Content)
}

func buildRecipePrompt(req GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Maak een recept met de volgende ingrediënten: %s\n\n", strings.Join(req.Ingredients, ", "))
	fmt.Fprintf(&b, "Voorkeuren: %s keuken, %s dieet\n", orNone(strings.Join(req.Cuisines, ", ")), orNone(strings.Join(req.Diets, ", ")))
	fmt.Fprintf(&b, "Allergieën: %s\n", orNone(strings.Join(req.Allergies, ", ")))
	fmt.Fprintf(&b, "Niet lekker: %s\n\n", orNone(req.Dislikes))
	b.WriteString("Geef het recept terug in JSON formaat met:\n")
	b.WriteString("- title: titel van het recept\n")
	b.WriteString("- description: korte beschrijving\n")
	b.WriteString("- ingredients: array van ingrediënten met hoeveelheden\n")
	b.WriteString("- instructions: stap-voor-stap instructies\n")
	b.WriteString("- prep_time: voorbereidingstijd in minuten\n")
	b.WriteString("- cook_time: kooktijd in minuten\n")
	b.WriteString("- servings: aantal porties\n")
	b.WriteString("- difficulty: easy/medium/hard\n")
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "geen"
	}
	return s
}

// parseGeneratedRecipe decodes model output, tolerating a markdown code fence
func parseGeneratedRecipe(content string) (*GeneratedRecipe, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var p generatedPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &p); err != nil {
		return nil, fmt.Errorf("failed to parse generated recipe: %w", err)
	}
	if strings.TrimSpace(p.Title) == "" || len(p.Ingredients) == 0 {
		return nil, fmt.Errorf("generated recipe is missing title or ingredients")
	}

	difficulty := strings.ToLower(strings.TrimSpace(p.Difficulty))
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		difficulty = "medium"
	}
	servings := int(p.Servings)
	if servings <= 0 {
		servings = 2
	}

	return &GeneratedRecipe{
		Title:        strings.TrimSpace(p.Title),
		Description:  p.Description,
		Ingredients:  p.Ingredients,
		Instructions: string(p.Instructions),
		PrepTime:     int(p.PrepTime),
		CookTime:     int(p.CookTime),
		Servings:     servings,
		Difficulty:   difficulty,
	}, nil
}

// TemplateRecipe builds the deterministic fallback recipe from ingredients
func TemplateRecipe(ingredients []string) *GeneratedRecipe {
	head := ingredients
	if len(head) > 2 {
		head = head[:2]
	}
	lines := make([]string, len(ingredients))
	for i, ing := range ingredients {
		lines[i] = "1 portie " + ing
	}
	return &GeneratedRecipe{
		Title:        "Creatief Gerecht met " + strings.Join(head, " en "),
		Description:  "Een eenvoudig en lekker gerecht gemaakt met je beschikbare ingrediënten.",
		Ingredients:  lines,
		Instructions: strings.Join(templateSteps, "\n"),
		PrepTime:     15,
		CookTime:     20,
		Servings:     2,
		Difficulty:   "easy",
		ImageURL:     templateImageURL,
	}
}
