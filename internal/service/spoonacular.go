package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/logger"
)

const (
	defaultPrepMinutes = 30
	defaultCookMinutes = 30
	defaultServings    = 4
	searchCachePrefix  = "recipes:search:"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SpoonacularClient is a RecipeSource backed by the Spoonacular REST API
type SpoonacularClient struct {
	client *resty.Client
	apiKey string
	cache  SearchCache
}

// NewSpoonacularClient creates a client for cfg. cache may be nil.
func NewSpoonacularClient(cfg config.SpoonacularConfig, cache SearchCache) *SpoonacularClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &SpoonacularClient{
		client: client,
		apiKey: cfg.APIKey,
		cache:  cache,
	}
}

type findByIngredientsHit struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	UsedIngredientCount   int    `json:"usedIngredientCount"`
	MissedIngredientCount int    `json:"missedIngredientCount"`
}

type recipeInformation struct {
	ID                  int    `json:"id"`
	Title               string `json:"title"`
	Summary             string `json:"summary"`
	Instructions        string `json:"instructions"`
	PreparationMinutes  *int   `json:"preparationMinutes"`
	CookingMinutes      *int   `json:"cookingMinutes"`
	Servings            int    `json:"servings"`
	Image               string `json:"image"`
	SourceURL           string `json:"sourceUrl"`
	ExtendedIngredients []struct {
		Original string `json:"original"`
	} `json:"extendedIngredients"`
}

// Search queries findByIngredients. Transport and status errors are
// returned; a malformed body yields no candidates.
func (c *SpoonacularClient) Search(ctx context.Context, q RecipeQuery) ([]RecipeCandidate, error) {
	key := searchCacheKey(q)
	if c.cache != nil {
		var cached []RecipeCandidate
		hit, err := c.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("Recipe search cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	params := map[string]string{
		"apiKey":       c.apiKey,
		"ingredients":  strings.Join(q.Ingredients, ","),
		"number":       strconv.Itoa(q.Limit),
		"ranking":      "2",
		"ignorePantry": "true",
	}
	if q.Diet != "" {
		params["diet"] = q.Diet
	}
	if q.Cuisine != "" {
		params["cuisine"] = q.Cuisine
	}
	if len(q.Intolerances) > 0 {
		params["intolerances"] = strings.Join(q.Intolerances, ",")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/findByIngredients")
	if err != nil {
		return nil, fmt.Errorf("failed to search spoonacular: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("spoonacular search returned status %d", resp.StatusCode())
	}

	var hits []findByIngredientsHit
	if err := json.Unmarshal(resp.Body(), &hits); err != nil {
		logger.Warn("Malformed spoonacular search response", zap.Error(err))
		return []RecipeCandidate{}, nil
	}

	candidates := make([]RecipeCandidate, 0, len(hits))
	for _, h := range hits {
		if h.ID == 0 || h.Title == "" {
			continue
		}
		candidates = append(candidates, RecipeCandidate{
			ExternalID:  strconv.Itoa(h.ID),
			Title:       h.Title,
			UsedCount:   h.UsedIngredientCount,
			MissedCount: h.MissedIngredientCount,
		})
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, candidates); err != nil {
			logger.Warn("Recipe search cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return candidates, nil
}

// Detail fetches recipe information. Unknown ids and malformed bodies
// return nil, nil.
func (c *SpoonacularClient) Detail(ctx context.Context, externalID string) (*RecipeDetail, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", externalID).
		SetQueryParams(map[string]string{
			"apiKey":           c.apiKey,
			"includeNutrition": "false",
		}).
		Get("/{id}/information")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spoonacular recipe %s: %w", externalID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("spoonacular detail returned status %d", resp.StatusCode())
	}

	var info recipeInformation
	if err := json.Unmarshal(resp.Body(), &info); err != nil {
		logger.Warn("Malformed spoonacular detail response", zap.String("external_id", externalID), zap.Error(err))
		return nil, nil
	}
	if info.Title == "" {
		return nil, nil
	}
	if info.ID == 0 {
		info.ID, _ = strconv.Atoi(externalID)
	}
	return info.toDetail(), nil
}

func (info recipeInformation) toDetail() *RecipeDetail {
	lines := make([]string, 0, len(info.ExtendedIngredients))
	for _, ing := range info.ExtendedIngredients {
		if s := strings.TrimSpace(ing.Original); s != "" {
			lines = append(lines, s)
		}
	}
	servings := info.Servings
	if servings <= 0 {
		servings = defaultServings
	}
	return &RecipeDetail{
		ExternalID:      strconv.Itoa(info.ID),
		Title:           info.Title,
		Summary:         stripHTML(info.Summary),
		IngredientLines: lines,
		Instructions:    strings.TrimSpace(info.Instructions),
		PrepMinutes:     minutesOr(info.PreparationMinutes, defaultPrepMinutes),
		CookMinutes:     minutesOr(info.CookingMinutes, defaultCookMinutes),
		Servings:        servings,
		ImageURL:        info.Image,
		SourceURL:       info.SourceURL,
	}
}

func minutesOr(v *int, fallback int) int {
	if v == nil || *v <= 0 {
		return fallback
	}
	return *v
}

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(s, ""))
}

func searchCacheKey(q RecipeQuery) string {
	data, _ := json.Marshal(q)
	sum := sha1.Sum(data)
	return searchCachePrefix + hex.EncodeToString(sum[:])
}

// sampleRecipe is a built-in recipe served when no API key is configured
type sampleRecipe struct {
	detail  RecipeDetail
	keys    []string
	missing int
}

var sampleRecipes = []sampleRecipe{
	{
		detail: RecipeDetail{
			ExternalID:      "1001",
			Title:           "Pasta met Tomaten en Basilicum",
			Summary:         "Een heerlijke en eenvoudige pasta met verse tomaten en basilicum.",
			IngredientLines: []string{"400g pasta", "4 grote tomaten", "2 tenen knoflook", "Verse basilicum", "Olijfolie", "Zout en peper"},
			Instructions: strings.Join([]string{
				"1. Kook de pasta volgens de verpakking.",
				"2. Verhit olijfolie in een pan en bak de knoflook.",
				"3. Voeg de tomaten toe en laat 10 minuten sudderen.",
				"4. Meng de pasta door de saus.",
				"5. Garneer met verse basilicum.",
			}, "\n"),
			PrepMinutes: 15,
			CookMinutes: 20,
			Servings:    4,
			ImageURL:    "https://images.pexels.com/photos/1437267/pexels-photo-1437267.jpeg",
		},
		keys:    []string{"pasta", "tomaten", "basilicum", "knoflook"},
		missing: 2,
	},
	{
		detail: RecipeDetail{
			ExternalID:      "1002",
			Title:           "Kip met Groenten",
			Summary:         "Sappige kip met kleurrijke groenten, perfect voor een gezonde maaltijd.",
			IngredientLines: []string{"500g kipfilet", "1 rode paprika", "1 ui", "2 wortels", "Olijfolie", "Kruiden naar smaak"},
			Instructions: strings.Join([]string{
				"1. Snijd de kip en groenten in stukken.",
				"2. Verhit olie in een pan en bak de kip gaar.",
				"3. Voeg de groenten toe en roerbak 10 minuten.",
				"4. Kruid naar smaak en serveer.",
			}, "\n"),
			PrepMinutes: 20,
			CookMinutes: 25,
			Servings:    4,
			ImageURL:    "https://images.pexels.com/photos/616354/pexels-photo-616354.jpeg",
		},
		keys:    []string{"kip", "paprika", "ui", "wortel"},
		missing: 1,
	},
	{
		detail: RecipeDetail{
			ExternalID:      "1003",
			Title:           "Groente Roerbak",
			Summary:         "Kleurrijke groenten snel geroerbakt voor een gezonde maaltijd.",
			IngredientLines: []string{"200g broccoli", "1 rode paprika", "1 ui", "2 tenen knoflook", "Sojasaus", "Sesamolie"},
			Instructions: strings.Join([]string{
				"1. Snijd alle groenten in gelijke stukken.",
				"2. Verhit olie in een wok of grote pan.",
				"3. Roerbak de groenten 5-7 minuten.",
				"4. Voeg sojasaus toe en meng goed.",
				"5. Serveer direct.",
			}, "\n"),
			PrepMinutes: 10,
			CookMinutes: 10,
			Servings:    2,
			ImageURL:    "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg",
		},
		keys:    []string{"broccoli", "paprika", "ui", "knoflook"},
		missing: 2,
	},
}

// SampleRecipeSource serves three fixed Dutch recipes regardless of the
// query, counting how many of the given ingredients each one uses.
type SampleRecipeSource struct{}

func NewSampleRecipeSource() *SampleRecipeSource {
	return &SampleRecipeSource{}
}

func (SampleRecipeSource) Search(_ context.Context, q RecipeQuery) ([]RecipeCandidate, error) {
	out := make([]RecipeCandidate, 0, len(sampleRecipes))
	for _, r := range sampleRecipes {
		used := 0
		for _, ing := range q.Ingredients {
			lower := strings.ToLower(ing)
			for _, key := range r.keys {
				if strings.Contains(lower, key) {
					used++
					break
				}
			}
		}
		out = append(out, RecipeCandidate{
			ExternalID:  r.detail.ExternalID,
			Title:       r.detail.Title,
			UsedCount:   used,
			MissedCount: r.missing,
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (SampleRecipeSource) Detail(_ context.Context, externalID string) (*RecipeDetail, error) {
	for _, r := range sampleRecipes {
		if r.detail.ExternalID == externalID {
			d := r.detail
			d.IngredientLines = append([]string(nil), r.detail.IngredientLines...)
			return &d, nil
		}
	}
	return nil, nil
}
