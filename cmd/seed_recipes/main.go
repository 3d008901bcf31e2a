package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/service"
)

const batchSize = 5 // Recipes generated before pausing

// Ingredient sets the generator is asked to cook with
var pantries = []struct {
	cuisine     string
	ingredients []string
}{
	{"dutch", []string{"aardappelen", "boerenkool", "rookworst"}},
	{"dutch", []string{"spliterwten", "prei", "knolselderij", "wortel"}},
	{"italian", []string{"pasta", "tomaten", "mozzarella", "basilicum"}},
	{"italian", []string{"risottorijst", "champignons", "parmezaan"}},
	{"asian", []string{"rijst", "kip", "paprika", "sojasaus"}},
	{"asian", []string{"noedels", "tofu", "paksoi", "gember"}},
	{"mediterranean", []string{"kikkererwten", "komkommer", "feta", "olijven"}},
	{"mexican", []string{"zwarte bonen", "mais", "avocado", "tortilla"}},
	{"indian", []string{"linzen", "ui", "knoflook", "kokosmelk"}},
	{"french", []string{"eieren", "spek", "room", "bladerdeeg"}},
}

func main() {
	generate := flag.Int("generate", 0, "Number of recipes to generate with the LLM after seeding the samples")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.Env.GuardNonProduction("seed recipes"); err != nil {
		logger.Fatal("Refusing to seed recipes", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	recipes := service.NewRecipeService(db)

	seedSamples(ctx, recipes)

	if *generate > 0 {
		if cfg.LLM.APIKey == "" {
			logger.Fatal("LLM API key is required to generate recipes")
		}
		generateRecipes(ctx, recipes, service.NewDeepSeekGenerator(cfg.LLM), cfg.LLM.Timeout, *generate)
	}
}

// seedSamples stores the built-in sample recipes; reruns reuse the stored rows
func seedSamples(ctx context.Context, recipes *service.RecipeService) {
	source := service.NewSampleRecipeSource()
	candidates, err := source.Search(ctx, service.RecipeQuery{})
	if err != nil {
		logger.Fatal("Failed to list sample recipes", zap.Error(err))
	}

	for _, c := range candidates {
		detail, err := source.Detail(ctx, c.ExternalID)
		if err != nil || detail == nil {
			logger.Warn("Sample recipe missing", zap.String("external_id", c.ExternalID))
			continue
		}
		recipe, err := recipes.SaveExternal(ctx, detail, "dutch")
		if err != nil {
			logger.Error("Failed to save sample recipe", zap.String("external_id", c.ExternalID), zap.Error(err))
			continue
		}
		logger.Info("Seeded recipe", zap.String("title", recipe.Title), zap.String("id", recipe.ID.String()))
	}
}

func generateRecipes(ctx context.Context, recipes *service.RecipeService, generator service.RecipeGenerator, timeout time.Duration, n int) {
	for i := 0; i < n; i++ {
		pantry := pantries[i%len(pantries)]

		gctx, cancel := context.WithTimeout(ctx, timeout)
		generated, err := generator.Generate(gctx, service.GenerationRequest{
			Ingredients: pantry.ingredients,
			Cuisines:    []string{pantry.cuisine},
		})
		cancel()
		if err != nil {
			logger.Warn("Failed to generate recipe", zap.Strings("ingredients", pantry.ingredients), zap.Error(err))
			continue
		}

		recipe, err := recipes.SaveGenerated(ctx, generated, pantry.cuisine)
		if err != nil {
			logger.Error("Failed to save generated recipe", zap.Error(err))
			continue
		}
		logger.Info("Generated recipe", zap.String("title", recipe.Title), zap.String("cuisine", pantry.cuisine))

		// Pause between batches to stay under the provider's rate limit
		if (i+1)%batchSize == 0 && i+1 < n {
			time.Sleep(2 * time.Second)
		}
	}
}
