package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/types"
)

const password = "testpassword123"

type testUser struct {
	name    string
	email   string
	admin   bool
	profile *types.ProfileRequest
	fridge  []string
}

var testUsers = []testUser{
	{
		name:  "Jan de Vries",
		email: "jan@example.com",
		profile: &types.ProfileRequest{
			CuisinePreferences: []string{"dutch", "italian"},
			DietGoal:           "gezond eten",
		},
		fridge: []string{"aardappelen", "ui", "kip", "paprika"},
	},
	{
		name:  "Sanne Bakker",
		email: "sanne@example.com",
		profile: &types.ProfileRequest{
			CuisinePreferences: []string{"asian"},
			DietPreferences:    []string{"vegetarian"},
			Allergies:          []string{"nuts", "lactose"},
			Dislikes:           "koriander, champignons",
		},
		fridge: []string{"tofu", "broccoli", "rijst"},
	},
	{
		name:  "Piet Jansen",
		email: "piet@example.com",
	},
	{
		name:  "Admin User",
		email: "admin@example.com",
		admin: true,
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.Env.GuardNonProduction("seed test users"); err != nil {
		logger.Fatal("Refusing to seed test users", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.TTL)
	profiles := service.NewProfileService(db)
	fridge := service.NewFridgeService(db)

	for _, u := range testUsers {
		user, _, err := auth.Register(ctx, u.name, u.email, password)
		if errors.Is(err, service.ErrUserExists) {
			logger.Info("User already exists, skipping", zap.String("email", u.email))
			continue
		}
		if err != nil {
			logger.Error("Failed to create user", zap.String("email", u.email), zap.Error(err))
			continue
		}

		if u.admin {
			if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_admin", true).Error; err != nil {
				logger.Error("Failed to grant admin", zap.String("email", u.email), zap.Error(err))
			}
		}
		if u.profile != nil {
			if _, err := profiles.SaveProfile(ctx, user.ID, u.profile); err != nil {
				logger.Error("Failed to save profile", zap.String("email", u.email), zap.Error(err))
			}
		}
		for _, name := range u.fridge {
			if _, err := fridge.Upsert(ctx, user.ID, &types.FridgeItemRequest{Name: name}); err != nil {
				logger.Error("Failed to add fridge item", zap.String("email", u.email), zap.String("item", name), zap.Error(err))
			}
		}

		logger.Info("Created test user", zap.String("email", u.email), zap.Bool("admin", u.admin))
	}

	var total int64
	db.Model(&models.User{}).Count(&total)
	logger.Info("Test users seeded", zap.Int64("total_users", total), zap.String("password", password))
}
