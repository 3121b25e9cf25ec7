package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

const (
	defaultAdminEmail    = "admin@proske.app"
	defaultAdminPassword = "Admin123!"
)

// CreateDefaultData seeds the platform admin account and a free starter
// plan on first boot. Every step is idempotent, so running it on each
// startup is safe.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)
	subscriptionRepo := repositories.NewSubscriptionRepository(dbPool)

	var finalErr error

	if err := seedAdminUser(ctx, userRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}
	if err := seedStarterPlan(ctx, subscriptionRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func seedAdminUser(ctx context.Context, userRepo *repositories.UserRepository, lgr zerolog.Logger) error {
	_, err := userRepo.GetByEmail(ctx, defaultAdminEmail)
	if err == nil {
		lgr.Debug().Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		lgr.Error().Err(err).Msg("Error checking for admin user")
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &models.User{
		Email:    defaultAdminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}
	adminID, err := userRepo.Create(ctx, admin, "Platform Administrator")
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created")
	return nil
}

func seedStarterPlan(ctx context.Context, subscriptionRepo *repositories.SubscriptionRepository, lgr zerolog.Logger) error {
	plans, err := subscriptionRepo.ListPlans(ctx, false)
	if err != nil {
		lgr.Error().Err(err).Msg("Error listing plans during seed")
		return err
	}
	if len(plans) > 0 {
		return nil
	}

	description := "Free access with limited corrections and monitorings"
	starter := &models.SubscriptionPlan{
		Name:             "Starter",
		Description:      &description,
		Price:            0,
		CorrectionsLimit: 2,
		MonitoringsLimit: 1,
		PeriodDays:       30,
		IsActive:         true,
	}
	planID, err := subscriptionRepo.CreatePlan(ctx, starter)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating starter plan")
		return err
	}

	lgr.Info().Int64("planID", planID).Msg("Starter plan created")
	return nil
}
