package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

func createProfileRequest() *types.CreateProfileRequest {
	return &types.CreateProfileRequest{
		HeightCM:          175,
		WeightKG:          70,
		Age:               30,
		Gender:            "male",
		FitnessLevel:      "intermediate",
		PrimaryGoal:       "muscle_gain",
		ActivityLevel:     "moderately_active",
		DietaryPreference: "none",
		Allergies:         []string{"peanuts"},
		MealsPerDay:       3,
	}
}

func TestProfileService(t *testing.T) {
	db := setupPlannerDB(t)
	svc := NewProfileService(db)

	user := models.User{Name: "Migo", Email: "migo@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	t.Run("get before create is not found", func(t *testing.T) {
		_, err := svc.GetProfile(context.Background(), user.ID)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("create computes derived metrics", func(t *testing.T) {
		profile, err := svc.CreateProfile(context.Background(), user.ID, createProfileRequest())
		require.NoError(t, err)

		assert.Equal(t, 1649, profile.BMR)
		assert.Equal(t, 2556, profile.TDEE)
		assert.Equal(t, 2856, profile.TargetCalories)
		assert.Equal(t, 214, profile.ProteinG)
		assert.Equal(t, 321, profile.CarbsG)
		assert.Equal(t, 79, profile.FatG)
	})

	t.Run("second create is rejected", func(t *testing.T) {
		_, err := svc.CreateProfile(context.Background(), user.ID, createProfileRequest())
		assert.ErrorIs(t, err, ErrProfileExists)
	})

	t.Run("weight change recomputes metrics", func(t *testing.T) {
		weight := 80.0
		profile, err := svc.UpdateProfile(context.Background(), user.ID, &types.UpdateProfileRequest{WeightKG: &weight})
		require.NoError(t, err)

		// 10*80 + 6.25*175 - 5*30 + 5 = 1749
		assert.Equal(t, 1749, profile.BMR)
		assert.Equal(t, 2711, profile.TDEE)
		assert.Equal(t, 3011, profile.TargetCalories)
	})

	t.Run("goal change recomputes targets", func(t *testing.T) {
		goal := "weight_loss"
		profile, err := svc.UpdateProfile(context.Background(), user.ID, &types.UpdateProfileRequest{PrimaryGoal: &goal})
		require.NoError(t, err)

		assert.Equal(t, 2711, profile.TDEE)
		assert.Equal(t, 2211, profile.TargetCalories)
	})

	t.Run("dietary edit leaves metrics alone", func(t *testing.T) {
		before, err := svc.GetProfile(context.Background(), user.ID)
		require.NoError(t, err)

		pref := "vegetarian"
		allergies := []string{"shellfish"}
		after, err := svc.UpdateProfile(context.Background(), user.ID, &types.UpdateProfileRequest{
			DietaryPreference: &pref,
			Allergies:         &allergies,
		})
		require.NoError(t, err)

		assert.Equal(t, "vegetarian", after.DietaryPreference)
		assert.Equal(t, models.JSONBStringArray{"shellfish"}, after.Allergies)
		assert.Equal(t, before.BMR, after.BMR)
		assert.Equal(t, before.TargetCalories, after.TargetCalories)
	})

	t.Run("update for unknown user is not found", func(t *testing.T) {
		age := 40
		_, err := svc.UpdateProfile(context.Background(), uuid.New(), &types.UpdateProfileRequest{Age: &age})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}
