package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
)

func TestCalculateBMR(t *testing.T) {
	tests := []struct {
		name     string
		weightKG float64
		heightCM float64
		age      int
		gender   string
		want     int
	}{
		{"male reference", 70, 175, 30, "male", 1649},
		{"female reference", 60, 165, 25, "female", 1345},
		{"other gender", 70, 175, 30, "other", 1566},
		{"unspecified gender treated as other", 70, 175, 30, "", 1566},
		{"heavy male", 120, 190, 45, "male", 2168},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBMR(tt.weightKG, tt.heightCM, tt.age, tt.gender)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateBMR_Deterministic(t *testing.T) {
	first := CalculateBMR(82.5, 181.5, 37, "female")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CalculateBMR(82.5, 181.5, 37, "female"))
	}
}

func TestCalculateTDEE(t *testing.T) {
	tests := []struct {
		name          string
		bmr           int
		activityLevel string
		want          int
	}{
		{"sedentary", 1649, "sedentary", 1979},
		{"lightly active", 1649, "lightly_active", 2267},
		{"moderately active", 1649, "moderately_active", 2556},
		{"very active", 1649, "very_active", 2845},
		{"extremely active", 1649, "extremely_active", 3133},
		{"unknown level falls back to sedentary", 1649, "couch_potato", 1979},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTDEE(tt.bmr, tt.activityLevel))
		})
	}
}

func TestCalculateTargetCalories(t *testing.T) {
	tests := []struct {
		goal string
		want int
	}{
		{"weight_loss", 2056},
		{"muscle_gain", 2856},
		{"athletic_performance", 2756},
		{"maintenance", 2556},
		{"general_fitness", 2556},
	}

	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTargetCalories(2556, tt.goal))
		})
	}
}

func TestCalculateMacros(t *testing.T) {
	t.Run("muscle gain ratios", func(t *testing.T) {
		split := CalculateMacros(2856, "muscle_gain", 70)
		// 30/25/45 of 2856 kcal at 4/9/4 kcal per gram.
		assert.Equal(t, 214, split.ProteinG)
		assert.Equal(t, 321, split.CarbsG)
		assert.Equal(t, 79, split.FatG)
	})

	t.Run("weight loss ratios", func(t *testing.T) {
		split := CalculateMacros(2000, "weight_loss", 70)
		assert.Equal(t, 175, split.ProteinG)
		assert.Equal(t, 175, split.CarbsG)
		assert.Equal(t, 67, split.FatG)
	})

	t.Run("default ratios for maintenance", func(t *testing.T) {
		split := CalculateMacros(2000, "maintenance", 70)
		assert.Equal(t, 150, split.ProteinG)
		assert.Equal(t, 200, split.CarbsG)
		assert.Equal(t, 67, split.FatG)
	})

	t.Run("protein floored at bodyweight", func(t *testing.T) {
		// Very low calories for a heavy user: ratio protein would be
		// well under 1 g/kg.
		split := CalculateMacros(1000, "athletic_performance", 120)
		assert.Equal(t, 120, split.ProteinG)
	})
}

func TestProteinFloorInvariant(t *testing.T) {
	goals := []string{"weight_loss", "muscle_gain", "athletic_performance", "maintenance", "general_fitness"}
	for _, goal := range goals {
		for calories := 1000; calories <= 4000; calories += 500 {
			for weight := 40.0; weight <= 150; weight += 27.5 {
				split := CalculateMacros(calories, goal, weight)
				assert.GreaterOrEqual(t, float64(split.ProteinG), weight-0.5,
					"goal=%s calories=%d weight=%.1f", goal, calories, weight)
			}
		}
	}
}

func TestApplyProfileMetrics(t *testing.T) {
	profile := &models.UserProfile{
		HeightCM:      175,
		WeightKG:      70,
		Age:           30,
		Gender:        "male",
		PrimaryGoal:   "muscle_gain",
		ActivityLevel: "moderately_active",
	}

	ApplyProfileMetrics(profile)

	assert.Equal(t, 1649, profile.BMR)
	assert.Equal(t, 2556, profile.TDEE)
	assert.Equal(t, 2856, profile.TargetCalories)
	assert.Equal(t, 214, profile.ProteinG)
	assert.GreaterOrEqual(t, profile.ProteinG, 70)
}
