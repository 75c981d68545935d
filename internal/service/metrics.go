package service

import (
	"math"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels.
var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extremely_active":  1.9,
}

// calorieAdjustments maps primary goals to their additive calorie adjustment
// on top of TDEE.
var calorieAdjustments = map[string]int{
	"weight_loss":          -500,
	"muscle_gain":          300,
	"athletic_performance": 200,
}

// macroRatio is a goal's protein/fat/carb calorie split. The three shares
// always sum to 1.
type macroRatio struct {
	protein float64
	fat     float64
	carbs   float64
}

var macroRatios = map[string]macroRatio{
	"weight_loss":          {protein: 0.35, fat: 0.30, carbs: 0.35},
	"muscle_gain":          {protein: 0.30, fat: 0.25, carbs: 0.45},
	"athletic_performance": {protein: 0.25, fat: 0.25, carbs: 0.50},
}

var defaultMacroRatio = macroRatio{protein: 0.30, fat: 0.30, carbs: 0.40}

// MacroSplit is a computed daily macro target in grams.
type MacroSplit struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// CalculateBMR computes basal metabolic rate via Mifflin-St Jeor, rounded to
// the nearest kcal. Inputs are assumed pre-validated (height 120-250 cm,
// weight 30-300 kg, age 18-100).
func CalculateBMR(weightKG, heightCM float64, age int, gender string) int {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	switch gender {
	case "male":
		bmr += 5
	case "female":
		bmr -= 161
	default:
		bmr -= 78
	}
	return int(math.Round(bmr))
}

// CalculateTDEE multiplies BMR by the activity multiplier. Unknown activity
// levels fall back to sedentary.
func CalculateTDEE(bmr int, activityLevel string) int {
	mult, ok := activityMultipliers[activityLevel]
	if !ok {
		mult = activityMultipliers["sedentary"]
	}
	return int(math.Round(float64(bmr) * mult))
}

// CalculateTargetCalories applies the goal's additive adjustment to TDEE.
// Maintenance and general fitness keep TDEE unchanged.
func CalculateTargetCalories(tdee int, goal string) int {
	return tdee + calorieAdjustments[goal]
}

// CalculateMacros converts a calorie target into grams of protein, carbs and
// fat using the goal's calorie ratios at 4/9/4 kcal per gram. Protein is
// floored at 1 g per kg of body weight.
func CalculateMacros(targetCalories int, goal string, weightKG float64) MacroSplit {
	ratio, ok := macroRatios[goal]
	if !ok {
		ratio = defaultMacroRatio
	}

	protein := math.Round(float64(targetCalories) * ratio.protein / 4)
	fat := math.Round(float64(targetCalories) * ratio.fat / 9)
	carbs := math.Round(float64(targetCalories) * ratio.carbs / 4)

	if floor := math.Round(weightKG); protein < floor {
		protein = floor
	}

	return MacroSplit{
		ProteinG: int(protein),
		CarbsG:   int(carbs),
		FatG:     int(fat),
	}
}

// ApplyProfileMetrics recomputes the derived metric fields on a profile from
// its physical stats and goal.
func ApplyProfileMetrics(p *models.UserProfile) {
	p.BMR = CalculateBMR(p.WeightKG, p.HeightCM, p.Age, p.Gender)
	p.TDEE = CalculateTDEE(p.BMR, p.ActivityLevel)
	p.TargetCalories = CalculateTargetCalories(p.TDEE, p.PrimaryGoal)

	split := CalculateMacros(p.TargetCalories, p.PrimaryGoal, p.WeightKG)
	p.ProteinG = split.ProteinG
	p.CarbsG = split.CarbsG
	p.FatG = split.FatG
}
