package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

// CatalogSampler is the slice of ExerciseCatalog the prompt builder needs.
type CatalogSampler interface {
	Sample(ctx context.Context, equipment []string) ([]CatalogExercise, error)
}

// PromptBuilder assembles system/user message pairs that constrain the AI
// to the fixed payload schemas. Pure string work except for the catalog
// fetch on workout prompts, which degrades to the static sample.
type PromptBuilder struct {
	catalog CatalogSampler
}

// NewPromptBuilder creates a prompt builder. catalog may be nil; workout
// prompts then always use the static exercise sample.
func NewPromptBuilder(catalog CatalogSampler) *PromptBuilder {
	return &PromptBuilder{catalog: catalog}
}

const mealSystemPrompt = `You are a professional Filipino chef and sports nutritionist. You create weekly meal plans built around Filipino cuisine and locally available ingredients.
Respond ONLY with a JSON object in exactly this structure:
{
    "title": "Plan title",
    "goal": "the user's goal",
    "targetCalories": 2800,
    "days": [
        {
            "dayIndex": 0,
            "dayLabel": "Monday",
            "meals": [
                {
                    "name": "Chicken Tinola",
                    "type": "lunch",
                    "description": "One sentence about the dish",
                    "ingredients": ["1 lb chicken", "2 cups rice"],
                    "instructions": ["Step 1 ...", "Step 2 ..."],
                    "macros": {"calories": 650, "protein": 45, "carbs": 70, "fat": 18}
                }
            ],
            "totals": {"calories": 2800, "protein": 210, "carbs": 315, "fat": 78}
        }
    ],
    "groceryList": [{"name": "chicken breast", "quantity": "2 kg"}]
}

Rules:
- "days" MUST contain exactly 7 entries with dayIndex 0 (Monday) through 6 (Sunday), each a unique day.
- Every day MUST contain exactly the requested number of meals.
- All macro values are numbers, never strings.
- Per-day totals must be consistent with the sum of that day's meal macros.`

// mealFallbackSystemPrompt is a deliberately shorter schema used for the one
// retry pass after a truncated response: fewer prose fields means the same
// token budget covers the full week.
const mealFallbackSystemPrompt = `You are a Filipino nutritionist. Respond ONLY with JSON:
{"title":"...","goal":"...","targetCalories":0,"days":[{"dayIndex":0,"dayLabel":"Monday","meals":[{"name":"...","type":"lunch","ingredients":["..."],"macros":{"calories":0,"protein":0,"carbs":0,"fat":0}}],"totals":{"calories":0,"protein":0,"carbs":0,"fat":0}}],"groceryList":[]}
Exactly 7 days (dayIndex 0-6), exactly the requested meals per day. Keep descriptions and instructions OUT. Be brief.`

// BuildMealPrompts returns the system and user prompts for meal-plan
// generation. Explicit macro goals on the input override profile defaults.
func (b *PromptBuilder) BuildMealPrompts(profile *models.UserProfile, input *types.GenerateMealPlanInput) (string, string) {
	return mealSystemPrompt, b.mealUserPrompt(profile, input)
}

// BuildMealFallbackPrompts returns the degraded prompt pair used after a
// truncation failure.
func (b *PromptBuilder) BuildMealFallbackPrompts(profile *models.UserProfile, input *types.GenerateMealPlanInput) (string, string) {
	return mealFallbackSystemPrompt, b.mealUserPrompt(profile, input)
}

func (b *PromptBuilder) mealUserPrompt(profile *models.UserProfile, input *types.GenerateMealPlanInput) string {
	targetCalories := input.TargetCalories
	if targetCalories == 0 {
		targetCalories = profile.TargetCalories
	}
	protein, carbs, fat := profile.ProteinG, profile.CarbsG, profile.FatG
	if input.MacroGoals != nil {
		protein, carbs, fat = input.MacroGoals.Protein, input.MacroGoals.Carbs, input.MacroGoals.Fat
	}
	mealsPerDay := input.MealsPerDay
	if mealsPerDay == 0 {
		mealsPerDay = profile.MealsPerDay
	}
	if mealsPerDay == 0 {
		mealsPerDay = 3
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a 7-day Filipino meal plan with exactly %d meals per day.\n\n", mealsPerDay)
	fmt.Fprintf(&sb, "About me: %s, %d years old, %.0f cm, %.1f kg, %s fitness level. Goal: %s.\n",
		profile.Gender, profile.Age, profile.HeightCM, profile.WeightKG, profile.FitnessLevel, goalLabel(profile.PrimaryGoal))
	fmt.Fprintf(&sb, "Daily target: %d kcal (%dg protein, %dg carbs, %dg fat).\n", targetCalories, protein, carbs, fat)

	if diet := firstNonEmpty(input.DietaryPreference, profile.DietaryPreference); diet != "" {
		fmt.Fprintf(&sb, "Dietary preference: %s. Every meal must comply.\n", diet)
	}
	allergies := input.Allergies
	if len(allergies) == 0 {
		allergies = profile.Allergies
	}
	if len(allergies) > 0 {
		fmt.Fprintf(&sb, "STRICTLY EXCLUDE these allergens from every meal: %s.\n", strings.Join(allergies, ", "))
	}
	if len(input.CuisinePreferences) > 0 {
		fmt.Fprintf(&sb, "Lean toward these regional cuisines within Filipino cooking: %s.\n", strings.Join(input.CuisinePreferences, ", "))
	}
	if input.CookingTimeMinutes > 0 {
		fmt.Fprintf(&sb, "Each meal must be cookable in %d minutes or less.\n", input.CookingTimeMinutes)
	}

	switch input.CookingSkill {
	case "beginner":
		sb.WriteString("I am a beginner cook: keep every recipe to 8 steps or fewer, simple techniques only (saute, boil, steam, grill).\n")
	case "advanced":
		sb.WriteString("I am an advanced cook: feel free to use complex, authentic techniques and longer preparations.\n")
	}
	if input.Budget != "" {
		fmt.Fprintf(&sb, "Ingredient budget: %s. Prefer wet-market staples accordingly.\n", input.Budget)
	}

	sb.WriteString("\nAll 7 days must be unique - no repeated day plans.")
	return sb.String()
}

const workoutSystemPromptHeader = `You are a certified strength and conditioning coach. You design weekly workout programs.
Respond ONLY with a JSON object in exactly this structure:
{
    "title": "Program title",
    "focus": "the user's focus",
    "split": "one of: full_body, upper_lower, push_pull_legs, bro_split, custom",
    "daysPerWeek": 4,
    "schedule": [
        {
            "dayIndex": 0,
            "dayLabel": "Monday",
            "rest": false,
            "blocks": [
                {
                    "type": "warmup",
                    "exercises": [
                        {"exerciseId": "0006", "name": "Pull-Up", "sets": 2, "reps": "8-10", "restSeconds": 60, "rpe": 6, "notes": ""}
                    ]
                }
            ]
        },
        {"dayIndex": 1, "dayLabel": "Tuesday", "rest": true, "blocks": []}
    ]
}

Rules:
- "schedule" MUST contain exactly 7 entries, dayIndex 0 (Monday) through 6 (Sunday).
- Rest days have "rest": true and an empty "blocks" array; the number of training days MUST equal daysPerWeek.
- Block "type" is one of: warmup, main, accessory, cooldown, in that order within a day.
- "sets" is at least 1; "rpe" when present is 1-10; all numbers are numbers, never strings.
- Prefer exercises from the catalog below and copy their exerciseId verbatim; for anything not in the catalog set "exerciseId": null.`

var splitGuidance = map[string]string{
	"full_body":      "Every training day hits all major muscle groups (legs, push, pull, core).",
	"upper_lower":    "Alternate upper-body and lower-body days. Never place two identical days back to back.",
	"push_pull_legs": "Strictly separate movement categories: push days (chest/shoulders/triceps), pull days (back/biceps), leg days (quads/hamstrings/calves). No category bleed between days.",
	"bro_split":      "One major muscle group per training day, high volume (4+ exercises for that group).",
}

// BuildWorkoutPrompts returns the system and user prompts for workout-plan
// generation. A catalog failure degrades to the embedded static sample
// instead of failing the job.
func (b *PromptBuilder) BuildWorkoutPrompts(ctx context.Context, profile *models.UserProfile, input *types.GenerateWorkoutPlanInput) (string, string) {
	var exercises []CatalogExercise
	if b.catalog != nil {
		sample, err := b.catalog.Sample(ctx, input.Equipment)
		if err != nil {
			log.Printf("exercise catalog unavailable, using static sample: %v", err)
		} else {
			exercises = sample
		}
	}
	if len(exercises) == 0 {
		exercises = StaticExerciseSample(input.Equipment)
	}

	var sb strings.Builder
	sb.WriteString(workoutSystemPromptHeader)
	sb.WriteString("\n\nExercise catalog (ID | name | equipment), grouped by muscle:\n")
	sb.WriteString(formatCatalog(exercises))

	return sb.String(), b.workoutUserPrompt(profile, input)
}

func (b *PromptBuilder) workoutUserPrompt(profile *models.UserProfile, input *types.GenerateWorkoutPlanInput) string {
	split := input.Split
	if split == "" {
		split = "full_body"
	}
	experience := firstNonEmpty(input.Experience, profile.FitnessLevel)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a %d-day-per-week %s workout program.\n\n", input.DaysPerWeek, split)
	fmt.Fprintf(&sb, "About me: %s, %d years old, %.1f kg, %s lifter. Goal: %s.\n",
		profile.Gender, profile.Age, profile.WeightKG, experience, goalLabel(profile.PrimaryGoal))
	if input.Focus != "" {
		fmt.Fprintf(&sb, "Training focus: %s.\n", input.Focus)
	}
	if input.SessionMinutes > 0 {
		fmt.Fprintf(&sb, "Each session must fit in %d minutes including warmup and cooldown.\n", input.SessionMinutes)
	}
	if len(input.Equipment) > 0 {
		fmt.Fprintf(&sb, "Available equipment: %s. Use nothing else.\n", strings.Join(input.Equipment, ", "))
	}
	if len(input.Injuries) > 0 {
		fmt.Fprintf(&sb, "Injuries to work around - avoid loading these areas: %s.\n", strings.Join(input.Injuries, ", "))
	}

	if guidance, ok := splitGuidance[split]; ok {
		sb.WriteString(guidance + "\n")
	}
	if split == "custom" && len(input.CustomSplit) > 0 {
		sb.WriteString("Follow this day-by-day muscle group assignment EXACTLY, with no extra groups on any day:\n")
		for _, day := range input.CustomSplit {
			fmt.Fprintf(&sb, "- dayIndex %d: %s\n", day.DayIndex, strings.Join(day.MuscleGroups, ", "))
		}
	}

	return sb.String()
}

// formatCatalog renders exercises as "ID | name | equipment" lines grouped
// under a muscle heading, sorted for prompt stability.
func formatCatalog(exercises []CatalogExercise) string {
	byMuscle := make(map[string][]CatalogExercise)
	for _, ex := range exercises {
		muscle := ex.Muscle
		if muscle == "" {
			muscle = "other"
		}
		byMuscle[muscle] = append(byMuscle[muscle], ex)
	}

	muscles := make([]string, 0, len(byMuscle))
	for m := range byMuscle {
		muscles = append(muscles, m)
	}
	sort.Strings(muscles)

	var sb strings.Builder
	for _, m := range muscles {
		fmt.Fprintf(&sb, "%s:\n", strings.ToUpper(m))
		for _, ex := range byMuscle[m] {
			fmt.Fprintf(&sb, "%s | %s | %s\n", ex.ID, ex.Name, ex.Equipment)
		}
	}
	return sb.String()
}

func goalLabel(goal string) string {
	return strings.ReplaceAll(goal, "_", " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
