package types

import "encoding/json"

// MealPlanPayload is the strict shape the AI must produce for a meal plan:
// exactly 7 day entries (Monday = dayIndex 0), each with exactly the
// requested number of meals.
type MealPlanPayload struct {
	Title          string      `json:"title" validate:"required"`
	Goal           string      `json:"goal"`
	TargetCalories int         `json:"targetCalories" validate:"gte=0"`
	Days           []MealDay   `json:"days" validate:"required,len=7,dive"`
	GroceryList    GroceryList `json:"groceryList"`
}

// MealDay is one day of a meal plan.
type MealDay struct {
	DayIndex int        `json:"dayIndex" validate:"gte=0,lte=6"`
	DayLabel string     `json:"dayLabel" validate:"required"`
	Meals    []Meal     `json:"meals" validate:"required,min=1,dive"`
	Totals   MealMacros `json:"totals"`
}

// Meal is a single meal entry.
type Meal struct {
	Name         string     `json:"name" validate:"required"`
	Type         string     `json:"type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Description  string     `json:"description"`
	Ingredients  []string   `json:"ingredients" validate:"required,min=1"`
	Instructions []string   `json:"instructions"`
	Macros       MealMacros `json:"macros"`
}

// MealMacros is a per-meal or per-day macro breakdown.
type MealMacros struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
}

// GroceryItem is one grocery-list entry.
type GroceryItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// GroceryList tolerates the model returning plain strings instead of
// objects. Nothing downstream consumes the list, so a malformed one is
// coerced to empty rather than failing the whole payload.
type GroceryList []GroceryItem

func (g *GroceryList) UnmarshalJSON(data []byte) error {
	var items []GroceryItem
	if err := json.Unmarshal(data, &items); err == nil {
		*g = items
		return nil
	}
	*g = GroceryList{}
	return nil
}

// Workout block types, in prescribed execution order.
const (
	BlockWarmup    = "warmup"
	BlockMain      = "main"
	BlockAccessory = "accessory"
	BlockCooldown  = "cooldown"
)

// WorkoutPlanPayload is the strict shape the AI must produce for a workout
// plan: 7 schedule entries, of which exactly daysPerWeek are training days.
type WorkoutPlanPayload struct {
	Title       string       `json:"title" validate:"required"`
	Focus       string       `json:"focus"`
	Split       string       `json:"split" validate:"required,oneof=full_body upper_lower push_pull_legs bro_split custom"`
	DaysPerWeek int          `json:"daysPerWeek" validate:"gte=1,lte=7"`
	Schedule    []WorkoutDay `json:"schedule" validate:"required,len=7,dive"`
}

// WorkoutDay is one day of a workout schedule: either a rest day or a set
// of ordered exercise blocks, never both.
type WorkoutDay struct {
	DayIndex int            `json:"dayIndex" validate:"gte=0,lte=6"`
	DayLabel string         `json:"dayLabel" validate:"required"`
	Rest     bool           `json:"rest"`
	Blocks   []WorkoutBlock `json:"blocks" validate:"omitempty,dive"`
}

// WorkoutBlock groups exercises by purpose within a session.
type WorkoutBlock struct {
	Type      string            `json:"type" validate:"required,oneof=warmup main accessory cooldown"`
	Exercises []WorkoutExercise `json:"exercises" validate:"required,min=1,dive"`
}

// WorkoutExercise is a single prescribed exercise. ExerciseID refers to the
// external catalog when present; a nil ID marks a custom exercise carried by
// name only. The ID is passed through untouched, never resolved here.
type WorkoutExercise struct {
	ExerciseID  *string `json:"exerciseId"`
	Name        string  `json:"name" validate:"required"`
	Sets        int     `json:"sets" validate:"gte=1"`
	Reps        string  `json:"reps" validate:"required"`
	RestSeconds int     `json:"restSeconds" validate:"gte=0"`
	RPE         *int    `json:"rpe" validate:"omitempty,gte=1,lte=10"`
	Notes       string  `json:"notes"`
}
