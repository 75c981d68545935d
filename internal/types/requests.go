package types

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateProfileRequest is submitted when onboarding completes. Derived
// metrics (BMR, TDEE, targets) are computed server-side, never accepted
// from the client.
type CreateProfileRequest struct {
	HeightCM          float64  `json:"height_cm" binding:"required,gte=120,lte=250"`
	WeightKG          float64  `json:"weight_kg" binding:"required,gte=30,lte=300"`
	Age               int      `json:"age" binding:"required,gte=18,lte=100"`
	Gender            string   `json:"gender" binding:"required,oneof=male female other"`
	FitnessLevel      string   `json:"fitness_level" binding:"required,oneof=beginner intermediate advanced"`
	PrimaryGoal       string   `json:"primary_goal" binding:"required,oneof=weight_loss muscle_gain athletic_performance maintenance general_fitness"`
	ActivityLevel     string   `json:"activity_level" binding:"required,oneof=sedentary lightly_active moderately_active very_active extremely_active"`
	DietaryPreference string   `json:"dietary_preference"`
	Allergies         []string `json:"allergies"`
	MealsPerDay       int      `json:"meals_per_day" binding:"omitempty,gte=2,lte=6"`
}

// UpdateProfileRequest carries partial profile edits. Pointer fields
// distinguish "not provided" from zero values.
type UpdateProfileRequest struct {
	HeightCM          *float64  `json:"height_cm" binding:"omitempty,gte=120,lte=250"`
	WeightKG          *float64  `json:"weight_kg" binding:"omitempty,gte=30,lte=300"`
	Age               *int      `json:"age" binding:"omitempty,gte=18,lte=100"`
	Gender            *string   `json:"gender" binding:"omitempty,oneof=male female other"`
	FitnessLevel      *string   `json:"fitness_level" binding:"omitempty,oneof=beginner intermediate advanced"`
	PrimaryGoal       *string   `json:"primary_goal" binding:"omitempty,oneof=weight_loss muscle_gain athletic_performance maintenance general_fitness"`
	ActivityLevel     *string   `json:"activity_level" binding:"omitempty,oneof=sedentary lightly_active moderately_active very_active extremely_active"`
	DietaryPreference *string   `json:"dietary_preference"`
	Allergies         *[]string `json:"allergies"`
	MealsPerDay       *int      `json:"meals_per_day" binding:"omitempty,gte=2,lte=6"`
}

// MacroGoals are explicit per-day macro targets in grams. When present on a
// generation request they override the profile's computed split.
type MacroGoals struct {
	Protein int `json:"protein" binding:"gte=0"`
	Carbs   int `json:"carbs" binding:"gte=0"`
	Fat     int `json:"fat" binding:"gte=0"`
}

// GenerateMealPlanInput carries the user's meal-plan generation preferences.
// The whole struct is persisted verbatim on the plan record so a later
// regeneration can replay it.
type GenerateMealPlanInput struct {
	TargetCalories     int         `json:"target_calories" binding:"omitempty,gte=1000,lte=6000"`
	MacroGoals         *MacroGoals `json:"macro_goals"`
	DietaryPreference  string      `json:"dietary_preference"`
	CuisinePreferences []string    `json:"cuisine_preferences"`
	Allergies          []string    `json:"allergies"`
	MealsPerDay        int         `json:"meals_per_day" binding:"omitempty,gte=2,lte=6"`
	CookingTimeMinutes int         `json:"cooking_time_minutes" binding:"omitempty,gte=10,lte=180"`
	CookingSkill       string      `json:"cooking_skill" binding:"omitempty,oneof=beginner intermediate advanced"`
	Budget             string      `json:"budget" binding:"omitempty,oneof=low medium high"`
}

// DayAssignment declares muscle groups for one day of a custom split.
type DayAssignment struct {
	DayIndex     int      `json:"day_index" binding:"gte=0,lte=6"`
	MuscleGroups []string `json:"muscle_groups" binding:"required,min=1"`
}

// GenerateWorkoutPlanInput carries the user's workout-plan generation
// preferences, persisted verbatim for regeneration like the meal input.
type GenerateWorkoutPlanInput struct {
	DaysPerWeek    int             `json:"days_per_week" binding:"required,gte=1,lte=7"`
	SessionMinutes int             `json:"session_minutes" binding:"omitempty,gte=15,lte=180"`
	Focus          string          `json:"focus" binding:"omitempty,oneof=strength hypertrophy endurance general"`
	Split          string          `json:"split" binding:"omitempty,oneof=full_body upper_lower push_pull_legs bro_split custom"`
	Equipment      []string        `json:"equipment"`
	Injuries       []string        `json:"injuries"`
	Experience     string          `json:"experience" binding:"omitempty,oneof=beginner intermediate advanced"`
	CustomSplit    []DayAssignment `json:"custom_split" binding:"omitempty,dive"`
}

// LogWorkoutRequest records a completed session against a workout plan.
type LogWorkoutRequest struct {
	DayIndex  int      `json:"day_index" binding:"gte=0,lte=6"`
	Exercises []string `json:"exercises"`
	Notes     string   `json:"notes" binding:"max=2000"`
}
