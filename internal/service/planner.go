package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

var ErrPlanNotFound = errors.New("plan not found")

// generatingStaleAfter is how long a plan may sit in generating before
// status reads report it as failed. The record itself is not rewritten; a
// regeneration is the recovery path.
const generatingStaleAfter = 10 * time.Minute

// AIClient is the gateway surface the planner depends on.
type AIClient interface {
	Call(ctx context.Context, messages []ChatMessage, opts CallOptions) (*CallResult, error)
}

// PlannerService drives a plan record from generating to a terminal state:
// build prompts, call the AI, repair and validate the response, persist the
// result. Generation runs as a background task; callers get the record back
// immediately in generating state and poll for the outcome.
type PlannerService struct {
	db      *gorm.DB
	ai      AIClient
	prompts *PromptBuilder
	runner  *TaskRunner
}

// NewPlannerService wires the orchestrator.
func NewPlannerService(db *gorm.DB, ai AIClient, prompts *PromptBuilder, runner *TaskRunner) *PlannerService {
	return &PlannerService{db: db, ai: ai, prompts: prompts, runner: runner}
}

// WeekStart returns the Monday of t's week at midnight UTC. AddDate handles
// month/year boundaries that naive day subtraction would not.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// StartMealPlan creates or reuses this week's meal plan record (a prior
// completed or failed one is reset, never duplicated), flips it to
// generating and launches the background job. The returned record reflects
// the synchronous state only.
func (s *PlannerService) StartMealPlan(ctx context.Context, profile *models.UserProfile, input *types.GenerateMealPlanInput) (*models.MealPlan, error) {
	prefs, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}

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

	weekStart := WeekStart(time.Now())
	now := time.Now()

	var plan models.MealPlan
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", profile.UserID, weekStart).
		First(&plan).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		plan = models.MealPlan{UserID: profile.UserID, WeekStart: weekStart}
	case err != nil:
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	plan.Goal = profile.PrimaryGoal
	plan.TargetCalories = targetCalories
	plan.ProteinG = protein
	plan.CarbsG = carbs
	plan.FatG = fat
	plan.MealsPerDay = mealsPerDay
	plan.Status = models.PlanStatusGenerating
	plan.Error = ""
	plan.StartedAt = &now
	plan.CompletedAt = nil
	plan.Preferences = models.JSONBBlob(prefs)

	if err := s.db.WithContext(ctx).Save(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to persist meal plan: %w", err)
	}

	profileCopy := *profile
	inputCopy := *input
	s.runner.Go("meal-plan:"+plan.ID.String(), func() {
		s.runMealJob(plan.ID, &profileCopy, &inputCopy, mealsPerDay)
	})

	return &plan, nil
}

// RegenerateMealPlan resets an owned plan to generating and replays its
// stored preferences. Absent preferences degrade to an empty input so the
// profile's defaults drive the prompts.
func (s *PlannerService) RegenerateMealPlan(ctx context.Context, profile *models.UserProfile, planID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, profile.UserID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	var input types.GenerateMealPlanInput
	if len(plan.Preferences) > 0 {
		if err := json.Unmarshal(plan.Preferences, &input); err != nil {
			log.Printf("meal plan %s has unreadable preferences, regenerating from profile defaults: %v", plan.ID, err)
			input = types.GenerateMealPlanInput{}
		}
	}

	return s.StartMealPlan(ctx, profile, &input)
}

func (s *PlannerService) runMealJob(planID uuid.UUID, profile *models.UserProfile, input *types.GenerateMealPlanInput, mealsPerDay int) {
	ctx := context.Background()

	system, user := s.prompts.BuildMealPrompts(profile, input)
	messages := []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	// Meal generation never cross-provider-falls-back at the gateway; its
	// recovery path is the dedicated fallback generation pass below.
	result, err := s.ai.Call(ctx, messages, CallOptions{
		Temperature: 0.7,
		MaxTokens:   4096,
		JSONMode:    true,
		Fallback:    false,
	})
	if err != nil {
		s.finishMealPlan(ctx, planID, nil, fmt.Errorf("AI request failed: %w", err))
		return
	}

	payload, err := ParseMealPlanPayload(result.Content, mealsPerDay)
	if err != nil && errors.Is(err, ErrTruncatedResponse) {
		payload, err = s.mealFallbackPass(ctx, profile, input, mealsPerDay)
	}
	if err != nil {
		s.finishMealPlan(ctx, planID, nil, err)
		return
	}

	s.finishMealPlan(ctx, planID, payload, nil)
}

// mealFallbackPass is the single retry after a truncated response: shorter
// prompt, higher token ceiling, provider fallback enabled.
func (s *PlannerService) mealFallbackPass(ctx context.Context, profile *models.UserProfile, input *types.GenerateMealPlanInput, mealsPerDay int) (*types.MealPlanPayload, error) {
	system, user := s.prompts.BuildMealFallbackPrompts(profile, input)
	messages := []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	result, err := s.ai.Call(ctx, messages, CallOptions{
		Temperature: 0.5,
		MaxTokens:   8192,
		JSONMode:    true,
		Fallback:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("fallback AI request failed: %w", err)
	}

	return ParseMealPlanPayload(result.Content, mealsPerDay)
}

// finishMealPlan writes the terminal state. A plan deleted mid-generation
// makes this a no-op: the job's result is silently discarded.
func (s *PlannerService) finishMealPlan(ctx context.Context, planID uuid.UUID, payload *types.MealPlanPayload, jobErr error) {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		log.Printf("meal plan %s gone before final write, discarding result: %v", planID, err)
		return
	}

	now := time.Now()
	if jobErr != nil {
		// Prior content is left untouched so a regenerate-from-failed can
		// still show the old preferences.
		plan.Status = models.PlanStatusFailed
		plan.Error = jobErr.Error()
	} else {
		days, err := json.Marshal(payload.Days)
		if err != nil {
			plan.Status = models.PlanStatusFailed
			plan.Error = fmt.Sprintf("failed to encode plan days: %v", err)
		} else {
			plan.Status = models.PlanStatusCompleted
			plan.Error = ""
			plan.Title = payload.Title
			plan.CompletedAt = &now
			plan.Days = models.JSONBBlob(days)
		}
	}

	if err := s.db.WithContext(ctx).Save(&plan).Error; err != nil {
		// No recovery path; the plan stays generating until the staleness
		// guard reports it failed.
		log.Printf("failed to persist final state for meal plan %s: %v", planID, err)
	}
}

// StartWorkoutPlan mirrors StartMealPlan for workout generation.
func (s *PlannerService) StartWorkoutPlan(ctx context.Context, profile *models.UserProfile, input *types.GenerateWorkoutPlanInput) (*models.WorkoutPlan, error) {
	prefs, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}

	split := input.Split
	if split == "" {
		split = "full_body"
	}

	weekStart := WeekStart(time.Now())
	now := time.Now()

	var plan models.WorkoutPlan
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", profile.UserID, weekStart).
		First(&plan).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		plan = models.WorkoutPlan{UserID: profile.UserID, WeekStart: weekStart}
	case err != nil:
		return nil, fmt.Errorf("failed to load workout plan: %w", err)
	}

	plan.Focus = input.Focus
	plan.Split = split
	plan.DaysPerWeek = input.DaysPerWeek
	plan.Status = models.PlanStatusGenerating
	plan.Error = ""
	plan.StartedAt = &now
	plan.CompletedAt = nil
	plan.Preferences = models.JSONBBlob(prefs)

	if err := s.db.WithContext(ctx).Save(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to persist workout plan: %w", err)
	}

	profileCopy := *profile
	inputCopy := *input
	s.runner.Go("workout-plan:"+plan.ID.String(), func() {
		s.runWorkoutJob(plan.ID, &profileCopy, &inputCopy)
	})

	return &plan, nil
}

// RegenerateWorkoutPlan mirrors RegenerateMealPlan.
func (s *PlannerService) RegenerateWorkoutPlan(ctx context.Context, profile *models.UserProfile, planID uuid.UUID) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, profile.UserID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workout plan: %w", err)
	}

	input := types.GenerateWorkoutPlanInput{DaysPerWeek: 3}
	if len(plan.Preferences) > 0 {
		if err := json.Unmarshal(plan.Preferences, &input); err != nil {
			log.Printf("workout plan %s has unreadable preferences, regenerating with defaults: %v", plan.ID, err)
			input = types.GenerateWorkoutPlanInput{DaysPerWeek: 3, Focus: plan.Focus, Split: plan.Split}
			if plan.DaysPerWeek > 0 {
				input.DaysPerWeek = plan.DaysPerWeek
			}
		}
	}

	return s.StartWorkoutPlan(ctx, profile, &input)
}

func (s *PlannerService) runWorkoutJob(planID uuid.UUID, profile *models.UserProfile, input *types.GenerateWorkoutPlanInput) {
	ctx := context.Background()

	system, user := s.prompts.BuildWorkoutPrompts(ctx, profile, input)
	messages := []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	// Workout generation is single-provider: no gateway fallback and no
	// second pass.
	result, err := s.ai.Call(ctx, messages, CallOptions{
		Temperature: 0.7,
		MaxTokens:   4096,
		JSONMode:    true,
		Fallback:    false,
	})
	if err != nil {
		s.finishWorkoutPlan(ctx, planID, nil, fmt.Errorf("AI request failed: %w", err))
		return
	}

	payload, err := ParseWorkoutPlanPayload(result.Content, input.DaysPerWeek)
	if err != nil {
		s.finishWorkoutPlan(ctx, planID, nil, err)
		return
	}

	s.finishWorkoutPlan(ctx, planID, payload, nil)
}

func (s *PlannerService) finishWorkoutPlan(ctx context.Context, planID uuid.UUID, payload *types.WorkoutPlanPayload, jobErr error) {
	var plan models.WorkoutPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		log.Printf("workout plan %s gone before final write, discarding result: %v", planID, err)
		return
	}

	now := time.Now()
	if jobErr != nil {
		plan.Status = models.PlanStatusFailed
		plan.Error = jobErr.Error()
	} else {
		schedule, err := json.Marshal(payload.Schedule)
		if err != nil {
			plan.Status = models.PlanStatusFailed
			plan.Error = fmt.Sprintf("failed to encode plan schedule: %v", err)
		} else {
			plan.Status = models.PlanStatusCompleted
			plan.Error = ""
			plan.Title = payload.Title
			plan.CompletedAt = &now
			plan.Schedule = models.JSONBBlob(schedule)
		}
	}

	if err := s.db.WithContext(ctx).Save(&plan).Error; err != nil {
		log.Printf("failed to persist final state for workout plan %s: %v", planID, err)
	}
}

// GetMealPlan loads an owned meal plan.
func (s *PlannerService) GetMealPlan(ctx context.Context, userID, planID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetWorkoutPlan loads an owned workout plan.
func (s *PlannerService) GetWorkoutPlan(ctx context.Context, userID, planID uuid.UUID) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeleteMealPlan removes an owned meal plan. A generation job still running
// for it discards its result on the final write.
func (s *PlannerService) DeleteMealPlan(ctx context.Context, userID, planID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&models.MealPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// DeleteWorkoutPlan removes an owned workout plan.
func (s *PlannerService) DeleteWorkoutPlan(ctx context.Context, userID, planID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&models.WorkoutPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// PlanStatus is the polled view of a plan's progress.
type PlanStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// EffectiveStatus derives the polled status, reporting a plan stuck in
// generating past the staleness window as failed without rewriting it.
func EffectiveStatus(status, errMsg string, startedAt *time.Time) PlanStatus {
	if status == models.PlanStatusGenerating && startedAt != nil && time.Since(*startedAt) > generatingStaleAfter {
		return PlanStatus{
			Status: models.PlanStatusFailed,
			Error:  "generation timed out",
		}
	}
	return PlanStatus{Status: status, Error: errMsg}
}

// LogWorkout records a completed session against an owned workout plan.
func (s *PlannerService) LogWorkout(ctx context.Context, userID, planID uuid.UUID, req *types.LogWorkoutRequest) (*models.WorkoutLog, error) {
	if _, err := s.GetWorkoutPlan(ctx, userID, planID); err != nil {
		return nil, err
	}

	entry := models.WorkoutLog{
		UserID:        userID,
		WorkoutPlanID: planID,
		DayIndex:      req.DayIndex,
		Exercises:     models.JSONBStringArray(req.Exercises),
		Notes:         req.Notes,
		LoggedAt:      time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to persist workout log: %w", err)
	}
	return &entry, nil
}

// ListWorkoutLogs returns the sessions logged against an owned plan, newest
// first.
func (s *PlannerService) ListWorkoutLogs(ctx context.Context, userID, planID uuid.UUID) ([]models.WorkoutLog, error) {
	if _, err := s.GetWorkoutPlan(ctx, userID, planID); err != nil {
		return nil, err
	}

	var logs []models.WorkoutLog
	err := s.db.WithContext(ctx).
		Where("workout_plan_id = ?", planID).
		Order("logged_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
