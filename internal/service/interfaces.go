package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req *types.LoginRequest) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, req *types.CreateProfileRequest) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
}

// IPlannerService defines the interface for plan generation and retrieval
type IPlannerService interface {
	StartMealPlan(ctx context.Context, profile *models.UserProfile, input *types.GenerateMealPlanInput) (*models.MealPlan, error)
	RegenerateMealPlan(ctx context.Context, profile *models.UserProfile, planID uuid.UUID) (*models.MealPlan, error)
	GetMealPlan(ctx context.Context, userID, planID uuid.UUID) (*models.MealPlan, error)
	DeleteMealPlan(ctx context.Context, userID, planID uuid.UUID) error

	StartWorkoutPlan(ctx context.Context, profile *models.UserProfile, input *types.GenerateWorkoutPlanInput) (*models.WorkoutPlan, error)
	RegenerateWorkoutPlan(ctx context.Context, profile *models.UserProfile, planID uuid.UUID) (*models.WorkoutPlan, error)
	GetWorkoutPlan(ctx context.Context, userID, planID uuid.UUID) (*models.WorkoutPlan, error)
	DeleteWorkoutPlan(ctx context.Context, userID, planID uuid.UUID) error

	LogWorkout(ctx context.Context, userID, planID uuid.UUID, req *types.LogWorkoutRequest) (*models.WorkoutLog, error)
	ListWorkoutLogs(ctx context.Context, userID, planID uuid.UUID) ([]models.WorkoutLog, error)
}

var (
	_ AIClient        = (*AIGateway)(nil)
	_ IAuthService    = (*AuthService)(nil)
	_ IProfileService = (*ProfileService)(nil)
	_ IPlannerService = (*PlannerService)(nil)
)
