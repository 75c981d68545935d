package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// CreateProfile finishes onboarding. Derived metrics are always computed
// here; client-supplied values never reach the record.
func (s *ProfileService) CreateProfile(ctx context.Context, userID uuid.UUID, req *types.CreateProfileRequest) (*models.UserProfile, error) {
	var existing models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return nil, ErrProfileExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	mealsPerDay := req.MealsPerDay
	if mealsPerDay == 0 {
		mealsPerDay = 3
	}
	allergies := req.Allergies
	if allergies == nil {
		allergies = []string{}
	}

	profile := models.UserProfile{
		UserID:            userID,
		HeightCM:          req.HeightCM,
		WeightKG:          req.WeightKG,
		Age:               req.Age,
		Gender:            req.Gender,
		FitnessLevel:      req.FitnessLevel,
		PrimaryGoal:       req.PrimaryGoal,
		ActivityLevel:     req.ActivityLevel,
		DietaryPreference: req.DietaryPreference,
		Allergies:         models.JSONBStringArray(allergies),
		MealsPerDay:       mealsPerDay,
	}
	ApplyProfileMetrics(&profile)

	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile applies the provided fields and recomputes the derived
// metrics whenever an input to them changed.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	recompute := false
	if req.HeightCM != nil {
		profile.HeightCM = *req.HeightCM
		recompute = true
	}
	if req.WeightKG != nil {
		profile.WeightKG = *req.WeightKG
		recompute = true
	}
	if req.Age != nil {
		profile.Age = *req.Age
		recompute = true
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
		recompute = true
	}
	if req.PrimaryGoal != nil {
		profile.PrimaryGoal = *req.PrimaryGoal
		recompute = true
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = *req.ActivityLevel
		recompute = true
	}
	if req.FitnessLevel != nil {
		profile.FitnessLevel = *req.FitnessLevel
	}
	if req.DietaryPreference != nil {
		profile.DietaryPreference = *req.DietaryPreference
	}
	if req.Allergies != nil {
		profile.Allergies = models.JSONBStringArray(*req.Allergies)
	}
	if req.MealsPerDay != nil {
		profile.MealsPerDay = *req.MealsPerDay
	}

	if recompute {
		ApplyProfileMetrics(profile)
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}
