package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan statuses. A plan is created in generating and moves to exactly one
// terminal state per orchestrator run; only regeneration re-enters generating.
const (
	PlanStatusGenerating = "generating"
	PlanStatusCompleted  = "completed"
	PlanStatusFailed     = "failed"
)

// JSONBBlob stores an arbitrary JSON document (payload days/schedule,
// preferences) in a JSONB column.
type JSONBBlob json.RawMessage

// Value implements the driver.Valuer interface
func (b JSONBBlob) Value() (driver.Value, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return []byte(b), nil
}

// Scan implements the sql.Scanner interface
func (b *JSONBBlob) Scan(value interface{}) error {
	if value == nil {
		*b = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*b = append((*b)[0:0], v...)
	case string:
		*b = JSONBBlob(v)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", value)
	}
	return nil
}

// MarshalJSON keeps the stored document inline instead of base64.
func (b JSONBBlob) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *JSONBBlob) UnmarshalJSON(data []byte) error {
	*b = append((*b)[0:0], data...)
	return nil
}

// MealPlan is one user's meal plan for one ISO week. At most one row exists
// per user per week-start date.
type MealPlan struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_meal_plans_user_week" json:"user_id"`
	WeekStart time.Time `gorm:"not null;uniqueIndex:idx_meal_plans_user_week" json:"week_start"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title          string `gorm:"size:255" json:"title"`
	Goal           string `gorm:"size:30" json:"goal"`
	TargetCalories int    `json:"target_calories"`
	ProteinG       int    `json:"protein_g"`
	CarbsG         int    `json:"carbs_g"`
	FatG           int    `json:"fat_g"`
	MealsPerDay    int    `json:"meals_per_day"`

	Status      string     `gorm:"size:20;not null;default:'generating'" json:"status"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Days        JSONBBlob `gorm:"type:jsonb" json:"days,omitempty"`
	Preferences JSONBBlob `gorm:"type:jsonb" json:"preferences,omitempty"`
}

func (m *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// WorkoutPlan mirrors MealPlan for workout generation.
type WorkoutPlan struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workout_plans_user_week" json:"user_id"`
	WeekStart time.Time `gorm:"not null;uniqueIndex:idx_workout_plans_user_week" json:"week_start"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `gorm:"size:255" json:"title"`
	Focus       string `gorm:"size:30" json:"focus"`
	Split       string `gorm:"size:30" json:"split"`
	DaysPerWeek int    `json:"days_per_week"`

	Status      string     `gorm:"size:20;not null;default:'generating'" json:"status"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Schedule    JSONBBlob `gorm:"type:jsonb" json:"schedule,omitempty"`
	Preferences JSONBBlob `gorm:"type:jsonb" json:"preferences,omitempty"`
}

func (w *WorkoutPlan) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WorkoutLog records a completed session logged against a workout plan.
type WorkoutLog struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	WorkoutPlanID uuid.UUID        `gorm:"type:uuid;not null;index" json:"workout_plan_id"`
	DayIndex      int              `gorm:"not null" json:"day_index"`
	Exercises     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"exercises"`
	Notes         string           `gorm:"type:text" json:"notes"`
	LoggedAt      time.Time        `gorm:"not null" json:"logged_at"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (l *WorkoutLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
