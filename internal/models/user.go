package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile holds the physical and fitness attributes collected at
// onboarding plus the derived energy/macro targets. Derived fields are
// recomputed whenever a physical or goal field changes.
type UserProfile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HeightCM          float64          `gorm:"not null" json:"height_cm"`
	WeightKG          float64          `gorm:"not null" json:"weight_kg"`
	Age               int              `gorm:"not null" json:"age"`
	Gender            string           `gorm:"size:20;not null" json:"gender"`
	FitnessLevel      string           `gorm:"size:20;not null;default:'beginner'" json:"fitness_level"`
	PrimaryGoal       string           `gorm:"size:30;not null" json:"primary_goal"`
	ActivityLevel     string           `gorm:"size:30;not null" json:"activity_level"`
	DietaryPreference string           `gorm:"size:50" json:"dietary_preference"`
	Allergies         JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	MealsPerDay       int              `gorm:"not null;default:3" json:"meals_per_day"`

	// Derived metrics, computed server-side.
	BMR            int `json:"bmr"`
	TDEE           int `json:"tdee"`
	TargetCalories int `json:"target_calories"`
	ProteinG       int `json:"protein_g"`
	CarbsG         int `json:"carbs_g"`
	FatG           int `json:"fat_g"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
