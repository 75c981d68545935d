package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

// payloadValidator checks struct tags on the payload types. One shared
// instance; validator instances cache struct metadata. Field names in error
// namespaces come from the json tags so reported paths match the wire casing.
var payloadValidator = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError reports the offending field paths after repair failed to
// produce a schema-valid payload.
type ValidationError struct {
	Paths []string
}

func (e *ValidationError) Error() string {
	return "payload validation failed: " + strings.Join(e.Paths, "; ")
}

// ParseMealPlanPayload repairs and validates raw model output into a
// MealPlanPayload. mealsPerDay is the exact meal count every day must carry.
// A truncated response that fails validation surfaces ErrTruncatedResponse
// so the caller can attempt a fallback generation pass.
func ParseMealPlanPayload(raw string, mealsPerDay int) (*types.MealPlanPayload, error) {
	res, err := RepairJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload types.MealPlanPayload
	if err := json.Unmarshal([]byte(res.JSON), &payload); err != nil {
		if res.Completed {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedResponse, err)
		}
		return nil, fmt.Errorf("decode meal plan payload: %w", err)
	}

	if err := validateMealPayload(&payload, mealsPerDay); err != nil {
		if res.Completed {
			// The shape broke because the response was cut short, not
			// because the model misunderstood the schema.
			return nil, fmt.Errorf("%w: %v", ErrTruncatedResponse, err)
		}
		return nil, err
	}

	return &payload, nil
}

// ParseWorkoutPlanPayload repairs and validates raw model output into a
// WorkoutPlanPayload consistent with the requested training-day count.
func ParseWorkoutPlanPayload(raw string, daysPerWeek int) (*types.WorkoutPlanPayload, error) {
	res, err := RepairJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload types.WorkoutPlanPayload
	if err := json.Unmarshal([]byte(res.JSON), &payload); err != nil {
		if res.Completed {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedResponse, err)
		}
		return nil, fmt.Errorf("decode workout plan payload: %w", err)
	}

	if err := validateWorkoutPayload(&payload, daysPerWeek); err != nil {
		if res.Completed {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedResponse, err)
		}
		return nil, err
	}

	return &payload, nil
}

func validateMealPayload(p *types.MealPlanPayload, mealsPerDay int) error {
	paths := tagViolations(p)

	if len(p.Days) == 7 {
		seen := make(map[int]bool, 7)
		for i, day := range p.Days {
			if day.DayIndex >= 0 && day.DayIndex <= 6 {
				if seen[day.DayIndex] {
					paths = append(paths, fmt.Sprintf("days[%d].dayIndex: duplicate day %d", i, day.DayIndex))
				}
				seen[day.DayIndex] = true
			}
			if mealsPerDay > 0 && len(day.Meals) != mealsPerDay {
				paths = append(paths, fmt.Sprintf("days[%d].meals: expected %d meals, got %d", i, mealsPerDay, len(day.Meals)))
			}
		}
	}

	if len(paths) > 0 {
		return &ValidationError{Paths: paths}
	}
	return nil
}

func validateWorkoutPayload(p *types.WorkoutPlanPayload, daysPerWeek int) error {
	paths := tagViolations(p)

	if len(p.Schedule) == 7 {
		seen := make(map[int]bool, 7)
		training := 0
		for i, day := range p.Schedule {
			if day.DayIndex >= 0 && day.DayIndex <= 6 {
				if seen[day.DayIndex] {
					paths = append(paths, fmt.Sprintf("schedule[%d].dayIndex: duplicate day %d", i, day.DayIndex))
				}
				seen[day.DayIndex] = true
			}
			switch {
			case day.Rest && len(day.Blocks) > 0:
				paths = append(paths, fmt.Sprintf("schedule[%d]: rest day must not carry blocks", i))
			case !day.Rest && len(day.Blocks) == 0:
				paths = append(paths, fmt.Sprintf("schedule[%d].blocks: training day has no blocks", i))
			case !day.Rest:
				training++
			}
		}
		if daysPerWeek > 0 && training != daysPerWeek {
			paths = append(paths, fmt.Sprintf("schedule: expected %d training days, got %d", daysPerWeek, training))
		}
	}

	if len(paths) > 0 {
		return &ValidationError{Paths: paths}
	}
	return nil
}

// tagViolations runs the struct-tag validator and flattens the result into
// json-ish field paths.
func tagViolations(payload interface{}) []string {
	err := payloadValidator.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	paths := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace looks like "MealPlanPayload.days[2].meals[0].name";
		// drop the root struct name to leave a payload-relative path.
		ns := fe.Namespace()
		if idx := strings.IndexByte(ns, '.'); idx >= 0 {
			ns = ns[idx+1:]
		}
		paths = append(paths, fmt.Sprintf("%s: failed %q constraint", ns, fe.Tag()))
	}
	return paths
}
