package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doofx0071/gym-bro-sub000/internal/api"
	"github.com/doofx0071/gym-bro-sub000/internal/models"
	"github.com/doofx0071/gym-bro-sub000/internal/router"
	"github.com/doofx0071/gym-bro-sub000/internal/service"
	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeGateway scripts AI responses for handler-level tests.
type fakeGateway struct {
	mu        sync.Mutex
	responses []string
	err       error
}

func (f *fakeGateway) Call(ctx context.Context, messages []service.ChatMessage, opts service.CallOptions) (*service.CallResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return nil, fmt.Errorf("unscripted AI call")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return &service.CallResult{Content: next, Provider: "deepseek", Model: "deepseek-chat"}, nil
}

// testEnv bundles everything a handler test touches.
type testEnv struct {
	Router *gin.Engine
	DB     *gorm.DB
	Runner *service.TaskRunner
	AI     *fakeGateway
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.MealPlan{},
		&models.WorkoutPlan{},
		&models.WorkoutLog{},
	))

	ai := &fakeGateway{}
	runner := service.NewTaskRunner()

	authService := service.NewAuthService(db, "test-secret")
	profileService := service.NewProfileService(db)
	plannerService := service.NewPlannerService(db, ai, service.NewPromptBuilder(nil), runner)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewProfileHandler(profileService),
		api.NewPlanHandler(plannerService, profileService),
		authService,
		nil,
	)

	return &testEnv{Router: engine, DB: db, Runner: runner, AI: ai}
}

// performRequest issues a JSON request against the test router.
func performRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerTestUser registers a fresh account and returns its token.
func registerTestUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := performRequest(r, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createTestProfile completes onboarding for the given token.
func createTestProfile(t *testing.T, r *gin.Engine, token string) {
	t.Helper()
	w := performRequest(r, http.MethodPost, "/api/v1/profile", map[string]interface{}{
		"height_cm":      175,
		"weight_kg":      70,
		"age":            30,
		"gender":         "male",
		"fitness_level":  "intermediate",
		"primary_goal":   "muscle_gain",
		"activity_level": "moderately_active",
		"meals_per_day":  3,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func drainRunner(t *testing.T, env *testEnv) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, env.Runner.Drain(ctx))
}

// mealPayloadJSON builds a schema-valid AI meal response.
func mealPayloadJSON(t *testing.T, mealsPerDay int) string {
	t.Helper()
	labels := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	payload := types.MealPlanPayload{Title: "Test Meal Plan"}
	for i, label := range labels {
		day := types.MealDay{DayIndex: i, DayLabel: label}
		for m := 0; m < mealsPerDay; m++ {
			day.Meals = append(day.Meals, types.Meal{
				Name:         fmt.Sprintf("%s meal %d", label, m+1),
				Type:         "lunch",
				Ingredients:  []string{"chicken", "rice"},
				Instructions: []string{"cook"},
				Macros:       types.MealMacros{Calories: 600, Protein: 40, Carbs: 60, Fat: 15},
			})
		}
		payload.Days = append(payload.Days, day)
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(raw)
}

// workoutPayloadJSON builds a schema-valid AI workout response with the
// given number of training days.
func workoutPayloadJSON(t *testing.T, daysPerWeek int) string {
	t.Helper()
	labels := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	payload := types.WorkoutPlanPayload{Title: "Test Workout Plan", Split: "full_body", DaysPerWeek: daysPerWeek}
	id := "0001"
	for i, label := range labels {
		day := types.WorkoutDay{DayIndex: i, DayLabel: label, Rest: i >= daysPerWeek}
		if !day.Rest {
			day.Blocks = []types.WorkoutBlock{{
				Type: "main",
				Exercises: []types.WorkoutExercise{{
					ExerciseID:  &id,
					Name:        "Barbell Squat",
					Sets:        3,
					Reps:        "8-10",
					RestSeconds: 120,
				}},
			}}
		}
		payload.Schedule = append(payload.Schedule, day)
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(raw)
}
