package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("register and login", func(t *testing.T) {
		token := registerTestUser(t, env.Router, "migo@example.com")
		assert.NotEmpty(t, token)

		w := performRequest(env.Router, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "migo@example.com",
			"password": "password123",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPost, "/api/v1/auth/register", map[string]string{
			"name":     "Again",
			"email":    "migo@example.com",
			"password": "password123",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "migo@example.com",
			"password": "wrong-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPost, "/api/v1/auth/register", map[string]string{
			"name":     "Short",
			"email":    "short@example.com",
			"password": "short",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	token := registerTestUser(t, env.Router, "profile@example.com")

	t.Run("requires authentication", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodGet, "/api/v1/profile", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing profile is 404", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodGet, "/api/v1/profile", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("create computes metrics", func(t *testing.T) {
		createTestProfile(t, env.Router, token)

		w := performRequest(env.Router, http.MethodGet, "/api/v1/profile", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var profile struct {
			BMR            int `json:"bmr"`
			TDEE           int `json:"tdee"`
			TargetCalories int `json:"target_calories"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.Equal(t, 1649, profile.BMR)
		assert.Equal(t, 2556, profile.TDEE)
		assert.Equal(t, 2856, profile.TargetCalories)
	})

	t.Run("second create conflicts", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPost, "/api/v1/profile", map[string]interface{}{
			"height_cm":      175,
			"weight_kg":      70,
			"age":            30,
			"gender":         "male",
			"fitness_level":  "intermediate",
			"primary_goal":   "muscle_gain",
			"activity_level": "moderately_active",
		}, token)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("out-of-range update is rejected", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPut, "/api/v1/profile", map[string]interface{}{
			"age": 12,
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update recomputes metrics", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPut, "/api/v1/profile", map[string]interface{}{
			"weight_kg": 80,
		}, token)
		require.Equal(t, http.StatusOK, w.Code)

		var profile struct {
			BMR int `json:"bmr"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.Equal(t, 1749, profile.BMR)
	})
}

func TestMealPlanEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	token := registerTestUser(t, env.Router, "meal@example.com")

	t.Run("generation without a profile is rejected", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPost, "/api/v1/plans/meal/generate", map[string]interface{}{}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	createTestProfile(t, env.Router, token)

	var planID string
	t.Run("generate then poll to completion", func(t *testing.T) {
		env.AI.responses = []string{mealPayloadJSON(t, 3)}

		w := performRequest(env.Router, http.MethodPost, "/api/v1/plans/meal/generate", map[string]interface{}{}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "generating", resp.Status)
		planID = resp.ID

		drainRunner(t, env)

		w = performRequest(env.Router, http.MethodGet, "/api/v1/plans/meal/"+planID+"/status", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		var status struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "completed", status.Status)
	})

	t.Run("completed plan carries seven days", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodGet, "/api/v1/plans/meal/"+planID, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var plan struct {
			Days []struct {
				DayIndex int `json:"dayIndex"`
				Meals    []struct {
					Name string `json:"name"`
				} `json:"meals"`
			} `json:"days"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
		require.Len(t, plan.Days, 7)
		assert.Len(t, plan.Days[0].Meals, 3)
	})

	t.Run("regenerate reuses the record", func(t *testing.T) {
		env.AI.responses = []string{mealPayloadJSON(t, 3)}

		w := performRequest(env.Router, http.MethodPost, "/api/v1/plans/meal/"+planID+"/regenerate", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, planID, resp.ID)
		drainRunner(t, env)
	})

	t.Run("failed generation surfaces through status", func(t *testing.T) {
		env2 := setupTestEnv(t)
		token2 := registerTestUser(t, env2.Router, "fail@example.com")
		createTestProfile(t, env2.Router, token2)
		env2.AI.err = fmt.Errorf("deepseek request failed with status 500")

		w := performRequest(env2.Router, http.MethodPost, "/api/v1/plans/meal/generate", map[string]interface{}{}, token2)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		drainRunner(t, env2)

		w = performRequest(env2.Router, http.MethodGet, "/api/v1/plans/meal/"+resp.ID+"/status", nil, token2)
		require.Equal(t, http.StatusOK, w.Code)
		var status struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "failed", status.Status)
		assert.NotEmpty(t, status.Error)
	})

	t.Run("foreign plan is invisible", func(t *testing.T) {
		other := registerTestUser(t, env.Router, "other@example.com")
		w := performRequest(env.Router, http.MethodGet, "/api/v1/plans/meal/"+planID, nil, other)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete then 404", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodDelete, "/api/v1/plans/meal/"+planID, nil, token)
		assert.Equal(t, http.StatusOK, w.Code)

		w = performRequest(env.Router, http.MethodGet, "/api/v1/plans/meal/"+planID, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed plan id is 404", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodGet, "/api/v1/plans/meal/not-a-uuid", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWorkoutPlanEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	token := registerTestUser(t, env.Router, "workout@example.com")
	createTestProfile(t, env.Router, token)

	t.Run("days per week is required", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPost, "/api/v1/plans/workout/generate", map[string]interface{}{}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("custom split needs assignments", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPost, "/api/v1/plans/workout/generate", map[string]interface{}{
			"days_per_week": 4,
			"split":         "custom",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var planID string
	t.Run("generate then poll to completion", func(t *testing.T) {
		env.AI.responses = []string{workoutPayloadJSON(t, 4)}

		w := performRequest(env.Router, http.MethodPost, "/api/v1/plans/workout/generate", map[string]interface{}{
			"days_per_week": 4,
			"split":         "upper_lower",
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "generating", resp.Status)
		planID = resp.ID

		drainRunner(t, env)

		w = performRequest(env.Router, http.MethodGet, "/api/v1/plans/workout/"+planID+"/status", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		var status struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "completed", status.Status)
	})

	t.Run("log a session and list it", func(t *testing.T) {
		w := performRequest(env.Router, http.MethodPost, "/api/v1/plans/workout/"+planID+"/logs", map[string]interface{}{
			"day_index": 0,
			"exercises": []string{"Barbell Squat"},
			"notes":     "heavy but clean",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = performRequest(env.Router, http.MethodGet, "/api/v1/plans/workout/"+planID+"/logs", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var logs []struct {
			Notes string `json:"notes"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
		require.Len(t, logs, 1)
		assert.Equal(t, "heavy but clean", logs[0].Notes)
	})

	t.Run("log against foreign plan is 404", func(t *testing.T) {
		other := registerTestUser(t, env.Router, "intruder@example.com")
		w := performRequest(env.Router, http.MethodPost, "/api/v1/plans/workout/"+planID+"/logs", map[string]interface{}{
			"day_index": 0,
		}, other)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
