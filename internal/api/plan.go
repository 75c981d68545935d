package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
	"github.com/doofx0071/gym-bro-sub000/internal/service"
	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

type PlanHandler struct {
	planner        service.IPlannerService
	profileService service.IProfileService
}

func NewPlanHandler(planner service.IPlannerService, profileService service.IProfileService) *PlanHandler {
	return &PlanHandler{planner: planner, profileService: profileService}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	meal := router.Group("/plans/meal")
	{
		meal.POST("/generate", h.GenerateMealPlan)
		meal.POST("/:id/regenerate", h.RegenerateMealPlan)
		meal.GET("/:id/status", h.MealPlanStatus)
		meal.GET("/:id", h.GetMealPlan)
		meal.DELETE("/:id", h.DeleteMealPlan)
	}

	workout := router.Group("/plans/workout")
	{
		workout.POST("/generate", h.GenerateWorkoutPlan)
		workout.POST("/:id/regenerate", h.RegenerateWorkoutPlan)
		workout.GET("/:id/status", h.WorkoutPlanStatus)
		workout.GET("/:id", h.GetWorkoutPlan)
		workout.DELETE("/:id", h.DeleteWorkoutPlan)
		workout.POST("/:id/logs", h.LogWorkout)
		workout.GET("/:id/logs", h.ListWorkoutLogs)
	}
}

// generateResponse is the immediate reply to a generation request; the
// client polls the status endpoint for the outcome.
type generateResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// requireProfile loads the caller's profile, which every generation request
// needs for targets and prompts.
func (h *PlanHandler) requireProfile(c *gin.Context) (*models.UserProfile, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if errors.Is(err, service.ErrProfileNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete your profile before generating plans"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return nil, false
	}
	return profile, true
}

func planIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *PlanHandler) GenerateMealPlan(c *gin.Context) {
	profile, ok := h.requireProfile(c)
	if !ok {
		return
	}

	// All generation preferences are optional; an empty body means profile
	// defaults.
	var input types.GenerateMealPlanInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.planner.StartMealPlan(c.Request.Context(), profile, &input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start meal plan generation"})
		return
	}

	c.JSON(http.StatusOK, generateResponse{ID: plan.ID, Status: plan.Status})
}

func (h *PlanHandler) RegenerateMealPlan(c *gin.Context) {
	profile, ok := h.requireProfile(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	plan, err := h.planner.RegenerateMealPlan(c.Request.Context(), profile, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start meal plan regeneration"})
		return
	}

	c.JSON(http.StatusOK, generateResponse{ID: plan.ID, Status: plan.Status})
}

func (h *PlanHandler) MealPlanStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	plan, err := h.planner.GetMealPlan(c.Request.Context(), userID, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, service.EffectiveStatus(plan.Status, plan.Error, plan.StartedAt))
}

func (h *PlanHandler) GetMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	plan, err := h.planner.GetMealPlan(c.Request.Context(), userID, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) DeleteMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	err := h.planner.DeleteMealPlan(c.Request.Context(), userID, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}

func (h *PlanHandler) GenerateWorkoutPlan(c *gin.Context) {
	profile, ok := h.requireProfile(c)
	if !ok {
		return
	}

	var input types.GenerateWorkoutPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if input.Split == "custom" && len(input.CustomSplit) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "custom split requires day assignments"})
		return
	}

	plan, err := h.planner.StartWorkoutPlan(c.Request.Context(), profile, &input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start workout plan generation"})
		return
	}

	c.JSON(http.StatusOK, generateResponse{ID: plan.ID, Status: plan.Status})
}

func (h *PlanHandler) RegenerateWorkoutPlan(c *gin.Context) {
	profile, ok := h.requireProfile(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	plan, err := h.planner.RegenerateWorkoutPlan(c.Request.Context(), profile, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start workout plan regeneration"})
		return
	}

	c.JSON(http.StatusOK, generateResponse{ID: plan.ID, Status: plan.Status})
}

func (h *PlanHandler) WorkoutPlanStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	plan, err := h.planner.GetWorkoutPlan(c.Request.Context(), userID, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, service.EffectiveStatus(plan.Status, plan.Error, plan.StartedAt))
}

func (h *PlanHandler) GetWorkoutPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	plan, err := h.planner.GetWorkoutPlan(c.Request.Context(), userID, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) DeleteWorkoutPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	err := h.planner.DeleteWorkoutPlan(c.Request.Context(), userID, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}

func (h *PlanHandler) LogWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	var req types.LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.planner.LogWorkout(c.Request.Context(), userID, planID, &req)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log workout"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *PlanHandler) ListWorkoutLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	logs, err := h.planner.ListWorkoutLogs(c.Request.Context(), userID, planID)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workout logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
