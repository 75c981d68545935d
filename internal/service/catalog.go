package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// catalogSampleLimit caps how many catalog exercises are fed into a prompt.
const catalogSampleLimit = 120

const catalogCacheTTL = time.Hour

// CatalogExercise is one entry from the external exercise catalog. The ID is
// opaque and passed through to generated plans, never resolved here.
type CatalogExercise struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Muscle    string `json:"muscle"`
	Equipment string `json:"equipment"`
}

// ExerciseCatalog fetches equipment-filtered exercise samples from an
// external catalog API, with a redis snapshot cache in front and a circuit
// breaker around the HTTP call.
type ExerciseCatalog struct {
	baseURL string
	client  *http.Client
	redis   *redis.Client
	breaker *CircuitBreaker
}

// NewExerciseCatalog creates a catalog client. redisClient may be nil, in
// which case caching is skipped. The breaker is required.
func NewExerciseCatalog(baseURL string, redisClient *redis.Client, breaker *CircuitBreaker) *ExerciseCatalog {
	return &ExerciseCatalog{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		redis:   redisClient,
		breaker: breaker,
	}
}

// Sample returns up to catalogSampleLimit exercises matching the equipment
// filter. Failures surface as errors; callers degrade to the static sample.
func (c *ExerciseCatalog) Sample(ctx context.Context, equipment []string) ([]CatalogExercise, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("exercise catalog not configured")
	}

	key := c.cacheKey(equipment)
	if c.redis != nil {
		if data, err := c.redis.Get(ctx, key).Bytes(); err == nil {
			var cached []CatalogExercise
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	if !c.breaker.Allow() {
		return nil, fmt.Errorf("exercise catalog circuit open")
	}

	exercises, err := c.fetch(ctx, equipment)
	if err != nil {
		c.breaker.Failure()
		return nil, err
	}
	c.breaker.Success()

	if len(exercises) > catalogSampleLimit {
		exercises = exercises[:catalogSampleLimit]
	}

	if c.redis != nil {
		if data, err := json.Marshal(exercises); err == nil {
			_ = c.redis.Set(ctx, key, data, catalogCacheTTL).Err()
		}
	}

	return exercises, nil
}

func (c *ExerciseCatalog) fetch(ctx context.Context, equipment []string) ([]CatalogExercise, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}
	if len(equipment) > 0 {
		q := u.Query()
		q.Set("equipment", strings.Join(equipment, ","))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var exercises []CatalogExercise
	if err := json.NewDecoder(resp.Body).Decode(&exercises); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return exercises, nil
}

func (c *ExerciseCatalog) cacheKey(equipment []string) string {
	if len(equipment) == 0 {
		return "catalog:sample:any"
	}
	sorted := append([]string(nil), equipment...)
	sort.Strings(sorted)
	return "catalog:sample:" + strings.Join(sorted, ",")
}

// staticExercises is the embedded fallback used when the catalog is
// unreachable. Small on purpose: enough variety for the model to assemble a
// sensible week with common equipment.
var staticExercises = []CatalogExercise{
	{ID: "0001", Name: "Barbell Back Squat", Muscle: "quads", Equipment: "barbell"},
	{ID: "0002", Name: "Romanian Deadlift", Muscle: "hamstrings", Equipment: "barbell"},
	{ID: "0003", Name: "Barbell Bench Press", Muscle: "chest", Equipment: "barbell"},
	{ID: "0004", Name: "Overhead Press", Muscle: "shoulders", Equipment: "barbell"},
	{ID: "0005", Name: "Barbell Row", Muscle: "back", Equipment: "barbell"},
	{ID: "0006", Name: "Pull-Up", Muscle: "back", Equipment: "bodyweight"},
	{ID: "0007", Name: "Push-Up", Muscle: "chest", Equipment: "bodyweight"},
	{ID: "0008", Name: "Walking Lunge", Muscle: "quads", Equipment: "bodyweight"},
	{ID: "0009", Name: "Plank", Muscle: "core", Equipment: "bodyweight"},
	{ID: "0010", Name: "Dumbbell Shoulder Press", Muscle: "shoulders", Equipment: "dumbbell"},
	{ID: "0011", Name: "Dumbbell Curl", Muscle: "biceps", Equipment: "dumbbell"},
	{ID: "0012", Name: "Dumbbell Lateral Raise", Muscle: "shoulders", Equipment: "dumbbell"},
	{ID: "0013", Name: "Goblet Squat", Muscle: "quads", Equipment: "dumbbell"},
	{ID: "0014", Name: "Dumbbell Romanian Deadlift", Muscle: "hamstrings", Equipment: "dumbbell"},
	{ID: "0015", Name: "Triceps Rope Pushdown", Muscle: "triceps", Equipment: "cable"},
	{ID: "0016", Name: "Lat Pulldown", Muscle: "back", Equipment: "cable"},
	{ID: "0017", Name: "Cable Row", Muscle: "back", Equipment: "cable"},
	{ID: "0018", Name: "Leg Press", Muscle: "quads", Equipment: "machine"},
	{ID: "0019", Name: "Leg Curl", Muscle: "hamstrings", Equipment: "machine"},
	{ID: "0020", Name: "Calf Raise", Muscle: "calves", Equipment: "machine"},
}

// StaticExerciseSample returns the embedded fallback list, filtered by
// equipment when a filter is given.
func StaticExerciseSample(equipment []string) []CatalogExercise {
	if len(equipment) == 0 {
		return staticExercises
	}
	allowed := make(map[string]bool, len(equipment)+1)
	for _, e := range equipment {
		allowed[strings.ToLower(e)] = true
	}
	// Bodyweight movements need no equipment at all.
	allowed["bodyweight"] = true

	var out []CatalogExercise
	for _, ex := range staticExercises {
		if allowed[ex.Equipment] {
			out = append(out, ex)
		}
	}
	if len(out) == 0 {
		return staticExercises
	}
	return out
}
