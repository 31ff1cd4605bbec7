package fitness

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ApexAI/internal/geminiservice"
	"ApexAI/internal/utility"

	"github.com/labstack/echo/v4"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

const (
	defaultLevel     = "beginner"
	defaultFrequency = "3"
	defaultGoal      = "maintain_weight"
	defaultGender    = "unknown"
	defaultMealCount = "3"

	errMissingMealFields = "daily_calories and pfc_ratio are required"
)

// WorkoutPlanRequest is the body of POST /generate_workout_plan. Every field is optional
// and free-form: any JSON scalar is accepted and embedded into the prompt as text.
type WorkoutPlanRequest struct {
	Level              FlexString `json:"level"`
	Frequency          FlexString `json:"frequency"` // integer-like, "3-4" is passed through
	Goal               FlexString `json:"goal"`      // lose_weight, gain_muscle, maintain_weight (not enforced)
	Gender             FlexString `json:"gender"`
	PastWorkoutSummary FlexString `json:"past_workout_summary"`
}

// FlexString decodes any JSON value into its text form. Strings are unquoted,
// numbers keep their literal digits, and null decodes to "".
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	*s = FlexString(compact.String())
	return nil
}

// PFCRatio is the protein/fat/carbohydrate split as fractions of daily calories.
type PFCRatio struct {
	Protein *float64 `json:"protein"`
	Fat     *float64 `json:"fat"`
	Carbs   *float64 `json:"carbs"`

	// keys counts every member of the decoded object, known or not.
	keys int
}

func (p *PFCRatio) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	type plain PFCRatio
	var ratio plain
	if err := json.Unmarshal(data, &ratio); err != nil {
		return err
	}
	*p = PFCRatio(ratio)
	p.keys = len(members)
	return nil
}

// MealPlanRequest is the body of POST /generate_meal_plan.
type MealPlanRequest struct {
	DailyCalories   json.Number `json:"daily_calories"`
	PFCRatio        *PFCRatio   `json:"pfc_ratio"`
	MealCount       json.Number `json:"meal_count"`
	IsPremium       bool        `json:"is_premium"`
	PastMealSummary string      `json:"past_meal_summary"`
}

// ErrorResponse is the body of every failed plan request.
type ErrorResponse struct {
	Error string                  `json:"error"`
	Kind  geminiservice.ErrorKind `json:"kind"`
}

// Params applies defaults for absent or empty fields.
func (r WorkoutPlanRequest) Params() geminiservice.WorkoutParams {
	return geminiservice.WorkoutParams{
		Level:       withDefault(string(r.Level), defaultLevel),
		Frequency:   withDefault(string(r.Frequency), defaultFrequency),
		Goal:        withDefault(string(r.Goal), defaultGoal),
		Gender:      withDefault(string(r.Gender), defaultGender),
		PastSummary: string(r.PastWorkoutSummary),
	}
}

// Validate reports a validation error when calories or the PFC ratio are missing.
// Zero calories and an empty ratio object count as missing; a ratio object with
// only unknown keys does not.
func (r MealPlanRequest) Validate() error {
	if isZeroNumber(r.DailyCalories) || r.PFCRatio.empty() {
		return geminiservice.NewValidationError(errMissingMealFields)
	}
	return nil
}

// Params applies defaults. Call Validate first.
func (r MealPlanRequest) Params() geminiservice.MealParams {
	return geminiservice.MealParams{
		DailyCalories: r.DailyCalories.String(),
		Protein:       r.PFCRatio.value(r.PFCRatio.Protein),
		Fat:           r.PFCRatio.value(r.PFCRatio.Fat),
		Carbs:         r.PFCRatio.value(r.PFCRatio.Carbs),
		MealCount:     withDefault(r.MealCount.String(), defaultMealCount),
		IsPremium:     r.IsPremium,
		PastSummary:   r.PastMealSummary,
	}
}

func (p *PFCRatio) empty() bool {
	return p == nil || (p.keys == 0 && p.Protein == nil && p.Fat == nil && p.Carbs == nil)
}

// value reads one ratio field, treating an absent field as 0.
func (p *PFCRatio) value(field *float64) float64 {
	if p == nil || field == nil {
		return 0
	}
	return *field
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func isZeroNumber(n json.Number) bool {
	if n == "" {
		return true
	}
	f, err := strconv.ParseFloat(string(n), 64)
	return err == nil && f == 0
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// Handler serves the plan endpoints. The planner is shared read-only across requests.
type Handler struct {
	planner *geminiservice.Planner
}

// NewHandler creates the plan handlers around a planner built at startup.
func NewHandler(planner *geminiservice.Planner) *Handler {
	return &Handler{planner: planner}
}

// GenerateWorkoutPlanHandler orchestrates: Bind -> Defaults -> Prompt -> Gemini -> Parse -> Response.
func (h *Handler) GenerateWorkoutPlanHandler(c echo.Context) error {
	logger := utility.LoggerFromContext(c)

	var req WorkoutPlanRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind workout plan request")
		return respondError(c, geminiservice.NewValidationError("invalid request body"))
	}

	params := req.Params()
	logger.Info().
		Str("training_level", params.Level).
		Str("frequency", params.Frequency).
		Str("goal", params.Goal).
		Bool("has_history", params.PastSummary != "").
		Msg("Processing workout plan request")

	plan, err := h.planner.WorkoutPlan(c.Request().Context(), params)
	if err != nil {
		logger.Error().Err(err).Msg("Error generating workout plan")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, plan)
}

// GenerateMealPlanHandler validates the two required fields before calling Gemini.
func (h *Handler) GenerateMealPlanHandler(c echo.Context) error {
	logger := utility.LoggerFromContext(c)

	var req MealPlanRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind meal plan request")
		return respondError(c, geminiservice.NewValidationError("invalid request body"))
	}

	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	params := req.Params()
	logger.Info().
		Str("daily_calories", params.DailyCalories).
		Str("meal_count", params.MealCount).
		Bool("is_premium", params.IsPremium).
		Bool("has_history", params.PastSummary != "").
		Msg("Processing meal plan request")

	plan, err := h.planner.MealPlan(c.Request().Context(), params)
	if err != nil {
		logger.Error().Err(err).Msg("Error generating meal plan")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, plan)
}

// respondError maps a plan failure to its status code. Clients only see the
// safe message; the cause stays in the logs.
func respondError(c echo.Context, err error) error {
	kind := geminiservice.KindOf(err)

	status := http.StatusInternalServerError
	if kind == geminiservice.KindValidation {
		status = http.StatusBadRequest
	}

	msg := "failed to generate plan"
	var pe *geminiservice.PlanError
	if errors.As(err, &pe) && pe.Msg != "" {
		msg = pe.Msg
	}

	return c.JSON(status, ErrorResponse{Error: msg, Kind: kind})
}
