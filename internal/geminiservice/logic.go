package geminiservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ErrorKind classifies why a plan could not be produced.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindUpstream   ErrorKind = "upstream"
	KindParse      ErrorKind = "parse"
)

// PlanError is the failure half of a plan result. Msg is safe to show to
// clients; Err keeps the underlying cause for logs.
type PlanError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *PlanError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a problem with the caller's input.
func NewValidationError(msg string) *PlanError {
	return &PlanError{Kind: KindValidation, Msg: msg}
}

// KindOf returns the kind of a PlanError in err's chain, or KindUpstream for
// anything else.
func KindOf(err error) ErrorKind {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUpstream
}

// Planner turns plan parameters into parsed JSON plans. It is built once at
// startup and holds no mutable state.
type Planner struct {
	gen     Generator
	workout GenerationSettings
	meal    GenerationSettings
}

// NewPlanner wires a Generator with the default and meal generation settings.
func NewPlanner(gen Generator) *Planner {
	return &Planner{
		gen:     gen,
		workout: DefaultSettings(),
		meal:    MealSettings(),
	}
}

// WorkoutPlan generates a weekly workout plan, typically a list of day objects.
func (p *Planner) WorkoutPlan(ctx context.Context, params WorkoutParams) (any, error) {
	return p.generateAndParse(ctx, "WorkoutPlan", BuildWorkoutPrompt(params), p.workout)
}

// MealPlan generates a one-day meal plan, typically a list of meal objects.
func (p *Planner) MealPlan(ctx context.Context, params MealParams) (any, error) {
	return p.generateAndParse(ctx, "MealPlan", BuildMealPrompt(params), p.meal)
}

// generateAndParse calls the model, strips fences and decodes the reply.
func (p *Planner) generateAndParse(ctx context.Context, name, prompt string, settings GenerationSettings) (any, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("plan", name).Str("prompt", promptPreview(prompt)).Msg("Sending prompt to Gemini")

	raw, err := p.gen.Generate(ctx, prompt, settings)
	if err != nil {
		return nil, &PlanError{Kind: KindUpstream, Msg: "failed to generate plan", Err: err}
	}

	plan, err := decodePlan(ExtractJSON(raw))
	if err != nil {
		return nil, &PlanError{Kind: KindParse, Msg: "model reply was not valid JSON", Err: err}
	}

	logger.Info().Str("plan", name).Msg("Successfully generated and parsed plan")
	return plan, nil
}

// decodePlan parses exactly one JSON value. Numbers stay json.Number so large
// integers are re-encoded with their original digits.
func decodePlan(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var plan any
	if err := dec.Decode(&plan); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the top-level JSON value")
	}
	return plan, nil
}
