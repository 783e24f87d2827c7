package chat

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"
	"time"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/llm"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/planner"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/shared"
)

//go:embed assistant_prompt.md
var assistantPrompt string

// responseTimeout bounds the single backend round trip per user turn.
const responseTimeout = 2 * time.Minute

var assistantInstructions = []string{
	"Answer questions about the user's dietary and fitness plans.",
	"Provide helpful, actionable advice.",
	"Be friendly and encouraging.",
	"If asked about something not in the plans, make reasonable recommendations based on their profile.",
}

type promptData struct {
	MealPlan string
	Routine  string
	Question string
	History  []Turn
}

// Assistant answers questions grounded in a profile's generated plans.
type Assistant struct {
	registry *llm.Registry
	tmpl     *template.Template
}

// NewAssistant creates an Assistant backed by the given registry.
func NewAssistant(registry *llm.Registry) *Assistant {
	return &Assistant{
		registry: registry,
		tmpl:     template.Must(template.New("assistant").Parse(assistantPrompt)),
	}
}

// Respond answers the question in one backend call. The transcript is the
// conversation so far, excluding the question being asked; the plan pair may
// be empty, in which case placeholder context is substituted. The caller owns
// appending both sides of the exchange to the stored transcript.
func (a *Assistant) Respond(ctx context.Context, backendID string, transcript Transcript, pair planner.PlanPair, question string) (string, shared.AgentMeta, error) {
	gen, err := a.registry.Get(backendID)
	if err != nil {
		return "", shared.AgentMeta{}, fmt.Errorf("failed to resolve backend: %w", err)
	}

	prompt, err := a.buildPrompt(transcript, pair, question)
	if err != nil {
		return "", shared.AgentMeta{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, responseTimeout)
	defer cancel()

	start := time.Now()
	resp, err := gen.GenerateContent(callCtx, prompt, assistantInstructions)
	meta := shared.AgentMeta{
		AgentName: "Health & Fitness Assistant",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return "", meta, err
	}
	if resp.Content == "" {
		return "", meta, &llm.BackendError{Backend: backendID, Err: fmt.Errorf("empty response")}
	}

	return llm.ScrubHTML(resp.Content), meta, nil
}

func (a *Assistant) buildPrompt(transcript Transcript, pair planner.PlanPair, question string) (string, error) {
	data := promptData{
		MealPlan: pair.Diet.MealPlan,
		Routine:  pair.Fitness.Routine,
		Question: question,
		History:  transcript,
	}
	if data.MealPlan == "" {
		data.MealPlan = "No dietary plan has been generated yet."
	}
	if data.Routine == "" {
		data.Routine = "No fitness plan has been generated yet."
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build assistant prompt: %w", err)
	}
	return buf.String(), nil
}
