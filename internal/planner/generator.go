package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/llm"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/profile"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/shared"
)

// generationTimeout bounds each backend round trip so a hung provider cannot
// block the triggering action forever.
const generationTimeout = 2 * time.Minute

var dietaryInstructions = []string{
	"Consider the user's input, including dietary restrictions and preferences.",
	"Suggest a detailed meal plan for the day, including breakfast, lunch, dinner, and snacks.",
	"Provide a brief explanation of why the plan is suited to the user's goals.",
	"Focus on clarity, coherence, and quality of the recommendations.",
}

var fitnessInstructions = []string{
	"Provide exercises tailored to the user's goals.",
	"Include warm-up, main workout, and cool-down exercises.",
	"Explain the benefits of each recommended exercise.",
	"Ensure the plan is actionable and detailed.",
}

const dietConsiderations = `- Hydration: Drink plenty of water throughout the day
- Electrolytes: Monitor sodium, potassium, and magnesium levels
- Fiber: Ensure adequate intake through vegetables and fruits
- Listen to your body: Adjust portion sizes as needed`

const fitnessTips = `- Track your progress regularly
- Allow proper rest between workouts
- Focus on proper form
- Stay consistent with your routine`

// Generator runs the two plan-generation calls against a selectable backend.
type Generator struct {
	registry *llm.Registry
}

// NewGenerator creates a Generator backed by the given registry.
func NewGenerator(registry *llm.Registry) *Generator {
	return &Generator{registry: registry}
}

// Generate builds one profile summary and issues a diet-oriented and a
// fitness-oriented call against the backend registered under backendID. Both
// calls must succeed; any fault or empty response aborts the whole generation
// with a *llm.BackendError and the returned pair must be discarded.
func (g *Generator) Generate(ctx context.Context, backendID string, p profile.Profile) (PlanPair, []shared.AgentMeta, error) {
	gen, err := g.registry.Get(backendID)
	if err != nil {
		return PlanPair{}, nil, fmt.Errorf("failed to resolve backend: %w", err)
	}

	summary := p.Summary()
	var metas []shared.AgentMeta

	dietResp, meta, err := g.run(ctx, gen, backendID, "Dietary Expert", summary, dietaryInstructions)
	metas = append(metas, meta)
	if err != nil {
		return PlanPair{}, metas, fmt.Errorf("dietary plan generation failed: %w", err)
	}

	fitnessResp, meta, err := g.run(ctx, gen, backendID, "Fitness Expert", summary, fitnessInstructions)
	metas = append(metas, meta)
	if err != nil {
		return PlanPair{}, metas, fmt.Errorf("fitness plan generation failed: %w", err)
	}

	pair := PlanPair{
		Diet: DietPlan{
			WhyThisPlanWorks:        "High Protein, Healthy Fats, Moderate Carbohydrates, and Caloric Balance",
			MealPlan:                llm.ScrubHTML(dietResp.Content),
			ImportantConsiderations: dietConsiderations,
		},
		Fitness: FitnessPlan{
			Goals:   "Build strength, improve endurance, and maintain overall fitness",
			Routine: llm.ScrubHTML(fitnessResp.Content),
			Tips:    fitnessTips,
		},
	}
	return pair, metas, nil
}

func (g *Generator) run(ctx context.Context, gen llm.TextGenerator, backendID, agentName, prompt string, instructions []string) (llm.ContentResponse, shared.AgentMeta, error) {
	callCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	start := time.Now()
	resp, err := gen.GenerateContent(callCtx, prompt, instructions)
	meta := shared.AgentMeta{
		AgentName: agentName,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return llm.ContentResponse{}, meta, err
	}
	if resp.Content == "" {
		return llm.ContentResponse{}, meta, &llm.BackendError{Backend: backendID, Err: fmt.Errorf("empty response")}
	}
	return resp, meta, nil
}
