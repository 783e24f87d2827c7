package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/llm"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/planner"
)

type mockTextGenerator struct {
	lastPrompt       string
	lastInstructions []string
	content          string
	err              error
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string, instructions []string) (llm.ContentResponse, error) {
	m.lastPrompt = prompt
	m.lastInstructions = instructions
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{Content: m.content}, nil
}

func newTestAssistant(mock *mockTextGenerator) *Assistant {
	reg := llm.NewRegistry()
	reg.Register("mock", mock)
	return NewAssistant(reg)
}

func testPair() planner.PlanPair {
	return planner.PlanPair{
		Diet:    planner.DietPlan{MealPlan: "Oats for breakfast, chicken for lunch."},
		Fitness: planner.FitnessPlan{Routine: "Squats and a 20 minute jog."},
	}
}

func TestRespond(t *testing.T) {
	mock := &mockTextGenerator{content: "Aim for roughly 2800 kcal per day."}
	assistant := newTestAssistant(mock)

	transcript := Transcript{
		{Role: RoleUser, Content: "What should I eat before training?"},
		{Role: RoleAssistant, Content: "A light carb-heavy snack."},
	}

	answer, meta, err := assistant.Respond(context.Background(), "mock", transcript, testPair(), "How many calories should I eat?")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if answer != "Aim for roughly 2800 kcal per day." {
		t.Errorf("Unexpected answer: '%s'", answer)
	}
	if meta.AgentName != "Health & Fitness Assistant" {
		t.Errorf("Unexpected agent name: '%s'", meta.AgentName)
	}

	for _, want := range []string{
		"Dietary Plan: Oats for breakfast, chicken for lunch.",
		"Fitness Plan: Squats and a 20 minute jog.",
		"User Question: How many calories should I eat?",
		"user: What should I eat before training?",
		"assistant: A light carb-heavy snack.",
	} {
		if !strings.Contains(mock.lastPrompt, want) {
			t.Errorf("Expected prompt to contain '%s', got:\n%s", want, mock.lastPrompt)
		}
	}
	if len(mock.lastInstructions) == 0 {
		t.Error("Expected assistant instructions to be passed to the backend")
	}
}

func TestRespond_EmptyPlanPair(t *testing.T) {
	mock := &mockTextGenerator{content: "Here is some general advice."}
	assistant := newTestAssistant(mock)

	_, _, err := assistant.Respond(context.Background(), "mock", nil, planner.PlanPair{}, "Any tips?")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.Contains(mock.lastPrompt, "No dietary plan has been generated yet.") {
		t.Error("Expected placeholder dietary context for an empty pair")
	}
	if !strings.Contains(mock.lastPrompt, "No fitness plan has been generated yet.") {
		t.Error("Expected placeholder fitness context for an empty pair")
	}
	if !strings.Contains(mock.lastPrompt, "(none)") {
		t.Error("Expected empty history marker")
	}
}

func TestRespond_BackendFault(t *testing.T) {
	mock := &mockTextGenerator{err: &llm.BackendError{Backend: "mock", Err: errors.New("rate limited")}}
	assistant := newTestAssistant(mock)

	_, _, err := assistant.Respond(context.Background(), "mock", nil, testPair(), "Hello?")
	if err == nil {
		t.Fatal("Expected an error when the backend fails")
	}
	var be *llm.BackendError
	if !errors.As(err, &be) {
		t.Errorf("Expected a BackendError, got %v", err)
	}
}

func TestRespond_EmptyContent(t *testing.T) {
	mock := &mockTextGenerator{content: ""}
	assistant := newTestAssistant(mock)

	_, _, err := assistant.Respond(context.Background(), "mock", nil, testPair(), "Hello?")
	if err == nil {
		t.Fatal("Expected an error for empty content")
	}
}

func TestTranscriptStates(t *testing.T) {
	var transcript Transcript

	if transcript.AwaitingAssistant() {
		t.Error("Empty transcript should be awaiting the user")
	}

	transcript = append(transcript, Turn{Role: RoleUser, Content: "hi"})
	if !transcript.AwaitingAssistant() {
		t.Error("Transcript ending on a user turn should be awaiting the assistant")
	}

	transcript = append(transcript, Turn{Role: RoleAssistant, Content: "hello"})
	if transcript.AwaitingAssistant() {
		t.Error("Transcript ending on an assistant turn should be awaiting the user")
	}

	last, ok := transcript.Last()
	if !ok || last.Role != RoleAssistant {
		t.Errorf("Unexpected last turn: %+v", last)
	}
}
