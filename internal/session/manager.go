package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"

	"github.com/google/uuid"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/chat"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/llm"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/planner"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/profile"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/shared"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/storage"
)

var (
	// ErrNotFound marks operations referencing a profile id absent from the
	// stores. Deletes swallow it; loads surface it.
	ErrNotFound = errors.New("profile not found")

	// ErrProfileActive rejects creating a profile while one is active.
	ErrProfileActive = errors.New("a profile is already active")

	// ErrNoActiveProfile rejects plan generation and chat without an active
	// profile.
	ErrNoActiveProfile = errors.New("no active profile")

	// ErrPendingTurn rejects a new question while the previous one is still
	// unanswered, so submitted input is never silently dropped.
	ErrPendingTurn = errors.New("the previous question has not been answered yet")
)

// MetricsRecorder receives execution metadata for every backend call.
type MetricsRecorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// Manager keeps ActiveSessions consistent with the three stores and owns the
// plan-generation and chat workflows. The stores are shared across sessions;
// each connected user holds their own ActiveSession.
type Manager struct {
	profiles storage.Store[profile.Profile]
	plans    storage.Store[planner.PlanPair]
	chats    storage.Store[chat.Transcript]

	registry  *llm.Registry
	generator *planner.Generator
	assistant *chat.Assistant

	defaultBackend string
	metrics        MetricsRecorder
}

// NewManager wires the stores and workflows together. metrics may be nil.
func NewManager(
	profiles storage.Store[profile.Profile],
	plans storage.Store[planner.PlanPair],
	chats storage.Store[chat.Transcript],
	registry *llm.Registry,
	defaultBackend string,
	metrics MetricsRecorder,
) *Manager {
	return &Manager{
		profiles:       profiles,
		plans:          plans,
		chats:          chats,
		registry:       registry,
		generator:      planner.NewGenerator(registry),
		assistant:      chat.NewAssistant(registry),
		defaultBackend: defaultBackend,
		metrics:        metrics,
	}
}

// NewSession returns a fresh ActiveSession on the default backend.
func (m *Manager) NewSession() *ActiveSession {
	return &ActiveSession{Backend: m.defaultBackend}
}

// CreateProfile stores p under a freshly generated id and makes it the active
// profile. The payload must already be validated by the surface. Fails with
// ErrProfileActive when the session already has an active profile.
func (m *Manager) CreateProfile(sess *ActiveSession, p profile.Profile) (profile.Profile, error) {
	if sess.ProfileID != "" {
		return profile.Profile{}, ErrProfileActive
	}

	p.ID = uuid.NewString()
	if err := m.profiles.Put(p.ID, p); err != nil {
		return profile.Profile{}, fmt.Errorf("failed to store profile: %w", err)
	}

	sess.ProfileID = p.ID
	sess.Plans = planner.PlanPair{}
	sess.PlansReady = false
	sess.Transcript = nil

	log.Printf("Created profile %s", p.ID)
	return p, nil
}

// LoadProfile makes id the active profile and fully replaces the cached plan
// pair and transcript from the stores.
func (m *Manager) LoadProfile(sess *ActiveSession, id string) error {
	if _, ok := m.profiles.Get(id); !ok {
		return fmt.Errorf("failed to load profile %s: %w", id, ErrNotFound)
	}

	sess.ProfileID = id

	if pair, ok := m.plans.Get(id); ok {
		sess.Plans = pair
		sess.PlansReady = true
	} else {
		sess.Plans = planner.PlanPair{}
		sess.PlansReady = false
	}

	if transcript, ok := m.chats.Get(id); ok {
		sess.Transcript = transcript
	} else {
		sess.Transcript = nil
	}

	return nil
}

// DeleteProfile removes id from all three stores. Deleting an unknown id is a
// no-op. The session is reset, and the id may be treated as gone, only once
// all three deletions have succeeded; a store failure is returned so the
// caller never observes a partial delete as success.
func (m *Manager) DeleteProfile(sess *ActiveSession, id string) error {
	err := errors.Join(
		m.profiles.Delete(id),
		m.plans.Delete(id),
		m.chats.Delete(id),
	)
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}

	if sess != nil && sess.ProfileID == id {
		sess.reset()
	}
	return nil
}

// ResetForNewProfile clears the session back to its initial empty state so a
// new profile can be created.
func (m *Manager) ResetForNewProfile(sess *ActiveSession) {
	sess.reset()
}

// ResetForRegeneration keeps the active profile but drops the plans-ready
// flag so the next generation overwrites the stored pair.
func (m *Manager) ResetForRegeneration(sess *ActiveSession) {
	sess.PlansReady = false
}

// SelectBackend switches the session's text-generation backend. The switch
// takes effect on the next call; no restart is involved.
func (m *Manager) SelectBackend(sess *ActiveSession, id string) error {
	if _, err := m.registry.Get(id); err != nil {
		return err
	}
	sess.Backend = id
	return nil
}

// Profiles yields every stored profile.
func (m *Manager) Profiles() iter.Seq2[string, profile.Profile] {
	return m.profiles.All()
}

// GeneratePlans runs the plan-generation workflow for the active profile and
// stores the result. A failed generation mutates neither the store nor the
// session: prior plans and the plans-ready flag stay exactly as they were.
func (m *Manager) GeneratePlans(ctx context.Context, sess *ActiveSession) (planner.PlanPair, error) {
	if sess.ProfileID == "" {
		return planner.PlanPair{}, ErrNoActiveProfile
	}
	prof, ok := m.profiles.Get(sess.ProfileID)
	if !ok {
		return planner.PlanPair{}, fmt.Errorf("failed to load profile %s: %w", sess.ProfileID, ErrNotFound)
	}

	pair, metas, err := m.generator.Generate(ctx, sess.Backend, prof)
	m.record(metas...)
	if err != nil {
		return planner.PlanPair{}, err
	}

	if err := m.plans.Put(sess.ProfileID, pair); err != nil {
		return planner.PlanPair{}, fmt.Errorf("failed to store plans: %w", err)
	}
	sess.Plans = pair
	sess.PlansReady = true

	log.Printf("Generated plans for profile %s via %s", sess.ProfileID, sess.Backend)
	return pair, nil
}

// Ask appends the user's question to the transcript and generates the reply.
// When the transcript already ends on an unanswered user turn, re-asking the
// same question resumes that pending turn; a different question is rejected
// with ErrPendingTurn rather than silently discarded.
func (m *Manager) Ask(ctx context.Context, sess *ActiveSession, question string) (string, error) {
	if sess.ProfileID == "" {
		return "", ErrNoActiveProfile
	}

	if sess.Transcript.AwaitingAssistant() {
		if last, _ := sess.Transcript.Last(); last.Content != question {
			return "", ErrPendingTurn
		}
	} else {
		m.appendTurn(sess, chat.Turn{Role: chat.RoleUser, Content: question})
	}
	return m.Respond(ctx, sess)
}

// Respond answers the pending user turn. Exactly one assistant turn is
// appended per pending question, on both the success and failure path: a
// backend fault becomes a visible assistant turn carrying the error text so
// the conversation never stalls. Re-triggering after the reply (or after an
// identical error turn) appends nothing.
func (m *Manager) Respond(ctx context.Context, sess *ActiveSession) (string, error) {
	if sess.ProfileID == "" {
		return "", ErrNoActiveProfile
	}

	last, ok := sess.Transcript.Last()
	if !ok {
		return "", fmt.Errorf("no pending user turn to respond to")
	}
	if last.Role == chat.RoleAssistant {
		// Already answered; a double trigger must not duplicate the turn.
		return last.Content, nil
	}

	history := sess.Transcript[:len(sess.Transcript)-1]
	answer, meta, err := m.assistant.Respond(ctx, sess.Backend, history, sess.Plans, last.Content)
	m.record(meta)
	if err != nil {
		log.Printf("Chat response failed for profile %s: %v", sess.ProfileID, err)
		answer = fmt.Sprintf("Sorry, I encountered an error: %v", err)
	}

	m.appendTurn(sess, chat.Turn{Role: chat.RoleAssistant, Content: answer})
	return answer, nil
}

// ClearChat empties the session transcript and its stored copy.
func (m *Manager) ClearChat(sess *ActiveSession) {
	sess.Transcript = nil
	if sess.ProfileID != "" {
		if err := m.chats.Put(sess.ProfileID, chat.Transcript{}); err != nil {
			log.Printf("Failed to clear stored chat for profile %s: %v", sess.ProfileID, err)
		}
	}
}

// appendTurn keeps the conversation moving even when the stored copy cannot
// be written; the session transcript stays authoritative.
func (m *Manager) appendTurn(sess *ActiveSession, turn chat.Turn) {
	if last, ok := sess.Transcript.Last(); ok &&
		turn.Role == chat.RoleAssistant && last.Role == chat.RoleAssistant && last.Content == turn.Content {
		return
	}
	sess.Transcript = append(sess.Transcript, turn)
	if sess.ProfileID != "" {
		if err := m.chats.Put(sess.ProfileID, sess.Transcript); err != nil {
			log.Printf("Failed to store chat for profile %s: %v", sess.ProfileID, err)
		}
	}
}

func (m *Manager) record(metas ...shared.AgentMeta) {
	if m.metrics == nil {
		return
	}
	for _, meta := range metas {
		if err := m.metrics.RecordMeta(meta); err != nil {
			log.Printf("Failed to record metrics for %s: %v", meta.AgentName, err)
		}
	}
}
