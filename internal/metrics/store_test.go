package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/database"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "metrics.db")
	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestRecordAndDailyUsage(t *testing.T) {
	store := newTestStore(t)

	err := store.Record(ExecutionMetric{
		AgentName:        "Dietary Expert",
		Model:            "llama-3.3-70b-versatile",
		PromptTokens:     120,
		CompletionTokens: 450,
		LatencyMS:        900,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	err = store.Record(ExecutionMetric{
		AgentName:        "Fitness Expert",
		Model:            "llama-3.3-70b-versatile",
		PromptTokens:     110,
		CompletionTokens: 400,
		LatencyMS:        850,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	usage, err := store.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("Expected 1 day of usage, got %d", len(usage))
	}
	// date() must be able to parse the stored timestamp; a bad binding
	// format makes it NULL and the scan fail.
	if want := time.Now().UTC().Format("2006-01-02"); usage[0].Date != want {
		t.Errorf("Expected day %s, got %q", want, usage[0].Date)
	}
	if usage[0].TotalPrompt != 230 {
		t.Errorf("Expected 230 prompt tokens, got %d", usage[0].TotalPrompt)
	}
	if usage[0].TotalCompletion != 850 {
		t.Errorf("Expected 850 completion tokens, got %d", usage[0].TotalCompletion)
	}
	if usage[0].TotalExecution != 2 {
		t.Errorf("Expected 2 executions, got %d", usage[0].TotalExecution)
	}
}

func TestRecordMeta(t *testing.T) {
	store := newTestStore(t)

	t.Run("SkipsZeroUsage", func(t *testing.T) {
		err := store.RecordMeta(shared.AgentMeta{AgentName: "Chat", Latency: time.Second})
		if err != nil {
			t.Fatalf("RecordMeta failed: %v", err)
		}
		usage, _ := store.GetDailyUsage(1)
		if len(usage) != 0 {
			t.Error("Expected zero-usage meta to be skipped")
		}
	})

	t.Run("RecordsUsage", func(t *testing.T) {
		err := store.RecordMeta(shared.AgentMeta{
			AgentName: "Chat",
			Usage:     shared.TokenUsage{PromptTokens: 10, CompletionTokens: 20, Model: "gemini-2.5-pro-exp-03-25"},
			Latency:   time.Second,
		})
		if err != nil {
			t.Fatalf("RecordMeta failed: %v", err)
		}
		usage, _ := store.GetDailyUsage(1)
		if len(usage) != 1 || usage[0].TotalExecution != 1 {
			t.Errorf("Expected 1 recorded execution, got %v", usage)
		}
	})
}

func TestCleanup(t *testing.T) {
	store := newTestStore(t)

	err := store.Record(ExecutionMetric{
		AgentName: "Old",
		Model:     "m",
		Timestamp: time.Now().UTC().AddDate(0, 0, -60),
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	err = store.Record(ExecutionMetric{AgentName: "New", Model: "m"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	affected, err := store.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("Expected 1 removed record, got %d", affected)
	}

	usage, _ := store.GetDailyUsage(90)
	total := 0
	for _, u := range usage {
		total += u.TotalExecution
	}
	if total != 1 {
		t.Errorf("Expected 1 remaining record, got %d", total)
	}
}
