package assistant

import (
	"strings"
	"testing"

	"verva-api/domain"
)

func TestFallbackKeywordFamilies(t *testing.T) {
	tests := []struct {
		name    string
		message string
		marker  string
	}{
		{"study", "Help me plan my study session", "study plan template"},
		{"schedule", "can you SCHEDULE my week", "study plan template"},
		{"morning", "how should my morning look", "Power Morning Routine"},
		{"wake", "when should I wake up", "Power Morning Routine"},
		{"focus", "I cannot focus today", "Deep Focus Strategies"},
		{"productive", "how to be more productive", "Deep Focus Strategies"},
		{"task", "help me with my tasks", "Task Management Tips"},
		{"todo", "my todo list is a mess", "Task Management Tips"},
		{"no match", "tell me a joke", "offline mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fallbackResponse(tt.message, nil)
			if got == "" {
				t.Fatal("fallback must never be empty")
			}
			if !strings.Contains(got, tt.marker) {
				t.Fatalf("response for %q missing marker %q:\n%s", tt.message, tt.marker, got)
			}
		})
	}
}

func TestFallbackFirstMatchWins(t *testing.T) {
	// "plan" (study family) appears before "task" in the rule order, so a
	// message containing both resolves to the study template.
	got := fallbackResponse("plan my tasks", nil)
	if !strings.Contains(got, "study plan template") {
		t.Fatalf("expected study family to win:\n%s", got)
	}
}

func TestStudyFallbackEmbedsPendingTitles(t *testing.T) {
	tasks := []domain.Task{
		{Title: "Math homework"},
		{Title: "Essay draft"},
		{Title: "Done thing", Completed: true},
		{Title: "Lab report"},
		{Title: "Extra one"},
	}
	got := fallbackResponse("plan my study time", tasks)

	for _, want := range []string{"Math homework", "Essay draft", "Lab report"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected pending title %q in response:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Done thing") {
		t.Fatalf("completed task leaked into pending list:\n%s", got)
	}
	if strings.Contains(got, "Extra one") {
		t.Fatalf("pending list should cap at three titles:\n%s", got)
	}
}

func TestMorningFallbackEmbedsHighPriority(t *testing.T) {
	tasks := []domain.Task{
		{Title: "Ship release", Priority: domain.PriorityHigh},
		{Title: "Water plants", Priority: domain.PriorityLow},
	}
	got := fallbackResponse("morning routine please", tasks)
	if !strings.Contains(got, "Ship release") {
		t.Fatalf("high-priority task missing:\n%s", got)
	}
	if strings.Contains(got, "Water plants") {
		t.Fatalf("low-priority task should not appear:\n%s", got)
	}
}

func TestDefaultFallbackSurfacesPendingCount(t *testing.T) {
	tasks := []domain.Task{{Title: "a"}, {Title: "b"}, {Title: "c", Completed: true}}
	got := fallbackResponse("hello there", tasks)
	if !strings.Contains(got, "**2 pending tasks**") {
		t.Fatalf("expected pending count in default response:\n%s", got)
	}

	if strings.Contains(fallbackResponse("hello there", nil), "pending tasks") {
		t.Fatal("no pending count should appear for an empty collection")
	}
}
