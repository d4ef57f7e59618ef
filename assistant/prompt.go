package assistant

import (
	"fmt"
	"strings"

	"verva-api/domain"
)

// historyWindow bounds how many prior turns are sent upstream to keep token
// usage down.
const historyWindow = 4

// Wire roles understood by the hosted model.
const (
	roleUser  = "user"
	roleModel = "model"
)

type part struct {
	Text string `json:"text"`
}

type turn struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// systemInstruction describes the assistant persona, the user's live task
// context and the strict formatting contract.
func systemInstruction(tasks []domain.Task) string {
	return fmt.Sprintf(`You are Verva, a high-energy, sophisticated, and motivational productivity architect.
You help users manage their time with vitality and precision.

Current User Context:
%s

FORMATTING RULES (CRITICAL):
1. NEVER write long paragraphs.
2. ALWAYS use bullet points for lists, steps, or schedules.
3. Use **bold text** for key terms, deadlines, or important advice.
4. Use headers (e.g. ### Morning) for time blocks.
5. Keep your tone practical, empathetic, and encouraging.

GOAL:
Provide actionable time management strategies. If the user asks for a plan, break it down into a clear, numbered or bulleted list. Suggest Pomodoro breaks where appropriate.`, taskContext(tasks))
}

// taskContext summarizes the current collection for the model, or states
// explicitly that there is nothing yet.
func taskContext(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "The user has no tasks yet."
	}
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		status := "Pending"
		if t.Completed {
			status = "Done"
		}
		parts[i] = fmt.Sprintf("%s (Priority: %s, Due: %s, Status: %s)", t.Title, t.Priority, t.DueDate, status)
	}
	return "The user's current tasks are: " + strings.Join(parts, ", ") + "."
}

// conversationTurns converts the trimmed history plus the new message into
// alternating wire turns. If the oldest retained turn belongs to the model it
// is dropped: conversations must open on a user turn.
func conversationTurns(history []domain.ChatMessage, message string) []turn {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	turns := make([]turn, 0, len(recent)+1)
	for _, msg := range recent {
		role := roleUser
		if msg.Role == domain.RoleAssistant {
			role = roleModel
		}
		turns = append(turns, turn{Role: role, Parts: []part{{Text: msg.Content}}})
	}
	if len(turns) > 0 && turns[0].Role == roleModel {
		turns = turns[1:]
	}
	return append(turns, turn{Role: roleUser, Parts: []part{{Text: message}}})
}
