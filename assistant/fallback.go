package assistant

import (
	"fmt"
	"strings"

	"verva-api/domain"
)

// fallbackRule pairs a keyword family with its canned response. Rules are
// evaluated in order and the first match wins, so the matching policy stays
// auditable.
type fallbackRule struct {
	keywords []string
	respond  func(tasks []domain.Task) string
}

var fallbackRules = []fallbackRule{
	{[]string{"study", "plan", "schedule"}, studyPlanResponse},
	{[]string{"morning", "wake", "start"}, morningRoutineResponse},
	{[]string{"focus", "productive", "concentrate"}, focusResponse},
	{[]string{"task", "todo", "manage"}, taskManagementResponse},
}

// fallbackResponse produces a deterministic, task-aware reply when the
// hosted model is unavailable or unconfigured.
func fallbackResponse(message string, tasks []domain.Task) string {
	lower := strings.ToLower(message)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.respond(tasks)
			}
		}
	}
	return defaultResponse(tasks)
}

func pendingTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func titles(tasks []domain.Task, limit int) string {
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Title
	}
	return strings.Join(names, ", ")
}

func studyPlanResponse(tasks []domain.Task) string {
	pending := pendingTasks(tasks)
	var sb strings.Builder
	sb.WriteString(`**Here's a study plan template:**

**Morning Block (9 AM - 12 PM)**
- Focus on your **most challenging** subject
- Use **25-min Pomodoro** sessions
- Take a 5-min break between sessions

**Afternoon Block (2 PM - 5 PM)**
- Review and practice problems
- Active recall & flashcards
- 15-min break halfway

**Evening Block (7 PM - 9 PM)**
- Light review of the day's material
- Prepare tomorrow's priorities`)
	if len(pending) > 0 {
		sb.WriteString("\n\n**Your pending tasks:** " + titles(pending, 3))
	}
	sb.WriteString("\n\n*Tip: Start with your hardest task when energy is highest!*")
	return sb.String()
}

func morningRoutineResponse(tasks []domain.Task) string {
	var high []domain.Task
	for _, t := range pendingTasks(tasks) {
		if t.Priority == domain.PriorityHigh {
			high = append(high, t)
		}
	}
	var sb strings.Builder
	sb.WriteString(`**Power Morning Routine:**

- **6:30 AM** - Wake up, hydrate immediately
- **6:45 AM** - 10-min stretch or light exercise
- **7:00 AM** - Healthy breakfast, no phone
- **7:30 AM** - Review your **top 3 priorities**
- **8:00 AM** - Start your **most important task**`)
	if len(high) > 0 {
		sb.WriteString("\n\n**Your high-priority tasks:** " + titles(high, 3))
	}
	sb.WriteString("\n\n*Remember: Win the morning, win the day!*")
	return sb.String()
}

func focusResponse([]domain.Task) string {
	return `**Deep Focus Strategies:**

- **Pomodoro Technique** - 25 min work, 5 min rest
- **Remove distractions** - Phone in another room
- **Single-tasking** - One task at a time only
- **Time blocking** - Schedule specific tasks
- **2-minute rule** - If it takes <2 min, do it now

**Environment tips:**
- Use noise-canceling or lo-fi music
- Keep water nearby
- Good lighting is essential

*Your focus is your superpower!*`
}

func taskManagementResponse(tasks []domain.Task) string {
	pending := pendingTasks(tasks)
	var sb strings.Builder
	sb.WriteString(`**Task Management Tips:**

**Prioritization Framework:**
1. **Urgent + Important** - Do first
2. **Important, not urgent** - Schedule it
3. **Urgent, not important** - Delegate if possible
4. **Neither** - Consider removing`)
	if len(pending) > 0 {
		sb.WriteString(fmt.Sprintf("\n\n**Your current tasks (%d):**", len(pending)))
		limit := len(pending)
		if limit > 5 {
			limit = 5
		}
		for _, t := range pending[:limit] {
			sb.WriteString(fmt.Sprintf("\n- %s (**%s** priority)", t.Title, t.Priority))
		}
	} else {
		sb.WriteString("\n\nYou have no pending tasks!")
	}
	sb.WriteString("\n\n*Focus on progress, not perfection!*")
	return sb.String()
}

func defaultResponse(tasks []domain.Task) string {
	pending := pendingTasks(tasks)
	var sb strings.Builder
	sb.WriteString(`**Hey! I'm Verva, your productivity partner.**

I'm currently in **offline mode**, but I can still help!

**Try asking me about:**
- "Plan my study session"
- "Morning routine tips"
- "How to focus better"
- "Help with my tasks"`)
	if len(pending) > 0 {
		sb.WriteString(fmt.Sprintf("\n\n**Quick tip:** You have **%d pending tasks**. Start with the highest priority one!", len(pending)))
	}
	sb.WriteString("\n\n*Full AI features will resume shortly!*")
	return sb.String()
}
