package domain

// Filter selects a view over a task collection. Pure view state, never
// persisted.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterUpcoming  Filter = "upcoming"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps a raw query value onto a known filter, defaulting to
// FilterAll for empty or unknown input.
func ParseFilter(raw string) Filter {
	switch Filter(raw) {
	case FilterToday, FilterUpcoming, FilterCompleted:
		return Filter(raw)
	}
	return FilterAll
}

// FilterTasks returns the subset of tasks matching f. The today argument is
// the current calendar date formatted as YYYY-MM-DD. Due dates are compared
// lexically, which is safe only because the format is fixed-width.
func FilterTasks(tasks []Task, f Filter, today string) []Task {
	if f == FilterAll {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		switch f {
		case FilterToday:
			if t.DueDate == today {
				out = append(out, t)
			}
		case FilterUpcoming:
			if !t.Completed && t.DueDate > today {
				out = append(out, t)
			}
		case FilterCompleted:
			if t.Completed {
				out = append(out, t)
			}
		}
	}
	return out
}
