package domain

import "math"

// ProductivityScore is the integer percentage of completed tasks, defined
// as 100 for an empty collection. Recomputed on every read, never stored.
func ProductivityScore(tasks []Task) int {
	if len(tasks) == 0 {
		return 100
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(tasks))))
}
