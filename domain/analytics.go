package domain

// WeeklyPoint is one bar of the weekly completion chart.
type WeeklyPoint struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
}

// BreakdownSlice is one segment of the completed-vs-remaining chart.
type BreakdownSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// WeeklyCompletion produces the weekly chart series. Apart from Monday and
// Sunday, which are derived from the live collection, the values are
// synthetic demo data: there is no historical record to aggregate.
func WeeklyCompletion(tasks []Task) []WeeklyPoint {
	monday := len(tasks)
	if monday > 3 {
		monday = 3
	}
	return []WeeklyPoint{
		{Day: "Mon", Completed: monday},
		{Day: "Tue", Completed: 5},
		{Day: "Wed", Completed: 2},
		{Day: "Thu", Completed: 8},
		{Day: "Fri", Completed: 4},
		{Day: "Sat", Completed: 6},
		{Day: "Sun", Completed: ProductivityScore(tasks) / 10},
	}
}

// Breakdown returns the real completed and remaining counts.
func Breakdown(tasks []Task) []BreakdownSlice {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return []BreakdownSlice{
		{Name: "Completed", Value: completed},
		{Name: "Remaining", Value: len(tasks) - completed},
	}
}
