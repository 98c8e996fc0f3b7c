package core

// ComputeProgress returns the share of completed tasks as a whole percentage,
// rounded half-up. A job without tasks is at 0.
func ComputeProgress(tasks []Task) int {
	n := len(tasks)
	if n == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == TaskCompleted {
			done++
		}
	}
	// round(100*done/n) in integers: (200*done + n) / (2n)
	return (200*done + n) / (2 * n)
}
