package graph

import "github.com/vk/tfkit/internal/config"

// Score computes the 0..100 health score from analytics counts and the
// ERROR/WARNING issue counts remaining after evaluation. INFO issues never
// enter the score. Weights come from configuration; the defaults are
// 2/3/5/10/3.
func Score(w config.Weights, unused, orphaned, incomplete, errors, warnings int) int {
	score := 100 -
		w.Unused*unused -
		w.Orphaned*orphaned -
		w.Incomplete*incomplete -
		w.Error*errors -
		w.Warning*warnings
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
