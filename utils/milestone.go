package utils

// MilestoneThresholds are the interest/attendance counts that trigger a
// host notification, in ascending order.
var MilestoneThresholds = []int{5, 10, 20, 50, 100}

// CrossedMilestone returns the smallest threshold that currentCount has
// reached but previousCount had not. At most one milestone fires per
// mutation, so a bulk change that jumps two thresholds reports only the
// lower one.
func CrossedMilestone(currentCount, previousCount int) (int, bool) {
	for _, m := range MilestoneThresholds {
		if currentCount >= m && previousCount < m {
			return m, true
		}
	}
	return 0, false
}
