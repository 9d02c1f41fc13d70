package utils

import "testing"

func TestCrossedMilestone(t *testing.T) {
	tests := []struct {
		name               string
		current, previous  int
		want               int
		wantFired          bool
	}{
		{"below first threshold", 4, 3, 0, false},
		{"crossing five", 5, 4, 5, true},
		{"already past five", 6, 5, 0, false},
		{"bulk jump reports lower threshold only", 12, 3, 5, true},
		{"crossing one hundred", 120, 99, 100, true},
		{"no change", 10, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fired := CrossedMilestone(tt.current, tt.previous)
			if fired != tt.wantFired || got != tt.want {
				t.Errorf("CrossedMilestone(%d, %d) = (%d, %v), want (%d, %v)",
					tt.current, tt.previous, got, fired, tt.want, tt.wantFired)
			}
		})
	}
}

func TestCrossedMilestoneFiresOncePerThreshold(t *testing.T) {
	// Count sequence 3 -> 4 -> 6: the 5 threshold fires exactly once.
	fired := 0
	counts := []int{4, 6}
	prev := 3
	for _, cur := range counts {
		if _, ok := CrossedMilestone(cur, prev); ok {
			fired++
		}
		prev = cur
	}
	if fired != 1 {
		t.Errorf("threshold fired %d times across 3->4->6, want 1", fired)
	}
}
