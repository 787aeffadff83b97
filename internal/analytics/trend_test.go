package analytics

import (
	"testing"
)

func TestCalculateTrend(t *testing.T) {
	intptr := func(n int) *int { return &n }

	tests := []struct {
		name     string
		current  int
		previous int
		wantPct  *int
		wantDir  Direction
	}{
		{
			name:    "both periods zero means no percentage",
			wantPct: nil,
			wantDir: DirectionNeutral,
		},
		{
			name:    "growth from zero baseline saturates at 100",
			current: 5,
			wantPct: intptr(100),
			wantDir: DirectionUp,
		},
		{
			name:     "halved",
			current:  50,
			previous: 100,
			wantPct:  intptr(-50),
			wantDir:  DirectionDown,
		},
		{
			name:     "doubled",
			current:  200,
			previous: 100,
			wantPct:  intptr(100),
			wantDir:  DirectionUp,
		},
		{
			name:     "flat",
			current:  42,
			previous: 42,
			wantPct:  intptr(0),
			wantDir:  DirectionNeutral,
		},
		{
			name:     "rounds to nearest percent",
			current:  3,
			previous: 9,
			wantPct:  intptr(-67),
			wantDir:  DirectionDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTrend(tt.current, tt.previous)

			if got.Current != tt.current || got.Previous != tt.previous {
				t.Errorf("periods not carried through: %+v", got)
			}
			if got.Direction != tt.wantDir {
				t.Errorf("Direction = %q, want %q", got.Direction, tt.wantDir)
			}
			switch {
			case tt.wantPct == nil && got.Percentage != nil:
				t.Errorf("Percentage = %d, want nil", *got.Percentage)
			case tt.wantPct != nil && got.Percentage == nil:
				t.Errorf("Percentage = nil, want %d", *tt.wantPct)
			case tt.wantPct != nil && *got.Percentage != *tt.wantPct:
				t.Errorf("Percentage = %d, want %d", *got.Percentage, *tt.wantPct)
			}
		})
	}
}
