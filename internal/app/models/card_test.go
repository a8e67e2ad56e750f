package models

import "testing"

func TestCardProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		remaining int
		want      int
	}{
		{"full card", 10, 10, 100},
		{"empty card", 10, 0, 0},
		{"half", 10, 5, 50},
		{"rounds up", 3, 2, 67},
		{"rounds down", 3, 1, 33},
		{"zero total does not divide by zero", 0, 0, 0},
	}

	for _, tt := range tests {
		c := &Card{TotalEntries: tt.total, RemainingEntries: tt.remaining}
		if got := c.ProgressPercent(); got != tt.want {
			t.Errorf("%s: ProgressPercent() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRoleIsValid(t *testing.T) {
	for _, r := range AllRoles {
		if !r.IsValid() {
			t.Errorf("role %s should be valid", r)
		}
	}
	if Role("superuser").IsValid() {
		t.Errorf("unknown role should be invalid")
	}
}
