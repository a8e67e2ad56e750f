package calendar

import (
	"testing"
	"time"

	"github.com/aquaclub/aquaclub/internal/app/models"
)

func event(id int64, date time.Time) *models.Event {
	return &models.Event{ID: id, Title: "event", Type: models.EventEntrainement, Date: date}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29}, // leap year
		{2025, time.April, 30},
		{2025, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestBuildMonthGridShape(t *testing.T) {
	// September 2025 starts on a Monday: no leading empty cells
	grid := BuildMonthGrid(nil, 2025, time.September)
	if grid.LeadingEmpty != 0 {
		t.Errorf("September 2025 leading empty = %d, want 0", grid.LeadingEmpty)
	}
	if len(grid.Cells) != 30 {
		t.Errorf("September 2025 cells = %d, want 30", len(grid.Cells))
	}

	// June 2025 starts on a Sunday: six leading empty cells, Monday-first
	grid = BuildMonthGrid(nil, 2025, time.June)
	if grid.LeadingEmpty != 6 {
		t.Errorf("June 2025 leading empty = %d, want 6", grid.LeadingEmpty)
	}
	if len(grid.Cells) != 6+30 {
		t.Errorf("June 2025 total cells = %d, want 36", len(grid.Cells))
	}
	for i := 0; i < grid.LeadingEmpty; i++ {
		if grid.Cells[i] != nil {
			t.Fatalf("cell %d should be a nil padding cell", i)
		}
	}
	for i := grid.LeadingEmpty; i < len(grid.Cells); i++ {
		if grid.Cells[i] == nil {
			t.Fatalf("cell %d should be a day cell", i)
		}
		if want := i - grid.LeadingEmpty + 1; grid.Cells[i].Day != want {
			t.Fatalf("cell %d day = %d, want %d", i, grid.Cells[i].Day, want)
		}
		if grid.Cells[i].Events == nil {
			t.Fatalf("day %d events should be an empty slice, not nil", grid.Cells[i].Day)
		}
	}
}

func TestBuildMonthGridBucketsEvents(t *testing.T) {
	events := []*models.Event{
		event(1, time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC)),
		event(2, time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)),
		event(3, time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)),  // other month
		event(4, time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)),  // other year
		event(5, time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)),  // past events stay visible
		event(6, time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC)), // same time as event 1
	}

	grid := BuildMonthGrid(events, 2025, time.June)

	var placed int
	for _, cell := range grid.Cells {
		if cell == nil {
			continue
		}
		placed += len(cell.Events)
	}
	if placed != 4 {
		t.Fatalf("events placed = %d, want 4 (out-of-month events excluded)", placed)
	}

	day10 := grid.Cells[grid.LeadingEmpty+9]
	if len(day10.Events) != 3 {
		t.Fatalf("day 10 bucket size = %d, want 3", len(day10.Events))
	}
	// Chronological order, input order preserved for the identical timestamps
	if day10.Events[0].ID != 2 || day10.Events[1].ID != 1 || day10.Events[2].ID != 6 {
		t.Errorf("day 10 order = [%d %d %d], want [2 1 6]",
			day10.Events[0].ID, day10.Events[1].ID, day10.Events[2].ID)
	}

	day1 := grid.Cells[grid.LeadingEmpty]
	if len(day1.Events) != 1 || day1.Events[0].ID != 5 {
		t.Errorf("past event missing from day 1 bucket")
	}
}

func TestMonthNavigationRollover(t *testing.T) {
	if y, m := PrevMonth(2025, time.January); y != 2024 || m != time.December {
		t.Errorf("PrevMonth(2025, January) = (%d, %s)", y, m)
	}
	if y, m := NextMonth(2025, time.December); y != 2026 || m != time.January {
		t.Errorf("NextMonth(2025, December) = (%d, %s)", y, m)
	}
	if y, m := PrevMonth(2025, time.March); y != 2025 || m != time.February {
		t.Errorf("PrevMonth(2025, March) = (%d, %s)", y, m)
	}
	if y, m := NextMonth(2025, time.March); y != 2025 || m != time.April {
		t.Errorf("NextMonth(2025, March) = (%d, %s)", y, m)
	}
}
