package controllers

import (
	"testing"
	"time"

	"github.com/aquaclub/aquaclub/internal/app/calendar"
	"github.com/aquaclub/aquaclub/internal/app/models"
)

func TestToCalendarResponse(t *testing.T) {
	past := time.Now().AddDate(-1, 0, 0)
	events := []*models.Event{
		{ID: 1, Title: "Entraînement natation", Type: models.EventEntrainement,
			Date: time.Date(past.Year(), time.March, 10, 19, 0, 0, 0, time.UTC)},
	}

	grid := calendar.BuildMonthGrid(events, past.Year(), time.March)
	resp := toCalendarResponse(grid)

	if resp.Year != past.Year() || resp.Month != int(time.March) {
		t.Fatalf("unexpected header: %d-%d", resp.Year, resp.Month)
	}
	if len(resp.Cells) != len(grid.Cells) || resp.LeadingEmpty != grid.LeadingEmpty {
		t.Fatalf("cell layout must mirror the grid, got %d cells", len(resp.Cells))
	}

	for i, cell := range resp.Cells {
		if i < grid.LeadingEmpty {
			if cell != nil {
				t.Fatalf("cell %d must be a leading pad", i)
			}
			continue
		}
		if cell == nil {
			t.Fatalf("day cell %d is missing", i)
		}
		if cell.Events == nil {
			t.Fatalf("day %d must carry an empty event list, not null", cell.Day)
		}
	}

	day10 := resp.Cells[grid.LeadingEmpty+9]
	if len(day10.Events) != 1 {
		t.Fatalf("expected one event on day 10, got %d", len(day10.Events))
	}
	if !day10.Events[0].Past {
		t.Fatal("a year-old event must be flagged past")
	}

	if resp.Prev.Month != int(time.February) || resp.Next.Month != int(time.April) {
		t.Fatalf("unexpected navigation refs: prev %d next %d", resp.Prev.Month, resp.Next.Month)
	}
}
