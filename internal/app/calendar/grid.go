package calendar

import (
	"sort"
	"time"

	"github.com/aquaclub/aquaclub/internal/app/models"
)

// DayCell is one in-range day of the month grid with its events,
// ordered by time ascending (input order preserved on ties).
type DayCell struct {
	Day    int             `json:"day"`
	Events []*models.Event `json:"events"`
}

// MonthGrid is the calendar view of a single month: LeadingEmpty nil
// cells pad the first week so the grid starts on Monday, followed by
// exactly DaysInMonth day cells.
type MonthGrid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Cells holds leading nil entries followed by one cell per day.
	Cells []*DayCell `json:"cells"`
	// LeadingEmpty is the Monday-shifted weekday index of day 1.
	LeadingEmpty int `json:"leadingEmpty"`
	// Prev and Next point at the adjacent months for navigation.
	Prev MonthRef `json:"prev"`
	Next MonthRef `json:"next"`
}

// MonthRef identifies a month for grid navigation
type MonthRef struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// DaysInMonth returns the number of days of the given month, handling
// 28-31 day months and leap years.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// firstWeekdayOffset returns the weekday of day 1 shifted so Monday = 0
func firstWeekdayOffset(year int, month time.Month) int {
	wd := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(wd) + 6) % 7
}

// BuildMonthGrid buckets a flat event list into the month grid for
// (year, month). Events outside the viewed month are ignored; past
// events are kept (the client de-emphasizes them, it does not hide
// them). Within a day bucket events are sorted by time, stable so that
// identical timestamps keep their input order.
func BuildMonthGrid(events []*models.Event, year int, month time.Month) *MonthGrid {
	days := DaysInMonth(year, month)
	offset := firstWeekdayOffset(year, month)

	grid := &MonthGrid{
		Year:         year,
		Month:        month,
		Cells:        make([]*DayCell, 0, offset+days),
		LeadingEmpty: offset,
	}
	grid.Prev.Year, grid.Prev.Month = PrevMonth(year, month)
	grid.Next.Year, grid.Next.Month = NextMonth(year, month)

	for i := 0; i < offset; i++ {
		grid.Cells = append(grid.Cells, nil)
	}

	buckets := make(map[int][]*models.Event)
	for _, ev := range events {
		if ev.Date.Year() != year || ev.Date.Month() != month {
			continue
		}
		day := ev.Date.Day()
		buckets[day] = append(buckets[day], ev)
	}

	for day := 1; day <= days; day++ {
		bucket := buckets[day]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Date.Before(bucket[j].Date)
		})
		if bucket == nil {
			bucket = []*models.Event{}
		}
		grid.Cells = append(grid.Cells, &DayCell{Day: day, Events: bucket})
	}

	return grid
}

// PrevMonth steps one month back, rolling over past January
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth steps one month forward, rolling over past December
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
