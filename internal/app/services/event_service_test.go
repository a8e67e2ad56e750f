package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
)

type fakeEventStore struct {
	events map[int64]*models.Event
	nextID int64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[int64]*models.Event{}, nextID: 1}
}

func (f *fakeEventStore) Create(_ context.Context, event *models.Event) (int64, error) {
	event.ID = f.nextID
	f.nextID++
	f.events[event.ID] = event
	return event.ID, nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return ev, nil
}

func (f *fakeEventStore) ListUpcoming(_ context.Context, limit int, onlyFuture bool) ([]*models.Event, error) {
	out := []*models.Event{}
	for i := int64(1); i < f.nextID; i++ {
		ev, ok := f.events[i]
		if !ok {
			continue
		}
		if onlyFuture && ev.Date.Before(time.Now()) {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeEventStore) ListBetween(_ context.Context, from, to time.Time) ([]*models.Event, error) {
	out := []*models.Event{}
	for i := int64(1); i < f.nextID; i++ {
		ev, ok := f.events[i]
		if !ok {
			continue
		}
		if !ev.Date.Before(from) && ev.Date.Before(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventStore) Update(_ context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

type regKey struct{ eventID, profileID int64 }

type fakeRegistrationStore struct {
	regs map[regKey]time.Time
}

func newFakeRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{regs: map[regKey]time.Time{}}
}

func (f *fakeRegistrationStore) Register(_ context.Context, eventID, profileID int64) (bool, error) {
	k := regKey{eventID, profileID}
	if _, ok := f.regs[k]; ok {
		return false, nil
	}
	f.regs[k] = time.Now()
	return true, nil
}

func (f *fakeRegistrationStore) Unregister(_ context.Context, eventID, profileID int64) error {
	k := regKey{eventID, profileID}
	if _, ok := f.regs[k]; !ok {
		return apperrors.ErrNotRegistered
	}
	delete(f.regs, k)
	return nil
}

func (f *fakeRegistrationStore) IsRegistered(_ context.Context, eventID, profileID int64) (bool, error) {
	_, ok := f.regs[regKey{eventID, profileID}]
	return ok, nil
}

func (f *fakeRegistrationStore) GetParticipantsByEventID(_ context.Context, eventID int64) ([]*models.EventRegistration, error) {
	out := []*models.EventRegistration{}
	for k, at := range f.regs {
		if k.eventID == eventID {
			out = append(out, &models.EventRegistration{
				EventID:      k.eventID,
				ProfileID:    k.profileID,
				RegisteredAt: at,
				Profile:      &models.Profile{ID: k.profileID},
			})
		}
	}
	return out, nil
}

func (f *fakeRegistrationStore) CountByEventIDs(_ context.Context, eventIDs []int64) (map[int64]int, error) {
	counts := map[int64]int{}
	for _, id := range eventIDs {
		for k := range f.regs {
			if k.eventID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func newTestEventService() (EventService, *fakeEventStore, *fakeRegistrationStore) {
	events := newFakeEventStore()
	regs := newFakeRegistrationStore()
	return NewEventService(events, regs, zerolog.Nop()), events, regs
}

func TestRegisterIsIdempotent(t *testing.T) {
	svc, events, _ := newTestEventService()
	ctx := context.Background()

	ev := &models.Event{Title: "Entraînement du mardi", Type: models.EventEntrainement, Date: time.Now().Add(24 * time.Hour)}
	events.Create(ctx, ev)

	inserted, err := svc.Register(ctx, ev.ID, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("first registration must insert")
	}

	inserted, err = svc.Register(ctx, ev.ID, 7)
	if err != nil {
		t.Fatalf("second registration must not fail, got %v", err)
	}
	if inserted {
		t.Fatal("second registration must be a no-op")
	}

	loaded, registered, err := svc.GetEvent(ctx, ev.ID, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Participants) != 1 {
		t.Fatalf("expected exactly one participant, got %d", len(loaded.Participants))
	}
	if !registered {
		t.Fatal("expected the registered profile to be reported as registered")
	}

	if _, registered, err = svc.GetEvent(ctx, ev.ID, 8); err != nil || registered {
		t.Fatalf("expected profile 8 not registered, got registered=%v err=%v", registered, err)
	}
}

func TestRegisterUnknownEvent(t *testing.T) {
	svc, _, _ := newTestEventService()

	if _, err := svc.Register(context.Background(), 42, 7); !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestUnregisterWithoutRegistration(t *testing.T) {
	svc, events, _ := newTestEventService()
	ctx := context.Background()

	ev := &models.Event{Title: "Sortie lac", Type: models.EventSortie, Date: time.Now().Add(48 * time.Hour)}
	events.Create(ctx, ev)

	if err := svc.Unregister(ctx, ev.ID, 7); !errors.Is(err, apperrors.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestListEventsKeepsPastEvents(t *testing.T) {
	svc, events, regs := newTestEventService()
	ctx := context.Background()

	past := &models.Event{Title: "Compétition passée", Type: models.EventCompetition, Date: time.Now().Add(-72 * time.Hour)}
	future := &models.Event{Title: "Entraînement à venir", Type: models.EventEntrainement, Date: time.Now().Add(72 * time.Hour)}
	events.Create(ctx, past)
	events.Create(ctx, future)
	regs.Register(ctx, future.ID, 1)
	regs.Register(ctx, future.ID, 2)

	list, counts, err := svc.ListEvents(ctx, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("past events must stay listed, got %d events", len(list))
	}
	if counts[future.ID] != 2 {
		t.Fatalf("expected 2 registrations, got %d", counts[future.ID])
	}
}

func TestMonthGridFiltersToMonth(t *testing.T) {
	svc, events, _ := newTestEventService()
	ctx := context.Background()

	inMonth := &models.Event{Title: "Dans le mois", Type: models.EventEntrainement, Date: time.Date(2025, time.June, 10, 18, 0, 0, 0, time.Local)}
	nextMonth := &models.Event{Title: "Mois suivant", Type: models.EventSortie, Date: time.Date(2025, time.July, 1, 9, 0, 0, 0, time.Local)}
	events.Create(ctx, inMonth)
	events.Create(ctx, nextMonth)

	grid, err := svc.MonthGrid(ctx, 2025, time.June)
	if err != nil {
		t.Fatal(err)
	}

	placed := 0
	for _, cell := range grid.Cells {
		if cell != nil {
			placed += len(cell.Events)
		}
	}
	if placed != 1 {
		t.Fatalf("expected exactly the June event on the grid, got %d", placed)
	}
}
