package models

import (
	"errors"
	"testing"
)

func TestEventRegistration(t *testing.T) {
	db := setupDB(t)
	if _, events, err := SeedCatalogue(db); err != nil || events != 4 {
		t.Fatalf("seed = %d, %v", events, err)
	}
	svc := NewEventService(db)
	a := createUser(t, db, "A")
	b := createUser(t, db, "B")

	all, err := svc.List(a.ID, "")
	if err != nil || len(all) != 4 {
		t.Fatalf("List = %v, %v", all, err)
	}
	target := all[3]
	if target.Title != "Cricket Performance Analysis Masterclass" || target.Attendees != 0 || target.Registered {
		t.Fatalf("target = %+v", target)
	}

	e, err := svc.Register(a.ID, target.ID)
	if err != nil || e.Attendees != 1 || !e.Registered {
		t.Fatalf("Register = %+v, %v", e, err)
	}
	e, _ = svc.Register(a.ID, target.ID)
	if e.Attendees != 1 {
		t.Fatalf("double registration counted: %+v", e)
	}
	e, _ = svc.Register(b.ID, target.ID)
	if e.Attendees != 2 {
		t.Fatalf("attendees = %d, want 2", e.Attendees)
	}

	mine, _ := svc.Registered(a.ID)
	if len(mine) != 1 || mine[0].ID != target.ID || !mine[0].Registered {
		t.Fatalf("Registered = %+v", mine)
	}

	e, _ = svc.Unregister(a.ID, target.ID)
	if e.Attendees != 1 || e.Registered {
		t.Fatalf("Unregister = %+v", e)
	}
	if _, err := svc.Register(a.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing event err = %v", err)
	}
}

func TestSearchAndCreateEvents(t *testing.T) {
	db := setupDB(t)
	SeedCatalogue(db)
	svc := NewEventService(db)
	u := createUser(t, db, "Organiser")

	for query, want := range map[string]int{"workshop": 1, "bangalore": 1, "rehabilitation": 1, "": 4} {
		got, _ := svc.List(u.ID, query)
		if len(got) != want {
			t.Errorf("List(%q) = %d events, want %d", query, len(got), want)
		}
	}

	if _, err := svc.Create(u.ID, CreateEventRequest{Title: "Meetup"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing organizer err = %v", err)
	}
	e, err := svc.Create(u.ID, CreateEventRequest{Title: "Meetup", Organizer: "Club", Tags: []string{"Football"}})
	if err != nil || e.CreatedBy != u.ID || e.Tags[0] != "Football" {
		t.Fatalf("Create = %+v, %v", e, err)
	}
}

func TestSeedCatalogueIsIdempotent(t *testing.T) {
	db := setupDB(t)
	if jobs, events, err := SeedCatalogue(db); err != nil || jobs != 4 || events != 4 {
		t.Fatalf("first seed = %d, %d, %v", jobs, events, err)
	}
	if jobs, events, err := SeedCatalogue(db); err != nil || jobs != 0 || events != 0 {
		t.Fatalf("second seed = %d, %d, %v", jobs, events, err)
	}
}
