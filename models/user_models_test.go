package models

import (
	"errors"
	"testing"
)

func validSignUp() SignUpRequest {
	return SignUpRequest{
		Email:       "Asha@Example.com ",
		Password:    "secret123",
		Name:        "Asha",
		Gender:      "Female",
		State:       "Kerala",
		PhoneNumber: "9876543210",
	}
}

func TestSignUpValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignUpRequest)
	}{
		{"missing name", func(r *SignUpRequest) { r.Name = "" }},
		{"short phone", func(r *SignUpRequest) { r.PhoneNumber = "12345" }},
		{"letters in phone", func(r *SignUpRequest) { r.PhoneNumber = "98765abcde" }},
		{"bad email", func(r *SignUpRequest) { r.Email = "not-an-email" }},
		{"weak password", func(r *SignUpRequest) { r.Password = "abc" }},
		{"unknown state", func(r *SignUpRequest) { r.State = "Atlantis" }},
		{"unknown gender", func(r *SignUpRequest) { r.Gender = "?" }},
	}
	db := setupDB(t)
	svc := NewUserService(db)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignUp()
			tt.mutate(&req)
			_, err := svc.Create(req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Msg == "" {
				t.Fatalf("expected a ValidationError with a message, got %v", err)
			}
		})
	}
}

func TestCreateAndAuthenticate(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)

	u, err := svc.Create(validSignUp())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "asha@example.com" || u.Name != "Asha" || u.State != "Kerala" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if len(u.Followers) != 0 || len(u.Following) != 0 {
		t.Fatalf("new user has edges: %+v", u)
	}

	if _, err := svc.Create(validSignUp()); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("duplicate email err = %v, want ErrEmailInUse", err)
	}

	got, err := svc.Authenticate("ASHA@example.com", "secret123")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
	if _, err := svc.Authenticate("asha@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	u := createUser(t, db, "Ravi")

	updated, err := svc.Update(u.ID, UpdateProfileRequest{
		Name:              "Ravi Kumar",
		Tagline:           "Fast bowler",
		FavoriteSports:    "Cricket, , Kabaddi",
		Skills:            []string{"Cricket", " Coaching ", ""},
		PreferredLocation: "Bangalore",
		ExperienceLevel:   "Mid Level",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Ravi Kumar" || updated.FavoriteSports != "Cricket, Kabaddi" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if len(updated.FavoriteSportsList) != 2 || updated.FavoriteSportsList[1] != "Kabaddi" {
		t.Fatalf("FavoriteSportsList = %v", updated.FavoriteSportsList)
	}
	if len(updated.Skills) != 2 || updated.Skills[1] != "Coaching" {
		t.Fatalf("Skills = %v", updated.Skills)
	}

	if _, err := svc.SetAvatar(u.ID, "/uploads/avatars/ravi.png"); err != nil {
		t.Fatal(err)
	}
	kept, err := svc.Update(u.ID, UpdateProfileRequest{Name: "Ravi K", Bio: "Bowls fast"})
	if err != nil {
		t.Fatalf("Update without avatar: %v", err)
	}
	if kept.Avatar != "/uploads/avatars/ravi.png" || len(kept.Skills) != 2 {
		t.Fatalf("partial update dropped stored fields: avatar=%q skills=%v", kept.Avatar, kept.Skills)
	}
	cleared, err := svc.Update(u.ID, UpdateProfileRequest{Name: "Ravi K", Skills: []string{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(cleared.Skills) != 0 {
		t.Fatalf("explicit empty skills not saved: %v", cleared.Skills)
	}

	if _, err := svc.Update(u.ID, UpdateProfileRequest{Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name err = %v", err)
	}
	if _, err := svc.Update("missing", UpdateProfileRequest{Name: "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v", err)
	}
}

func TestDirectory(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	me := createUser(t, db, "Zara")
	priya := createUser(t, db, "Priya")
	arjun := createUser(t, db, "Arjun")
	createUser(t, db, "Meera")

	if _, err := svc.Update(priya.ID, UpdateProfileRequest{Name: "Priya", FavoriteSports: "Badminton, Cricket", Location: "Pune"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(arjun.ID, UpdateProfileRequest{Name: "Arjun", FavoriteSports: "Hockey", Location: "Chennai"}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewChaseService(db).Chase(me.ID, arjun.ID); err != nil {
		t.Fatal(err)
	}

	all, err := svc.Directory(me.ID, "")
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	var names []string
	for _, u := range all {
		if u.ID == me.ID {
			t.Fatal("directory includes the viewer")
		}
		names = append(names, u.Name)
	}
	if len(names) != 3 || names[0] != "Arjun" || names[1] != "Meera" || names[2] != "Priya" {
		t.Fatalf("directory order = %v", names)
	}
	if !all[0].IsChasing || all[0].FollowersCount != 1 {
		t.Fatalf("Arjun entry = %+v", all[0])
	}
	for _, u := range all {
		if u.Email != "" || u.PhoneNumber != "" {
			t.Fatalf("directory exposes contact details: %+v", u)
		}
	}

	for query, want := range map[string]string{"cricket": "Priya", "CHENN": "Arjun", "mee": "Meera"} {
		got, err := svc.Directory(me.ID, query)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Name != want {
			t.Errorf("Directory(%q) = %v, want only %s", query, got, want)
		}
	}
}

func TestProfileRelationship(t *testing.T) {
	db := setupDB(t)
	users := NewUserService(db)
	chase := NewChaseService(db)
	a := createUser(t, db, "A")
	b := createUser(t, db, "B")

	if _, err := chase.SendRequest(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	p, err := users.Profile(a.ID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.IsChasing || !p.HasPendingRequest || p.PhoneNumber != "" || p.Email != "" {
		t.Fatalf("profile before accept = %+v", p)
	}
	if err := chase.Accept(b.ID, a.ID); err != nil {
		t.Fatal(err)
	}
	p, _ = users.Profile(a.ID, b.ID)
	if !p.IsChasing || p.HasPendingRequest {
		t.Fatalf("profile after accept = %+v", p)
	}
	self, _ := users.Profile(a.ID, a.ID)
	if self.PhoneNumber == "" || self.Email == "" {
		t.Fatal("own profile hides contact details")
	}
}

func TestSportDistribution(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	sports := []string{"Cricket, Football", "cricket", "Cricket, Badminton", "Hockey, Football", "Tennis", "Golf"}
	for i, fav := range sports {
		u := createUser(t, db, string(rune('A'+i)))
		if _, err := svc.Update(u.ID, UpdateProfileRequest{Name: u.Name, FavoriteSports: fav}); err != nil {
			t.Fatal(err)
		}
	}
	dist, err := svc.SportDistribution(TopSports)
	if err != nil {
		t.Fatal(err)
	}
	if len(dist) != 5 {
		t.Fatalf("dist = %+v", dist)
	}
	if dist[0].Sport != "Cricket" || dist[0].Count != 3 || dist[1].Sport != "Football" || dist[1].Count != 2 {
		t.Fatalf("top entries = %+v", dist[:2])
	}
	if dist[4].Sport != "Other" || dist[4].Count != 2 {
		t.Fatalf("other bucket = %+v", dist[4])
	}
}
