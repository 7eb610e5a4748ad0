package api

import (
	"net/http"
	"strconv"
	"testing"

	"athlete-network/database"
	"athlete-network/models"
)

func TestNotificationReadState(t *testing.T) {
	env := setupAPI(t)
	a := env.signUp(t, "Asha")
	b := env.signUp(t, "Bala")
	c := env.signUp(t, "Chitra")

	expect(t, env.do(t, http.MethodPost, "/users/"+a.ID+"/chase", nil, b.Cookie), http.StatusOK, nil)
	expect(t, env.do(t, http.MethodPost, "/users/"+a.ID+"/chase", nil, c.Cookie), http.StatusOK, nil)

	var count models.NotificationCount
	expect(t, env.do(t, http.MethodGet, "/notifications/unread-count", nil, a.Cookie), http.StatusOK, &count)
	if count.UnreadCount != 2 {
		t.Fatalf("unread = %d, want 2", count.UnreadCount)
	}

	var list []models.Notification
	expect(t, env.do(t, http.MethodGet, "/notifications?limit=1", nil, a.Cookie), http.StatusOK, &list)
	if len(list) != 1 {
		t.Fatalf("limit=1 returned %d", len(list))
	}
	id := strconv.FormatInt(list[0].ID, 10)

	if rec := env.do(t, http.MethodPatch, "/notifications/"+id+"/read", nil, b.Cookie); rec.Code != http.StatusNotFound {
		t.Fatalf("marking someone else's notification = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodPatch, "/notifications/abc/read", nil, a.Cookie); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id = %d, want 400", rec.Code)
	}
	expect(t, env.do(t, http.MethodPatch, "/notifications/"+id+"/read", nil, a.Cookie), http.StatusOK, nil)
	expect(t, env.do(t, http.MethodGet, "/notifications/unread-count", nil, a.Cookie), http.StatusOK, &count)
	if count.UnreadCount != 1 {
		t.Fatalf("unread after one read = %d", count.UnreadCount)
	}

	expect(t, env.do(t, http.MethodPost, "/notifications/mark-all-read", nil, a.Cookie), http.StatusOK, nil)
	expect(t, env.do(t, http.MethodGet, "/notifications/unread-count", nil, a.Cookie), http.StatusOK, &count)
	if count.UnreadCount != 0 {
		t.Fatalf("unread after mark all = %d", count.UnreadCount)
	}
}

func TestOfflineUserGetsPushAndInvalidTokensArePruned(t *testing.T) {
	env := setupAPI(t)
	a := env.signUp(t, "Asha")
	b := env.signUp(t, "Bala")

	for _, token := range []string{"tok-good", "tok-stale"} {
		expect(t, env.do(t, http.MethodPost, "/devices", models.DeviceTokenRequest{Token: token}, a.Cookie), http.StatusCreated, nil)
	}
	if rec := env.do(t, http.MethodPost, "/devices", models.DeviceTokenRequest{}, a.Cookie); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty token = %d, want 400", rec.Code)
	}
	env.pusher.invalid = []string{"tok-stale"}

	expect(t, env.do(t, http.MethodPost, "/users/"+a.ID+"/chase-requests", nil, b.Cookie), http.StatusCreated, nil)

	if len(env.pusher.sent) != 1 {
		t.Fatalf("pushes = %d, want 1", len(env.pusher.sent))
	}
	msg := env.pusher.sent[0]
	if msg.Title != "New Chase Request" || msg.Body != "Bala wants to chase you" || msg.Data["type"] != models.NotificationChaseRequest {
		t.Fatalf("push message = %+v", msg)
	}
	if len(env.pusher.tokens[0]) != 2 {
		t.Fatalf("push tokens = %v", env.pusher.tokens[0])
	}

	tokens, err := models.NewNotificationService(database.DB).DeviceTokens(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 || tokens[0] != "tok-good" {
		t.Fatalf("tokens after prune = %v", tokens)
	}

	if rec := env.do(t, http.MethodDelete, "/devices/tok-good", nil, a.Cookie); rec.Code != http.StatusNoContent {
		t.Fatalf("remove device = %d", rec.Code)
	}
	tokens, _ = models.NewNotificationService(database.DB).DeviceTokens(a.ID)
	if len(tokens) != 0 {
		t.Fatalf("tokens after removal = %v", tokens)
	}
}
