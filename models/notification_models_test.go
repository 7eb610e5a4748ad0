package models

import (
	"errors"
	"testing"
)

func TestNotifications(t *testing.T) {
	db := setupDB(t)
	ns := NewNotificationService(db)
	u := createUser(t, db, "U")
	actor := createUser(t, db, "Actor")

	for _, typ := range []string{NotificationChase, NotificationPostLike, NotificationNewMessage} {
		if _, err := ns.CreateNotification(CreateNotificationRequest{UserID: u.ID, Type: typ, Title: typ, Message: "m", ActorID: &actor.ID}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := ns.GetNotifications(u.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Type != NotificationPostLike || *list[0].ActorID != actor.ID {
		t.Fatalf("notifications = %+v", list)
	}
	if n, _ := ns.GetUnreadCount(u.ID); n != 2 {
		t.Fatalf("unread = %d, want 2", n)
	}

	if err := ns.MarkAsRead(list[0].ID, actor.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("marking someone else's notification err = %v", err)
	}
	if err := ns.MarkAsRead(list[0].ID, u.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := ns.GetUnreadCount(u.ID); n != 1 {
		t.Fatalf("unread after mark = %d", n)
	}
	if err := ns.MarkAllAsRead(u.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := ns.GetUnreadCount(u.ID); n != 0 {
		t.Fatalf("unread after mark all = %d", n)
	}
	if limited, _ := ns.GetNotifications(u.ID, 1); len(limited) != 1 {
		t.Fatalf("limit ignored: %d", len(limited))
	}
}

func TestDeviceTokens(t *testing.T) {
	db := setupDB(t)
	ns := NewNotificationService(db)
	u := createUser(t, db, "U")

	if err := ns.RegisterDevice(u.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty token err = %v", err)
	}
	ns.RegisterDevice(u.ID, "tok-1")
	ns.RegisterDevice(u.ID, "tok-1")
	ns.RegisterDevice(u.ID, "tok-2")
	tokens, _ := ns.DeviceTokens(u.ID)
	if len(tokens) != 2 {
		t.Fatalf("tokens = %v", tokens)
	}
	if err := ns.PruneTokens([]string{"tok-1"}); err != nil {
		t.Fatal(err)
	}
	if err := ns.RemoveDevice(u.ID, "tok-2"); err != nil {
		t.Fatal(err)
	}
	if tokens, _ := ns.DeviceTokens(u.ID); len(tokens) != 0 {
		t.Fatalf("tokens left: %v", tokens)
	}
}

func TestDeleteOldNotifications(t *testing.T) {
	db := setupDB(t)
	ns := NewNotificationService(db)
	u := createUser(t, db, "U")
	if _, err := ns.CreateNotification(CreateNotificationRequest{UserID: u.ID, Type: NotificationChase, Title: "t", Message: "m"}); err != nil {
		t.Fatal(err)
	}

	if n, err := ns.DeleteOldNotifications(30); err != nil || n != 0 {
		t.Fatalf("fresh notifications pruned: n=%d err=%v", n, err)
	}
	// A negative age puts the cutoff in the future.
	if n, err := ns.DeleteOldNotifications(-1); err != nil || n != 1 {
		t.Fatalf("prune = %d, %v; want 1", n, err)
	}
	if list, _ := ns.GetNotifications(u.ID, 10); len(list) != 0 {
		t.Fatalf("notifications left: %+v", list)
	}
}
