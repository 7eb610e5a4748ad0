package models

import (
	"errors"
	"testing"

	"athlete-network/util"
)

func TestSendAndReadMessages(t *testing.T) {
	db := setupDB(t)
	msgs := NewMessageService(db)
	a := createUser(t, db, "Asha")
	b := createUser(t, db, "Bala")
	c := createUser(t, db, "Chitra")

	m1, err := msgs.Send(a.ID, b.ID, "Hi Bala")
	if err != nil {
		t.Fatal(err)
	}
	if m1.ConversationID != util.ConversationID(b.ID, a.ID) {
		t.Fatalf("conversation id = %s", m1.ConversationID)
	}
	m2, _ := msgs.Send(b.ID, a.ID, "Hey Asha")
	m3, _ := msgs.Send(c.ID, a.ID, "Training tomorrow?")

	thread, err := msgs.Messages(b.ID, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(thread) != 2 || thread[0].ID != m1.ID || thread[1].ID != m2.ID {
		t.Fatalf("thread = %+v", thread)
	}

	convs, err := msgs.Conversations(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 2 {
		t.Fatalf("conversations = %+v", convs)
	}
	if convs[0].OtherUserID != c.ID || convs[0].LastMessage != m3.Content || convs[0].OtherUserName != "Chitra" {
		t.Fatalf("latest conversation = %+v", convs[0])
	}
	if convs[1].LastMessage != "Hey Asha" || convs[1].LastMessageTimestamp == nil {
		t.Fatalf("older conversation = %+v", convs[1])
	}

	bConvs, _ := msgs.Conversations(b.ID)
	if len(bConvs) != 1 || bConvs[0].OtherUserID != a.ID {
		t.Fatalf("b conversations = %+v", bConvs)
	}
}

func TestSendMessageErrors(t *testing.T) {
	db := setupDB(t)
	msgs := NewMessageService(db)
	a := createUser(t, db, "A")
	b := createUser(t, db, "B")

	if _, err := msgs.Send(a.ID, a.ID, "me"); !errors.Is(err, ErrSelfAction) {
		t.Fatalf("self message err = %v", err)
	}
	if _, err := msgs.Send(a.ID, b.ID, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty message err = %v", err)
	}
	if _, err := msgs.Send(a.ID, "missing", "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown recipient err = %v", err)
	}
}
