package util

import (
	"testing"

	"github.com/google/uuid"
)

func TestConversationIDSymmetric(t *testing.T) {
	for i := 0; i < 500; i++ {
		a, b := uuid.NewString(), uuid.NewString()
		if ConversationID(a, b) != ConversationID(b, a) {
			t.Fatalf("ConversationID(%s, %s) is order dependent", a, b)
		}
	}
}

func TestConversationIDDistinct(t *testing.T) {
	for i := 0; i < 500; i++ {
		a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()
		if ConversationID(a, b) == ConversationID(a, c) {
			t.Fatalf("ConversationID collides for %s with %s and %s", a, b, c)
		}
	}
}

func TestConversationIDFormat(t *testing.T) {
	if got := ConversationID("zed", "amy"); got != "amy_zed" {
		t.Errorf("ConversationID = %q, want amy_zed", got)
	}
	a, b, ok := ConversationParticipants("amy_zed")
	if !ok || a != "amy" || b != "zed" {
		t.Errorf("ConversationParticipants = %q, %q, %t", a, b, ok)
	}
	if _, _, ok := ConversationParticipants("nounderscore"); ok {
		t.Error("expected malformed id to be rejected")
	}
}
