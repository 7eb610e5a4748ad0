package util

import (
	"sort"
	"strings"
)

// ConversationID derives the channel id shared by two users. The result does
// not depend on argument order.
func ConversationID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// ConversationParticipants splits a conversation id back into its two
// participants, in sorted order.
func ConversationParticipants(conversationID string) (string, string, bool) {
	a, b, ok := strings.Cut(conversationID, "_")
	if !ok || a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}
