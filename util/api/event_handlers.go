package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/models"
)

// ListEventsHandler returns events, filtered by ?q= on title, organizer, location or tag.
func ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	events, err := models.NewEventService(database.DB).List(userID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err, "listing events", userID)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func GetEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	event, err := models.NewEventService(database.DB).Get(userID, r.PathValue("eventID"))
	if err != nil {
		writeServiceError(w, err, "fetching event "+r.PathValue("eventID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req models.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	event, err := models.NewEventService(database.DB).Create(userID, req)
	if err != nil {
		writeServiceError(w, err, "creating event", userID)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// RegisterEventHandler signs the caller up. Registering twice is a no-op.
func RegisterEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	event, err := models.NewEventService(database.DB).Register(userID, r.PathValue("eventID"))
	if err != nil {
		writeServiceError(w, err, "registering for event "+r.PathValue("eventID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func UnregisterEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	event, err := models.NewEventService(database.DB).Unregister(userID, r.PathValue("eventID"))
	if err != nil {
		writeServiceError(w, err, "unregistering from event "+r.PathValue("eventID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func RegisteredEventsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	events, err := models.NewEventService(database.DB).Registered(userID)
	if err != nil {
		writeServiceError(w, err, "listing registered events", userID)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
