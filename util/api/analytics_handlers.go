package api

import (
	"net/http"
	"time"

	"athlete-network/database"
	"athlete-network/logger"
	"athlete-network/models"
)

// AnalyticsSummaryHandler serves the dashboard figures for the caller.
func AnalyticsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	summary, err := models.NewAnalyticsService(database.DB).Summary(userID)
	if err != nil {
		writeServiceError(w, err, "computing analytics", userID)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Database    string    `json:"database"`
	OnlineUsers int       `json:"onlineUsers"`
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Database:    "ok",
		OnlineUsers: GetOnlineUsersCount(),
	}
	status := http.StatusOK
	if err := database.Ping(r.Context()); err != nil {
		logger.Error.Printf("Health check database ping failed: %v", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
