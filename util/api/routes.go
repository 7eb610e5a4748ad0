package api

import (
	"net/http"

	"athlete-network/config"
	"athlete-network/middleware"
)

// RegisterRoutes mounts every endpoint on mux.
func RegisterRoutes(mux *http.ServeMux, cfg *config.Config) {
	SetUploadsDir(cfg.UploadsDir)
	auth := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	mux.HandleFunc("GET /health", HealthHandler)
	mux.HandleFunc("GET /ws", WebSocketHandler)

	// Auth handlers
	mux.Handle("POST /signup", limiter.Limit(http.HandlerFunc(SignUpHandler)))
	mux.Handle("POST /signin", limiter.Limit(http.HandlerFunc(SignInHandler)))
	mux.HandleFunc("POST /signout", SignOutHandler)
	mux.Handle("GET /session", auth(SessionHandler))

	// Profiles and directory
	mux.Handle("GET /users", auth(DirectoryHandler))
	mux.Handle("GET /users/me", auth(GetMeHandler))
	mux.Handle("PUT /users/me", auth(UpdateProfileHandler))
	mux.Handle("POST /users/me/avatar", auth(AvatarUploadHandler))
	mux.Handle("GET /users/{userID}", auth(GetUserProfileHandler))
	mux.Handle("GET /users/{userID}/online-status", auth(GetUserOnlineStatusHandler))

	// Chase graph
	mux.Handle("POST /users/{userID}/chase", auth(ChaseUserHandler))
	mux.Handle("DELETE /users/{userID}/chase", auth(UnchaseUserHandler))
	mux.Handle("POST /users/{userID}/chase/toggle", auth(ToggleChaseHandler))
	mux.Handle("GET /users/{userID}/followers", auth(GetFollowersHandler))
	mux.Handle("GET /users/{userID}/following", auth(GetFollowingHandler))
	mux.Handle("POST /users/{userID}/chase-requests", auth(SendChaseRequestHandler))
	mux.Handle("GET /chase-requests", auth(GetPendingChaseRequestsHandler))
	mux.Handle("PATCH /chase-requests/{fromID}", auth(RespondChaseRequestHandler))

	// Feed
	mux.Handle("GET /posts", auth(GetPostsHandler))
	mux.Handle("POST /posts", auth(CreatePostHandler))
	mux.Handle("GET /posts/{postID}", auth(GetPostHandler))
	mux.Handle("DELETE /posts/{postID}", auth(DeletePostHandler))
	mux.Handle("POST /posts/{postID}/like", auth(ToggleLikePostHandler))
	mux.Handle("POST /posts/{postID}/congratulate", auth(ToggleCongratulatePostHandler))
	mux.Handle("POST /posts/{postID}/comments", auth(CreateCommentHandler))
	mux.Handle("DELETE /posts/{postID}/comments/{commentID}", auth(DeleteCommentHandler))
	mux.Handle("POST /upload", auth(UploadHandler))

	// Messaging
	mux.Handle("GET /conversations", auth(GetConversationsHandler))
	mux.Handle("GET /conversations/{userID}/messages", auth(GetMessagesHandler))
	mux.Handle("POST /conversations/{userID}/messages", auth(SendMessageHandler))
	mux.Handle("POST /conversations/{userID}/typing", auth(SendTypingIndicatorHandler))

	// Jobs
	mux.Handle("GET /jobs", auth(ListJobsHandler))
	mux.Handle("POST /jobs", auth(CreateJobHandler))
	mux.Handle("GET /jobs/recommended", auth(RecommendedJobsHandler))
	mux.Handle("GET /jobs/saved", auth(SavedJobsHandler))
	mux.Handle("GET /jobs/applications", auth(ApplicationsHandler))
	mux.Handle("GET /jobs/{jobID}", auth(GetJobHandler))
	mux.Handle("POST /jobs/{jobID}/save", auth(SaveJobHandler))
	mux.Handle("DELETE /jobs/{jobID}/save", auth(UnsaveJobHandler))
	mux.Handle("POST /jobs/{jobID}/apply", auth(ApplyJobHandler))

	// Events
	mux.Handle("GET /events", auth(ListEventsHandler))
	mux.Handle("POST /events", auth(CreateEventHandler))
	mux.Handle("GET /events/registered", auth(RegisteredEventsHandler))
	mux.Handle("GET /events/{eventID}", auth(GetEventHandler))
	mux.Handle("POST /events/{eventID}/register", auth(RegisterEventHandler))
	mux.Handle("DELETE /events/{eventID}/register", auth(UnregisterEventHandler))

	mux.Handle("GET /analytics/summary", auth(AnalyticsSummaryHandler))

	// Notification routes
	mux.Handle("GET /notifications", auth(GetNotificationsHandler))
	mux.Handle("GET /notifications/unread-count", auth(GetUnreadCountHandler))
	mux.Handle("PATCH /notifications/{notificationID}/read", auth(MarkNotificationAsReadHandler))
	mux.Handle("POST /notifications/mark-all-read", auth(MarkAllNotificationsAsReadHandler))
	mux.Handle("POST /devices", auth(RegisterDeviceHandler))
	mux.Handle("DELETE /devices/{token}", auth(RemoveDeviceHandler))

	// Static file server for uploaded media
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
}
