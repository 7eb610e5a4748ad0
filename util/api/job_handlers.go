package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/models"
)

// ListJobsHandler returns the job board, filtered by ?q= on title, company, location or tag.
func ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	jobs, err := models.NewJobService(database.DB).List(userID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err, "listing jobs", userID)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func GetJobHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	job, err := models.NewJobService(database.DB).Get(userID, r.PathValue("jobID"))
	if err != nil {
		writeServiceError(w, err, "fetching job "+r.PathValue("jobID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// CreateJobHandler posts a new listing on behalf of the caller.
func CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req models.CreateJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	job, err := models.NewJobService(database.DB).Create(userID, req)
	if err != nil {
		writeServiceError(w, err, "posting job", userID)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// RecommendedJobsHandler ranks every job against the caller's profile.
func RecommendedJobsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	jobs, err := models.NewJobService(database.DB).Recommended(userID)
	if err != nil {
		writeServiceError(w, err, "recommending jobs", userID)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func SaveJobHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	jobID := r.PathValue("jobID")
	if err := models.NewJobService(database.DB).Save(userID, jobID); err != nil {
		writeServiceError(w, err, "saving job "+jobID, userID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobId": jobID, "saved": true})
}

func UnsaveJobHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	jobID := r.PathValue("jobID")
	if err := models.NewJobService(database.DB).Unsave(userID, jobID); err != nil {
		writeServiceError(w, err, "unsaving job "+jobID, userID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobId": jobID, "saved": false})
}

func SavedJobsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	jobs, err := models.NewJobService(database.DB).Saved(userID)
	if err != nil {
		writeServiceError(w, err, "listing saved jobs", userID)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// ApplyJobHandler submits the caller's application. A second attempt is a 409.
func ApplyJobHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	jobID := r.PathValue("jobID")

	var req models.ApplyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	jobs := models.NewJobService(database.DB)
	app, err := jobs.Apply(userID, jobID, req.CoverLetter)
	if err != nil {
		writeServiceError(w, err, "applying to job "+jobID, userID)
		return
	}

	runAsync(func() {
		job, err := jobs.Get("", jobID)
		if err != nil {
			return
		}
		NotificationHelper.CreateJobApplicationNotification(userID, job.PostedBy, job)
	})
	writeJSON(w, http.StatusCreated, app)
}

func ApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	apps, err := models.NewJobService(database.DB).Applications(userID)
	if err != nil {
		writeServiceError(w, err, "listing applications", userID)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}
