package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"athlete-network/logger"

	"github.com/google/uuid"
)

const (
	maxUploadBytes = 64 << 20
	maxAvatarBytes = 10 << 20
)

var uploadsDir = "./uploads"

// SetUploadsDir changes where uploaded media is written.
func SetUploadsDir(dir string) {
	uploadsDir = dir
}

// mediaKind maps an accepted file extension to its content types and media kind.
type mediaKind struct {
	contentTypes []string
	kind         string
}

var postMedia = map[string]mediaKind{
	".jpg":  {[]string{"image/jpeg", "image/jpg"}, "image"},
	".jpeg": {[]string{"image/jpeg", "image/jpg"}, "image"},
	".png":  {[]string{"image/png"}, "image"},
	".gif":  {[]string{"image/gif"}, "image"},
	".mp4":  {[]string{"video/mp4"}, "video"},
	".webm": {[]string{"video/webm"}, "video"},
}

var avatarMedia = map[string]mediaKind{
	".jpg":  {[]string{"image/jpeg", "image/jpg"}, "image"},
	".jpeg": {[]string{"image/jpeg", "image/jpg"}, "image"},
	".png":  {[]string{"image/png"}, "image"},
	".gif":  {[]string{"image/gif"}, "image"},
	".webp": {[]string{"image/webp"}, "image"},
}

var errUnsupportedMedia = errors.New("unsupported media type")

// UploadResponse tells the client where the stored file is served from.
type UploadResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"` // image or video
}

// checkMedia validates the extension and declared content type of an upload.
func checkMedia(header *multipart.FileHeader, allowed map[string]mediaKind) (string, mediaKind, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	media, ok := allowed[ext]
	if !ok {
		return "", mediaKind{}, errUnsupportedMedia
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		return ext, media, nil
	}
	for _, ct := range media.contentTypes {
		if contentType == ct {
			return ext, media, nil
		}
	}
	return "", mediaKind{}, errUnsupportedMedia
}

// saveUpload copies file into uploadsDir/subdir and returns its public URL.
func saveUpload(file io.Reader, subdir, prefix, ext string) (string, error) {
	dir := filepath.Join(uploadsDir, subdir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create uploads directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return path.Join("/uploads", subdir, filename), nil
}

// UploadHandler stores an image or video for a post. The form field is "file".
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext, media, err := checkMedia(header, postMedia)
	if err != nil {
		http.Error(w, "Invalid file type. Only JPEG, PNG, GIF, MP4 and WebM are allowed.", http.StatusBadRequest)
		return
	}

	url, err := saveUpload(file, "posts", userID, ext)
	if err != nil {
		logger.Error.Printf("Error saving upload for user %s: %v", userID, err)
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{URL: url, Type: media.kind})
}
