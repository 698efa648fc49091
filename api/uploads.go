package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/config"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/storage"
)

// multipart overhead allowed on top of the file size caps
const formOverhead = 1 << 20

type mediaKind struct {
	name     string // route segment: image, video, audio
	dir      string // storage and URL directory
	prefix   string // required Content-Type family
	label    string
	wrongMsg string
	maxBytes int64
}

type uploadError struct {
	status int
	detail string
}

func (e *uploadError) Error() string { return e.detail }

type uploadResult struct {
	Filename   string
	Key        string
	URL        string
	UploadedAt time.Time
}

// MediaHandler stores admin uploads and serves them back.
type MediaHandler struct {
	store storage.Store
	kinds map[string]mediaKind
	dirs  map[string]bool
}

func NewMediaHandler(store storage.Store, limits config.UploadConfig) *MediaHandler {
	kinds := map[string]mediaKind{
		"image": {name: "image", dir: "images", prefix: "image/", label: "Image", wrongMsg: "File must be an image", maxBytes: limits.MaxImageBytes},
		"video": {name: "video", dir: "videos", prefix: "video/", label: "Video", wrongMsg: "File must be a video", maxBytes: limits.MaxVideoBytes},
		"audio": {name: "audio", dir: "audio", prefix: "audio/", label: "Audio", wrongMsg: "File must be an audio file", maxBytes: limits.MaxAudioBytes},
	}
	dirs := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		dirs[k.dir] = true
	}
	return &MediaHandler{store: store, kinds: kinds, dirs: dirs}
}

// check validates a multipart file against its kind and returns the
// lowercase extension it will be stored under. An extension naming a
// different media family than the declared Content-Type is rejected.
func (h *MediaHandler) check(kind mediaKind, fh *multipart.FileHeader) (string, error) {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), kind.prefix) {
		return "", &uploadError{status: http.StatusBadRequest, detail: kind.wrongMsg}
	}
	if fh.Size > kind.maxBytes {
		return "", &uploadError{status: http.StatusBadRequest, detail: tooLargeMsg(kind)}
	}

	ext := strings.ToLower(path.Ext(fh.Filename))
	if et := mime.TypeByExtension(ext); et != "" && !strings.HasPrefix(et, kind.prefix) {
		return "", &uploadError{status: http.StatusBadRequest, detail: kind.wrongMsg}
	}
	return ext, nil
}

// save checks a multipart file and writes it under a fresh UUID name that
// keeps the original extension.
func (h *MediaHandler) save(ctx context.Context, kind mediaKind, fh *multipart.FileHeader) (*uploadResult, error) {
	ext, err := h.check(kind, fh)
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	filename := uuid.NewString() + ext
	key := kind.dir + "/" + filename
	if _, err := h.store.Put(ctx, key, f, fh.Header.Get("Content-Type")); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &uploadResult{
		Filename:   filename,
		Key:        key,
		URL:        "/uploads/" + key,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func tooLargeMsg(kind mediaKind) string {
	return fmt.Sprintf("%s file too large (max %dMB)", kind.label, kind.maxBytes>>20)
}

// parseMultipart bounds the request body and parses the form. The caller must
// call RemoveAll on the returned form.
func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, &uploadError{status: http.StatusBadRequest, detail: fmt.Sprintf("Upload too large (max %dMB)", (limit-formOverhead)>>20)}
		}
		return nil, &uploadError{status: http.StatusBadRequest, detail: "Invalid multipart form"}
	}
	return r.MultipartForm, nil
}

func writeUploadError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		writeError(w, ue.status, ue.detail)
		return
	}
	internalError(w, r, op, err)
}

type uploadResponse struct {
	Message     string    `json:"message"`
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kinds[mux.Vars(r)["kind"]]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown upload type")
		return
	}

	form, err := parseMultipart(w, r, kind.maxBytes+formOverhead)
	if err != nil {
		writeUploadError(w, r, "parse upload form", err)
		return
	}
	defer form.RemoveAll()

	title := formValue(form, "title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}

	res, err := h.save(r.Context(), kind, files[0])
	if err != nil {
		writeUploadError(w, r, "upload "+kind.name, err)
		return
	}

	logger.Info("media uploaded", "kind", kind.name, "key", res.Key, "size", files[0].Size, "admin", adminUser(r.Context()))
	writeJSON(w, uploadResponse{
		Message:     kind.label + " uploaded successfully",
		Filename:    res.Filename,
		Path:        res.Key,
		URL:         res.URL,
		Title:       title,
		Description: optionalFormValue(form, "description"),
		UploadedAt:  res.UploadedAt,
	}, http.StatusOK)
}

// objectKey validates the {file_type}/{filename} route pair.
func (h *MediaHandler) objectKey(r *http.Request) (string, bool) {
	vars := mux.Vars(r)
	dir, name := vars["file_type"], vars["filename"]
	if !h.dirs[dir] || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return dir + "/" + name, true
}

type fileInfoResponse struct {
	Message     string    `json:"message"`
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// FileInfo reports whether an uploaded file exists, without its contents.
func (h *MediaHandler) FileInfo(w http.ResponseWriter, r *http.Request) {
	key, ok := h.objectKey(r)
	if !ok {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	obj, err := h.store.Stat(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		internalError(w, r, "stat upload", err)
		return
	}

	writeJSON(w, fileInfoResponse{
		Message:     "File found",
		Path:        key,
		URL:         "/uploads/" + key,
		Size:        obj.Size,
		ContentType: obj.ContentType,
		ModifiedAt:  obj.ModTime,
	}, http.StatusOK)
}

// Serve streams an uploaded file.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key, ok := h.objectKey(r)
	if !ok {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	rc, obj, err := h.store.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		internalError(w, r, "open upload", err)
		return
	}
	defer rc.Close()

	ct := obj.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	hdr := w.Header()
	hdr.Set("Content-Type", ct)
	hdr.Set("X-Content-Type-Options", "nosniff")
	hdr.Set("Content-Security-Policy", "sandbox")
	if !inlineMedia(ct) {
		hdr.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(key)}))
	}

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, path.Base(key), obj.ModTime, rs)
		return
	}

	if obj.Size > 0 {
		hdr.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if !obj.ModTime.IsZero() {
		hdr.Set("Last-Modified", obj.ModTime.Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if n, err := io.Copy(w, rc); err != nil {
		logger.Warn("upload stream interrupted",
			slog.String("key", key), slog.Int64("written", n), slog.Any("err", err))
	}
}

// inlineMedia reports whether a stored type may render in the browser.
// SVG is an image type that can carry script.
func inlineMedia(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil || mt == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(mt, "image/") || strings.HasPrefix(mt, "audio/") || strings.HasPrefix(mt, "video/")
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func optionalFormValue(form *multipart.Form, key string) *string {
	v := formValue(form, key)
	if v == "" {
		return nil
	}
	return &v
}
