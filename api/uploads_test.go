package api_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/gorilla/mux"

	"github.com/xceptionalbae23/word-of-hope-ministries/api"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/config"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/storage"
)

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

var testUploadLimits = config.UploadConfig{
	MaxImageBytes: 1 << 20,
	MaxVideoBytes: 2 << 20,
	MaxAudioBytes: 1 << 20,
}

func newMultipartRequest(t *testing.T, path string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		h.Set("Content-Type", f.contentType)
		pw, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		pw.Write(f.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newMediaHandler(t *testing.T) (*api.MediaHandler, storage.Store) {
	t.Helper()
	return newMediaHandlerIn(t, t.TempDir())
}

func newMediaHandlerIn(t *testing.T, root string) (*api.MediaHandler, storage.Store) {
	t.Helper()
	store, err := storage.NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return api.NewMediaHandler(store, testUploadLimits), store
}

// captureLog routes the api logger into a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	api.SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { api.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil))) })
	return &buf
}

func TestUpload(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")

	tests := []struct {
		name       string
		kind       string
		fields     map[string]string
		files      []filePart
		wantStatus int
		wantDetail string
		wantMsg    string
	}{
		{
			name:       "Image",
			kind:       "image",
			fields:     map[string]string{"title": "Cover", "description": "front page"},
			files:      []filePart{{"file", "Cover.PNG", "image/png", png}},
			wantStatus: http.StatusOK,
			wantMsg:    "Image uploaded successfully",
		},
		{
			name:       "Audio",
			kind:       "audio",
			fields:     map[string]string{"title": "Hymn"},
			files:      []filePart{{"file", "hymn.mp3", "audio/mpeg", []byte("ID3")}},
			wantStatus: http.StatusOK,
			wantMsg:    "Audio uploaded successfully",
		},
		{
			name:       "WrongType",
			kind:       "image",
			fields:     map[string]string{"title": "Cover"},
			files:      []filePart{{"file", "notes.txt", "text/plain", []byte("hi")}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "File must be an image",
		},
		{
			name:       "VideoWrongType",
			kind:       "video",
			fields:     map[string]string{"title": "Clip"},
			files:      []filePart{{"file", "a.mp3", "audio/mpeg", []byte("x")}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "File must be a video",
		},
		{
			name:       "MarkupExtension",
			kind:       "image",
			fields:     map[string]string{"title": "Cover"},
			files:      []filePart{{"file", "evil.html", "image/png", []byte("<script>alert(1)</script>")}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "File must be an image",
		},
		{
			name:       "AudioWithImageExtension",
			kind:       "audio",
			fields:     map[string]string{"title": "Hymn"},
			files:      []filePart{{"file", "hymn.png", "audio/mpeg", []byte("ID3")}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "File must be an audio file",
		},
		{
			name:       "TooLarge",
			kind:       "image",
			fields:     map[string]string{"title": "Huge"},
			files:      []filePart{{"file", "huge.png", "image/png", bytes.Repeat([]byte("a"), 1<<20+1)}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Image file too large (max 1MB)",
		},
		{
			name:       "MissingTitle",
			kind:       "image",
			files:      []filePart{{"file", "a.png", "image/png", png}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "title is required",
		},
		{
			name:       "MissingFile",
			kind:       "image",
			fields:     map[string]string{"title": "Cover"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "file is required",
		},
		{
			name:       "UnknownKind",
			kind:       "document",
			fields:     map[string]string{"title": "Doc"},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newMediaHandler(t)
			req := newMultipartRequest(t, "/api/admin/upload/"+tt.kind, tt.fields, tt.files...)
			w := serve(h.Upload, mux.SetURLVars(req, map[string]string{"kind": tt.kind}))
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantDetail != "" {
				if got := detailOf(t, w); got != tt.wantDetail {
					t.Fatalf("expected detail %q, got %q", tt.wantDetail, got)
				}
			}
			if tt.wantMsg == "" {
				return
			}

			resp := decodeBody[map[string]any](t, w)
			if resp["message"] != tt.wantMsg || resp["title"] != tt.fields["title"] {
				t.Fatalf("unexpected response %v", resp)
			}
			key, _ := resp["path"].(string)
			filename, _ := resp["filename"].(string)
			if !strings.HasSuffix(key, "/"+filename) || resp["url"] != "/uploads/"+key {
				t.Fatalf("inconsistent path/url: %v", resp)
			}
			if tt.kind == "image" && !strings.HasSuffix(filename, ".png") {
				t.Fatalf("expected lowercased extension, got %q", filename)
			}

			rc, _, err := store.Open(t.Context(), key)
			if err != nil {
				t.Fatalf("stored object missing: %v", err)
			}
			defer rc.Close()
			got, _ := io.ReadAll(rc)
			if !bytes.Equal(got, tt.files[0].data) {
				t.Fatalf("stored content mismatch")
			}
		})
	}
}

func TestFileInfoAndServe(t *testing.T) {
	h, store := newMediaHandler(t)
	if _, err := store.Put(t.Context(), "images/logo.png", strings.NewReader("pngdata"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	vars := func(dir, name string) map[string]string {
		return map[string]string{"file_type": dir, "filename": name}
	}

	w := serve(h.FileInfo, mux.SetURLVars(newJSONRequest(t, http.MethodGet, "/api/admin/uploads/images/logo.png", nil), vars("images", "logo.png")))
	info := decodeBody[map[string]any](t, w)
	if w.Code != http.StatusOK || info["message"] != "File found" || info["size"] != float64(7) || info["url"] != "/uploads/images/logo.png" {
		t.Fatalf("unexpected file info %d %v", w.Code, info)
	}

	w = serve(h.Serve, mux.SetURLVars(newJSONRequest(t, http.MethodGet, "/uploads/images/logo.png", nil), vars("images", "logo.png")))
	if w.Code != http.StatusOK || w.Body.String() != "pngdata" || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected served file %d %q %q", w.Code, w.Body.String(), w.Header().Get("Content-Type"))
	}

	notFound := []map[string]string{
		vars("images", "missing.png"),
		vars("documents", "logo.png"),
		vars("images", ".."),
		vars("images", `..\logo.png`),
	}
	for _, v := range notFound {
		for name, hf := range map[string]http.HandlerFunc{"FileInfo": h.FileInfo, "Serve": h.Serve} {
			w := serve(hf, mux.SetURLVars(newJSONRequest(t, http.MethodGet, "/x", nil), v))
			if w.Code != http.StatusNotFound || detailOf(t, w) != "File not found" {
				t.Fatalf("%s(%v): expected 404, got %d", name, v, w.Code)
			}
		}
	}
}

func TestUpload_RejectedMarkupIsNotStored(t *testing.T) {
	root := t.TempDir()
	h, _ := newMediaHandlerIn(t, root)

	req := newMultipartRequest(t, "/api/admin/upload/image", map[string]string{"title": "x"},
		filePart{"file", "evil.html", "image/png", []byte("<script>alert(1)</script>")})
	w := serve(h.Upload, mux.SetURLVars(req, map[string]string{"kind": "image"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	if entries, _ := os.ReadDir(filepath.Join(root, "images")); len(entries) != 0 {
		t.Fatalf("rejected upload left files behind: %v", entries)
	}
}

func TestServe_Headers(t *testing.T) {
	h, store := newMediaHandler(t)
	ctx := t.Context()
	store.Put(ctx, "images/logo.png", strings.NewReader("pngdata"), "image/png")
	store.Put(ctx, "images/logo.svg", strings.NewReader("<svg onload=alert(1)>"), "image/svg+xml")
	store.Put(ctx, "images/legacy.html", strings.NewReader("<script>alert(1)</script>"), "text/html")

	tests := []struct {
		name           string
		file           string
		wantAttachment bool
	}{
		{name: "Image", file: "logo.png"},
		{name: "SVG", file: "logo.svg", wantAttachment: true},
		{name: "Markup", file: "legacy.html", wantAttachment: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodGet, "/uploads/images/"+tt.file, nil)
			w := serve(h.Serve, mux.SetURLVars(req, map[string]string{"file_type": "images", "filename": tt.file}))
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Fatalf("expected nosniff, got %q", got)
			}
			if got := w.Header().Get("Content-Security-Policy"); got != "sandbox" {
				t.Fatalf("expected sandbox CSP, got %q", got)
			}
			cd := w.Header().Get("Content-Disposition")
			if tt.wantAttachment != strings.HasPrefix(cd, "attachment") {
				t.Fatalf("unexpected Content-Disposition %q", cd)
			}
		})
	}
}

// streamStore hands out non-seekable readers, like the S3 driver.
type streamStore struct {
	body func() io.Reader
}

func (s *streamStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (int64, error) {
	return 0, errors.New("read only")
}

func (s *streamStore) Stat(ctx context.Context, key string) (*storage.Object, error) {
	return &storage.Object{Key: key, Size: 100, ContentType: "video/mp4", ModTime: time.Now()}, nil
}

func (s *streamStore) Open(ctx context.Context, key string) (io.ReadCloser, *storage.Object, error) {
	obj, _ := s.Stat(ctx, key)
	return io.NopCloser(s.body()), obj, nil
}

func TestServe_StreamErrorIsLogged(t *testing.T) {
	logs := captureLog(t)
	store := &streamStore{body: func() io.Reader {
		return io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("connection reset")))
	}}
	h := api.NewMediaHandler(store, testUploadLimits)

	req := newJSONRequest(t, http.MethodGet, "/uploads/videos/clip.mp4", nil)
	w := serve(h.Serve, mux.SetURLVars(req, map[string]string{"file_type": "videos", "filename": "clip.mp4"}))
	if w.Code != http.StatusOK || w.Body.String() != "partial" {
		t.Fatalf("unexpected response %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Length") != "100" {
		t.Fatalf("expected Content-Length from object size, got %q", w.Header().Get("Content-Length"))
	}
	if !strings.Contains(logs.String(), "upload stream interrupted") || !strings.Contains(logs.String(), "connection reset") {
		t.Fatalf("stream failure not logged: %s", logs.String())
	}
}

func TestUpload_LogsAdmin(t *testing.T) {
	logs := captureLog(t)
	h, _ := newMediaHandler(t)

	req := newMultipartRequest(t, "/api/admin/upload/image", map[string]string{"title": "Cover"},
		filePart{"file", "cover.png", "image/png", []byte("png")})
	req = mux.SetURLVars(req, map[string]string{"kind": "image"})
	req = req.WithContext(context.WithValue(req.Context(), api.CtxAdminUser, "pastor"))

	if w := serve(h.Upload, req); w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(logs.String(), `"admin":"pastor"`) {
		t.Fatalf("expected admin in upload log: %s", logs.String())
	}
}
