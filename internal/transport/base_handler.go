package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/pkg/logger"
	"github.com/google/uuid"
)

const defaultMaxMemory = 10 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a {"message": ...} error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, internal.Response{Message: message})
}

func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, map[string]string{"message": message})
}

// HandleError maps an error to its client-facing status and body. Only
// *internal.AppError reaches the client verbatim; anything else is a 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	lg := h.Logger
	if r != nil {
		lg = logger.From(r.Context())
	}

	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("Server error", err)
	}

	status, body := appErr.ToHTTPResponse()
	switch {
	case status >= http.StatusInternalServerError:
		lg.Error("request failed", "status", status, "error", appErr.Error())
	default:
		lg.Warn("request rejected", "status", status, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}
	h.WriteJSON(w, status, body)
}

// BindRequest decodes a JSON, urlencoded or multipart body into dst. Form
// values are matched against the JSON tags of dst; only the first value of
// each field is used.
func (h *BaseHandler) BindRequest(r *http.Request, dst interface{}) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(defaultMaxMemory); err != nil {
			return internal.ErrInvalidBody.WithCause(err)
		}
		return bindValues(r.MultipartForm.Value, dst)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return internal.ErrInvalidBody.WithCause(err)
		}
		return bindValues(r.PostForm, dst)
	default:
		if r.Body == nil {
			return internal.ErrInvalidBody
		}
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return internal.ErrInvalidBody.WithCause(err)
		}
		return nil
	}
}

func bindValues(values map[string][]string, dst interface{}) error {
	flat := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			flat[k] = v[0]
		}
	}
	raw, err := json.Marshal(flat)
	if err != nil {
		return internal.ErrInvalidBody.WithCause(err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return internal.ErrInvalidBody.WithCause(err)
	}
	return nil
}

// ObjectWriter is the subset of object storage needed to persist uploads.
type ObjectWriter interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// Uploader stores multipart files and returns the reference path kept on records.
type Uploader struct {
	Store   ObjectWriter
	MaxSize int64
}

func NewUploader(store ObjectWriter, maxSize int64) *Uploader {
	return &Uploader{Store: store, MaxSize: maxSize}
}

const UploadsPrefix = "/uploads/"

// SaveFormFile stores the file in form field `field` under `prefix` and
// returns its /uploads path. A request without that file yields nil.
func (u *Uploader) SaveFormFile(r *http.Request, field, prefix string) (*string, error) {
	if u == nil || u.Store == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, internal.NewValidationError("invalid file upload", internal.ErrCodeUploadFailed).WithCause(err)
	}
	defer file.Close()

	if u.MaxSize > 0 && header.Size > u.MaxSize {
		return nil, internal.NewValidationFieldError(field, fmt.Sprintf("%s exceeds the maximum upload size", field), internal.ErrCodeUploadFailed)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := ObjectKey(prefix, header.Filename)
	if err := u.Store.Put(r.Context(), key, file, header.Size, contentType); err != nil {
		return nil, internal.NewInternalError("failed to store upload", err)
	}

	path := UploadsPrefix + key
	return &path, nil
}

// ObjectKey builds `<prefix>/<unixnano>-<uuid><ext>` keeping only the original extension.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	if prefix == "" {
		return name
	}
	return strings.Trim(prefix, "/") + "/" + name
}
