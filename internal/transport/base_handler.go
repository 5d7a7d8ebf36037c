package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess wraps data in the success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, internal.Envelope{Success: true, Data: data})
}

// WriteMessage is the success envelope for responses that carry only a message, such as deletions.
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, internal.Envelope{Success: true, Message: message})
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, internal.Envelope{Success: false, Message: message})
}

// HandleServiceError maps AppErrors to their status; anything else is logged and hidden behind a 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
		h.Logger.Warn(op+": request rejected",
			"code", appErr.Code,
			"status", appErr.StatusCode,
			"path", r.URL.Path)
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}

	logger.From(r.Context()).Error(op+": internal error", "error", err, "path", r.URL.Path)
	h.WriteError(w, http.StatusInternalServerError, internal.MsgInternal)
}

// DecodeJSON reads a bounded JSON body into dst. Unknown fields are ignored.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.NewValidationError(internal.MsgInvalidBody, internal.ErrCodeValidationFailed)
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.NewValidationError(internal.MsgRequiredFields, internal.ErrCodeMissingField)
		}
		return internal.NewValidationError(internal.MsgInvalidBody, internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return BearerToken(r)
}

func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}

	return strings.TrimSpace(authHeader[7:])
}

// QueryInt parses a non-negative integer query parameter, falling back to def.
func QueryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// Page reads limit/offset with an upper bound on limit.
func Page(r *http.Request, defLimit, maxLimit int) (limit, offset int) {
	limit = QueryInt(r, "limit", defLimit)
	if limit == 0 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = QueryInt(r, "offset", 0)
	return limit, offset
}

// URLParamUUID reads a chi path parameter that must be a UUID.
func URLParamUUID(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", internal.NewValidationError(internal.MsgInvalidID, internal.ErrCodeInvalidValue)
	}
	return id.String(), nil
}
