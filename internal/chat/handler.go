package chat

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/transport"
	"github.com/frahmantamala/cxm/pkg/logger"
)

const streamWriteTimeout = 5 * time.Second

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	Hub            *Hub
	OriginPatterns []string
}

func NewHandler(service ServiceAPI, hub *Hub, originPatterns []string) *Handler {
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:        service,
		Hub:            hub,
		OriginPatterns: originPatterns,
	}
}

// ListConversations handles GET /api/chat/conversations
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.Service.ListConversations(r.Context(), internal.IdentityFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "ListConversations")
		return
	}
	if convs == nil {
		convs = []*Conversation{}
	}
	h.WriteSuccess(w, http.StatusOK, convs)
}

// CreateConversation handles POST /api/chat/conversations
func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var dto CreateConversationDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "CreateConversation")
		return
	}

	c, err := h.Service.CreateConversation(r.Context(), internal.IdentityFromRequest(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateConversation")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, c)
}

// ListMessages handles GET /api/chat/conversations/{id}/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "ListMessages")
		return
	}

	var before *time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			h.HandleServiceError(w, r, internal.NewValidationFieldError("before", "زمان نامعتبر است", internal.ErrCodeInvalidValue), "ListMessages")
			return
		}
		before = &t
	}

	msgs, err := h.Service.Messages(r.Context(), internal.IdentityFromRequest(r), id, before, transport.QueryInt(r, "limit", DefaultPageSize))
	if err != nil {
		h.HandleServiceError(w, r, err, "ListMessages")
		return
	}
	if msgs == nil {
		msgs = []*Message{}
	}
	h.WriteSuccess(w, http.StatusOK, msgs)
}

// SendMessage handles POST /api/chat/conversations/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "SendMessage")
		return
	}

	var dto SendMessageDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "SendMessage")
		return
	}

	m, err := h.Service.SendMessage(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "SendMessage")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, m)
}

// MarkRead handles POST /api/chat/conversations/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "MarkRead")
		return
	}

	if err := h.Service.MarkRead(r.Context(), internal.IdentityFromRequest(r), id); err != nil {
		h.HandleServiceError(w, r, err, "MarkRead")
		return
	}
	h.WriteMessage(w, http.StatusOK, "پیام‌ها خوانده شدند")
}

// Directory handles GET /api/chat/users
func (h *Handler) Directory(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.Directory(r.Context(), internal.IdentityFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "ChatDirectory")
		return
	}
	if users == nil {
		users = []*DirectoryUser{}
	}
	h.WriteSuccess(w, http.StatusOK, users)
}

// Stream handles GET /api/chat/conversations/{id}/stream and pushes new messages over a websocket.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "ChatStream")
		return
	}
	if err := h.Service.Authorize(r.Context(), internal.IdentityFromRequest(r), id); err != nil {
		h.HandleServiceError(w, r, err, "ChatStream")
		return
	}

	// long-lived connection; server read and write timeouts must not close it
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.OriginPatterns})
	if err != nil {
		h.Logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	sub := h.Hub.Subscribe(id, 0)
	defer h.Hub.Unsubscribe(id, sub)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "context done")
			return
		case err := <-readErr:
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return
			}
			h.Logger.Debug("chat stream read ended", "error", err)
			return
		case m, ok := <-sub:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "stream closed")
				return
			}
			writeCtx, writeCancel := context.WithTimeout(ctx, streamWriteTimeout)
			err := wsjson.Write(writeCtx, conn, m)
			writeCancel()
			if err != nil {
				h.Logger.Debug("chat stream write failed", "error", err)
				return
			}
		}
	}
}
