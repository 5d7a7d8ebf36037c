package chat_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/chat"
	"github.com/frahmantamala/cxm/internal/core/events"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Hub", func() {
	var (
		hub    *chat.Hub
		logger *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		hub = chat.NewHub(logger)
	})

	It("delivers only to subscribers of the same conversation", func() {
		a := hub.Subscribe("c-1", 1)
		b := hub.Subscribe("c-2", 1)

		hub.Broadcast(&chat.Message{ID: "m-1", ConversationID: "c-1"})

		Eventually(a).Should(Receive(HaveField("ID", "m-1")))
		Consistently(b).ShouldNot(Receive())
	})

	It("drops messages for a full subscriber instead of blocking", func() {
		ch := hub.Subscribe("c-1", 1)
		hub.Broadcast(&chat.Message{ID: "m-1", ConversationID: "c-1"})
		hub.Broadcast(&chat.Message{ID: "m-2", ConversationID: "c-1"})

		Expect(ch).To(Receive(HaveField("ID", "m-1")))
		Expect(ch).NotTo(Receive())
	})

	It("closes the channel once and forgets empty conversations", func() {
		ch := hub.Subscribe("c-1", 0)
		hub.Unsubscribe("c-1", ch)
		hub.Unsubscribe("c-1", ch)

		Expect(ch).To(BeClosed())
		Expect(hub.Subscribers("c-1")).To(Equal(0))
	})

	It("relays chat events published on the bus", func() {
		bus := events.NewEventBus(logger)
		hub.Register(bus)
		ch := hub.Subscribe("c-1", 1)

		Expect(bus.PublishSync(context.Background(), events.NewChatMessageSentEvent("m-9", "c-1", "u-1", "Alice", "سلام", time.Now()))).To(Succeed())

		var got *chat.Message
		Expect(ch).To(Receive(&got))
		Expect(got.Content).To(Equal("سلام"))
		Expect(got.SenderName).To(Equal("Alice"))
	})
})

var _ = Describe("Stream", func() {
	var (
		repo   *MockRepository
		hub    *chat.Hub
		server *httptest.Server
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo = NewMockRepository()
		repo.seed(convID, aliceID, bobID)
		hub = chat.NewHub(logger)
		handler := chat.NewHandler(chat.NewService(repo, nil, logger), hub, []string{"*"})

		r := chi.NewRouter()
		r.Get("/api/chat/conversations/{id}/stream", handler.Stream)
		server = httptest.NewServer(r)
	})

	AfterEach(func() {
		server.Close()
	})

	streamURL := func() string {
		return "ws" + strings.TrimPrefix(server.URL, "http") + "/api/chat/conversations/" + convID + "/stream"
	}

	It("pushes broadcast messages to a participant", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		header := http.Header{}
		header.Set(internal.HeaderUserID, bobID)
		conn, _, err := websocket.Dial(ctx, streamURL(), &websocket.DialOptions{HTTPHeader: header})
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close(websocket.StatusNormalClosure, "done")

		Eventually(func() int { return hub.Subscribers(convID) }).Should(Equal(1))
		hub.Broadcast(&chat.Message{ID: "m-1", ConversationID: convID, Content: "سلام"})

		var got chat.Message
		Expect(wsjson.Read(ctx, conn, &got)).To(Succeed())
		Expect(got.ID).To(Equal("m-1"))
		Expect(got.Content).To(Equal("سلام"))
	})

	It("refuses the upgrade for non-participants", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		header := http.Header{}
		header.Set(internal.HeaderUserID, carolID)
		_, resp, err := websocket.Dial(ctx, streamURL(), &websocket.DialOptions{HTTPHeader: header})
		Expect(err).To(HaveOccurred())
		Expect(resp).NotTo(BeNil())
		Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
	})
})
