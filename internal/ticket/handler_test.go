package ticket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/ticket"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	ticket.ServiceAPI
	assigned string
	err      error
}

func (s *stubService) Assign(ctx context.Context, actor internal.Identity, id string, dto ticket.AssignDTO) (*ticket.Ticket, error) {
	s.assigned = dto.AssignedTo
	if s.err != nil {
		return nil, s.err
	}
	return &ticket.Ticket{ID: id, AssignedTo: &dto.AssignedTo}, nil
}

func (s *stubService) Create(ctx context.Context, actor internal.Identity, dto ticket.CreateTicketDTO) (*ticket.Ticket, error) {
	return &ticket.Ticket{ID: "t-new", Subject: dto.Subject}, s.err
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("Ticket Handler", func() {
	var (
		svc     *stubService
		handler *ticket.Handler
		rec     *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		svc = &stubService{}
		handler = ticket.NewHandler(svc)
		rec = httptest.NewRecorder()
	})

	It("creates with 201", func() {
		handler.CreateTicket(rec, httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(`{"subject":"x"}`)))
		Expect(rec.Code).To(Equal(http.StatusCreated))
	})

	It("maps a denied assignment to 403", func() {
		svc.err = internal.ErrPermissionDenied
		req := withID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"assigned_to":"`+assigneeID+`"}`)), assigneeID)
		handler.AssignTicket(rec, req)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(svc.assigned).To(Equal(assigneeID))
	})

	It("rejects an empty body", func() {
		req := withID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader("")), assigneeID)
		handler.AssignTicket(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(svc.assigned).To(BeEmpty())
	})
})
