package customer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/customer"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	actor      internal.Identity
	lastFilter customer.Filter
	lastID     string
	err        error
}

func (s *stubService) List(ctx context.Context, actor internal.Identity, f customer.Filter) ([]*customer.Customer, error) {
	s.actor, s.lastFilter = actor, f
	return nil, s.err
}

func (s *stubService) Get(ctx context.Context, actor internal.Identity, id string) (*customer.Customer, error) {
	s.actor, s.lastID = actor, id
	if s.err != nil {
		return nil, s.err
	}
	return &customer.Customer{ID: id, Name: "مشتری"}, nil
}

func (s *stubService) Create(ctx context.Context, actor internal.Identity, dto customer.CreateCustomerDTO) (*customer.Customer, error) {
	s.actor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &customer.Customer{ID: "c-new", Name: dto.Name}, nil
}

func (s *stubService) Update(ctx context.Context, actor internal.Identity, id string, dto customer.UpdateCustomerDTO) (*customer.Customer, error) {
	s.actor, s.lastID = actor, id
	return &customer.Customer{ID: id}, s.err
}

func (s *stubService) Delete(ctx context.Context, actor internal.Identity, id string) error {
	s.actor, s.lastID = actor, id
	return s.err
}

func (s *stubService) Summary(ctx context.Context, actor internal.Identity, id string) (*customer.Summary, error) {
	s.lastID = id
	return &customer.Summary{Customer: &customer.Customer{ID: id}, DealsCount: 3}, s.err
}

const validID = "5b0c1a34-8f0e-4d5c-9d0e-2f7b8a9c1d2e"

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func asAgent(req *http.Request) *http.Request {
	req.Header.Set(internal.HeaderUserID, "u-agent")
	req.Header.Set(internal.HeaderUserRole, "sales_agent")
	return req
}

func envelope(rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body
}

var _ = Describe("Customer Handler", func() {
	var (
		svc     *stubService
		handler *customer.Handler
		rec     *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		svc = &stubService{}
		handler = customer.NewHandler(svc)
		rec = httptest.NewRecorder()
	})

	It("passes identity headers and filters to the service and returns an empty array", func() {
		req := asAgent(httptest.NewRequest(http.MethodGet, "/api/customers?search=abc&status=lead&limit=500&offset=10", nil))
		handler.ListCustomers(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.actor.ID).To(Equal("u-agent"))
		Expect(svc.lastFilter.Search).To(Equal("abc"))
		Expect(svc.lastFilter.Status).To(Equal("lead"))
		Expect(svc.lastFilter.Limit).To(Equal(200))
		Expect(svc.lastFilter.Offset).To(Equal(10))

		body := envelope(rec)
		Expect(body["success"]).To(BeTrue())
		Expect(body["data"]).To(BeEmpty())
	})

	It("rejects a malformed id before calling the service", func() {
		req := withID(asAgent(httptest.NewRequest(http.MethodGet, "/api/customers/abc", nil)), "abc")
		handler.GetCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(svc.lastID).To(BeEmpty())
		Expect(envelope(rec)["message"]).To(Equal(internal.MsgInvalidID))
	})

	It("returns the customer for a valid id", func() {
		req := withID(asAgent(httptest.NewRequest(http.MethodGet, "/api/customers/"+validID, nil)), validID)
		handler.GetCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		data := envelope(rec)["data"].(map[string]interface{})
		Expect(data["id"]).To(Equal(validID))
	})

	It("maps not found to 404 with the Persian message", func() {
		svc.err = internal.ErrCustomerNotFound
		req := withID(asAgent(httptest.NewRequest(http.MethodGet, "/", nil)), validID)
		handler.GetCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		body := envelope(rec)
		Expect(body["success"]).To(BeFalse())
		Expect(body["message"]).To(Equal(internal.MsgCustomerNotFound))
	})

	It("hides unexpected errors behind a 500", func() {
		svc.err = errors.New("pq: connection refused")
		req := withID(asAgent(httptest.NewRequest(http.MethodGet, "/", nil)), validID)
		handler.GetCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("connection refused"))
		Expect(envelope(rec)["message"]).To(Equal(internal.MsgInternal))
	})

	It("creates with 201", func() {
		req := asAgent(httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"name":"علی","phone":"0912"}`)))
		handler.CreateCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(svc.actor.Role).To(Equal("sales_agent"))
	})

	It("rejects an unparsable body", func() {
		req := asAgent(httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"name":`)))
		handler.CreateCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(envelope(rec)["success"]).To(BeFalse())
	})

	It("forwards validation details as errors", func() {
		svc.err = internal.NewValidationError(internal.MsgRequiredFields, internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{{Field: "name", Message: "نام الزامی است"}}})
		req := asAgent(httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{}`)))
		handler.CreateCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		body := envelope(rec)
		Expect(body["message"]).To(Equal("نام الزامی است"))
		Expect(body["errors"]).To(HaveLen(1))
	})

	It("returns 403 when the service denies deletion", func() {
		svc.err = internal.ErrPermissionDenied
		req := withID(asAgent(httptest.NewRequest(http.MethodDelete, "/", nil)), validID)
		handler.DeleteCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(envelope(rec)["message"]).To(Equal(internal.MsgForbidden))
	})

	It("confirms deletion with a message", func() {
		req := withID(asAgent(httptest.NewRequest(http.MethodDelete, "/", nil)), validID)
		handler.DeleteCustomer(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		body := envelope(rec)
		Expect(body["success"]).To(BeTrue())
		Expect(body["message"]).NotTo(BeEmpty())
	})

	It("returns the summary", func() {
		req := withID(asAgent(httptest.NewRequest(http.MethodGet, "/", nil)), validID)
		handler.CustomerSummary(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		data := envelope(rec)["data"].(map[string]interface{})
		Expect(data["deals_count"]).To(BeEquivalentTo(3))
	})
})
