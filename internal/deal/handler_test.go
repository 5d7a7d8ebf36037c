package deal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/deal"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	deal.ServiceAPI
	stage string
	err   error
}

func (s *stubService) ChangeStage(ctx context.Context, actor internal.Identity, id string, dto deal.StageDTO) (*deal.Deal, error) {
	s.stage = dto.Stage
	if s.err != nil {
		return nil, s.err
	}
	return &deal.Deal{ID: id, Stage: dto.Stage}, nil
}

func (s *stubService) Pipeline(ctx context.Context, actor internal.Identity) ([]deal.StageTotal, error) {
	return []deal.StageTotal{{Stage: deal.StageNew, Count: 1}}, s.err
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("Deal Handler", func() {
	var (
		svc     *stubService
		handler *deal.Handler
		rec     *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		svc = &stubService{}
		handler = deal.NewHandler(svc)
		rec = httptest.NewRecorder()
	})

	It("changes the stage", func() {
		id := "5b0c1a34-8f0e-4d5c-9d0e-2f7b8a9c1d2e"
		req := withID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"stage":"won"}`)), id)
		handler.ChangeStage(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.stage).To(Equal("won"))
	})

	It("rejects a bad id on stage change", func() {
		req := withID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"stage":"won"}`)), "1")
		handler.ChangeStage(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(svc.stage).To(BeEmpty())
	})

	It("returns the pipeline", func() {
		handler.Pipeline(rec, httptest.NewRequest(http.MethodGet, "/api/deals/pipeline", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Success bool               `json:"success"`
			Data    []deal.StageTotal `json:"data"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Success).To(BeTrue())
		Expect(body.Data).To(HaveLen(1))
	})
})
