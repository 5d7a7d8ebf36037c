package feedback_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/feedback"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	feedback.ServiceAPI
	customerID string
	err        error
}

func (s *stubService) Stats(ctx context.Context, actor internal.Identity, customerID string) (*feedback.Stats, error) {
	s.customerID = customerID
	if s.err != nil {
		return nil, s.err
	}
	nps := 25.0
	return &feedback.Stats{Total: 4, NPS: &nps}, nil
}

var _ = Describe("Feedback Handler", func() {
	It("serves stats for a customer", func() {
		svc := &stubService{}
		rec := httptest.NewRecorder()
		feedback.NewHandler(svc).Stats(rec, httptest.NewRequest(http.MethodGet, "/api/feedback/stats?customer_id=c-9", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.customerID).To(Equal("c-9"))

		var body struct {
			Data feedback.Stats `json:"data"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(*body.Data.NPS).To(BeNumerically("~", 25.0))
	})

	It("returns 403 when stats are denied", func() {
		svc := &stubService{err: internal.ErrPermissionDenied}
		rec := httptest.NewRecorder()
		feedback.NewHandler(svc).Stats(rec, httptest.NewRequest(http.MethodGet, "/api/feedback/stats", nil))

		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})
})
