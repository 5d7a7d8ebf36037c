package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/cxm/api"
	"github.com/frahmantamala/cxm/internal/transport/swagger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("is a valid document covering the resource routes", func() {
		doc, err := swagger.Load(context.Background(), api.OpenAPI)
		Expect(err).NotTo(HaveOccurred())

		for _, path := range []string{"/customers", "/deals/pipeline", "/tickets/{id}/assign", "/feedback/stats", "/chat/conversations/{id}/stream", "/users/{id}/permissions"} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), path)
		}
	})

	It("rejects malformed documents", func() {
		_, err := swagger.Load(context.Background(), []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"))
		Expect(err).To(HaveOccurred())
	})

	It("serves the raw bytes as yaml", func() {
		rec := httptest.NewRecorder()
		swagger.SpecHandler(api.OpenAPI).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(HavePrefix("application/yaml"))
		Expect(rec.Body.Bytes()).To(Equal(api.OpenAPI))
	})
})
