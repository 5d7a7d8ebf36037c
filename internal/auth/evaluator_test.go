package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/frahmantamala/cxm/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockGrantStore struct {
	grants map[string]bool
	err    error
	calls  int
}

func (m *mockGrantStore) HasGrant(ctx context.Context, userID, module string) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.grants[userID+"/"+module], nil
}

var _ = Describe("Evaluator", func() {
	var (
		store *mockGrantStore
		ev    *auth.Evaluator
		ctx   context.Context
	)

	BeforeEach(func() {
		store = &mockGrantStore{grants: map[string]bool{"agent-1/customers": true}}
		ev = auth.NewEvaluator(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	Describe("HasPermission", func() {
		It("matches both spellings listed in the allow-list", func() {
			Expect(ev.HasPermission("ceo", auth.Managers)).To(BeTrue())
			Expect(ev.HasPermission("مدیر", auth.Managers)).To(BeTrue())
			Expect(ev.HasPermission("مدیر فروش", auth.Managers)).To(BeTrue())
		})

		It("is case-sensitive and literal", func() {
			Expect(ev.HasPermission("CEO", auth.Managers)).To(BeFalse())
			Expect(ev.HasPermission(" ceo", auth.Managers)).To(BeFalse())
			Expect(ev.HasPermission("sales_agent", auth.Managers)).To(BeFalse())
		})

		It("denies everything for an empty allow-list", func() {
			Expect(auth.HasPermission("ceo", nil)).To(BeFalse())
		})
	})

	Describe("HasModulePermission", func() {
		It("short-circuits chief roles without a lookup", func() {
			Expect(ev.HasModulePermission(ctx, "anyone", "ceo", "users")).To(BeTrue())
			Expect(ev.HasModulePermission(ctx, "anyone", "مدیر", "users")).To(BeTrue())
			Expect(store.calls).To(BeZero())
		})

		It("does not short-circuit sales managers", func() {
			Expect(ev.HasModulePermission(ctx, "mgr", "sales_manager", "customers")).To(BeFalse())
			Expect(store.calls).To(Equal(1))
		})

		It("reads stored grants for other roles", func() {
			Expect(ev.HasModulePermission(ctx, "agent-1", "sales_agent", "customers")).To(BeTrue())
			Expect(ev.HasModulePermission(ctx, "agent-1", "sales_agent", "deals")).To(BeFalse())
		})

		It("re-evaluates on every call", func() {
			ev.HasModulePermission(ctx, "agent-1", "sales_agent", "customers")
			store.grants["agent-1/customers"] = false
			Expect(ev.HasModulePermission(ctx, "agent-1", "sales_agent", "customers")).To(BeFalse())
			Expect(store.calls).To(Equal(2))
		})

		It("reads lookup errors as a denial", func() {
			store.err = errors.New("connection refused")
			Expect(ev.HasModulePermission(ctx, "agent-1", "sales_agent", "customers")).To(BeFalse())
		})

		It("denies unknown users and empty modules", func() {
			Expect(ev.HasModulePermission(ctx, "ghost", "support", "customers")).To(BeFalse())
			Expect(ev.HasModulePermission(ctx, "agent-1", "sales_agent", "")).To(BeFalse())
		})
	})
})
