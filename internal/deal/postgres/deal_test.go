package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/cxm/internal/deal"
	dealPostgres "github.com/frahmantamala/cxm/internal/deal/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDealPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Deal Postgres Suite")
}

var _ = Describe("DealRepository", func() {
	var (
		mockDB *sql.DB
		mock   sqlmock.Sqlmock
		repo   *dealPostgres.DealRepository
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		mockDB, mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		Expect(err).NotTo(HaveOccurred())
		repo = dealPostgres.NewDealRepository(sqlx.NewDb(mockDB, "pgx"))
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mockDB.Close()
	})

	It("filters by owner, customer and stage", func() {
		mock.ExpectQuery(`(?s)FROM deals WHERE \(assigned_to = \$1 OR created_by = \$2\) AND customer_id = \$3 AND stage = \$4 ORDER BY created_at DESC LIMIT \$5 OFFSET \$6$`).
			WithArgs("u-1", "u-1", "c-1", "won", 50, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "title", "value", "stage", "probability",
				"expected_close_date", "notes", "assigned_to", "created_by", "closed_at", "created_at", "updated_at"}).
				AddRow("d-1", "c-1", "قرارداد", int64(1200), "won", 100, nil, "", "u-1", "u-1", time.Now(), time.Now(), time.Now()))

		out, err := repo.List(ctx, deal.Filter{OwnerID: "u-1", CustomerID: "c-1", Stage: "won", Limit: 50})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0].Value).To(BeEquivalentTo(1200))
		Expect(out[0].ClosedAt).NotTo(BeNil())
	})

	It("groups the pipeline by stage", func() {
		mock.ExpectQuery(`^SELECT stage, COUNT\(\*\) AS count, COALESCE\(SUM\(value\), 0\) AS value FROM deals GROUP BY stage$`).
			WillReturnRows(sqlmock.NewRows([]string{"stage", "count", "value"}).
				AddRow("new", 3, int64(100)).
				AddRow("won", 1, int64(50)))

		out, err := repo.Pipeline(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(2))
		Expect(out[0].Count).To(Equal(3))
	})

	It("updates stage and closed_at", func() {
		closed := time.Now()
		mock.ExpectExec(`(?s)^UPDATE deals SET title = \$1, value = \$2, stage = \$3, .+closed_at = \$8, updated_at = \$9 WHERE id = \$10$`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		Expect(repo.Update(ctx, &deal.Deal{ID: "d-1", Stage: "won", ClosedAt: &closed})).To(Succeed())
	})

	It("checks customer existence", func() {
		mock.ExpectQuery(`^SELECT EXISTS\(SELECT 1 FROM customers WHERE id = \$1\)$`).
			WithArgs("c-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.CustomerExists(ctx, "c-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("reports a miss as nil", func() {
		mock.ExpectQuery(`FROM deals WHERE id = \$1`).WithArgs("d-x").WillReturnError(sql.ErrNoRows)

		d, err := repo.GetByID(ctx, "d-x")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeNil())
	})
})
