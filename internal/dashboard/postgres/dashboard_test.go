package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/cxm/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/cxm/internal/dashboard/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDashboardPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Postgres Suite")
}

var _ = Describe("StatsRepository", func() {
	var (
		mockDB *sql.DB
		mock   sqlmock.Sqlmock
		repo   *dashboardPostgres.StatsRepository
		ctx    context.Context
		since  time.Time
	)

	BeforeEach(func() {
		var err error
		mockDB, mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		Expect(err).NotTo(HaveOccurred())
		repo = dashboardPostgres.NewStatsRepository(sqlx.NewDb(mockDB, "pgx"))
		ctx = context.Background()
		since = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mockDB.Close()
	})

	It("aggregates every table without an owner filter", func() {
		mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM customers$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
		mock.ExpectQuery(`(?s)FROM deals$`).
			WillReturnRows(sqlmock.NewRows([]string{"open_deals", "open_deals_value", "won_deals"}).AddRow(4, 9000000, 2))
		mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM tickets WHERE status NOT IN`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery(`(?s)FROM feedback$`).
			WillReturnRows(sqlmock.NewRows([]string{"feedback_count", "feedback_average"}).AddRow(5, 4.2))
		mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM interactions WHERE occurred_at >= \$1$`).
			WithArgs(since).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		st, err := repo.Stats(ctx, dashboard.Scope{Since: since})
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Customers).To(Equal(12))
		Expect(st.OpenDeals).To(Equal(4))
		Expect(st.OpenDealsValue).To(Equal(int64(9000000)))
		Expect(st.WonDeals).To(Equal(2))
		Expect(st.OpenTickets).To(Equal(3))
		Expect(st.FeedbackCount).To(Equal(5))
		Expect(*st.FeedbackAverage).To(BeNumerically("~", 4.2))
		Expect(st.RecentInteractions).To(Equal(7))
	})

	It("filters each table by the owner", func() {
		mock.ExpectQuery(`FROM customers WHERE \(assigned_to = \$1 OR created_by = \$2\)$`).
			WithArgs("u-1", "u-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`(?s)FROM deals WHERE \(assigned_to = \$1 OR created_by = \$2\)$`).
			WithArgs("u-1", "u-1").
			WillReturnRows(sqlmock.NewRows([]string{"open_deals", "open_deals_value", "won_deals"}).AddRow(0, 0, 0))
		mock.ExpectQuery(`FROM tickets WHERE \(assigned_to = \$1 OR created_by = \$2\) AND status NOT IN`).
			WithArgs("u-1", "u-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`(?s)FROM feedback WHERE created_by = \$1$`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows([]string{"feedback_count", "feedback_average"}).AddRow(0, nil))
		mock.ExpectQuery(`FROM interactions WHERE user_id = \$1 AND occurred_at >= \$2$`).
			WithArgs("u-1", since).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		st, err := repo.Stats(ctx, dashboard.Scope{OwnerID: "u-1", Since: since})
		Expect(err).NotTo(HaveOccurred())
		Expect(st.FeedbackAverage).To(BeNil())
	})
})
