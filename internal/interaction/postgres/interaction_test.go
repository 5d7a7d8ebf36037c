package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/cxm/internal/interaction"
	interactionPostgres "github.com/frahmantamala/cxm/internal/interaction/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInteractionPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Interaction Postgres Suite")
}

var _ = Describe("InteractionRepository", func() {
	var (
		mockDB *sql.DB
		mock   sqlmock.Sqlmock
		repo   *interactionPostgres.InteractionRepository
		ctx    context.Context
		item   *interaction.Interaction
	)

	BeforeEach(func() {
		var err error
		mockDB, mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		Expect(err).NotTo(HaveOccurred())
		repo = interactionPostgres.NewInteractionRepository(sqlx.NewDb(mockDB, "pgx"))
		ctx = context.Background()
		item = &interaction.Interaction{CustomerID: "c-1", UserID: "u-1", Type: "call", Direction: "outbound", OccurredAt: time.Now()}
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mockDB.Close()
	})

	It("inserts and touches the customer in one transaction", func() {
		mock.ExpectBegin()
		mock.ExpectExec(`(?s)^INSERT INTO interactions`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`(?s)^UPDATE customers SET last_interaction_at = \$1 WHERE id = \$2`).
			WithArgs(item.OccurredAt, "c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		Expect(repo.Create(ctx, item)).To(Succeed())
		Expect(item.ID).NotTo(BeEmpty())
	})

	It("rolls back when the customer update fails", func() {
		mock.ExpectBegin()
		mock.ExpectExec(`(?s)^INSERT INTO interactions`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`(?s)^UPDATE customers`).WillReturnError(errors.New("deadlock"))
		mock.ExpectRollback()

		Expect(repo.Create(ctx, item)).To(MatchError("deadlock"))
	})

	It("lists newest first", func() {
		mock.ExpectQuery(`(?s)FROM interactions WHERE customer_id = \$1 AND type = \$2 ORDER BY occurred_at DESC LIMIT \$3 OFFSET \$4$`).
			WithArgs("c-1", "call", 10, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id", "type"}).AddRow("i-1", "call"))

		out, err := repo.List(ctx, interaction.Filter{CustomerID: "c-1", Type: "call", Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
	})
})
