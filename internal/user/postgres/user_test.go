package postgres_test

import (
	"context"
	"testing"

	userDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/user"
	userPostgres "github.com/frahmantamala/cxm/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("UserRepository", func() {
	var (
		db   *gorm.DB
		repo *userPostgres.UserRepository
		ctx  context.Context
		u    *userDatamodel.User
		mod  *userDatamodel.Module
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{}, &userDatamodel.Module{}, &userDatamodel.UserModulePermission{})).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
		ctx = context.Background()

		u = &userDatamodel.User{Email: "agent@example.ir", Name: "کارشناس", PasswordHash: "x", Role: "sales_agent", IsActive: true}
		Expect(db.Create(u).Error).To(Succeed())
		mod = &userDatamodel.Module{Name: "deals", Label: "معاملات"}
		Expect(db.Create(mod).Error).To(Succeed())
	})

	It("returns nil for unknown users and modules", func() {
		got, err := repo.GetByID(ctx, "missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeNil())

		m, err := repo.GetModuleByName(ctx, "billing")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(BeNil())
	})

	It("updates profile fields, password and role", func() {
		Expect(repo.UpdateProfile(ctx, u.ID, "نام تازه", "09120000000")).To(Succeed())
		Expect(repo.UpdatePassword(ctx, u.ID, "new-hash")).To(Succeed())
		Expect(repo.UpdateRole(ctx, u.ID, "support")).To(Succeed())

		got, err := repo.GetByID(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("نام تازه"))
		Expect(got.Phone).To(Equal("09120000000"))
		Expect(got.PasswordHash).To(Equal("new-hash"))
		Expect(got.Role).To(Equal("support"))
	})

	It("keeps a single grant row per user and module", func() {
		Expect(repo.UpsertGrant(ctx, &userDatamodel.UserModulePermission{UserID: u.ID, ModuleID: mod.ID, Granted: true})).To(Succeed())
		Expect(repo.UpsertGrant(ctx, &userDatamodel.UserModulePermission{UserID: u.ID, ModuleID: mod.ID, Granted: false})).To(Succeed())

		rows, err := repo.Grants(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Granted).To(BeFalse())
	})

	It("lists modules by name", func() {
		Expect(db.Create(&userDatamodel.Module{Name: "customers", Label: "مشتریان"}).Error).To(Succeed())

		mods, err := repo.Modules(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(mods).To(HaveLen(2))
		Expect(mods[0].Name).To(Equal("customers"))
	})
})
