package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/cxm/internal/auth"
	productDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/product"
	userDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with modules, sample staff accounts and products for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := auth.HashPassword(seedPassword, cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		modules := map[string]string{}
		for _, name := range auth.Modules {
			m := userDatamodel.Module{Name: name}
			if err := db.Where(userDatamodel.Module{Name: name}).
				Attrs(userDatamodel.Module{Label: auth.ModuleLabels[name]}).
				FirstOrCreate(&m).Error; err != nil {
				log.Fatalf("failed to seed module %s: %v", name, err)
			}
			modules[name] = m.ID
		}
		fmt.Println("Seeded modules:", len(modules))

		staff := []struct {
			Email  string
			Name   string
			Role   string
			Grants []string
		}{
			{"ceo@cxm.local", "مدیر عامل", auth.RoleCEO, nil},
			{"sales.manager@cxm.local", "مدیر فروش", auth.RoleSalesManager, nil},
			{"agent@cxm.local", "کارشناس فروش", auth.RoleSalesAgent, []string{
				auth.ModuleCustomers,
				auth.ModuleDeals,
				auth.ModuleTickets,
				auth.ModuleFeedback,
				auth.ModuleInteractions,
			}},
		}

		var grantorID *string
		for _, s := range staff {
			u := userDatamodel.User{Email: s.Email}
			if err := db.Where(userDatamodel.User{Email: s.Email}).
				Attrs(userDatamodel.User{Name: s.Name, Role: s.Role, PasswordHash: hash, IsActive: true}).
				FirstOrCreate(&u).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", s.Email, err)
			}
			fmt.Printf("Seeded user: %s (%s)\n", s.Email, s.Role)

			if s.Role == auth.RoleCEO {
				id := u.ID
				grantorID = &id
			}

			for _, module := range s.Grants {
				grant := userDatamodel.UserModulePermission{UserID: u.ID, ModuleID: modules[module]}
				if err := db.Where(userDatamodel.UserModulePermission{UserID: u.ID, ModuleID: modules[module]}).
					Attrs(userDatamodel.UserModulePermission{Granted: true, GrantedBy: grantorID}).
					FirstOrCreate(&grant).Error; err != nil {
					log.Fatalf("failed to grant %s to %s: %v", module, s.Email, err)
				}
			}
		}

		products := []productDatamodel.Product{
			{Name: "اشتراک پایه", Category: "اشتراک", Description: "اشتراک ماهانه پایه", Price: 4_900_000},
			{Name: "اشتراک حرفه‌ای", Category: "اشتراک", Description: "اشتراک ماهانه با پشتیبانی ویژه", Price: 12_900_000},
			{Name: "راه‌اندازی و آموزش", Category: "خدمات", Description: "نصب، پیکربندی و آموزش تیم", Price: 35_000_000},
		}
		for _, p := range products {
			row := productDatamodel.Product{Name: p.Name}
			if err := db.Where(productDatamodel.Product{Name: p.Name}).Attrs(p).FirstOrCreate(&row).Error; err != nil {
				log.Fatalf("failed to seed product %s: %v", p.Name, err)
			}
		}
		fmt.Println("Seeded products:", len(products))

		fmt.Printf("All seeded accounts use the password %q\n", seedPassword)
	},
}

// clearSeedData empties every table in dependency order.
func clearSeedData(db *gorm.DB) error {
	tables := []string{
		"chat_messages",
		"chat_participants",
		"chat_conversations",
		"interactions",
		"feedback",
		"tickets",
		"deals",
		"customers",
		"products",
		"user_module_permissions",
		"modules",
		"users",
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			if err := tx.Exec("DELETE FROM " + t).Error; err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		return nil
	})
}
