package database

import (
	"log"

	"ims-backend/internal/config"
	"ims-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	seedAdmin(cfg)

	log.Println("Database connection established, migration complete.")
}

// Migrate runs the schema migration on the given handle. Exposed separately
// so tests can migrate their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Policy{},
		&models.Claim{},
		&models.AuditLog{},
	)
}

// seedAdmin creates the default admin account on first start. Registration
// only ever produces "user" accounts, so without the seed there would be no
// way to reach the admin workflow.
func seedAdmin(cfg *config.Config) {
	if cfg.AdminPassword == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Could not hash admin password, skipping seed: %v", err)
		return
	}

	admin := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		UserID:       0,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Could not seed admin account: %v", err)
		return
	}
	log.Printf("Seeded admin account %q", cfg.AdminUsername)
}
