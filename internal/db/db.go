package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/config"
)

// ErrStorageUnavailable wraps persistence failures so callers can tell
// "the backend is down" apart from domain errors. Write operations
// that return it have not mutated any state.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Connect opens a GORM database connection using APP_DATABASE_URL (PostgreSQL URL).
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn == "" {
		return nil, errors.New("APP_DATABASE_URL is required (PostgreSQL URL)")
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil, errors.New("APP_DATABASE_URL must be a postgres:// or postgresql:// URL")
	}

	// PrepareStmt: true prevents the GORM postgres migrator from forcing simple protocol
	// for "SELECT * FROM table LIMIT 1", which would otherwise trigger "insufficient arguments".
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate the core tables.
	if err := db.AutoMigrate(&User{}, &AttendanceRecord{}, &Message{}, &ShopProfile{}, &DailySummary{}); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureBootstrapOwner makes sure an owner account exists. If no user
// holds the owner role yet, one is created from the bootstrap
// credentials in config; otherwise nothing happens, so a renamed or
// re-credentialed owner is left alone.
func EnsureBootstrapOwner(db *gorm.DB, cfg *config.Config) error {
	if cfg.OwnerUser == "" || cfg.OwnerPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&User{}).Where("role = ?", RoleOwner).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	owner := &User{
		Username:     cfg.OwnerUser,
		PasswordHash: string(hash),
		Role:         RoleOwner,
	}

	return db.Create(owner).Error
}

// EnsureShopProfile seeds the single shop profile row on first run so
// ID cards always have a shop name to print.
func EnsureShopProfile(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&ShopProfile{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Create(&ShopProfile{Name: cfg.ShopName}).Error
}
