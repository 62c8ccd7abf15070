package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/smart-spa/internal/config"
	"github.com/BruksfildServices01/smart-spa/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE salons
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.DefaultTimezone)

	return db
}

// Migrate creates the tables and the one-live-booking-per-slot index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Salon{},
		&models.Service{},
		&models.SalonService{},
		&models.Master{},
		&models.MasterService{},
		&models.ScheduleSlot{},
		&models.Appointment{},
		&models.Review{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	return db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_live_slot
        ON appointments (slot_id)
        WHERE status <> 'cancelled'
    `).Error
}
