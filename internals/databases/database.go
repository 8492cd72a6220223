package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cobranza_backend/internals/configs"
	model "cobranza_backend/internals/features/finance/debts/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=cobranza&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

// AutoMigrate is opt-in (DB_AUTO_MIGRATE=true); production schemas come from migrations.
func AutoMigrate() {
	if !configs.GetEnvBool("DB_AUTO_MIGRATE", false) {
		return
	}
	if err := DB.AutoMigrate(
		&model.EnrollmentFeeModel{},
		&model.MonthlyDueModel{},
		&model.ProductModel{},
		&model.ConceptModel{},
		&model.SubConceptModel{},
		&model.ConceptSubConceptModel{},
		&model.BonusModel{},
		&model.SurchargeModel{},
		&model.PaymentEventModel{},
		&model.DebtLineModel{},
		&model.PaymentTenderModel{},
	); err != nil {
		log.Fatalf("❌ auto-migrate failed: %v", err)
	}
	log.Println("✅ schema migrated.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
