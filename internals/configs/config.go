package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// App holds the runtime settings read once at boot.
type App struct {
	Port     string
	Timezone *time.Location

	CatalogCacheSize int
	CatalogCacheTTL  time.Duration
	ProductIndexTTL  time.Duration

	// cron expression; empty disables the periodic catalog refresh
	CatalogRefreshCron string

	MidtransServerKey string
	MidtransUseProd   bool

	CORSAllowOrigins string
}

var Settings App

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env not found, using system ENV")
		} else {
			log.Println("✅ .env loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	Settings = Load()

	if Settings.MidtransServerKey == "" {
		log.Println("❌ MIDTRANS_SERVER_KEY not set: checkout disabled, notifications unsigned")
	} else {
		log.Println("✅ MIDTRANS_SERVER_KEY loaded.")
	}
}

// Load builds App from the current environment. Bad values fall back to defaults.
func Load() App {
	loc, err := time.LoadLocation(GetEnv("APP_TIMEZONE", "America/Lima"))
	if err != nil {
		log.Printf("[WARN] APP_TIMEZONE invalid (%v), using UTC", err)
		loc = time.UTC
	}
	return App{
		Port:               GetEnv("PORT", "3000"),
		Timezone:           loc,
		CatalogCacheSize:   GetEnvInt("CATALOG_CACHE_SIZE", 1024),
		CatalogCacheTTL:    GetEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		ProductIndexTTL:    GetEnvDuration("PRODUCT_INDEX_TTL", time.Minute),
		CatalogRefreshCron: GetEnv("CATALOG_REFRESH_CRON", "*/15 * * * *"),
		MidtransServerKey:  GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:    GetEnvBool("MIDTRANS_USE_PROD", false),
		CORSAllowOrigins:   GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(GetEnv(key)))
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(GetEnv(key)))
	if err != nil {
		return def
	}
	return b
}

// GetEnvDuration accepts Go durations ("90s", "5m").
func GetEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(GetEnv(key)))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetEnvBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	n := *l
	n.LogLevel = level
	return &n
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
