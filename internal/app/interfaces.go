package app

import (
	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/bitmall/storefront/config"
	"github.com/bitmall/storefront/internal/watch"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ConfigManagerProvider provides configuration manager access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// BusProvider provides the document change bus
type BusProvider interface {
	Bus() *watch.Bus
}

// WorkerPoolProvider provides the background task pool
type WorkerPoolProvider interface {
	WorkerPool() *ants.Pool
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	ConfigManagerProvider
	BusProvider
	WorkerPoolProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
