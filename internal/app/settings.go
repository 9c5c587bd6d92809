package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/pkg/common"
)

// Settings categories and keys kept in the sys_config table.
const (
	ConfigSystem = "system"

	ConfigSystemTitle         = "SystemTitle"
	ConfigSystemCurrency      = "SystemCurrency"
	ConfigSystemBanners       = "SystemBanners"
	ConfigAuditRetentionDays  = "AuditRetentionDays"
	ConfigCheckoutMailEnabled = "CheckoutMailEnabled"
)

// ConfigManager caches the sys_config table in memory. Values are reloaded
// on every Set and on a timed refresh from the jobs scheduler.
type ConfigManager struct {
	app   *Application
	mu    sync.RWMutex
	cache map[string]string
}

func NewConfigManager(app *Application) *ConfigManager {
	cm := &ConfigManager{app: app, cache: map[string]string{}}
	cm.Reload()
	return cm
}

func cacheKey(category, name string) string {
	return category + "/" + name
}

// Reload reads all settings rows into the cache.
func (cm *ConfigManager) Reload() {
	var rows []domain.SysConfig
	if err := cm.app.gormDB.Find(&rows).Error; err != nil {
		zap.L().Warn("settings reload failed", zap.Error(err))
		return
	}
	next := make(map[string]string, len(rows))
	for _, row := range rows {
		next[cacheKey(row.Type, row.Name)] = row.Value
	}
	cm.mu.Lock()
	cm.cache = next
	cm.mu.Unlock()
}

func (cm *ConfigManager) get(category, name string) string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.cache[cacheKey(category, name)]
}

func (cm *ConfigManager) GetString(category, name string) string {
	return cm.get(category, name)
}

func (cm *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(cm.get(category, name))
}

func (cm *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(cm.get(category, name))
}

func (cm *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(cm.get(category, name))
}

// SetValue upserts one setting and refreshes the cache.
func (cm *ConfigManager) SetValue(category, name, value string) error {
	var row domain.SysConfig
	err := cm.app.gormDB.Where("type = ? and name = ?", category, name).First(&row).Error
	if err != nil {
		row = domain.SysConfig{
			ID:        common.UUIDint64(),
			Type:      category,
			Name:      name,
			Value:     value,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := cm.app.gormDB.Create(&row).Error; err != nil {
			return err
		}
	} else {
		if err := cm.app.gormDB.Model(&domain.SysConfig{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
	}
	cm.Reload()
	return nil
}
