package app

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/pkg/common"
)

func (a *Application) checkSuper() {
	const superEmail = "admin@storefront.local"
	const defaultPassword = "storefront"

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default staff password", zap.Error(err))
		return
	}

	var staff domain.User
	err = a.gormDB.Where("email = ?", superEmail).First(&staff).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.User{
			ID:            common.UUIDint64(),
			Name:          "administrator",
			Email:         superEmail,
			Password:      string(hash),
			Role:          domain.RoleStaff,
			CartItems:     domain.QuantityMap{},
			FavoriteItems: domain.FlagMap{},
			Status:        common.ENABLED,
			LastLogin:     time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default staff account", zap.Error(err))
		} else {
			zap.L().Info("initialized default staff account", zap.String("email", superEmail))
		}
		return
	case err != nil:
		zap.L().Error("failed to query staff account", zap.Error(err))
		return
	}

	resetRole := !strings.EqualFold(staff.Role, domain.RoleStaff)
	resetStatus := !strings.EqualFold(staff.Status, common.ENABLED)
	if !resetRole && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetRole {
		updates["role"] = domain.RoleStaff
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}
	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", staff.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair staff account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default staff account",
		zap.String("email", superEmail),
		zap.Bool("roleReset", resetRole),
		zap.Bool("statusEnabled", resetStatus))
}

func (a *Application) checkSettings() {
	defaults := []domain.SysConfig{
		{Type: ConfigSystem, Name: ConfigSystemTitle, Value: "Storefront", Remark: "Site title"},
		{Type: ConfigSystem, Name: ConfigSystemCurrency, Value: "USD", Remark: "Display currency"},
		{Type: ConfigSystem, Name: ConfigSystemBanners, Value: "", Remark: "Home banner image list, pipe separated"},
		{Type: ConfigSystem, Name: ConfigAuditRetentionDays, Value: "365", Remark: "Audit log retention in days"},
		{Type: ConfigSystem, Name: ConfigCheckoutMailEnabled, Value: "false", Remark: "Send order confirmation mail"},
	}
	for _, item := range defaults {
		var row domain.SysConfig
		err := a.gormDB.Where("type = ? and name = ?", item.Type, item.Name).First(&row).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		item.ID = common.UUIDint64()
		item.CreatedAt = time.Now()
		item.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&item).Error; err != nil {
			zap.L().Error("failed to seed setting", zap.String("name", item.Name), zap.Error(err))
		}
	}
	if a.configManager != nil {
		a.configManager.Reload()
	}
}
