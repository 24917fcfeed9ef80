package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"social_graph/model"
	"social_graph/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService 功能开关服务（内存缓存 + 数据库持久化）
type SettingsService struct {
	db              *gorm.DB
	settingsCache   map[string]string
	settingsCacheMu sync.RWMutex
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{
		db:            db,
		settingsCache: make(map[string]string),
	}
}

// Reload 从数据库加载所有配置到内存缓存（整体替换）
func (s *SettingsService) Reload(ctx context.Context) error {
	var settings []model.AppSetting
	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return fmt.Errorf("failed to load app settings: %w", err)
	}

	cache := make(map[string]string, len(settings))
	for _, setting := range settings {
		cache[setting.SettingKey] = setting.SettingValue
	}

	s.settingsCacheMu.Lock()
	s.settingsCache = cache
	s.settingsCacheMu.Unlock()
	return nil
}

// Get 获取配置值（从缓存）
func (s *SettingsService) Get(key string) (string, bool) {
	s.settingsCacheMu.RLock()
	defer s.settingsCacheMu.RUnlock()

	value, exists := s.settingsCache[key]
	return value, exists
}

// GetBool 获取布尔类型配置，未设置或无法解析时返回默认值
func (s *SettingsService) GetBool(key string, defaultValue bool) bool {
	value, exists := s.Get(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// StartAutoReload 按间隔从数据库刷新缓存，直到 ctx 结束；interval <= 0 时不启动
// 直接修改 app_settings 表的变更在一个间隔内生效
func (s *SettingsService) StartAutoReload(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Reload(ctx); err != nil && ctx.Err() == nil {
					slog.WarnContext(ctx, "failed to reload app settings", slog.String("error", err.Error()))
				}
			}
		}
	}()
}

// SetBool 校验后写入布尔开关，只接受已知 key 和 "true" / "false"
func (s *SettingsService) SetBool(ctx context.Context, key, value string) error {
	if _, ok := model.KnownSettings[key]; !ok {
		return utils.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown setting %s", key))
	}
	if value != "true" && value != "false" {
		return utils.NewHTTPError(http.StatusBadRequest, "value must be 'true' or 'false'")
	}
	return s.UpdateSetting(ctx, key, value)
}

// UpdateSetting 写入配置（不存在则创建），同时更新缓存
func (s *SettingsService) UpdateSetting(ctx context.Context, key, value string) error {
	setting := model.AppSetting{SettingKey: key, SettingValue: value, Description: model.KnownSettings[key]}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to update setting %s: %w", key, err)
	}

	s.settingsCacheMu.Lock()
	s.settingsCache[key] = value
	s.settingsCacheMu.Unlock()
	return nil
}

// All 返回缓存副本
func (s *SettingsService) All() map[string]string {
	s.settingsCacheMu.RLock()
	defer s.settingsCacheMu.RUnlock()

	result := make(map[string]string, len(s.settingsCache))
	for k, v := range s.settingsCache {
		result[k] = v
	}
	return result
}

// RegistrationOpen 是否开放注册（默认开放）
func (s *SettingsService) RegistrationOpen() bool {
	if s == nil {
		return true
	}
	return s.GetBool(model.SettingRegistrationOpen, true)
}

// PublishEvents 是否发布领域事件（默认开启）
func (s *SettingsService) PublishEvents() bool {
	if s == nil {
		return true
	}
	return s.GetBool(model.SettingPublishEvents, true)
}
