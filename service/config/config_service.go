/*
 * @module service/config/config_service
 * @description 配置服务，提供业务层配置管理：递进校验模式、草稿保留时长、
 *              规格缺省值（单位/基准尺码/按性别尺码范围）
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/measurement_engine.md 第4.3、5节
 * @stateFlow 服务调用 -> 数据库配置 -> 环境变量 -> 内置默认值
 * @rules 配置读取永不失败，逐级回退到内置默认值
 * @dependencies techspec-service/service/models, gorm.io/gorm
 * @refs service/measurement/progression.go, service/session
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"techspec-service/service/measurement"
	"techspec-service/service/models"
)

// 配置键
const (
	KeyProgressionMode   = "measurement.progression_mode" // strict / permissive
	KeyDraftRetention    = "session.draft_retention_hours"
	KeyDefaultUnit       = "spec.default_unit"
	KeyDefaultBaseSize   = "spec.default_base_size"
	KeySizeRangePrefix   = "spec.size_range." // + 性别
	KeyDebounceDelayMsec = "session.draft_debounce_ms"
)

// 内置默认值
const (
	DefaultProgressionMode   = string(measurement.ModePermissive)
	DefaultDraftRetention    = 72
	DefaultDebounceDelayMsec = 800
)

// ConfigService 配置服务
type ConfigService struct {
	db *gorm.DB
}

// NewConfigService 创建配置服务实例
func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{db: db}
}

// GetSystemConfig 获取系统配置：数据库优先，其次环境变量
func (s *ConfigService) GetSystemConfig(key string) (string, bool) {
	if s.db != nil {
		var config models.SystemConfig
		err := s.db.Where("key = ? AND environment = ?", key, "default").First(&config).Error
		if err == nil {
			return config.Value, true
		}
	}

	envKey := "TECHSPEC_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if value := os.Getenv(envKey); value != "" {
		return value, true
	}
	return "", false
}

// SetSystemConfig 设置系统配置
func (s *ConfigService) SetSystemConfig(key, value, description string) error {
	if s.db == nil {
		return fmt.Errorf("配置数据库不可用")
	}
	var config models.SystemConfig
	err := s.db.Where("key = ? AND environment = ?", key, "default").First(&config).Error
	if err == gorm.ErrRecordNotFound {
		config = models.SystemConfig{
			Key:         key,
			Value:       value,
			Description: description,
			Environment: "default",
		}
		return s.db.Create(&config).Error
	}
	if err != nil {
		return fmt.Errorf("查询配置失败: %w", err)
	}
	config.Value = value
	if description != "" {
		config.Description = description
	}
	return s.db.Save(&config).Error
}

// GetAllSystemConfigs 获取所有系统配置项
func (s *ConfigService) GetAllSystemConfigs() ([]models.SystemConfig, error) {
	if s.db == nil {
		return nil, fmt.Errorf("配置数据库不可用")
	}
	var configs []models.SystemConfig
	if err := s.db.Where("environment = ?", "default").Order("key ASC").Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("查询配置失败: %w", err)
	}
	return configs, nil
}

// GetProgressionMode 递进校验模式
func (s *ConfigService) GetProgressionMode() measurement.ProgressionMode {
	value, found := s.GetSystemConfig(KeyProgressionMode)
	if !found {
		value = DefaultProgressionMode
	}
	switch measurement.ProgressionMode(value) {
	case measurement.ModeStrict:
		return measurement.ModeStrict
	default:
		return measurement.ModePermissive
	}
}

// GetDraftRetentionHours 草稿保留时长（小时）
func (s *ConfigService) GetDraftRetentionHours() int {
	value, found := s.GetSystemConfig(KeyDraftRetention)
	if !found {
		return DefaultDraftRetention
	}
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		return DefaultDraftRetention
	}
	return hours
}

// GetDebounceDelayMsec 草稿防抖静默期（毫秒）
func (s *ConfigService) GetDebounceDelayMsec() int {
	value, found := s.GetSystemConfig(KeyDebounceDelayMsec)
	if !found {
		return DefaultDebounceDelayMsec
	}
	msec, err := strconv.Atoi(value)
	if err != nil || msec <= 0 {
		return DefaultDebounceDelayMsec
	}
	return msec
}

// GetSpecDefaults 规格缺省值：以内置默认为底，逐项用配置覆盖
func (s *ConfigService) GetSpecDefaults() measurement.Defaults {
	defaults := measurement.StandardDefaults()

	if unit, found := s.GetSystemConfig(KeyDefaultUnit); found && measurement.IsValidUnit(unit) {
		defaults.Unit = unit
	}
	if baseSize, found := s.GetSystemConfig(KeyDefaultBaseSize); found && baseSize != "" {
		defaults.BaseSize = baseSize
	}
	for gender := range defaults.SizeRanges {
		if value, found := s.GetSystemConfig(KeySizeRangePrefix + gender); found && value != "" {
			var sizes []string
			for _, label := range strings.Split(value, ",") {
				if trimmed := strings.TrimSpace(label); trimmed != "" {
					sizes = append(sizes, trimmed)
				}
			}
			if len(sizes) > 0 {
				defaults.SizeRanges[gender] = sizes
			}
		}
	}
	return defaults
}
