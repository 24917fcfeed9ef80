package model

import "time"

// 功能开关 key
const (
	SettingRegistrationOpen = "registration_open"
	SettingPublishEvents    = "publish_events"
)

// KnownSettings 可通过管理接口修改的开关及说明
var KnownSettings = map[string]string{
	SettingRegistrationOpen: "Allow new users to sign up",
	SettingPublishEvents:    "Publish user and relationship events to Kafka",
}

// AppSetting 功能开关（运行时可修改）
type AppSetting struct {
	SettingKey   string    `json:"setting_key" gorm:"type:varchar(100);primaryKey"`
	SettingValue string    `json:"setting_value" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
