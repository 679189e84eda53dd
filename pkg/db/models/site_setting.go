package models

import "time"

// SiteSetting is one CMS-managed key/value pair.
type SiteSetting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null;default:''"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteSetting) TableName() string { return "site_settings" }
