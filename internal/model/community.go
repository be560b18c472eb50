// Package model 定义数据库实体模型
// 本文件定义社区模型
package model

import (
	"gorm.io/gorm"
)

// Community 社区模型
// 对应数据库 community 表
type Community struct {
	gorm.Model

	// OwnerUuid 社区创建者（owner 角色持有人）
	OwnerUuid string `gorm:"column:owner_uuid;index;type:char(20);not null;comment:社区所有者uuid"`

	// Name 社区名，全局唯一
	Name string `gorm:"column:name;uniqueIndex;type:varchar(80);not null;comment:社区名"`

	// Slug 由名称派生的 URL 标识，创建后不再变化
	// 唯一性由数据库约束保证
	Slug string `gorm:"column:slug;uniqueIndex;type:varchar(100);not null;comment:slug"`

	// Description 社区简介
	Description string `gorm:"column:description;type:TEXT;comment:简介"`

	// IsPublic 是否公开
	// 公开社区任何人可浏览，私有社区仅成员可见
	IsPublic bool `gorm:"column:is_public;default:true;not null;comment:是否公开"`
}

// TableName 指定表名
func (Community) TableName() string {
	return "community"
}
