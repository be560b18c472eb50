// Package model 定义数据库实体模型
// 本文件定义社区频道模型
package model

import (
	"gorm.io/gorm"
)

// Channel 社区频道
// 属于且仅属于一个社区，(community_id, slug) 唯一
type Channel struct {
	gorm.Model

	// CommunityID 所属社区，社区删除时级联删除频道
	CommunityID uint `gorm:"column:community_id;uniqueIndex:idx_channel_slug;not null;comment:所属社区id"`

	// Name 频道名
	Name string `gorm:"column:name;type:varchar(80);not null;comment:频道名"`

	// Slug 由名称派生的 URL 标识
	Slug string `gorm:"column:slug;uniqueIndex:idx_channel_slug;type:varchar(100);not null;comment:slug"`

	// IsPublic 是否公开
	IsPublic bool `gorm:"column:is_public;default:true;not null;comment:是否公开"`
}

// TableName 指定表名
func (Channel) TableName() string {
	return "channel"
}

// CommunityMessage 频道消息
// 排序只依赖存储层指定的创建时间（查询时追加 id 作为并列时间的次序键）
type CommunityMessage struct {
	gorm.Model

	// ChannelID 所属频道，频道删除时级联删除消息
	ChannelID uint `gorm:"column:channel_id;index;not null;comment:所属频道id"`

	// AuthorUuid 发言用户
	AuthorUuid string `gorm:"column:author_uuid;index;type:char(20);not null;comment:发言用户uuid"`

	// Content 消息内容
	Content string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`
}

// TableName 指定表名
func (CommunityMessage) TableName() string {
	return "community_message"
}
