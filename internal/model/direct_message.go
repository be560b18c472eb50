// Package model 定义数据库实体模型
// 本文件定义用户私信模型
package model

import (
	"gorm.io/gorm"
)

// DirectMessage 私信
// 读状态只有一次 unread -> read 的迁移，由接收方拉取线程时触发，不会回退
type DirectMessage struct {
	gorm.Model

	// SenderUuid 发送者
	SenderUuid string `gorm:"column:sender_uuid;index;type:char(20);not null;comment:发送者uuid"`

	// ReceiverUuid 接收者
	ReceiverUuid string `gorm:"column:receiver_uuid;index;type:char(20);not null;comment:接收者uuid"`

	// Content 消息内容
	Content string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`

	// IsRead 接收方是否已读
	IsRead bool `gorm:"column:is_read;default:false;not null;comment:是否已读"`
}

// TableName 指定表名
func (DirectMessage) TableName() string {
	return "direct_message"
}
