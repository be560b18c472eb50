// Package model 定义数据库实体模型
// 本文件定义内容表态模型
package model

import (
	"gorm.io/gorm"
)

// TargetKind 表态目标类型，封闭枚举
// 只有纪念页与故事两种可表态对象，不做开放式多态
type TargetKind string

const (
	TargetMemorial TargetKind = "memorial"
	TargetTale     TargetKind = "tale"
)

// Valid 校验目标类型取值
func (k TargetKind) Valid() bool {
	return k == TargetMemorial || k == TargetTale
}

// 表态类型常量
const (
	ReactionLike    = "like"
	ReactionLove    = "love"
	ReactionSupport = "support"
)

// ValidReactionType 校验表态类型取值
func ValidReactionType(t string) bool {
	return t == ReactionLike || t == ReactionLove || t == ReactionSupport
}

// Reaction 内容表态
// (user_uuid, target_kind, target_id) 唯一：一个用户对一个目标至多一条表态
// 更换表态类型时原地替换，不产生第二行
type Reaction struct {
	gorm.Model

	// UserUuid 表态用户
	UserUuid string `gorm:"column:user_uuid;uniqueIndex:idx_reaction_target;type:char(20);not null;comment:用户uuid"`

	// TargetKind 目标类型：memorial / tale
	TargetKind TargetKind `gorm:"column:target_kind;uniqueIndex:idx_reaction_target;type:varchar(10);not null;comment:目标类型"`

	// TargetID 目标实体 id
	TargetID uint `gorm:"column:target_id;uniqueIndex:idx_reaction_target;not null;comment:目标id"`

	// ReactionType 表态类型：like / love / support
	ReactionType string `gorm:"column:reaction_type;type:varchar(10);not null;comment:表态类型"`
}

// TableName 指定表名
func (Reaction) TableName() string {
	return "reaction"
}
