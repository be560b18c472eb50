// Package model 定义数据库实体模型
// 本文件定义社区成员关系与角色
package model

import (
	"gorm.io/gorm"
)

// 社区角色常量
// 权限排序：owner > admin > member > 无
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleNone   = "" // 无成员关系
)

// Role 社区角色
// 空字符串表示查无成员关系
type Role string

// CanView 是否可浏览社区内容
// 公开社区任何人可看，私有社区要求任意级别的成员关系
func (r Role) CanView(isPublic bool) bool {
	return isPublic || r != RoleNone
}

// CanPost 是否可在频道发言，任意级别成员均可
func (r Role) CanPost() bool {
	return r != RoleNone
}

// CanManageChannels 是否可管理频道（建频道等）
func (r Role) CanManageChannels() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanLeave 是否可退出社区
// owner 不能通过退出操作移除自己的成员关系
func (r Role) CanLeave() bool {
	return r != RoleNone && r != RoleOwner
}

// Membership 社区成员关系
// (community_id, user_uuid) 唯一，一个用户在一个社区至多持有一个角色
type Membership struct {
	gorm.Model

	// CommunityID 所属社区
	CommunityID uint `gorm:"column:community_id;uniqueIndex:idx_membership_pair;not null;comment:社区id"`

	// UserUuid 成员用户
	UserUuid string `gorm:"column:user_uuid;uniqueIndex:idx_membership_pair;type:char(20);not null;comment:用户uuid"`

	// Role 角色：owner / admin / member
	Role string `gorm:"column:role;type:varchar(10);default:member;not null;comment:角色"`
}

// TableName 指定表名
func (Membership) TableName() string {
	return "membership"
}
