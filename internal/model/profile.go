// Package model 定义数据库实体模型
// 本文件定义用户公开资料模型
package model

import (
	"strings"

	"gorm.io/gorm"
)

// Profile 用户公开资料
// 与 UserInfo 一对一，注册事务中显式创建（随用户一起删除）
type Profile struct {
	gorm.Model

	// UserUuid 所属用户，唯一
	UserUuid string `gorm:"column:user_uuid;uniqueIndex;type:char(20);not null;comment:所属用户uuid"`

	// DisplayName 展示名，为空时回退到用户名
	DisplayName string `gorm:"column:display_name;type:varchar(100);comment:展示名"`

	// Bio 个人简介
	Bio string `gorm:"column:bio;type:TEXT;comment:个人简介"`

	// Image 头像相对路径，如 "/static/profiles/xxx.jpg"
	Image string `gorm:"column:image;type:varchar(255);comment:头像"`

	// PublicSearch 是否允许出现在公开搜索结果中
	PublicSearch bool `gorm:"column:public_search;default:true;not null;comment:是否可被搜索"`

	// Tags 逗号分隔的标签串
	Tags string `gorm:"column:tags;type:varchar(255);comment:标签"`
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profile"
}

// TagsList 将逗号分隔的标签串拆为切片，忽略空白项
func (p *Profile) TagsList() []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
