// Package model 定义数据库实体模型
// 本文件定义连载故事及其章节
package model

import (
	"gorm.io/gorm"
)

// Tale 连载故事
// 对应数据库 tale 表
type Tale struct {
	gorm.Model

	// AuthorUuid 作者，只有作者可增删章节
	AuthorUuid string `gorm:"column:author_uuid;index;type:char(20);not null;comment:作者uuid"`

	// Title 标题
	Title string `gorm:"column:title;type:varchar(160);not null;comment:标题"`

	// Slug 由标题派生的 URL 标识，全局唯一
	// 冲突时由业务层追加 -2、-3 等数字后缀
	Slug string `gorm:"column:slug;uniqueIndex;type:varchar(180);not null;comment:slug"`

	// Subtitle 副标题（可选）
	Subtitle string `gorm:"column:subtitle;type:varchar(200);comment:副标题"`

	// Description 简介
	Description string `gorm:"column:description;type:TEXT;comment:简介"`

	// IsPublic 是否公开，私有故事仅作者可见
	IsPublic bool `gorm:"column:is_public;default:true;not null;comment:是否公开"`
}

// TableName 指定表名
func (Tale) TableName() string {
	return "tale"
}

// Chapter 故事章节
// (tale_id, order) 唯一，章节按 order 升序排列
type Chapter struct {
	gorm.Model

	// TaleID 所属故事，故事删除时级联删除章节
	TaleID uint `gorm:"column:tale_id;uniqueIndex:idx_chapter_order;not null;comment:所属故事id"`

	// Order 章节序号，从 1 开始
	Order uint `gorm:"column:chapter_order;uniqueIndex:idx_chapter_order;not null;comment:章节序号"`

	// Title 章节标题
	Title string `gorm:"column:title;type:varchar(160);not null;comment:章节标题"`

	// Content 正文
	Content string `gorm:"column:content;type:TEXT;not null;comment:正文"`

	// Published 是否已发布，草稿仅作者可见
	Published bool `gorm:"column:published;default:true;not null;comment:是否已发布"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapter"
}
