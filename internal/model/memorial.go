// Package model 定义数据库实体模型
// 本文件定义纪念页及其附属内容（留言、蜡烛）
package model

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Memorial 纪念页
// 对应数据库 memorial 表
type Memorial struct {
	gorm.Model

	// CreatorUuid 创建者，只有创建者可编辑/删除
	CreatorUuid string `gorm:"column:creator_uuid;index;type:char(20);not null;comment:创建者uuid"`

	// PublicId 对外短 id，用于稳定分享链接
	// 创建时生成一次，之后不变
	PublicId string `gorm:"column:public_id;uniqueIndex;type:char(22);not null;comment:对外短id"`

	// Name 逝者姓名
	Name string `gorm:"column:name;type:varchar(255);not null;comment:姓名"`

	// DateOfBirth 出生日期（可空）
	DateOfBirth sql.NullTime `gorm:"column:date_of_birth;type:date;comment:出生日期"`

	// DateOfPassing 离世日期（可空）
	DateOfPassing sql.NullTime `gorm:"column:date_of_passing;type:date;comment:离世日期"`

	// Biography 生平
	Biography string `gorm:"column:biography;type:TEXT;not null;comment:生平"`

	// Tribute 悼词，可由 AI 生成
	Tribute string `gorm:"column:tribute;type:TEXT;comment:悼词"`

	// Image 纪念图片相对路径
	Image string `gorm:"column:image;type:varchar(255);comment:图片"`

	// IsAiGeneratedImage 图片是否由 AI 生成
	IsAiGeneratedImage bool `gorm:"column:is_ai_generated_image;default:false;not null;comment:是否AI生成图片"`
}

// TableName 指定表名
func (Memorial) TableName() string {
	return "memorial"
}

// BeforeCreate GORM Hook：生成对外短 id
// 只在未设置时生成，保证 id 稳定
func (m *Memorial) BeforeCreate(tx *gorm.DB) error {
	if m.PublicId == "" {
		m.PublicId = NewPublicId()
	}
	return nil
}

// NewPublicId 生成 22 位对外短 id（uuid 十六进制去连字符截断）
func NewPublicId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:22]
}

// MemorialMessage 纪念页留言
// 允许匿名访客留言，只记录留言人自报的名字和可选邮箱
type MemorialMessage struct {
	gorm.Model

	// MemorialID 所属纪念页，纪念页删除时级联删除留言
	MemorialID uint `gorm:"column:memorial_id;index;not null;comment:所属纪念页id"`

	// AuthorName 留言人名字
	AuthorName string `gorm:"column:author_name;type:varchar(255);not null;comment:留言人"`

	// AuthorEmail 留言人邮箱（可选）
	AuthorEmail string `gorm:"column:author_email;type:varchar(60);comment:留言人邮箱"`

	// Content 留言内容
	Content string `gorm:"column:content;type:TEXT;not null;comment:留言内容"`
}

// TableName 指定表名
func (MemorialMessage) TableName() string {
	return "memorial_message"
}

// Candle 纪念蜡烛
type Candle struct {
	gorm.Model

	// MemorialID 所属纪念页
	MemorialID uint `gorm:"column:memorial_id;index;not null;comment:所属纪念页id"`

	// LitBy 点烛人
	LitBy string `gorm:"column:lit_by;type:varchar(255);not null;comment:点烛人"`

	// LitAt 点烛时间
	LitAt time.Time `gorm:"column:lit_at;not null;comment:点烛时间"`

	// Message 附言（可选）
	Message string `gorm:"column:message;type:TEXT;comment:附言"`
}

// TableName 指定表名
func (Candle) TableName() string {
	return "candle"
}

// BeforeCreate GORM Hook：补默认点烛时间
func (c *Candle) BeforeCreate(tx *gorm.DB) error {
	if c.LitAt.IsZero() {
		c.LitAt = time.Now()
	}
	return nil
}
