// Package repository 数据访问层实现
// 本文件实现纪念页及其附属内容（留言、蜡烛）的 Repository 接口
package repository

import (
	"eternal_memories_server/internal/model"

	"gorm.io/gorm"
)

// memorialRepository MemorialRepository 接口的实现
type memorialRepository struct {
	db *gorm.DB
}

// NewMemorialRepository 创建 MemorialRepository 实例
func NewMemorialRepository(db *gorm.DB) *memorialRepository {
	return &memorialRepository{db: db}
}

// FindByID 根据 id 查找纪念页
func (r *memorialRepository) FindByID(id uint) (*model.Memorial, error) {
	var memorial model.Memorial
	if err := r.db.First(&memorial, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询纪念页 id=%d", id)
	}
	return &memorial, nil
}

// FindByPublicId 根据对外短 id 查找纪念页
func (r *memorialRepository) FindByPublicId(publicId string) (*model.Memorial, error) {
	var memorial model.Memorial
	if err := r.db.Where("public_id = ?", publicId).First(&memorial).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询纪念页 public_id=%s", publicId)
	}
	return &memorial, nil
}

// List 列出纪念页，按创建时间倒序
func (r *memorialRepository) List(q, creatorUuid string) ([]model.Memorial, error) {
	var memorials []model.Memorial
	query := r.db.Model(&model.Memorial{})
	if creatorUuid != "" {
		query = query.Where("creator_uuid = ?", creatorUuid)
	}
	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"public_id = ? OR name LIKE ? OR biography LIKE ? OR tribute LIKE ?",
			q, like, like, like,
		)
	}
	if err := query.Order("created_at DESC").Find(&memorials).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询纪念页列表 q=%s", q)
	}
	return memorials, nil
}

// Create 创建纪念页
func (r *memorialRepository) Create(memorial *model.Memorial) error {
	if err := r.db.Create(memorial).Error; err != nil {
		return wrapDBError(err, "创建纪念页")
	}
	return nil
}

// Update 更新纪念页
func (r *memorialRepository) Update(memorial *model.Memorial) error {
	if err := r.db.Save(memorial).Error; err != nil {
		return wrapDBError(err, "更新纪念页")
	}
	return nil
}

// Delete 删除纪念页，附属留言与蜡烛一并删除
func (r *memorialRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("memorial_id = ?", id).Delete(&model.MemorialMessage{}).Error; err != nil {
			return wrapDBErrorf(err, "删除纪念页留言 memorial=%d", id)
		}
		if err := tx.Unscoped().Where("memorial_id = ?", id).Delete(&model.Candle{}).Error; err != nil {
			return wrapDBErrorf(err, "删除纪念页蜡烛 memorial=%d", id)
		}
		if err := tx.Unscoped().Delete(&model.Memorial{}, id).Error; err != nil {
			return wrapDBErrorf(err, "删除纪念页 id=%d", id)
		}
		return nil
	})
}

// ExistsByID 判断纪念页是否存在
func (r *memorialRepository) ExistsByID(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Memorial{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "检查纪念页存在性 id=%d", id)
	}
	return count > 0, nil
}

// memorialMessageRepository MemorialMessageRepository 接口的实现
type memorialMessageRepository struct {
	db *gorm.DB
}

// NewMemorialMessageRepository 创建 MemorialMessageRepository 实例
func NewMemorialMessageRepository(db *gorm.DB) *memorialMessageRepository {
	return &memorialMessageRepository{db: db}
}

// ListByMemorial 列出留言，按创建时间倒序
func (r *memorialMessageRepository) ListByMemorial(memorialID uint) ([]model.MemorialMessage, error) {
	var messages []model.MemorialMessage
	if err := r.db.Where("memorial_id = ?", memorialID).
		Order("created_at DESC, id DESC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询纪念页留言 memorial=%d", memorialID)
	}
	return messages, nil
}

// Create 写入留言
func (r *memorialMessageRepository) Create(message *model.MemorialMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建纪念页留言")
	}
	return nil
}

// candleRepository CandleRepository 接口的实现
type candleRepository struct {
	db *gorm.DB
}

// NewCandleRepository 创建 CandleRepository 实例
func NewCandleRepository(db *gorm.DB) *candleRepository {
	return &candleRepository{db: db}
}

// ListByMemorial 列出蜡烛，按点烛时间倒序
func (r *candleRepository) ListByMemorial(memorialID uint) ([]model.Candle, error) {
	var candles []model.Candle
	if err := r.db.Where("memorial_id = ?", memorialID).
		Order("lit_at DESC, id DESC").Find(&candles).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询蜡烛 memorial=%d", memorialID)
	}
	return candles, nil
}

// Create 写入蜡烛
func (r *candleRepository) Create(candle *model.Candle) error {
	if err := r.db.Create(candle).Error; err != nil {
		return wrapDBError(err, "创建蜡烛")
	}
	return nil
}
