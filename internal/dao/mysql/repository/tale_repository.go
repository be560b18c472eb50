// Package repository 数据访问层实现
// 本文件实现故事与章节的 Repository 接口
package repository

import (
	"eternal_memories_server/internal/model"

	"gorm.io/gorm"
)

// taleRepository TaleRepository 接口的实现
type taleRepository struct {
	db *gorm.DB
}

// NewTaleRepository 创建 TaleRepository 实例
func NewTaleRepository(db *gorm.DB) *taleRepository {
	return &taleRepository{db: db}
}

// FindByID 根据 id 查找故事
func (r *taleRepository) FindByID(id uint) (*model.Tale, error) {
	var tale model.Tale
	if err := r.db.First(&tale, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询故事 id=%d", id)
	}
	return &tale, nil
}

// FindBySlug 根据 slug 查找故事（不区分大小写）
func (r *taleRepository) FindBySlug(slug string) (*model.Tale, error) {
	var tale model.Tale
	if err := r.db.Where("LOWER(slug) = LOWER(?)", slug).First(&tale).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询故事 slug=%s", slug)
	}
	return &tale, nil
}

// FindByTitle 根据标题精确查找（不区分大小写）
func (r *taleRepository) FindByTitle(title string) (*model.Tale, error) {
	var tale model.Tale
	if err := r.db.Where("LOWER(title) = LOWER(?)", title).First(&tale).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询故事 title=%s", title)
	}
	return &tale, nil
}

// ListByTitleContains 标题模糊匹配，最多 limit 条
func (r *taleRepository) ListByTitleContains(title string, limit int) ([]model.Tale, error) {
	var tales []model.Tale
	if err := r.db.Where("title LIKE ?", "%"+title+"%").
		Limit(limit).Find(&tales).Error; err != nil {
		return nil, wrapDBErrorf(err, "模糊查询故事 title=%s", title)
	}
	return tales, nil
}

// List 列出故事，按创建时间倒序
func (r *taleRepository) List(q string, publicOnly bool) ([]model.Tale, error) {
	var tales []model.Tale
	query := r.db.Model(&model.Tale{})
	if q != "" {
		query = query.Where("title LIKE ?", "%"+q+"%")
	}
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	if err := query.Order("created_at DESC").Find(&tales).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询故事列表 q=%s", q)
	}
	return tales, nil
}

// ListByAuthor 列出某作者的故事
func (r *taleRepository) ListByAuthor(authorUuid string) ([]model.Tale, error) {
	var tales []model.Tale
	if err := r.db.Where("author_uuid = ?", authorUuid).
		Order("created_at DESC").Find(&tales).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询作者故事 author=%s", authorUuid)
	}
	return tales, nil
}

// ExistsSlug 判断 slug 是否已被其他故事占用
func (r *taleRepository) ExistsSlug(slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Tale{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "检查 slug 占用 slug=%s", slug)
	}
	return count > 0, nil
}

// Create 创建故事
func (r *taleRepository) Create(tale *model.Tale) error {
	if err := r.db.Create(tale).Error; err != nil {
		return wrapDBError(err, "创建故事")
	}
	return nil
}

// Delete 删除故事，章节一并删除
func (r *taleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("tale_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
			return wrapDBErrorf(err, "删除故事章节 tale=%d", id)
		}
		if err := tx.Unscoped().Delete(&model.Tale{}, id).Error; err != nil {
			return wrapDBErrorf(err, "删除故事 id=%d", id)
		}
		return nil
	})
}

// chapterRepository ChapterRepository 接口的实现
type chapterRepository struct {
	db *gorm.DB
}

// NewChapterRepository 创建 ChapterRepository 实例
func NewChapterRepository(db *gorm.DB) *chapterRepository {
	return &chapterRepository{db: db}
}

// ListByTale 列出章节，按序号升序
func (r *chapterRepository) ListByTale(taleID uint, publishedOnly bool) ([]model.Chapter, error) {
	var chapters []model.Chapter
	query := r.db.Where("tale_id = ?", taleID)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.Order("chapter_order ASC").Find(&chapters).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询章节 tale=%d", taleID)
	}
	return chapters, nil
}

// FindByTaleAndID 根据故事与章节 id 查找
func (r *chapterRepository) FindByTaleAndID(taleID, chapterID uint) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := r.db.Where("tale_id = ? AND id = ?", taleID, chapterID).
		First(&chapter).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询章节 tale=%d id=%d", taleID, chapterID)
	}
	return &chapter, nil
}

// ExistsOrder 判断序号是否已被占用
func (r *chapterRepository) ExistsOrder(taleID, order uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Chapter{}).
		Where("tale_id = ? AND chapter_order = ?", taleID, order).
		Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "检查章节序号 tale=%d order=%d", taleID, order)
	}
	return count > 0, nil
}

// MaxOrder 取当前最大序号，无章节返回 0
func (r *chapterRepository) MaxOrder(taleID uint) (uint, error) {
	var max *uint
	if err := r.db.Model(&model.Chapter{}).
		Where("tale_id = ?", taleID).
		Select("MAX(chapter_order)").Scan(&max).Error; err != nil {
		return 0, wrapDBErrorf(err, "查询最大章节序号 tale=%d", taleID)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Create 创建章节
func (r *chapterRepository) Create(chapter *model.Chapter) error {
	if err := r.db.Create(chapter).Error; err != nil {
		return wrapDBError(err, "创建章节")
	}
	return nil
}

// Publish 发布章节
func (r *chapterRepository) Publish(id uint) error {
	if err := r.db.Model(&model.Chapter{}).Where("id = ?", id).
		Update("published", true).Error; err != nil {
		return wrapDBErrorf(err, "发布章节 id=%d", id)
	}
	return nil
}
