// Package repository 数据访问层实现
// 本文件实现 ReactionRepository 接口
package repository

import (
	"eternal_memories_server/internal/model"

	"gorm.io/gorm"
)

// reactionRepository ReactionRepository 接口的实现
type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository 创建 ReactionRepository 实例
func NewReactionRepository(db *gorm.DB) *reactionRepository {
	return &reactionRepository{db: db}
}

// FindByUserAndTarget 查找用户对目标的表态
func (r *reactionRepository) FindByUserAndTarget(userUuid string, kind model.TargetKind, targetID uint) (*model.Reaction, error) {
	var reaction model.Reaction
	if err := r.db.Where("user_uuid = ? AND target_kind = ? AND target_id = ?",
		userUuid, kind, targetID).First(&reaction).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询表态 user=%s target=%s:%d", userUuid, kind, targetID)
	}
	return &reaction, nil
}

// Create 创建表态
func (r *reactionRepository) Create(reaction *model.Reaction) error {
	if err := r.db.Create(reaction).Error; err != nil {
		return wrapDBError(err, "创建表态")
	}
	return nil
}

// UpdateType 原地更换表态类型
func (r *reactionRepository) UpdateType(id uint, reactionType string) error {
	if err := r.db.Model(&model.Reaction{}).Where("id = ?", id).
		Update("reaction_type", reactionType).Error; err != nil {
		return wrapDBErrorf(err, "更新表态类型 id=%d", id)
	}
	return nil
}

// Delete 删除表态
func (r *reactionRepository) Delete(id uint) error {
	if err := r.db.Unscoped().Delete(&model.Reaction{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除表态 id=%d", id)
	}
	return nil
}

// reactionCount 分组统计的扫描目标
type reactionCount struct {
	ReactionType string
	C            int64
}

// CountByTarget 统计目标的各类型表态数
// 每次调用都从存储层重新统计，不走缓存计数器
func (r *reactionRepository) CountByTarget(kind model.TargetKind, targetID uint) (map[string]int64, error) {
	var rows []reactionCount
	if err := r.db.Model(&model.Reaction{}).
		Select("reaction_type, COUNT(id) AS c").
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Group("reaction_type").Scan(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "统计表态 target=%s:%d", kind, targetID)
	}
	counts := map[string]int64{
		model.ReactionLike:    0,
		model.ReactionLove:    0,
		model.ReactionSupport: 0,
	}
	for _, row := range rows {
		counts[row.ReactionType] = row.C
	}
	return counts, nil
}

// ListByUserAndTargets 批量查询用户对一组目标的表态
func (r *reactionRepository) ListByUserAndTargets(userUuid string, kind model.TargetKind, targetIDs []uint) ([]model.Reaction, error) {
	var reactions []model.Reaction
	if len(targetIDs) == 0 {
		return reactions, nil
	}
	if err := r.db.Where("user_uuid = ? AND target_kind = ? AND target_id IN ?",
		userUuid, kind, targetIDs).Find(&reactions).Error; err != nil {
		return nil, wrapDBErrorf(err, "批量查询表态 user=%s kind=%s", userUuid, kind)
	}
	return reactions, nil
}
