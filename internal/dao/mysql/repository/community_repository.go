// Package repository 数据访问层实现
// 本文件实现社区、成员关系与频道的 Repository 接口
package repository

import (
	"eternal_memories_server/internal/model"

	"gorm.io/gorm"
)

// communityRepository CommunityRepository 接口的实现
type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository 创建 CommunityRepository 实例
func NewCommunityRepository(db *gorm.DB) *communityRepository {
	return &communityRepository{db: db}
}

// FindByID 根据 id 查找社区
func (r *communityRepository) FindByID(id uint) (*model.Community, error) {
	var community model.Community
	if err := r.db.First(&community, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询社区 id=%d", id)
	}
	return &community, nil
}

// FindBySlug 根据 slug 查找社区
func (r *communityRepository) FindBySlug(slug string) (*model.Community, error) {
	var community model.Community
	if err := r.db.Where("slug = ?", slug).First(&community).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询社区 slug=%s", slug)
	}
	return &community, nil
}

// List 列出社区，按创建时间倒序
func (r *communityRepository) List(q string, publicOnly bool) ([]model.Community, error) {
	var communities []model.Community
	query := r.db.Model(&model.Community{})
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	if err := query.Order("created_at DESC").Find(&communities).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询社区列表 q=%s", q)
	}
	return communities, nil
}

// Create 创建社区
func (r *communityRepository) Create(community *model.Community) error {
	if err := r.db.Create(community).Error; err != nil {
		return wrapDBError(err, "创建社区")
	}
	return nil
}

// membershipRepository MembershipRepository 接口的实现
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository 创建 MembershipRepository 实例
func NewMembershipRepository(db *gorm.DB) *membershipRepository {
	return &membershipRepository{db: db}
}

// FindByCommunityAndUser 查找成员关系
func (r *membershipRepository) FindByCommunityAndUser(communityID uint, userUuid string) (*model.Membership, error) {
	var membership model.Membership
	if err := r.db.Where("community_id = ? AND user_uuid = ?", communityID, userUuid).
		First(&membership).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成员关系 community=%d user=%s", communityID, userUuid)
	}
	return &membership, nil
}

// Create 创建成员关系
func (r *membershipRepository) Create(membership *model.Membership) error {
	if err := r.db.Create(membership).Error; err != nil {
		return wrapDBError(err, "创建成员关系")
	}
	return nil
}

// DeleteNonOwner 删除成员关系，owner 行除外
// owner 不可通过退出操作移除自身成员关系
func (r *membershipRepository) DeleteNonOwner(communityID uint, userUuid string) error {
	// 物理删除：软删除的行会占住 (community, user) 唯一索引，阻碍重新加入
	if err := r.db.Unscoped().Where("community_id = ? AND user_uuid = ? AND role <> ?",
		communityID, userUuid, model.RoleOwner).
		Delete(&model.Membership{}).Error; err != nil {
		return wrapDBErrorf(err, "删除成员关系 community=%d user=%s", communityID, userUuid)
	}
	return nil
}

// channelRepository ChannelRepository 接口的实现
type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository 创建 ChannelRepository 实例
func NewChannelRepository(db *gorm.DB) *channelRepository {
	return &channelRepository{db: db}
}

// FindByID 根据 id 查找频道
func (r *channelRepository) FindByID(id uint) (*model.Channel, error) {
	var channel model.Channel
	if err := r.db.First(&channel, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询频道 id=%d", id)
	}
	return &channel, nil
}

// FindByCommunityAndSlug 根据社区与 slug 查找频道
func (r *channelRepository) FindByCommunityAndSlug(communityID uint, slug string) (*model.Channel, error) {
	var channel model.Channel
	if err := r.db.Where("community_id = ? AND slug = ?", communityID, slug).
		First(&channel).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询频道 community=%d slug=%s", communityID, slug)
	}
	return &channel, nil
}

// ListByCommunity 列出社区频道，按名称升序
// 名称升序是频道展示顺序，也决定未指定频道时的默认频道（取第一个）
func (r *channelRepository) ListByCommunity(communityID uint) ([]model.Channel, error) {
	var channels []model.Channel
	if err := r.db.Where("community_id = ?", communityID).
		Order("name ASC").Find(&channels).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询频道列表 community=%d", communityID)
	}
	return channels, nil
}

// Create 创建频道
func (r *channelRepository) Create(channel *model.Channel) error {
	if err := r.db.Create(channel).Error; err != nil {
		return wrapDBError(err, "创建频道")
	}
	return nil
}
