// Package repository 数据访问层实现
// 本文件实现两类消息流（频道消息、私信）的 Repository 接口
// 查询统一追加 id 作为并列时间戳的次序键，保证窗口与增量结果确定
package repository

import (
	"time"

	"eternal_memories_server/internal/model"

	"gorm.io/gorm"
)

// communityMessageRepository CommunityMessageRepository 接口的实现
type communityMessageRepository struct {
	db *gorm.DB
}

// NewCommunityMessageRepository 创建 CommunityMessageRepository 实例
func NewCommunityMessageRepository(db *gorm.DB) *communityMessageRepository {
	return &communityMessageRepository{db: db}
}

// FindLatestWindow 取最新 limit 条，按时间倒序返回
// 调用方负责反转成时间升序展示
func (r *communityMessageRepository) FindLatestWindow(channelID uint, limit int) ([]model.CommunityMessage, error) {
	var messages []model.CommunityMessage
	if err := r.db.Where("channel_id = ?", channelID).
		Order("created_at DESC, id DESC").Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询频道消息窗口 channel=%d", channelID)
	}
	return messages, nil
}

// FindSince 取 created_at 严格大于 since 的消息，升序，截断到 limit
func (r *communityMessageRepository) FindSince(channelID uint, since time.Time, limit int) ([]model.CommunityMessage, error) {
	var messages []model.CommunityMessage
	if err := r.db.Where("channel_id = ? AND created_at > ?", channelID, since).
		Order("created_at ASC, id ASC").Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询频道增量消息 channel=%d", channelID)
	}
	return messages, nil
}

// Create 写入新消息
// id 与 created_at 均由存储层指定
func (r *communityMessageRepository) Create(message *model.CommunityMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建频道消息")
	}
	return nil
}

// directMessageRepository DirectMessageRepository 接口的实现
type directMessageRepository struct {
	db *gorm.DB
}

// NewDirectMessageRepository 创建 DirectMessageRepository 实例
func NewDirectMessageRepository(db *gorm.DB) *directMessageRepository {
	return &directMessageRepository{db: db}
}

// betweenScope 双向条件：A->B 与 B->A 的消息都属于同一条私信流
func betweenScope(userOneUuid, userTwoUuid string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(sender_uuid = ? AND receiver_uuid = ?) OR (sender_uuid = ? AND receiver_uuid = ?)",
			userOneUuid, userTwoUuid, userTwoUuid, userOneUuid,
		)
	}
}

// FindLatestBetween 取两人之间最新 limit 条，按时间倒序返回
func (r *directMessageRepository) FindLatestBetween(userOneUuid, userTwoUuid string, limit int) ([]model.DirectMessage, error) {
	var messages []model.DirectMessage
	if err := r.db.Scopes(betweenScope(userOneUuid, userTwoUuid)).
		Order("created_at DESC, id DESC").Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询私信窗口 user1=%s user2=%s", userOneUuid, userTwoUuid)
	}
	return messages, nil
}

// FindBetweenSince 取两人之间 created_at 严格大于 since 的消息，升序，截断到 limit
func (r *directMessageRepository) FindBetweenSince(userOneUuid, userTwoUuid string, since time.Time, limit int) ([]model.DirectMessage, error) {
	var messages []model.DirectMessage
	if err := r.db.Scopes(betweenScope(userOneUuid, userTwoUuid)).
		Where("created_at > ?", since).
		Order("created_at ASC, id ASC").Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询私信增量 user1=%s user2=%s", userOneUuid, userTwoUuid)
	}
	return messages, nil
}

// FindLatestInvolving 取某用户收发的最新 limit 条私信，按时间倒序返回
// 用于个人主页的会话预览
func (r *directMessageRepository) FindLatestInvolving(userUuid string, limit int) ([]model.DirectMessage, error) {
	var messages []model.DirectMessage
	if err := r.db.Where("sender_uuid = ? OR receiver_uuid = ?", userUuid, userUuid).
		Order("created_at DESC, id DESC").Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户私信预览 user=%s", userUuid)
	}
	return messages, nil
}

// MarkRead 将 sender 发给 receiver 的未读消息全部置为已读
// 只有 unread -> read 一个方向，重复调用是幂等的
func (r *directMessageRepository) MarkRead(receiverUuid, senderUuid string) error {
	if err := r.db.Model(&model.DirectMessage{}).
		Where("receiver_uuid = ? AND sender_uuid = ? AND is_read = ?", receiverUuid, senderUuid, false).
		Update("is_read", true).Error; err != nil {
		return wrapDBErrorf(err, "标记私信已读 receiver=%s sender=%s", receiverUuid, senderUuid)
	}
	return nil
}

// Create 写入新私信
func (r *directMessageRepository) Create(message *model.DirectMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建私信")
	}
	return nil
}
