// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"errors"
	"time"

	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf 包装数据库错误（支持格式化消息）
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByUsername 根据用户名查找用户
	FindByUsername(username string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	// Create 创建新用户
	Create(user *model.UserInfo) error
}

// ProfileRepository 用户资料数据访问接口
type ProfileRepository interface {
	// FindByUserUuid 根据用户 UUID 查找资料
	FindByUserUuid(userUuid string) (*model.Profile, error)
	// Create 创建资料
	Create(profile *model.Profile) error
	// Update 更新资料
	Update(profile *model.Profile) error
	// Search 搜索公开资料，按用户名升序
	// 命中条件：用户名/展示名/简介/标签包含关键字
	Search(q string, limit int) ([]model.Profile, error)
}

// CommunityRepository 社区数据访问接口
type CommunityRepository interface {
	// FindByID 根据 id 查找社区
	FindByID(id uint) (*model.Community, error)
	// FindBySlug 根据 slug 查找社区
	FindBySlug(slug string) (*model.Community, error)
	// List 列出社区，按创建时间倒序
	// q 非空时按名称/简介模糊匹配；publicOnly 时只返回公开社区
	List(q string, publicOnly bool) ([]model.Community, error)
	// Create 创建社区
	Create(community *model.Community) error
}

// MembershipRepository 社区成员关系数据访问接口
type MembershipRepository interface {
	// FindByCommunityAndUser 查找成员关系，查无返回 CodeNotFound
	FindByCommunityAndUser(communityID uint, userUuid string) (*model.Membership, error)
	// Create 创建成员关系
	Create(membership *model.Membership) error
	// DeleteNonOwner 删除成员关系，owner 行除外
	DeleteNonOwner(communityID uint, userUuid string) error
}

// ChannelRepository 频道数据访问接口
type ChannelRepository interface {
	// FindByID 根据 id 查找频道
	FindByID(id uint) (*model.Channel, error)
	// FindByCommunityAndSlug 根据社区与 slug 查找频道
	FindByCommunityAndSlug(communityID uint, slug string) (*model.Channel, error)
	// ListByCommunity 列出社区频道，按名称升序
	ListByCommunity(communityID uint) ([]model.Channel, error)
	// Create 创建频道
	Create(channel *model.Channel) error
}

// CommunityMessageRepository 频道消息数据访问接口
type CommunityMessageRepository interface {
	// FindLatestWindow 取最新 limit 条，按时间倒序返回（调用方按需反转）
	FindLatestWindow(channelID uint, limit int) ([]model.CommunityMessage, error)
	// FindSince 取 created_at 严格大于 since 的消息，升序，截断到 limit
	FindSince(channelID uint, since time.Time, limit int) ([]model.CommunityMessage, error)
	// Create 写入新消息
	Create(message *model.CommunityMessage) error
}

// DirectMessageRepository 私信数据访问接口
type DirectMessageRepository interface {
	// FindLatestBetween 取两人之间最新 limit 条，按时间倒序返回
	FindLatestBetween(userOneUuid, userTwoUuid string, limit int) ([]model.DirectMessage, error)
	// FindBetweenSince 取两人之间 created_at 严格大于 since 的消息，升序，截断到 limit
	FindBetweenSince(userOneUuid, userTwoUuid string, since time.Time, limit int) ([]model.DirectMessage, error)
	// FindLatestInvolving 取某用户收发的最新 limit 条私信，按时间倒序返回
	FindLatestInvolving(userUuid string, limit int) ([]model.DirectMessage, error)
	// MarkRead 将 sender 发给 receiver 的未读消息全部置为已读
	MarkRead(receiverUuid, senderUuid string) error
	// Create 写入新私信
	Create(message *model.DirectMessage) error
}

// ReactionRepository 表态数据访问接口
type ReactionRepository interface {
	// FindByUserAndTarget 查找用户对目标的表态，查无返回 CodeNotFound
	FindByUserAndTarget(userUuid string, kind model.TargetKind, targetID uint) (*model.Reaction, error)
	// Create 创建表态
	Create(reaction *model.Reaction) error
	// UpdateType 原地更换表态类型
	UpdateType(id uint, reactionType string) error
	// Delete 删除表态
	Delete(id uint) error
	// CountByTarget 统计目标的各类型表态数
	CountByTarget(kind model.TargetKind, targetID uint) (map[string]int64, error)
	// ListByUserAndTargets 批量查询用户对一组目标的表态
	ListByUserAndTargets(userUuid string, kind model.TargetKind, targetIDs []uint) ([]model.Reaction, error)
}

// MemorialRepository 纪念页数据访问接口
type MemorialRepository interface {
	// FindByID 根据 id 查找纪念页
	FindByID(id uint) (*model.Memorial, error)
	// FindByPublicId 根据对外短 id 查找纪念页
	FindByPublicId(publicId string) (*model.Memorial, error)
	// List 列出纪念页，按创建时间倒序
	// q 匹配 public_id 精确或姓名/生平/悼词模糊；creatorUuid 非空时只取该创建者
	List(q, creatorUuid string) ([]model.Memorial, error)
	// Create 创建纪念页
	Create(memorial *model.Memorial) error
	// Update 更新纪念页
	Update(memorial *model.Memorial) error
	// Delete 删除纪念页（附属留言与蜡烛一并删除）
	Delete(id uint) error
	// ExistsByID 判断纪念页是否存在
	ExistsByID(id uint) (bool, error)
}

// MemorialMessageRepository 纪念页留言数据访问接口
type MemorialMessageRepository interface {
	// ListByMemorial 列出留言，按创建时间倒序
	ListByMemorial(memorialID uint) ([]model.MemorialMessage, error)
	// Create 写入留言
	Create(message *model.MemorialMessage) error
}

// CandleRepository 蜡烛数据访问接口
type CandleRepository interface {
	// ListByMemorial 列出蜡烛，按点烛时间倒序
	ListByMemorial(memorialID uint) ([]model.Candle, error)
	// Create 写入蜡烛
	Create(candle *model.Candle) error
}

// TaleRepository 故事数据访问接口
type TaleRepository interface {
	// FindByID 根据 id 查找故事
	FindByID(id uint) (*model.Tale, error)
	// FindBySlug 根据 slug 查找故事（不区分大小写）
	FindBySlug(slug string) (*model.Tale, error)
	// FindByTitle 根据标题精确查找（不区分大小写）
	FindByTitle(title string) (*model.Tale, error)
	// ListByTitleContains 标题模糊匹配，最多 limit 条
	ListByTitleContains(title string, limit int) ([]model.Tale, error)
	// List 列出故事，按创建时间倒序
	List(q string, publicOnly bool) ([]model.Tale, error)
	// ListByAuthor 列出某作者的故事
	ListByAuthor(authorUuid string) ([]model.Tale, error)
	// ExistsSlug 判断 slug 是否被其他故事占用
	ExistsSlug(slug string, excludeID uint) (bool, error)
	// Create 创建故事
	Create(tale *model.Tale) error
	// Delete 删除故事（章节级联删除）
	Delete(id uint) error
}

// ChapterRepository 章节数据访问接口
type ChapterRepository interface {
	// ListByTale 列出章节，按序号升序；publishedOnly 时过滤草稿
	ListByTale(taleID uint, publishedOnly bool) ([]model.Chapter, error)
	// FindByTaleAndID 根据故事与章节 id 查找
	FindByTaleAndID(taleID, chapterID uint) (*model.Chapter, error)
	// ExistsOrder 判断序号是否已被占用
	ExistsOrder(taleID, order uint) (bool, error)
	// MaxOrder 取当前最大序号，无章节返回 0
	MaxOrder(taleID uint) (uint, error)
	// Create 创建章节
	Create(chapter *model.Chapter) error
	// Publish 发布章节
	Publish(id uint) error
}

// ==================== Repositories 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db               *gorm.DB                   // GORM 数据库实例
	User             UserRepository             // 用户 Repository
	Profile          ProfileRepository          // 资料 Repository
	Community        CommunityRepository        // 社区 Repository
	Membership       MembershipRepository       // 成员关系 Repository
	Channel          ChannelRepository          // 频道 Repository
	CommunityMessage CommunityMessageRepository // 频道消息 Repository
	DirectMessage    DirectMessageRepository    // 私信 Repository
	Reaction         ReactionRepository         // 表态 Repository
	Memorial         MemorialRepository         // 纪念页 Repository
	MemorialMessage  MemorialMessageRepository  // 纪念页留言 Repository
	Candle           CandleRepository           // 蜡烛 Repository
	Tale             TaleRepository             // 故事 Repository
	Chapter          ChapterRepository          // 章节 Repository
}

// NewRepositories 创建所有 Repository 实例
// db: GORM 数据库实例
// 返回: Repositories 聚合指针
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:               db,
		User:             NewUserRepository(db),
		Profile:          NewProfileRepository(db),
		Community:        NewCommunityRepository(db),
		Membership:       NewMembershipRepository(db),
		Channel:          NewChannelRepository(db),
		CommunityMessage: NewCommunityMessageRepository(db),
		DirectMessage:    NewDirectMessageRepository(db),
		Reaction:         NewReactionRepository(db),
		Memorial:         NewMemorialRepository(db),
		MemorialMessage:  NewMemorialMessageRepository(db),
		Candle:           NewCandleRepository(db),
		Tale:             NewTaleRepository(db),
		Chapter:          NewChapterRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// fn: 事务执行函数，接收事务内的 Repositories 实例
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}
