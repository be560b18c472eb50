// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
)

// AuthService 认证业务接口
// 处理注册、登录、令牌刷新与登出
type AuthService interface {
	// Register 用户注册，事务内同时创建用户与公开资料
	Register(req request.RegisterRequest) (*respond.RegisterRespond, error)
	// Login 密码登录，签发双 Token
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// RefreshToken 用 Refresh Token 换取新的双 Token
	RefreshToken(req request.RefreshTokenRequest) (*respond.TokenRespond, error)
	// Logout 登出，吊销 Refresh Token
	Logout(userUuid string) error
}

// UserService 用户资料业务接口
type UserService interface {
	// GetProfile 获取用户公开资料
	GetProfile(userUuid string) (*respond.ProfileRespond, error)
	// GetProfileDetail 获取个人主页聚合信息（资料 + 表态汇总 + 近期私信）
	GetProfileDetail(viewerUuid, userUuid string) (*respond.ProfileDetailRespond, error)
	// UpdateProfile 更新本人资料
	UpdateProfile(userUuid string, req request.UpdateProfileRequest) (*respond.ProfileRespond, error)
	// Search 搜索公开资料
	Search(q string) ([]respond.ProfileRespond, error)
}

// CommunityService 社区业务接口
// 覆盖社区/频道管理、成员关系与频道消息流
type CommunityService interface {
	// CreateCommunity 创建社区（社区 + owner 成员关系 + 默认频道，原子操作）
	CreateCommunity(ownerUuid string, req request.CreateCommunityRequest) (*respond.CommunityRespond, error)
	// ListCommunities 列出社区，匿名或非成员只见公开社区
	ListCommunities(viewerUuid, q string) ([]respond.CommunityRespond, error)
	// GetCommunity 按 slug 获取社区
	GetCommunity(viewerUuid, slug string) (*respond.CommunityRespond, error)
	// Join 加入社区，幂等：已是成员时不改变现有角色
	Join(userUuid, slug string) error
	// Leave 退出社区，owner 不可退出
	Leave(userUuid, slug string) error
	// CreateChannel 创建频道，仅 owner/admin
	CreateChannel(userUuid, communitySlug string, req request.CreateChannelRequest) (*respond.ChannelRespond, error)
	// ListChannels 列出社区频道，按名称升序
	ListChannels(viewerUuid, communitySlug string) ([]respond.ChannelRespond, error)
	// PostMessage 在频道发言，任意级别成员可发
	PostMessage(userUuid, communitySlug, channelSlug string, req request.PostMessageRequest) (*respond.PostMessageRespond, error)
	// InitialFeed 首屏加载：最新一窗消息按时间升序返回
	InitialFeed(viewerUuid, communitySlug, channelSlug string) (*respond.CommunityFeedRespond, error)
	// FetchFeed 增量拉取：since 之后的消息升序返回
	// since 为空或解析失败时退化为首屏窗口行为
	FetchFeed(viewerUuid, communitySlug, channelSlug, since string) (*respond.CommunityFeedRespond, error)
}

// DirectMessageService 私信业务接口
type DirectMessageService interface {
	// SendMessage 发送私信
	SendMessage(senderUuid, receiverUsername, content string) (*respond.SendDirectMessageRespond, error)
	// InitialThread 首屏加载会话，并将对方发来的未读消息置为已读
	InitialThread(viewerUuid, peerUsername string) (*respond.DirectMessageFeedRespond, error)
	// FetchThread 增量拉取会话，每次成功调用都执行已读标记
	FetchThread(viewerUuid, peerUsername, since string) (*respond.DirectMessageFeedRespond, error)
}

// ReactionService 表态业务接口
type ReactionService interface {
	// Toggle 切换表态：无 -> 建，同类 -> 删，异类 -> 原地替换
	Toggle(userUuid string, req request.ReactRequest) (*respond.ReactionRespond, error)
}

// MemorialService 纪念页业务接口
type MemorialService interface {
	// Create 创建纪念页，可选生成 AI 悼词与插画
	Create(creatorUuid string, req request.SaveMemorialRequest) (*respond.MemorialRespond, error)
	// Update 更新纪念页，仅创建者
	Update(creatorUuid string, id uint, req request.SaveMemorialRequest) (*respond.MemorialRespond, error)
	// Delete 删除纪念页，仅创建者
	Delete(creatorUuid string, id uint) error
	// List 列出纪念页，支持搜索与按创建者过滤
	List(q, creatorUuid string) ([]respond.MemorialRespond, error)
	// GetDetail 按对外短 id 获取纪念页详情（留言、蜡烛、表态计数）
	GetDetail(publicId string) (*respond.MemorialDetailRespond, error)
	// PostMessage 访客留言，无需登录
	PostMessage(publicId string, req request.MemorialMessageRequest) (*respond.MemorialMessageRespond, error)
	// LightCandle 点蜡烛，无需登录
	LightCandle(publicId string, req request.LightCandleRequest) (*respond.CandleRespond, error)
}

// TaleService 故事业务接口
type TaleService interface {
	// Create 创建故事，slug 冲突时自动追加数字后缀
	Create(authorUuid string, req request.CreateTaleRequest) (*respond.TaleRespond, error)
	// List 列出故事，匿名只见公开故事，登录用户另见本人私有故事
	List(viewerUuid, q string) ([]respond.TaleRespond, error)
	// GetDetail 按 slug 获取故事详情，slug 未命中时按标题回退匹配
	GetDetail(viewerUuid, slug string) (*respond.TaleDetailRespond, error)
	// Delete 删除故事，仅作者
	Delete(authorUuid string, id uint) error
	// CreateChapter 创建章节，序号缺省或冲突时自动排在末尾
	CreateChapter(authorUuid string, taleID uint, req request.CreateChapterRequest) (*respond.ChapterRespond, error)
	// PublishChapter 发布草稿章节，仅作者
	PublishChapter(authorUuid string, taleID, chapterID uint) error
}
