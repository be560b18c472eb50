// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"eternal_memories_server/internal/dao/mysql/repository"
	myredis "eternal_memories_server/internal/dao/redis"
	"eternal_memories_server/internal/infrastructure/ai"
	"eternal_memories_server/internal/infrastructure/mq"
	"eternal_memories_server/internal/service/auth"
	"eternal_memories_server/internal/service/community"
	"eternal_memories_server/internal/service/dm"
	"eternal_memories_server/internal/service/memorial"
	"eternal_memories_server/internal/service/reaction"
	"eternal_memories_server/internal/service/tale"
	"eternal_memories_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	Auth      AuthService          // 认证 Service
	User      UserService          // 用户资料 Service
	Community CommunityService     // 社区 Service
	DM        DirectMessageService // 私信 Service
	Reaction  ReactionService      // 表态 Service
	Memorial  MemorialService      // 纪念页 Service
	Tale      TaleService          // 故事 Service
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 接收 Repository 聚合实例和基础设施依赖
//  2. 创建各个 Service 实例，注入依赖
//  3. 返回 Services 聚合
//
// repos: Repository 层聚合实例
// cache: 缓存服务接口实例
// tributes: 悼词生成服务
// imageJobs: AI 插画任务队列，可为 nil（未启用时跳过插画生成）
func NewServices(repos *repository.Repositories, cache myredis.CacheService, tributes ai.TributeService, imageJobs mq.ImageJobQueue) *Services {
	reactionSvc := reaction.NewReactionService(repos)

	return &Services{
		Auth:      auth.NewAuthService(repos, cache),
		User:      user.NewUserService(repos),
		Community: community.NewCommunityService(repos),
		DM:        dm.NewDirectMessageService(repos),
		Reaction:  reactionSvc,
		Memorial:  memorial.NewMemorialService(repos, tributes, imageJobs),
		Tale:      tale.NewTaleService(repos),
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Community.PostMessage() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository 和基础设施初始化之后
func InitServices(repos *repository.Repositories, cache myredis.CacheService, tributes ai.TributeService, imageJobs mq.ImageJobQueue) {
	Svc = NewServices(repos, cache, tributes, imageJobs)
}
