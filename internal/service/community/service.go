// Package community 提供社区相关的业务逻辑
// 覆盖社区/频道管理、成员角色判定与频道消息流
package community

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/constants"
	"eternal_memories_server/pkg/errorx"
)

// communityService 社区业务逻辑实现
type communityService struct {
	repos *repository.Repositories
}

// NewCommunityService 构造函数，注入 Repository 依赖
func NewCommunityService(repos *repository.Repositories) *communityService {
	return &communityService{repos: repos}
}

// resolveRole 解析用户在社区中的角色
// 匿名或查无成员关系返回 RoleNone，角色判定全部经由 model.Role 的纯函数
func (c *communityService) resolveRole(userUuid string, communityID uint) (model.Role, error) {
	if userUuid == "" {
		return model.RoleNone, nil
	}
	membership, err := c.repos.Membership.FindByCommunityAndUser(communityID, userUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return model.RoleNone, nil
		}
		zap.L().Error(err.Error())
		return model.RoleNone, errorx.ErrServerBusy
	}
	return model.Role(membership.Role), nil
}

// findCommunity 按 slug 取社区，查无返回 CodeNotFound
func (c *communityService) findCommunity(communitySlug string) (*model.Community, error) {
	community, err := c.repos.Community.FindBySlug(communitySlug)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "社区不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return community, nil
}

// toCommunityRespond 组装社区响应
func toCommunityRespond(community *model.Community, role model.Role) respond.CommunityRespond {
	return respond.CommunityRespond{
		ID:          community.ID,
		Name:        community.Name,
		Slug:        community.Slug,
		Description: community.Description,
		IsPublic:    community.IsPublic,
		OwnerUuid:   community.OwnerUuid,
		Role:        string(role),
		CreatedAt:   community.CreatedAt.Format(time.RFC3339),
	}
}

// CreateCommunity 创建社区
// 社区、owner 成员关系和默认频道 general 在同一事务内创建，
// 任何一步失败都不会留下没有 owner 的孤儿社区
func (c *communityService) CreateCommunity(ownerUuid string, req request.CreateCommunityRequest) (*respond.CommunityRespond, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "社区名不能为空")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	communitySlug := slug.Make(name)
	if _, err := c.repos.Community.FindBySlug(communitySlug); err == nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "社区名已被占用")
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	community := &model.Community{
		OwnerUuid:   ownerUuid,
		Name:        name,
		Slug:        communitySlug,
		Description: req.Description,
		IsPublic:    isPublic,
	}

	err := c.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Community.Create(community); err != nil {
			return err
		}
		if err := tx.Membership.Create(&model.Membership{
			CommunityID: community.ID,
			UserUuid:    ownerUuid,
			Role:        model.RoleOwner,
		}); err != nil {
			return err
		}
		return tx.Channel.Create(&model.Channel{
			CommunityID: community.ID,
			Name:        constants.DEFAULT_CHANNEL_NAME,
			Slug:        slug.Make(constants.DEFAULT_CHANNEL_NAME),
			IsPublic:    true,
		})
	})
	if err != nil {
		zap.L().Error("创建社区事务失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsp := toCommunityRespond(community, model.RoleOwner)
	return &rsp, nil
}

// ListCommunities 列出社区
// 匿名只见公开社区，登录用户可见全部社区（私有社区在详情页仍会拦截非成员）
func (c *communityService) ListCommunities(viewerUuid, q string) ([]respond.CommunityRespond, error) {
	publicOnly := viewerUuid == ""
	communities, err := c.repos.Community.List(strings.TrimSpace(q), publicOnly)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	results := make([]respond.CommunityRespond, 0, len(communities))
	for i := range communities {
		role, err := c.resolveRole(viewerUuid, communities[i].ID)
		if err != nil {
			return nil, err
		}
		results = append(results, toCommunityRespond(&communities[i], role))
	}
	return results, nil
}

// GetCommunity 按 slug 获取社区
// 私有社区的非成员返回 Forbidden
func (c *communityService) GetCommunity(viewerUuid, communitySlug string) (*respond.CommunityRespond, error) {
	community, err := c.findCommunity(communitySlug)
	if err != nil {
		return nil, err
	}

	role, err := c.resolveRole(viewerUuid, community.ID)
	if err != nil {
		return nil, err
	}
	if !role.CanView(community.IsPublic) {
		return nil, errorx.New(errorx.CodeForbidden, "该社区为私有社区")
	}

	rsp := toCommunityRespond(community, role)
	return &rsp, nil
}

// Join 加入社区
// 幂等：已是成员时直接返回，不改变现有角色（管理员重复加入不会降级）
func (c *communityService) Join(userUuid, communitySlug string) error {
	community, err := c.findCommunity(communitySlug)
	if err != nil {
		return err
	}

	role, err := c.resolveRole(userUuid, community.ID)
	if err != nil {
		return err
	}
	if role != model.RoleNone {
		return nil
	}

	if err := c.repos.Membership.Create(&model.Membership{
		CommunityID: community.ID,
		UserUuid:    userUuid,
		Role:        model.RoleMember,
	}); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// Leave 退出社区
// owner 的成员关系不会被删除，删除语句本身排除 owner 行
func (c *communityService) Leave(userUuid, communitySlug string) error {
	community, err := c.findCommunity(communitySlug)
	if err != nil {
		return err
	}

	if err := c.repos.Membership.DeleteNonOwner(community.ID, userUuid); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// CreateChannel 创建频道，仅 owner/admin
func (c *communityService) CreateChannel(userUuid, communitySlug string, req request.CreateChannelRequest) (*respond.ChannelRespond, error) {
	community, err := c.findCommunity(communitySlug)
	if err != nil {
		return nil, err
	}

	role, err := c.resolveRole(userUuid, community.ID)
	if err != nil {
		return nil, err
	}
	if !role.CanManageChannels() {
		return nil, errorx.New(errorx.CodeForbidden, "只有管理员可以创建频道")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "频道名不能为空")
	}
	channelSlug := slug.Make(name)
	if _, err := c.repos.Channel.FindByCommunityAndSlug(community.ID, channelSlug); err == nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "频道已存在")
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	channel := &model.Channel{
		CommunityID: community.ID,
		Name:        name,
		Slug:        channelSlug,
		IsPublic:    isPublic,
	}
	if err := c.repos.Channel.Create(channel); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	return &respond.ChannelRespond{
		ID:       channel.ID,
		Name:     channel.Name,
		Slug:     channel.Slug,
		IsPublic: channel.IsPublic,
	}, nil
}

// ListChannels 列出社区频道，按名称升序
// 名称升序的第一个频道即未指定频道时的默认频道
func (c *communityService) ListChannels(viewerUuid, communitySlug string) ([]respond.ChannelRespond, error) {
	community, err := c.findCommunity(communitySlug)
	if err != nil {
		return nil, err
	}

	role, err := c.resolveRole(viewerUuid, community.ID)
	if err != nil {
		return nil, err
	}
	if !role.CanView(community.IsPublic) {
		return nil, errorx.New(errorx.CodeForbidden, "该社区为私有社区")
	}

	channels, err := c.repos.Channel.ListByCommunity(community.ID)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	results := make([]respond.ChannelRespond, 0, len(channels))
	for _, ch := range channels {
		results = append(results, respond.ChannelRespond{
			ID:       ch.ID,
			Name:     ch.Name,
			Slug:     ch.Slug,
			IsPublic: ch.IsPublic,
		})
	}
	return results, nil
}

// findChannel 按社区与 slug 取频道
func (c *communityService) findChannel(communityID uint, channelSlug string) (*model.Channel, error) {
	channel, err := c.repos.Channel.FindByCommunityAndSlug(communityID, channelSlug)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "频道不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return channel, nil
}

// PostMessage 在频道发言
// 任意级别成员均可发言，非成员返回 Forbidden；校验全部通过后才落库
func (c *communityService) PostMessage(userUuid, communitySlug, channelSlug string, req request.PostMessageRequest) (*respond.PostMessageRespond, error) {
	community, err := c.findCommunity(communitySlug)
	if err != nil {
		return nil, err
	}
	channel, err := c.findChannel(community.ID, channelSlug)
	if err != nil {
		return nil, err
	}

	role, err := c.resolveRole(userUuid, community.ID)
	if err != nil {
		return nil, err
	}
	if !role.CanPost() {
		return nil, errorx.New(errorx.CodeForbidden, "Not a member")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}

	author, err := c.repos.User.FindByUuid(userUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	message := &model.CommunityMessage{
		ChannelID:  channel.ID,
		AuthorUuid: userUuid,
		Content:    content,
	}
	if err := c.repos.CommunityMessage.Create(message); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	return &respond.PostMessageRespond{
		Status:       "success",
		ID:           message.ID,
		Author:       author.Username,
		Content:      message.Content,
		CreatedAt:    message.CreatedAt.Format(constants.DISPLAY_TIME_LAYOUT),
		CreatedAtIso: message.CreatedAt.Format(time.RFC3339),
	}, nil
}

// checkFeedAccess 消息流的访问检查
// 返回频道；私有社区的非成员返回 Forbidden，调用方负责压成空结果
func (c *communityService) checkFeedAccess(viewerUuid, communitySlug, channelSlug string) (*model.Channel, error) {
	community, err := c.findCommunity(communitySlug)
	if err != nil {
		return nil, err
	}
	channel, err := c.findChannel(community.ID, channelSlug)
	if err != nil {
		return nil, err
	}

	role, err := c.resolveRole(viewerUuid, community.ID)
	if err != nil {
		return nil, err
	}
	if !role.CanView(community.IsPublic) {
		return nil, errorx.New(errorx.CodeForbidden, "该社区为私有社区")
	}
	return channel, nil
}

// buildFeedItems 将消息批量换成响应条目，作者展示为用户名
func (c *communityService) buildFeedItems(messages []model.CommunityMessage) ([]respond.CommunityFeedItem, error) {
	authorUuids := make([]string, 0, len(messages))
	for _, m := range messages {
		authorUuids = append(authorUuids, m.AuthorUuid)
	}
	authors, err := c.repos.User.FindByUuids(authorUuids)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	nameByUuid := make(map[string]string, len(authors))
	for _, a := range authors {
		nameByUuid[a.Uuid] = a.Username
	}

	items := make([]respond.CommunityFeedItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, respond.CommunityFeedItem{
			ID:        m.ID,
			Author:    nameByUuid[m.AuthorUuid],
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

// latestWindow 取最新一窗消息并反转为时间升序
func (c *communityService) latestWindow(channelID uint) ([]model.CommunityMessage, error) {
	messages, err := c.repos.CommunityMessage.FindLatestWindow(channelID, constants.FEED_PAGE_SIZE)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	// 存储层按最新在前取窗口，这里反转成 oldest-first 供阅读
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// InitialFeed 首屏加载
// 返回最新一窗消息（升序）和窗口内最新一条的时间戳，作为增量拉取的游标
func (c *communityService) InitialFeed(viewerUuid, communitySlug, channelSlug string) (*respond.CommunityFeedRespond, error) {
	channel, err := c.checkFeedAccess(viewerUuid, communitySlug, channelSlug)
	if err != nil {
		return nil, err
	}

	messages, err := c.latestWindow(channel.ID)
	if err != nil {
		return nil, err
	}
	items, err := c.buildFeedItems(messages)
	if err != nil {
		return nil, err
	}

	rsp := &respond.CommunityFeedRespond{Results: items}
	if len(messages) > 0 {
		rsp.LatestTimestamp = messages[len(messages)-1].CreatedAt.Format(time.RFC3339)
	}
	return rsp, nil
}

// parseSince 解析增量拉取游标
// 支持带时区的 ISO-8601 和无时区的本地格式，解析失败返回 false
func parseSince(since string) (time.Time, bool) {
	since = strings.TrimSpace(since)
	if since == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, since); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FetchFeed 增量拉取
// since 有效时返回其后的消息（严格大于，升序，截断到上限）；
// since 缺失或解析失败时退化为首屏窗口行为，不报错
func (c *communityService) FetchFeed(viewerUuid, communitySlug, channelSlug, since string) (*respond.CommunityFeedRespond, error) {
	channel, err := c.checkFeedAccess(viewerUuid, communitySlug, channelSlug)
	if err != nil {
		return nil, err
	}

	var messages []model.CommunityMessage
	if t, ok := parseSince(since); ok {
		messages, err = c.repos.CommunityMessage.FindSince(channel.ID, t, constants.FEED_PAGE_SIZE)
		if err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
	} else {
		messages, err = c.latestWindow(channel.ID)
		if err != nil {
			return nil, err
		}
	}

	items, err := c.buildFeedItems(messages)
	if err != nil {
		return nil, err
	}
	return &respond.CommunityFeedRespond{Results: items}, nil
}
