// Package user 提供用户资料相关的业务逻辑
package user

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/constants"
	"eternal_memories_server/pkg/errorx"
)

// userService 用户资料业务逻辑实现
type userService struct {
	repos *repository.Repositories
}

// NewUserService 构造函数，注入 Repository 依赖
func NewUserService(repos *repository.Repositories) *userService {
	return &userService{repos: repos}
}

// toProfileRespond 组装资料响应，展示名为空时回退到用户名
func toProfileRespond(user *model.UserInfo, profile *model.Profile) respond.ProfileRespond {
	displayName := profile.DisplayName
	if displayName == "" {
		displayName = user.Username
	}
	return respond.ProfileRespond{
		Uuid:         user.Uuid,
		Username:     user.Username,
		DisplayName:  displayName,
		Bio:          profile.Bio,
		Image:        profile.Image,
		PublicSearch: profile.PublicSearch,
		Tags:         profile.TagsList(),
	}
}

// GetProfile 获取用户公开资料
func (u *userService) GetProfile(userUuid string) (*respond.ProfileRespond, error) {
	user, err := u.repos.User.FindByUuid(userUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "用户不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	profile, err := u.repos.Profile.FindByUserUuid(userUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	rsp := toProfileRespond(user, profile)
	return &rsp, nil
}

// GetProfileDetail 获取个人主页聚合信息
// 包含资料、其名下纪念页与故事收到的表态汇总，本人访问时另附近期私信预览
func (u *userService) GetProfileDetail(viewerUuid, userUuid string) (*respond.ProfileDetailRespond, error) {
	profileRsp, err := u.GetProfile(userUuid)
	if err != nil {
		return nil, err
	}

	detail := &respond.ProfileDetailRespond{
		Profile:        *profileRsp,
		RecentMessages: []respond.DirectMessageRespond{},
	}

	// 汇总该用户作品收到的表态
	memorials, err := u.repos.Memorial.List("", userUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	tales, err := u.repos.Tale.ListByAuthor(userUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	for _, m := range memorials {
		if err := u.addCounts(&detail.Reactions, model.TargetMemorial, m.ID); err != nil {
			return nil, err
		}
	}
	for _, t := range tales {
		if err := u.addCounts(&detail.Reactions, model.TargetTale, t.ID); err != nil {
			return nil, err
		}
	}

	// 私信预览只对本人开放
	if viewerUuid != userUuid {
		return detail, nil
	}

	messages, err := u.repos.DirectMessage.FindLatestInvolving(userUuid, constants.PROFILE_CONVO_SIZE)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	// 发送者展示为用户名，与私信消息流保持一致
	senderUuids := make([]string, 0, len(messages))
	for _, msg := range messages {
		senderUuids = append(senderUuids, msg.SenderUuid)
	}
	senders, err := u.repos.User.FindByUuids(senderUuids)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	nameByUuid := make(map[string]string, len(senders))
	for _, s := range senders {
		nameByUuid[s.Uuid] = s.Username
	}

	for _, msg := range messages {
		detail.RecentMessages = append(detail.RecentMessages, respond.DirectMessageRespond{
			ID:        msg.ID,
			Sender:    nameByUuid[msg.SenderUuid],
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		})
	}

	return detail, nil
}

// addCounts 累加单个目标的表态计数
func (u *userService) addCounts(sum *respond.ReactionSummary, kind model.TargetKind, targetID uint) error {
	counts, err := u.repos.Reaction.CountByTarget(kind, targetID)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	sum.Like += counts[model.ReactionLike]
	sum.Love += counts[model.ReactionLove]
	sum.Support += counts[model.ReactionSupport]
	return nil
}

// UpdateProfile 更新本人资料
func (u *userService) UpdateProfile(userUuid string, req request.UpdateProfileRequest) (*respond.ProfileRespond, error) {
	user, err := u.repos.User.FindByUuid(userUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	profile, err := u.repos.Profile.FindByUserUuid(userUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	if req.DisplayName != "" {
		profile.DisplayName = strings.TrimSpace(req.DisplayName)
	}
	profile.Bio = req.Bio
	if req.Image != "" {
		profile.Image = req.Image
	}
	if req.PublicSearch != nil {
		profile.PublicSearch = *req.PublicSearch
	}
	profile.Tags = req.Tags

	if err := u.repos.Profile.Update(profile); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	rsp := toProfileRespond(user, profile)
	return &rsp, nil
}

// Search 搜索公开资料
// 只命中允许公开搜索的资料，关键字为空时返回空列表
func (u *userService) Search(q string) ([]respond.ProfileRespond, error) {
	q = strings.TrimSpace(q)
	results := []respond.ProfileRespond{}
	if q == "" {
		return results, nil
	}

	profiles, err := u.repos.Profile.Search(q, constants.PROFILE_SEARCH_MAX)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	// 批量取用户名，避免逐条查询
	uuids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		uuids = append(uuids, p.UserUuid)
	}
	users, err := u.repos.User.FindByUuids(uuids)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	userByUuid := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		userByUuid[users[i].Uuid] = &users[i]
	}

	for i := range profiles {
		user, ok := userByUuid[profiles[i].UserUuid]
		if !ok {
			continue
		}
		results = append(results, toProfileRespond(user, &profiles[i]))
	}

	return results, nil
}
