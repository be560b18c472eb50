// Package reaction 提供内容表态相关的业务逻辑
package reaction

import (
	"go.uber.org/zap"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/errorx"
)

// reactionService 表态业务逻辑实现
type reactionService struct {
	repos *repository.Repositories
}

// NewReactionService 构造函数，注入 Repository 依赖
func NewReactionService(repos *repository.Repositories) *reactionService {
	return &reactionService{repos: repos}
}

// targetExists 校验表态目标是否存在
func (s *reactionService) targetExists(kind model.TargetKind, targetID uint) (bool, error) {
	switch kind {
	case model.TargetMemorial:
		return s.repos.Memorial.ExistsByID(targetID)
	case model.TargetTale:
		if _, err := s.repos.Tale.FindByID(targetID); err != nil {
			if errorx.GetCode(err) == errorx.CodeNotFound {
				return false, nil
			}
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

// Toggle 切换表态
// 规则：无表态 -> 创建；同类型 -> 删除（取消）；不同类型 -> 原地替换。
// 计数每次都从存储层即时统计，不做缓存
func (s *reactionService) Toggle(userUuid string, req request.ReactRequest) (*respond.ReactionRespond, error) {
	kind := model.TargetKind(req.Model)
	if !kind.Valid() || !model.ValidReactionType(req.Reaction) {
		return nil, errorx.New(errorx.CodeInvalidParam, "无效的表态参数")
	}

	exists, err := s.targetExists(kind, req.ID)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !exists {
		return nil, errorx.New(errorx.CodeNotFound, "表态目标不存在")
	}

	active := false
	existing, err := s.repos.Reaction.FindByUserAndTarget(userUuid, kind, req.ID)
	switch {
	case err != nil && errorx.GetCode(err) == errorx.CodeNotFound:
		// 无表态，创建
		if err := s.repos.Reaction.Create(&model.Reaction{
			UserUuid:     userUuid,
			TargetKind:   kind,
			TargetID:     req.ID,
			ReactionType: req.Reaction,
		}); err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		active = true
	case err != nil:
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	case existing.ReactionType == req.Reaction:
		// 同类型，取消
		if err := s.repos.Reaction.Delete(existing.ID); err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
	default:
		// 不同类型，原地替换，不产生第二行
		if err := s.repos.Reaction.UpdateType(existing.ID, req.Reaction); err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		active = true
	}

	counts, err := s.repos.Reaction.CountByTarget(kind, req.ID)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	return &respond.ReactionRespond{
		Status: "ok",
		Counts: respond.ReactionCounts{
			Like:    counts[model.ReactionLike],
			Love:    counts[model.ReactionLove],
			Support: counts[model.ReactionSupport],
		},
		Active: active,
		Type:   req.Reaction,
	}, nil
}
