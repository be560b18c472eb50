// Package auth 提供认证相关的业务逻辑
// 处理注册、登录、令牌刷新与登出
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"eternal_memories_server/internal/dao/mysql/repository"
	myredis "eternal_memories_server/internal/dao/redis"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/constants"
	"eternal_memories_server/pkg/errorx"
	"eternal_memories_server/pkg/util/jwt"
	"eternal_memories_server/pkg/util/random"
)

// Service 认证服务实现
type Service struct {
	repos *repository.Repositories
	cache myredis.CacheService // 缓存服务（依赖倒置）
}

// NewAuthService 创建认证服务实例
func NewAuthService(repos *repository.Repositories, cache myredis.CacheService) *Service {
	return &Service{
		repos: repos,
		cache: cache,
	}
}

// tokenKey 返回用户 Refresh Token ID 的 Redis 键
func tokenKey(userUuid string) string {
	return "user_token:" + userUuid
}

// Register 用户注册
// 用户与公开资料在同一事务内创建，资料创建失败时用户记录一并回滚
func (s *Service) Register(req request.RegisterRequest) (*respond.RegisterRespond, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "用户名不能为空")
	}

	// 用户名占用检查
	if _, err := s.repos.User.FindByUsername(username); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "用户名已被占用")
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	user := &model.UserInfo{
		Uuid:        fmt.Sprintf("U%s", random.GetNowAndLenRandomString(13)),
		Username:    username,
		Email:       req.Email,
		RawPassword: req.Password,
	}

	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.User.Create(user); err != nil {
			return err
		}
		// 资料随用户一起创建，不依赖任何隐式事件机制
		return tx.Profile.Create(&model.Profile{
			UserUuid:     user.Uuid,
			DisplayName:  username,
			PublicSearch: true,
		})
	})
	if err != nil {
		zap.L().Error("注册事务失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsp := &respond.RegisterRespond{
		Uuid:     user.Uuid,
		Username: user.Username,
		Email:    user.Email,
	}
	year, month, day := user.CreatedAt.Date()
	rsp.CreatedAt = fmt.Sprintf("%d.%d.%d", year, month, day)

	return rsp, nil
}

// Login 密码登录
func (s *Service) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := s.repos.User.FindByUsername(req.Username)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在，请注册")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码不正确，请重试")
	}

	accessToken, refreshToken, err := s.issueTokens(user.Uuid)
	if err != nil {
		return nil, err
	}

	rsp := &respond.LoginRespond{
		Uuid:         user.Uuid,
		Username:     user.Username,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	// 登录响应附带资料摘要，前端免一次请求
	if profile, err := s.repos.Profile.FindByUserUuid(user.Uuid); err == nil {
		rsp.DisplayName = profile.DisplayName
		rsp.Image = profile.Image
	}

	year, month, day := user.CreatedAt.Date()
	rsp.CreatedAt = fmt.Sprintf("%d.%d.%d", year, month, day)

	return rsp, nil
}

// RefreshToken 刷新令牌
// 校验 Refresh Token 本身及其 TokenID 与 Redis 中固定的一致，实现单点互踢
func (s *Service) RefreshToken(req request.RefreshTokenRequest) (*respond.TokenRespond, error) {
	claims, err := jwt.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "Refresh Token 已过期或无效，请重新登录")
	}
	if claims.Subject != "refresh_token" {
		return nil, errorx.New(errorx.CodeUnauthorized, "请使用 Refresh Token 刷新")
	}

	validTokenID, err := s.cache.Get(context.Background(), tokenKey(claims.UserID))
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if validTokenID == "" || validTokenID != claims.TokenID {
		return nil, errorx.New(errorx.CodeUnauthorized, "登录状态已失效，请重新登录")
	}

	accessToken, refreshToken, err := s.issueTokens(claims.UserID)
	if err != nil {
		return nil, err
	}

	return &respond.TokenRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout 登出，删除 Redis 中固定的 TokenID 使 Refresh Token 失效
func (s *Service) Logout(userUuid string) error {
	if err := s.cache.Delete(context.Background(), tokenKey(userUuid)); err != nil {
		zap.L().Error("吊销 Refresh Token 失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// issueTokens 签发双 Token 并将 Refresh Token ID 固定到 Redis
func (s *Service) issueTokens(userUuid string) (accessToken, refreshToken string, err error) {
	accessToken, err = jwt.GenerateAccessToken(userUuid)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return "", "", errorx.ErrServerBusy
	}

	refreshToken, tokenID, err := jwt.GenerateRefreshToken(userUuid)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return "", "", errorx.ErrServerBusy
	}

	// 将 Refresh Token ID 存入 Redis，实现单点互踢
	ttl := time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS) * time.Hour
	if err := s.cache.Set(context.Background(), tokenKey(userUuid), tokenID, ttl); err != nil {
		zap.L().Error("存储 Token ID 到 Redis 失败", zap.Error(err))
		// 不阻塞登录流程，仅记录日志
	}

	return accessToken, refreshToken, nil
}
