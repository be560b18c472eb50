// Package handler 提供 HTTP 请求处理器
// 本文件处理社区、频道与频道消息流相关的 API 请求
package handler

import (
	"errors"
	"net/http"

	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/infrastructure/middleware"
	"eternal_memories_server/internal/service"
	"eternal_memories_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// CreateCommunityHandler 创建社区
// POST /communities
// 同时创建 owner 成员关系与默认频道
func CreateCommunityHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	var req request.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Community.CreateCommunity(userUuid, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListCommunitiesHandler 列出社区
// GET /communities?q=xxx
// 匿名访问只返回公开社区
func ListCommunitiesHandler(c *gin.Context) {
	viewerUuid, _ := middleware.GetUserID(c)
	data, err := service.Svc.Community.ListCommunities(viewerUuid, c.Query("q"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetCommunityHandler 按 slug 获取社区
// GET /communities/:slug
func GetCommunityHandler(c *gin.Context) {
	viewerUuid, _ := middleware.GetUserID(c)
	data, err := service.Svc.Community.GetCommunity(viewerUuid, c.Param("slug"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// JoinCommunityHandler 加入社区
// POST /communities/:slug/join
// 幂等操作，已是成员时不改变现有角色
func JoinCommunityHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	if err := service.Svc.Community.Join(userUuid, c.Param("slug")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// LeaveCommunityHandler 退出社区
// POST /communities/:slug/leave
// owner 不可退出
func LeaveCommunityHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	if err := service.Svc.Community.Leave(userUuid, c.Param("slug")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CreateChannelHandler 创建频道
// POST /communities/:slug/channels
// 仅 owner/admin
func CreateChannelHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	var req request.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Community.CreateChannel(userUuid, c.Param("slug"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListChannelsHandler 列出社区频道
// GET /communities/:slug/channels
func ListChannelsHandler(c *gin.Context) {
	viewerUuid, _ := middleware.GetUserID(c)
	data, err := service.Svc.Community.ListChannels(viewerUuid, c.Param("slug"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PostCommunityMessageHandler 在频道发言
// POST /communities/:slug/channels/:channel/messages
// 前端轮询脚本直接消费裸响应，成功返回 {status: "success", ...}
func PostCommunityMessageHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Authentication required",
		})
		return
	}
	var req request.PostMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		handleRawParamError(c, err)
		return
	}
	data, err := service.Svc.Community.PostMessage(userUuid, c.Param("slug"), c.Param("channel"), req)
	if err != nil {
		handleRawError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// CommunityFeedHandler 拉取频道消息流
// GET /communities/:slug/channels/:channel/messages?since=xxx
// 带 since 时做增量拉取，否则返回最新一窗
// 无权访问时返回空 results，避免私有社区内容泄露
func CommunityFeedHandler(c *gin.Context) {
	viewerUuid, _ := middleware.GetUserID(c)

	var (
		data *respond.CommunityFeedRespond
		err  error
	)
	if since := c.Query("since"); since != "" {
		data, err = service.Svc.Community.FetchFeed(viewerUuid, c.Param("slug"), c.Param("channel"), since)
	} else {
		data, err = service.Svc.Community.InitialFeed(viewerUuid, c.Param("slug"), c.Param("channel"))
	}
	if err != nil {
		var codeErr *errorx.CodeError
		if errors.As(err, &codeErr) && codeErr.Code == errorx.CodeForbidden {
			c.JSON(http.StatusForbidden, gin.H{"results": []respond.CommunityFeedItem{}})
			return
		}
		handleRawError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, data)
}
