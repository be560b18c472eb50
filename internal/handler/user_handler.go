// Package handler 提供 HTTP 请求处理器
// 本文件处理用户资料相关的 API 请求
package handler

import (
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/infrastructure/middleware"
	"eternal_memories_server/internal/service"
	"eternal_memories_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// GetProfileHandler 获取用户公开资料
// GET /users/:uuid/profile
func GetProfileHandler(c *gin.Context) {
	data, err := service.Svc.User.GetProfile(c.Param("uuid"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetProfileDetailHandler 获取个人主页聚合信息
// GET /users/:uuid
// 本人访问时额外返回近期私信往来
func GetProfileDetailHandler(c *gin.Context) {
	viewerUuid, _ := middleware.GetUserID(c)
	data, err := service.Svc.User.GetProfileDetail(viewerUuid, c.Param("uuid"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateProfileHandler 更新本人资料
// PUT /profile
func UpdateProfileHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.User.UpdateProfile(userUuid, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SearchProfilesHandler 搜索公开资料
// GET /search/users?q=xxx
func SearchProfilesHandler(c *gin.Context) {
	data, err := service.Svc.User.Search(c.Query("q"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
