// Package handler 提供 HTTP 请求处理器
// 本文件处理纪念页、访客留言与蜡烛相关的 API 请求
package handler

import (
	myredis "eternal_memories_server/internal/dao/redis"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/infrastructure/middleware"
	"eternal_memories_server/internal/infrastructure/mq"
	"eternal_memories_server/internal/service"
	"eternal_memories_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// resolveMemorialID 将路径中的对外短 id 解析为数据库 id
// 纪念页的写操作也按 public_id 寻址，与读接口保持一致
func resolveMemorialID(c *gin.Context) (uint, error) {
	detail, err := service.Svc.Memorial.GetDetail(c.Param("public_id"))
	if err != nil {
		return 0, err
	}
	return detail.Memorial.ID, nil
}

// CreateMemorialHandler 创建纪念页
// POST /memorials
// 可选同步生成 AI 悼词，插画生成走异步任务队列
func CreateMemorialHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	var req request.SaveMemorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Memorial.Create(userUuid, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateMemorialHandler 更新纪念页，仅创建者
// PUT /memorials/:public_id
func UpdateMemorialHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	id, err := resolveMemorialID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	var req request.SaveMemorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Memorial.Update(userUuid, id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteMemorialHandler 删除纪念页，仅创建者
// DELETE /memorials/:public_id
func DeleteMemorialHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	id, err := resolveMemorialID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := service.Svc.Memorial.Delete(userUuid, id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListMemorialsHandler 列出纪念页
// GET /memorials?q=xxx&mine=true
// mine=true 时仅返回本人创建的纪念页
func ListMemorialsHandler(c *gin.Context) {
	creatorUuid := ""
	if c.Query("mine") == "true" {
		userUuid, ok := middleware.GetUserID(c)
		if !ok {
			HandleError(c, errorx.ErrUnauthorized)
			return
		}
		creatorUuid = userUuid
	}
	data, err := service.Svc.Memorial.List(c.Query("q"), creatorUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMemorialHandler 获取纪念页详情
// GET /memorials/:public_id
// 纪念页对所有人公开，无需登录
func GetMemorialHandler(c *gin.Context) {
	data, err := service.Svc.Memorial.GetDetail(c.Param("public_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PostMemorialMessageHandler 访客留言
// POST /memorials/:public_id/messages
// 无需登录
func PostMemorialMessageHandler(c *gin.Context) {
	var req request.MemorialMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Memorial.PostMessage(c.Param("public_id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LightCandleHandler 点蜡烛
// POST /memorials/:public_id/candles
// 无需登录
func LightCandleHandler(c *gin.Context) {
	var req request.LightCandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Memorial.LightCandle(c.Param("public_id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetImageJobStatusHandler 查询插画生成任务状态
// GET /memorials/:public_id/image-job
// 状态保存在 Redis，pending / done / failed，一小时后过期
func GetImageJobStatusHandler(c *gin.Context) {
	id, err := resolveMemorialID(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	status, err := myredis.GetCacheService().Get(c.Request.Context(), mq.ImageJobStatusKey(id))
	if err != nil || status == "" {
		HandleError(c, errorx.New(errorx.CodeNotFound, "任务不存在或已过期"))
		return
	}
	HandleSuccess(c, gin.H{"status": status})
}
