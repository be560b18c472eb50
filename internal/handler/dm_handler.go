// Package handler 提供 HTTP 请求处理器
// 本文件处理私信相关的 API 请求，响应沿用前端轮询脚本的裸 JSON 约定
package handler

import (
	"net/http"

	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/infrastructure/middleware"
	"eternal_memories_server/internal/service"

	"github.com/gin-gonic/gin"
)

// SendDirectMessageHandler 发送私信
// POST /messages/:username
// 成功返回 {status: "ok", ...}
func SendDirectMessageHandler(c *gin.Context) {
	senderUuid, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Authentication required",
		})
		return
	}
	var req request.SendDirectMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		handleRawParamError(c, err)
		return
	}
	data, err := service.Svc.DM.SendMessage(senderUuid, c.Param("username"), req.Message)
	if err != nil {
		handleRawError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// DirectMessageFeedHandler 拉取与某用户的会话
// GET /messages/:username?since=xxx
// 每次成功调用都会把对方发来的未读消息置为已读
// 响应禁止缓存，轮询必须拿到最新已读状态
func DirectMessageFeedHandler(c *gin.Context) {
	viewerUuid, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Authentication required",
		})
		return
	}

	var (
		data *respond.DirectMessageFeedRespond
		err  error
	)
	if since := c.Query("since"); since != "" {
		data, err = service.Svc.DM.FetchThread(viewerUuid, c.Param("username"), since)
	} else {
		data, err = service.Svc.DM.InitialThread(viewerUuid, c.Param("username"))
	}
	if err != nil {
		handleRawError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, data)
}
