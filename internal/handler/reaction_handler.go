// Package handler 提供 HTTP 请求处理器
// 本文件处理纪念页与故事的表态切换
package handler

import (
	"net/http"

	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/infrastructure/middleware"
	"eternal_memories_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ReactHandler 切换表态
// POST /react
// 无 -> 建，同类 -> 删，异类 -> 原地替换
// 成功返回 {status: "ok", counts: {...}, active: bool, type: string}
func ReactHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Authentication required",
		})
		return
	}
	var req request.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleRawParamError(c, err)
		return
	}
	data, err := service.Svc.Reaction.Toggle(userUuid, req)
	if err != nil {
		handleRawError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
