// Package handler 提供 HTTP 请求处理器
// 本文件处理连载故事与章节相关的 API 请求
package handler

import (
	"strconv"

	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/infrastructure/middleware"
	"eternal_memories_server/internal/service"
	"eternal_memories_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// parseIDParam 解析路径中的数字 id
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errorx.New(errorx.CodeInvalidParam, "无效的 id")
	}
	return uint(id), nil
}

// CreateTaleHandler 创建故事
// POST /tales
func CreateTaleHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	var req request.CreateTaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Tale.Create(userUuid, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListTalesHandler 列出故事
// GET /tales?q=xxx
// 匿名只见公开故事，登录用户另见本人私有故事
func ListTalesHandler(c *gin.Context) {
	viewerUuid, _ := middleware.GetUserID(c)
	data, err := service.Svc.Tale.List(viewerUuid, c.Query("q"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetTaleHandler 获取故事详情
// GET /tales/:slug
// slug 未命中时按标题回退匹配，非作者只能看到已发布章节
func GetTaleHandler(c *gin.Context) {
	viewerUuid, _ := middleware.GetUserID(c)
	data, err := service.Svc.Tale.GetDetail(viewerUuid, c.Param("slug"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// resolveTaleID 将路径中的 slug 解析为故事 id
// 故事的写操作也按 slug 寻址，与读接口保持一致
func resolveTaleID(c *gin.Context, viewerUuid string) (uint, error) {
	detail, err := service.Svc.Tale.GetDetail(viewerUuid, c.Param("slug"))
	if err != nil {
		return 0, err
	}
	return detail.Tale.ID, nil
}

// DeleteTaleHandler 删除故事，仅作者
// DELETE /tales/:slug
func DeleteTaleHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	taleID, err := resolveTaleID(c, userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := service.Svc.Tale.Delete(userUuid, taleID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CreateChapterHandler 创建章节，仅作者
// POST /tales/:slug/chapters
// 序号缺省或冲突时自动排在末尾
func CreateChapterHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	taleID, err := resolveTaleID(c, userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	var req request.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Tale.CreateChapter(userUuid, taleID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PublishChapterHandler 发布草稿章节，仅作者
// POST /tales/:slug/chapters/:chapter_id/publish
func PublishChapterHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	taleID, err := resolveTaleID(c, userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	chapterID, err := parseIDParam(c, "chapter_id")
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := service.Svc.Tale.PublishChapter(userUuid, taleID, chapterID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
