// Package memorial 提供纪念页相关的业务逻辑
// 包含访客留言、点蜡烛与可选的 AI 悼词/插画生成
package memorial

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/infrastructure/ai"
	"eternal_memories_server/internal/infrastructure/mq"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/constants"
	"eternal_memories_server/pkg/errorx"
)

// dateLayout 出生/离世日期的输入格式
const dateLayout = "2006-01-02"

// memorialService 纪念页业务逻辑实现
type memorialService struct {
	repos     *repository.Repositories
	tributes  ai.TributeService
	imageJobs mq.ImageJobQueue // 可为 nil，未启用时跳过插画生成
}

// NewMemorialService 构造函数，注入 Repository 与 AI 依赖
func NewMemorialService(repos *repository.Repositories, tributes ai.TributeService, imageJobs mq.ImageJobQueue) *memorialService {
	return &memorialService{
		repos:     repos,
		tributes:  tributes,
		imageJobs: imageJobs,
	}
}

// parseDate 解析可空日期
func parseDate(value string) (sql.NullTime, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return sql.NullTime{}, errorx.New(errorx.CodeInvalidParam, "日期格式应为 YYYY-MM-DD")
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

// formatDate 格式化可空日期，空值输出空字符串
func formatDate(value sql.NullTime) string {
	if !value.Valid {
		return ""
	}
	return value.Time.Format(dateLayout)
}

// toMemorialRespond 组装纪念页响应
func toMemorialRespond(m *model.Memorial) respond.MemorialRespond {
	return respond.MemorialRespond{
		ID:                 m.ID,
		PublicId:           m.PublicId,
		Name:               m.Name,
		DateOfBirth:        formatDate(m.DateOfBirth),
		DateOfPassing:      formatDate(m.DateOfPassing),
		Biography:          m.Biography,
		Tribute:            m.Tribute,
		Image:              m.Image,
		IsAiGeneratedImage: m.IsAiGeneratedImage,
		CreatorUuid:        m.CreatorUuid,
		CreatedAt:          m.CreatedAt.Format(time.RFC3339),
	}
}

// applyRequest 将请求字段写入模型
func applyRequest(m *model.Memorial, req request.SaveMemorialRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return errorx.New(errorx.CodeInvalidParam, "姓名不能为空")
	}

	birth, err := parseDate(req.DateOfBirth)
	if err != nil {
		return err
	}
	passing, err := parseDate(req.DateOfPassing)
	if err != nil {
		return err
	}

	m.Name = name
	m.DateOfBirth = birth
	m.DateOfPassing = passing
	m.Biography = req.Biography
	if req.Tribute != "" {
		m.Tribute = req.Tribute
	}
	if req.Image != "" {
		m.Image = req.Image
		m.IsAiGeneratedImage = false
	}
	return nil
}

// maybeGenerate 按请求执行 AI 悼词生成与插画任务投递
// 悼词同步生成（外部服务自带超时与兜底文案），插画异步走任务队列
func (s *memorialService) maybeGenerate(m *model.Memorial, req request.SaveMemorialRequest) {
	if req.GenerateTribute && strings.TrimSpace(req.Memories) != "" {
		m.Tribute = s.tributes.GenerateTribute(context.Background(), m.Name, req.Relationship, req.Memories)
	}
}

// enqueueImageJob 投递插画生成任务，创建/更新落库之后调用
func (s *memorialService) enqueueImageJob(m *model.Memorial, req request.SaveMemorialRequest) {
	if !req.GenerateImage || strings.TrimSpace(req.ImagePrompt) == "" {
		return
	}
	if s.imageJobs == nil {
		zap.L().Warn("插画任务队列未启用，跳过生成", zap.Uint("memorial_id", m.ID))
		return
	}
	job := mq.ImageJob{
		MemorialID: m.ID,
		Name:       m.Name,
		Prompt:     req.ImagePrompt,
	}
	if err := s.imageJobs.Enqueue(context.Background(), job); err != nil {
		// 插画失败不影响纪念页主流程
		zap.L().Error("插画任务投递失败", zap.Uint("memorial_id", m.ID), zap.Error(err))
	}
}

// Create 创建纪念页
func (s *memorialService) Create(creatorUuid string, req request.SaveMemorialRequest) (*respond.MemorialRespond, error) {
	memorial := &model.Memorial{CreatorUuid: creatorUuid}
	if err := applyRequest(memorial, req); err != nil {
		return nil, err
	}
	s.maybeGenerate(memorial, req)

	if err := s.repos.Memorial.Create(memorial); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	s.enqueueImageJob(memorial, req)

	rsp := toMemorialRespond(memorial)
	return &rsp, nil
}

// findOwned 取纪念页并校验创建者
func (s *memorialService) findOwned(creatorUuid string, id uint) (*model.Memorial, error) {
	memorial, err := s.repos.Memorial.FindByID(id)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "纪念页不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if memorial.CreatorUuid != creatorUuid {
		return nil, errorx.New(errorx.CodeForbidden, "只有创建者可以操作该纪念页")
	}
	return memorial, nil
}

// Update 更新纪念页，仅创建者
func (s *memorialService) Update(creatorUuid string, id uint, req request.SaveMemorialRequest) (*respond.MemorialRespond, error) {
	memorial, err := s.findOwned(creatorUuid, id)
	if err != nil {
		return nil, err
	}

	if err := applyRequest(memorial, req); err != nil {
		return nil, err
	}
	s.maybeGenerate(memorial, req)

	if err := s.repos.Memorial.Update(memorial); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	s.enqueueImageJob(memorial, req)

	rsp := toMemorialRespond(memorial)
	return &rsp, nil
}

// Delete 删除纪念页，仅创建者，附属留言与蜡烛级联删除
func (s *memorialService) Delete(creatorUuid string, id uint) error {
	if _, err := s.findOwned(creatorUuid, id); err != nil {
		return err
	}
	if err := s.repos.Memorial.Delete(id); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// List 列出纪念页，支持搜索与按创建者过滤
func (s *memorialService) List(q, creatorUuid string) ([]respond.MemorialRespond, error) {
	memorials, err := s.repos.Memorial.List(strings.TrimSpace(q), creatorUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	results := make([]respond.MemorialRespond, 0, len(memorials))
	for i := range memorials {
		results = append(results, toMemorialRespond(&memorials[i]))
	}
	return results, nil
}

// findByPublicId 按对外短 id 取纪念页
func (s *memorialService) findByPublicId(publicId string) (*model.Memorial, error) {
	memorial, err := s.repos.Memorial.FindByPublicId(publicId)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "纪念页不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return memorial, nil
}

// GetDetail 获取纪念页详情
// 聚合留言（新在前）、蜡烛（新在前）和表态计数
func (s *memorialService) GetDetail(publicId string) (*respond.MemorialDetailRespond, error) {
	memorial, err := s.findByPublicId(publicId)
	if err != nil {
		return nil, err
	}

	messages, err := s.repos.MemorialMessage.ListByMemorial(memorial.ID)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	candles, err := s.repos.Candle.ListByMemorial(memorial.ID)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	counts, err := s.repos.Reaction.CountByTarget(model.TargetMemorial, memorial.ID)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	detail := &respond.MemorialDetailRespond{
		Memorial: toMemorialRespond(memorial),
		Messages: make([]respond.MemorialMessageRespond, 0, len(messages)),
		Candles:  make([]respond.CandleRespond, 0, len(candles)),
		Reactions: respond.ReactionCounts{
			Like:    counts[model.ReactionLike],
			Love:    counts[model.ReactionLove],
			Support: counts[model.ReactionSupport],
		},
	}
	for _, m := range messages {
		detail.Messages = append(detail.Messages, respond.MemorialMessageRespond{
			ID:         m.ID,
			AuthorName: m.AuthorName,
			Content:    m.Content,
			CreatedAt:  m.CreatedAt.Format(constants.DISPLAY_TIME_LAYOUT),
		})
	}
	for _, c := range candles {
		detail.Candles = append(detail.Candles, respond.CandleRespond{
			ID:      c.ID,
			LitBy:   c.LitBy,
			LitAt:   c.LitAt.Format(constants.DISPLAY_TIME_LAYOUT),
			Message: c.Message,
		})
	}
	return detail, nil
}

// PostMessage 访客留言，无需登录
func (s *memorialService) PostMessage(publicId string, req request.MemorialMessageRequest) (*respond.MemorialMessageRespond, error) {
	memorial, err := s.findByPublicId(publicId)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "留言内容不能为空")
	}

	message := &model.MemorialMessage{
		MemorialID:  memorial.ID,
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorEmail: req.AuthorEmail,
		Content:     content,
	}
	if err := s.repos.MemorialMessage.Create(message); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	return &respond.MemorialMessageRespond{
		ID:         message.ID,
		AuthorName: message.AuthorName,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt.Format(constants.DISPLAY_TIME_LAYOUT),
	}, nil
}

// LightCandle 点蜡烛，无需登录
func (s *memorialService) LightCandle(publicId string, req request.LightCandleRequest) (*respond.CandleRespond, error) {
	memorial, err := s.findByPublicId(publicId)
	if err != nil {
		return nil, err
	}

	candle := &model.Candle{
		MemorialID: memorial.ID,
		LitBy:      strings.TrimSpace(req.LitBy),
		Message:    req.Message,
	}
	if err := s.repos.Candle.Create(candle); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	return &respond.CandleRespond{
		ID:      candle.ID,
		LitBy:   candle.LitBy,
		LitAt:   candle.LitAt.Format(constants.DISPLAY_TIME_LAYOUT),
		Message: candle.Message,
	}, nil
}
