// Package tale 提供连载故事与章节的业务逻辑
package tale

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/errorx"
)

// slugMaxLen slug 基础部分的最大长度，预留数字后缀空间
const slugMaxLen = 175

// taleService 故事业务逻辑实现
type taleService struct {
	repos *repository.Repositories
}

// NewTaleService 构造函数
func NewTaleService(repos *repository.Repositories) *taleService {
	return &taleService{repos: repos}
}

// toTaleRespond 组装故事响应
func toTaleRespond(t *model.Tale) respond.TaleRespond {
	return respond.TaleRespond{
		ID:          t.ID,
		Title:       t.Title,
		Slug:        t.Slug,
		Subtitle:    t.Subtitle,
		Description: t.Description,
		IsPublic:    t.IsPublic,
		AuthorUuid:  t.AuthorUuid,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

// uniqueSlug 由标题派生 slug，冲突时追加 -2、-3 等后缀
func (s *taleService) uniqueSlug(title string) (string, error) {
	base := slug.Make(title)
	if len(base) > slugMaxLen {
		base = base[:slugMaxLen]
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.repos.Tale.ExistsSlug(candidate, 0)
		if err != nil {
			zap.L().Error(err.Error())
			return "", errorx.ErrServerBusy
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Create 创建故事
func (s *taleService) Create(authorUuid string, req request.CreateTaleRequest) (*respond.TaleRespond, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "标题不能为空")
	}

	taleSlug, err := s.uniqueSlug(title)
	if err != nil {
		return nil, err
	}

	tale := &model.Tale{
		AuthorUuid:  authorUuid,
		Title:       title,
		Slug:        taleSlug,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		IsPublic:    true,
	}
	if req.IsPublic != nil {
		tale.IsPublic = *req.IsPublic
	}

	if err := s.repos.Tale.Create(tale); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	rsp := toTaleRespond(tale)
	return &rsp, nil
}

// List 列出故事
// 匿名只见公开故事，登录用户额外合并本人的私有故事
func (s *taleService) List(viewerUuid, q string) ([]respond.TaleRespond, error) {
	q = strings.TrimSpace(q)
	tales, err := s.repos.Tale.List(q, true)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	if viewerUuid != "" {
		own, err := s.repos.Tale.ListByAuthor(viewerUuid)
		if err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		seen := make(map[uint]struct{}, len(tales))
		for _, t := range tales {
			seen[t.ID] = struct{}{}
		}
		for _, t := range own {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(q)) {
				continue
			}
			tales = append(tales, t)
		}
	}

	results := make([]respond.TaleRespond, 0, len(tales))
	for i := range tales {
		results = append(results, toTaleRespond(&tales[i]))
	}
	return results, nil
}

// resolveTale 按 slug 定位故事
// slug 未命中时退回标题匹配：先精确（连字符还原为空格），再模糊且唯一
func (s *taleService) resolveTale(slugOrTitle string) (*model.Tale, error) {
	tale, err := s.repos.Tale.FindBySlug(slugOrTitle)
	if err == nil {
		return tale, nil
	}
	if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	title := strings.ReplaceAll(slugOrTitle, "-", " ")
	tale, err = s.repos.Tale.FindByTitle(title)
	if err == nil {
		return tale, nil
	}
	if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	candidates, err := s.repos.Tale.ListByTitleContains(title, 2)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if len(candidates) != 1 {
		return nil, errorx.New(errorx.CodeNotFound, "故事不存在")
	}
	return &candidates[0], nil
}

// GetDetail 获取故事详情
// 非作者只能看到已发布章节，私有故事仅作者可见
func (s *taleService) GetDetail(viewerUuid, slugOrTitle string) (*respond.TaleDetailRespond, error) {
	tale, err := s.resolveTale(slugOrTitle)
	if err != nil {
		return nil, err
	}

	isAuthor := viewerUuid != "" && viewerUuid == tale.AuthorUuid
	if !tale.IsPublic && !isAuthor {
		return nil, errorx.New(errorx.CodeForbidden, "该故事为私有故事")
	}

	chapters, err := s.repos.Chapter.ListByTale(tale.ID, !isAuthor)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	counts, err := s.repos.Reaction.CountByTarget(model.TargetTale, tale.ID)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	detail := &respond.TaleDetailRespond{
		Tale:     toTaleRespond(tale),
		Chapters: make([]respond.ChapterRespond, 0, len(chapters)),
		Reactions: respond.ReactionCounts{
			Like:    counts[model.ReactionLike],
			Love:    counts[model.ReactionLove],
			Support: counts[model.ReactionSupport],
		},
	}
	for _, c := range chapters {
		detail.Chapters = append(detail.Chapters, respond.ChapterRespond{
			ID:        c.ID,
			Order:     int(c.Order),
			Title:     c.Title,
			Content:   c.Content,
			Published: c.Published,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		})
	}
	return detail, nil
}

// findOwned 取故事并校验作者
func (s *taleService) findOwned(authorUuid string, id uint) (*model.Tale, error) {
	tale, err := s.repos.Tale.FindByID(id)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "故事不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if tale.AuthorUuid != authorUuid {
		return nil, errorx.New(errorx.CodeForbidden, "只有作者可以操作该故事")
	}
	return tale, nil
}

// Delete 删除故事，仅作者，章节级联删除
func (s *taleService) Delete(authorUuid string, id uint) error {
	if _, err := s.findOwned(authorUuid, id); err != nil {
		return err
	}
	if err := s.repos.Tale.Delete(id); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// nextOrder 计算章节落位序号
// 序号缺省、非正或已被占用时，排到当前最大序号之后
func (s *taleService) nextOrder(taleID uint, requested *int) (uint, error) {
	if requested != nil && *requested > 0 {
		order := uint(*requested)
		taken, err := s.repos.Chapter.ExistsOrder(taleID, order)
		if err != nil {
			zap.L().Error(err.Error())
			return 0, errorx.ErrServerBusy
		}
		if !taken {
			return order, nil
		}
	}
	max, err := s.repos.Chapter.MaxOrder(taleID)
	if err != nil {
		zap.L().Error(err.Error())
		return 0, errorx.ErrServerBusy
	}
	return max + 1, nil
}

// CreateChapter 创建章节，仅作者
func (s *taleService) CreateChapter(authorUuid string, taleID uint, req request.CreateChapterRequest) (*respond.ChapterRespond, error) {
	tale, err := s.findOwned(authorUuid, taleID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "章节标题不能为空")
	}

	order, err := s.nextOrder(tale.ID, req.Order)
	if err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		TaleID:    tale.ID,
		Order:     order,
		Title:     title,
		Content:   req.Content,
		Published: true,
	}
	if req.Published != nil {
		chapter.Published = *req.Published
	}

	if err := s.repos.Chapter.Create(chapter); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	return &respond.ChapterRespond{
		ID:        chapter.ID,
		Order:     int(chapter.Order),
		Title:     chapter.Title,
		Content:   chapter.Content,
		Published: chapter.Published,
		CreatedAt: chapter.CreatedAt.Format(time.RFC3339),
	}, nil
}

// PublishChapter 发布草稿章节，仅作者
func (s *taleService) PublishChapter(authorUuid string, taleID, chapterID uint) error {
	tale, err := s.findOwned(authorUuid, taleID)
	if err != nil {
		return err
	}

	chapter, err := s.repos.Chapter.FindByTaleAndID(tale.ID, chapterID)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "章节不存在")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if chapter.Published {
		return nil
	}

	if err := s.repos.Chapter.Publish(chapter.ID); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}
