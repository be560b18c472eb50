package tale

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/errorx"
)

const (
	authorUuid = "U0000000000000000001"
	readerUuid = "U0000000000000000002"
)

// newTestRepos 基于内存 SQLite 构造 Repository 聚合
func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Tale{}, &model.Chapter{}, &model.Reaction{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return repository.NewRepositories(db)
}

func TestCreateTaleSlugSuffix(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTaleService(repos)

	first, err := svc.Create(authorUuid, request.CreateTaleRequest{Title: "Summer Days"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if first.Slug != "summer-days" {
		t.Errorf("slug = %q, want summer-days", first.Slug)
	}

	// 同名故事允许创建，slug 追加数字后缀
	second, err := svc.Create(authorUuid, request.CreateTaleRequest{Title: "Summer Days"})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.Slug != "summer-days-2" {
		t.Errorf("slug = %q, want summer-days-2", second.Slug)
	}
	third, err := svc.Create(authorUuid, request.CreateTaleRequest{Title: "Summer Days"})
	if err != nil {
		t.Fatalf("third create: %v", err)
	}
	if third.Slug != "summer-days-3" {
		t.Errorf("slug = %q, want summer-days-3", third.Slug)
	}
}

func TestListMergesOwnPrivate(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTaleService(repos)

	if _, err := svc.Create(authorUuid, request.CreateTaleRequest{Title: "Public Tale"}); err != nil {
		t.Fatalf("create public: %v", err)
	}
	isPublic := false
	if _, err := svc.Create(authorUuid, request.CreateTaleRequest{Title: "Secret Tale", IsPublic: &isPublic}); err != nil {
		t.Fatalf("create private: %v", err)
	}

	// 匿名只见公开故事
	list, err := svc.List("", "")
	if err != nil {
		t.Fatalf("anonymous list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Public Tale" {
		t.Errorf("anonymous list = %+v, want only Public Tale", list)
	}

	// 其他用户同样只见公开故事
	list, err = svc.List(readerUuid, "")
	if err != nil {
		t.Fatalf("reader list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("reader list = %d tales, want 1", len(list))
	}

	// 作者可见本人私有故事
	list, err = svc.List(authorUuid, "")
	if err != nil {
		t.Fatalf("author list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("author list = %d tales, want 2", len(list))
	}
}

func TestGetDetailTitleFallback(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTaleService(repos)

	if _, err := svc.Create(authorUuid, request.CreateTaleRequest{Title: "Winter Light"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// slug 命中
	detail, err := svc.GetDetail("", "winter-light")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if detail.Tale.Title != "Winter Light" {
		t.Errorf("title = %q, want Winter Light", detail.Tale.Title)
	}

	// slug 未命中时按标题回退（大小写不敏感）
	detail, err = svc.GetDetail("", "winter light")
	if err != nil {
		t.Fatalf("get by title fallback: %v", err)
	}
	if detail.Tale.Slug != "winter-light" {
		t.Errorf("fallback slug = %q, want winter-light", detail.Tale.Slug)
	}

	if _, err := svc.GetDetail("", "no-such-tale"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("missing tale: err = %v, want not found", err)
	}
}

func TestChapterOrderingAndDrafts(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTaleService(repos)

	tale, err := svc.Create(authorUuid, request.CreateTaleRequest{Title: "Journey"})
	if err != nil {
		t.Fatalf("create tale: %v", err)
	}

	// 非作者不能加章节
	if _, err := svc.CreateChapter(readerUuid, tale.ID, request.CreateChapterRequest{Title: "Ch", Content: "x"}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("reader create chapter: err = %v, want forbidden", err)
	}

	// 序号缺省时自动从 1 开始递增
	ch1, err := svc.CreateChapter(authorUuid, tale.ID, request.CreateChapterRequest{Title: "One", Content: "a"})
	if err != nil {
		t.Fatalf("chapter one: %v", err)
	}
	if ch1.Order != 1 {
		t.Errorf("first order = %d, want 1", ch1.Order)
	}
	ch2, err := svc.CreateChapter(authorUuid, tale.ID, request.CreateChapterRequest{Title: "Two", Content: "b"})
	if err != nil {
		t.Fatalf("chapter two: %v", err)
	}
	if ch2.Order != 2 {
		t.Errorf("second order = %d, want 2", ch2.Order)
	}

	// 指定序号冲突时排到末尾
	conflict := 1
	ch3, err := svc.CreateChapter(authorUuid, tale.ID, request.CreateChapterRequest{Title: "Three", Content: "c", Order: &conflict})
	if err != nil {
		t.Fatalf("chapter three: %v", err)
	}
	if ch3.Order != 3 {
		t.Errorf("conflicting order = %d, want 3", ch3.Order)
	}

	// 草稿章节只有作者可见
	draft := false
	ch4, err := svc.CreateChapter(authorUuid, tale.ID, request.CreateChapterRequest{Title: "Draft", Content: "d", Published: &draft})
	if err != nil {
		t.Fatalf("draft chapter: %v", err)
	}

	detail, err := svc.GetDetail(readerUuid, tale.Slug)
	if err != nil {
		t.Fatalf("reader detail: %v", err)
	}
	if len(detail.Chapters) != 3 {
		t.Errorf("reader sees %d chapters, want 3", len(detail.Chapters))
	}
	detail, err = svc.GetDetail(authorUuid, tale.Slug)
	if err != nil {
		t.Fatalf("author detail: %v", err)
	}
	if len(detail.Chapters) != 4 {
		t.Errorf("author sees %d chapters, want 4", len(detail.Chapters))
	}

	// 发布后对所有人可见
	if err := svc.PublishChapter(authorUuid, tale.ID, ch4.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	detail, err = svc.GetDetail(readerUuid, tale.Slug)
	if err != nil {
		t.Fatalf("reader detail after publish: %v", err)
	}
	if len(detail.Chapters) != 4 {
		t.Errorf("reader sees %d chapters after publish, want 4", len(detail.Chapters))
	}
}

func TestDeleteTaleCascades(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTaleService(repos)

	tale, err := svc.Create(authorUuid, request.CreateTaleRequest{Title: "Ephemeral"})
	if err != nil {
		t.Fatalf("create tale: %v", err)
	}
	if _, err := svc.CreateChapter(authorUuid, tale.ID, request.CreateChapterRequest{Title: "One", Content: "a"}); err != nil {
		t.Fatalf("create chapter: %v", err)
	}

	// 非作者不能删除
	if err := svc.Delete(readerUuid, tale.ID); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("reader delete: err = %v, want forbidden", err)
	}

	if err := svc.Delete(authorUuid, tale.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if _, err := svc.GetDetail(authorUuid, tale.Slug); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("deleted tale detail: err = %v, want not found", err)
	}
	chapters, err := repos.Chapter.ListByTale(tale.ID, false)
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if len(chapters) != 0 {
		t.Errorf("chapters survived delete: %d", len(chapters))
	}
}
