package memorial

import (
	"context"
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
	creatorUuid = "U0000000000000000001"
	otherUuid   = "U0000000000000000002"
)

// fakeTributeService 固定文案的悼词生成器
type fakeTributeService struct {
	calls int
}

func (f *fakeTributeService) GenerateTribute(ctx context.Context, name, relationship, memories string) string {
	f.calls++
	return "In loving memory of " + name
}

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
	if err := db.AutoMigrate(
		&model.Memorial{},
		&model.MemorialMessage{},
		&model.Candle{},
		&model.Reaction{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return repository.NewRepositories(db)
}

func newTestService(t *testing.T) (*memorialService, *repository.Repositories, *fakeTributeService) {
	t.Helper()
	repos := newTestRepos(t)
	tributes := &fakeTributeService{}
	return NewMemorialService(repos, tributes, nil), repos, tributes
}

func TestCreateMemorial(t *testing.T) {
	svc, _, tributes := newTestService(t)

	rsp, err := svc.Create(creatorUuid, request.SaveMemorialRequest{
		Name:          "Grandma Rose",
		DateOfBirth:   "1940-05-02",
		DateOfPassing: "2024-11-18",
		Biography:     "She loved her garden.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(rsp.PublicId) != 22 {
		t.Errorf("public id = %q, want 22 chars", rsp.PublicId)
	}
	if rsp.DateOfBirth != "1940-05-02" || rsp.DateOfPassing != "2024-11-18" {
		t.Errorf("dates = %q / %q", rsp.DateOfBirth, rsp.DateOfPassing)
	}
	if tributes.calls != 0 {
		t.Errorf("tribute generated without being requested")
	}

	// 日期可留空
	rsp, err = svc.Create(creatorUuid, request.SaveMemorialRequest{Name: "Uncle Joe"})
	if err != nil {
		t.Fatalf("create without dates: %v", err)
	}
	if rsp.DateOfBirth != "" || rsp.DateOfPassing != "" {
		t.Errorf("empty dates rendered as %q / %q", rsp.DateOfBirth, rsp.DateOfPassing)
	}

	// 非法日期被拒绝
	if _, err := svc.Create(creatorUuid, request.SaveMemorialRequest{Name: "Bad", DateOfBirth: "02/05/1940"}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("bad date: err = %v, want invalid param", err)
	}
}

func TestCreateWithGeneratedTribute(t *testing.T) {
	svc, _, tributes := newTestService(t)

	rsp, err := svc.Create(creatorUuid, request.SaveMemorialRequest{
		Name:            "Grandma Rose",
		GenerateTribute: true,
		Relationship:    "grandmother",
		Memories:        "Sunday mornings in the garden.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tributes.calls != 1 {
		t.Fatalf("tribute calls = %d, want 1", tributes.calls)
	}
	if rsp.Tribute != "In loving memory of Grandma Rose" {
		t.Errorf("tribute = %q", rsp.Tribute)
	}

	// 没有回忆素材时不调用生成
	if _, err := svc.Create(creatorUuid, request.SaveMemorialRequest{Name: "Uncle Joe", GenerateTribute: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if tributes.calls != 1 {
		t.Errorf("tribute calls = %d, want still 1", tributes.calls)
	}
}

func TestUpdateAndDeletePermissions(t *testing.T) {
	svc, _, _ := newTestService(t)

	rsp, err := svc.Create(creatorUuid, request.SaveMemorialRequest{Name: "Grandma Rose"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 非创建者不能更新或删除
	if _, err := svc.Update(otherUuid, rsp.ID, request.SaveMemorialRequest{Name: "Hijacked"}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("other update: err = %v, want forbidden", err)
	}
	if err := svc.Delete(otherUuid, rsp.ID); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("other delete: err = %v, want forbidden", err)
	}

	updated, err := svc.Update(creatorUuid, rsp.ID, request.SaveMemorialRequest{Name: "Rose Marie"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Rose Marie" {
		t.Errorf("name = %q, want Rose Marie", updated.Name)
	}
	// 对外短 id 在更新后保持不变
	if updated.PublicId != rsp.PublicId {
		t.Errorf("public id changed: %q -> %q", rsp.PublicId, updated.PublicId)
	}

	if err := svc.Delete(creatorUuid, rsp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetDetail(rsp.PublicId); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("deleted detail: err = %v, want not found", err)
	}
}

func TestGuestMessagesAndCandles(t *testing.T) {
	svc, _, _ := newTestService(t)

	rsp, err := svc.Create(creatorUuid, request.SaveMemorialRequest{Name: "Grandma Rose"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 访客留言无需登录
	msg, err := svc.PostMessage(rsp.PublicId, request.MemorialMessageRequest{
		AuthorName: "A neighbour",
		Content:    "She will be missed.",
	})
	if err != nil {
		t.Fatalf("post message: %v", err)
	}
	if msg.AuthorName != "A neighbour" {
		t.Errorf("author = %q", msg.AuthorName)
	}

	// 空白留言被拒
	if _, err := svc.PostMessage(rsp.PublicId, request.MemorialMessageRequest{AuthorName: "x", Content: "  "}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("blank message: err = %v, want invalid param", err)
	}

	if _, err := svc.LightCandle(rsp.PublicId, request.LightCandleRequest{LitBy: "An old friend"}); err != nil {
		t.Fatalf("light candle: %v", err)
	}
	if _, err := svc.LightCandle(rsp.PublicId, request.LightCandleRequest{LitBy: "Another friend", Message: "rest well"}); err != nil {
		t.Fatalf("light candle: %v", err)
	}

	detail, err := svc.GetDetail(rsp.PublicId)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Messages) != 1 {
		t.Errorf("messages = %d, want 1", len(detail.Messages))
	}
	if len(detail.Candles) != 2 {
		t.Errorf("candles = %d, want 2", len(detail.Candles))
	}
	if detail.Candles[0].LitAt == "" {
		t.Error("candle lit_at is empty")
	}

	// 不存在的纪念页
	if _, err := svc.PostMessage("nope", request.MemorialMessageRequest{AuthorName: "x", Content: "y"}); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("missing memorial message: err = %v, want not found", err)
	}
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Create(creatorUuid, request.SaveMemorialRequest{Name: "Grandma Rose"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(otherUuid, request.SaveMemorialRequest{Name: "Captain Ahab"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := svc.List("", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	mine, err := svc.List("", creatorUuid)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Grandma Rose" {
		t.Errorf("mine = %+v, want only Grandma Rose", mine)
	}

	byName, err := svc.List("ahab", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Captain Ahab" {
		t.Errorf("search = %+v, want only Captain Ahab", byName)
	}
}
