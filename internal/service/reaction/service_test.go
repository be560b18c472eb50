package reaction

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
	if err := db.AutoMigrate(&model.Memorial{}, &model.Tale{}, &model.Reaction{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return repository.NewRepositories(db)
}

func seedMemorial(t *testing.T, repos *repository.Repositories) *model.Memorial {
	t.Helper()
	memorial := &model.Memorial{
		CreatorUuid: "U0000000000000000001",
		Name:        "Grandma Rose",
	}
	if err := repos.Memorial.Create(memorial); err != nil {
		t.Fatalf("seed memorial: %v", err)
	}
	return memorial
}

func TestToggleCycle(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewReactionService(repos)
	memorial := seedMemorial(t, repos)

	req := request.ReactRequest{Model: "memorial", ID: memorial.ID, Reaction: "like"}

	// 无表态 -> 创建
	rsp, err := svc.Toggle("U0000000000000000002", req)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !rsp.Active || rsp.Counts.Like != 1 {
		t.Errorf("after create: active=%v like=%d, want active like=1", rsp.Active, rsp.Counts.Like)
	}

	// 不同类型 -> 原地替换
	req.Reaction = "love"
	rsp, err = svc.Toggle("U0000000000000000002", req)
	if err != nil {
		t.Fatalf("switch toggle: %v", err)
	}
	if !rsp.Active || rsp.Type != "love" {
		t.Errorf("after switch: active=%v type=%q, want active love", rsp.Active, rsp.Type)
	}
	if rsp.Counts.Like != 0 || rsp.Counts.Love != 1 {
		t.Errorf("after switch: counts=%+v, want like=0 love=1", rsp.Counts)
	}

	// 同类型 -> 取消
	rsp, err = svc.Toggle("U0000000000000000002", req)
	if err != nil {
		t.Fatalf("cancel toggle: %v", err)
	}
	if rsp.Active {
		t.Error("after cancel: still active")
	}
	if rsp.Counts.Love != 0 {
		t.Errorf("after cancel: love=%d, want 0", rsp.Counts.Love)
	}

	// 取消后可以重新表态（唯一索引没有留下软删除幽灵行）
	rsp, err = svc.Toggle("U0000000000000000002", req)
	if err != nil {
		t.Fatalf("re-create toggle: %v", err)
	}
	if !rsp.Active || rsp.Counts.Love != 1 {
		t.Errorf("after re-create: active=%v love=%d, want active love=1", rsp.Active, rsp.Counts.Love)
	}
}

func TestToggleCountsPerUser(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewReactionService(repos)
	memorial := seedMemorial(t, repos)

	req := request.ReactRequest{Model: "memorial", ID: memorial.ID, Reaction: "support"}
	if _, err := svc.Toggle("U0000000000000000002", req); err != nil {
		t.Fatalf("user2 toggle: %v", err)
	}
	rsp, err := svc.Toggle("U0000000000000000003", req)
	if err != nil {
		t.Fatalf("user3 toggle: %v", err)
	}
	if rsp.Counts.Support != 2 {
		t.Errorf("support = %d, want 2", rsp.Counts.Support)
	}
	// 三类计数总是全部返回
	if rsp.Counts.Like != 0 || rsp.Counts.Love != 0 {
		t.Errorf("counts = %+v, want like=0 love=0", rsp.Counts)
	}
}

func TestToggleValidation(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewReactionService(repos)
	memorial := seedMemorial(t, repos)

	// 目标不存在
	if _, err := svc.Toggle("U0000000000000000002", request.ReactRequest{Model: "memorial", ID: memorial.ID + 100, Reaction: "like"}); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("missing target: err = %v, want not found", err)
	}
	if _, err := svc.Toggle("U0000000000000000002", request.ReactRequest{Model: "tale", ID: 1, Reaction: "like"}); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("missing tale: err = %v, want not found", err)
	}

	// 非法类型
	if _, err := svc.Toggle("U0000000000000000002", request.ReactRequest{Model: "memorial", ID: memorial.ID, Reaction: "angry"}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("bad reaction: err = %v, want invalid param", err)
	}
	if _, err := svc.Toggle("U0000000000000000002", request.ReactRequest{Model: "comment", ID: memorial.ID, Reaction: "like"}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("bad model: err = %v, want invalid param", err)
	}
}
