package user

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
	aliceUuid = "U0000000000000000001"
	bobUuid   = "U0000000000000000002"
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
	if err := db.AutoMigrate(
		&model.UserInfo{},
		&model.Profile{},
		&model.Memorial{},
		&model.Tale{},
		&model.Reaction{},
		&model.DirectMessage{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return repository.NewRepositories(db)
}

// seedUser 写入用户及其资料
func seedUser(t *testing.T, repos *repository.Repositories, uuid, username string, publicSearch bool) {
	t.Helper()
	if err := repos.User.Create(&model.UserInfo{Uuid: uuid, Username: username, RawPassword: "123456"}); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	if err := repos.Profile.Create(&model.Profile{
		UserUuid:     uuid,
		DisplayName:  username,
		PublicSearch: publicSearch,
	}); err != nil {
		t.Fatalf("seed profile %s: %v", username, err)
	}
}

func TestGetProfile(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewUserService(repos)
	seedUser(t, repos, aliceUuid, "alice", true)

	rsp, err := svc.GetProfile(aliceUuid)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if rsp.Username != "alice" || rsp.DisplayName != "alice" {
		t.Errorf("profile = %+v", rsp)
	}

	if _, err := svc.GetProfile("U0000000000000000099"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("missing user: err = %v, want not found", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewUserService(repos)
	seedUser(t, repos, aliceUuid, "alice", true)

	hidden := false
	rsp, err := svc.UpdateProfile(aliceUuid, request.UpdateProfileRequest{
		DisplayName:  "  Alice M.  ",
		Bio:          "gardener",
		Tags:         "flowers, memory",
		PublicSearch: &hidden,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rsp.DisplayName != "Alice M." {
		t.Errorf("display name = %q, want trimmed Alice M.", rsp.DisplayName)
	}
	if rsp.PublicSearch {
		t.Error("public search should be off")
	}
	if len(rsp.Tags) != 2 || rsp.Tags[0] != "flowers" || rsp.Tags[1] != "memory" {
		t.Errorf("tags = %v, want [flowers memory]", rsp.Tags)
	}
}

func TestSearchHonorsPublicFlag(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewUserService(repos)
	seedUser(t, repos, aliceUuid, "alice", true)
	seedUser(t, repos, bobUuid, "bob_hidden", false)

	// 关键字为空返回空列表
	results, err := svc.Search("   ")
	if err != nil {
		t.Fatalf("empty search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty search = %d results, want 0", len(results))
	}

	results, err = svc.Search("alice")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Username != "alice" {
		t.Errorf("search = %+v, want only alice", results)
	}

	// 关闭公开搜索的资料不会出现在结果中
	results, err = svc.Search("hidden")
	if err != nil {
		t.Fatalf("search hidden: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("hidden search = %d results, want 0", len(results))
	}
}

func TestProfileDetailRecentMessagesSelfOnly(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewUserService(repos)
	seedUser(t, repos, aliceUuid, "alice", true)
	seedUser(t, repos, bobUuid, "bob", true)

	if err := repos.DirectMessage.Create(&model.DirectMessage{
		SenderUuid:   bobUuid,
		ReceiverUuid: aliceUuid,
		Content:      "hello alice",
	}); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	// 本人访问能看到私信预览
	detail, err := svc.GetProfileDetail(aliceUuid, aliceUuid)
	if err != nil {
		t.Fatalf("self detail: %v", err)
	}
	if len(detail.RecentMessages) != 1 || detail.RecentMessages[0].Sender != "bob" {
		t.Errorf("recent messages = %+v, want one from bob", detail.RecentMessages)
	}

	// 他人访问看不到
	detail, err = svc.GetProfileDetail(bobUuid, aliceUuid)
	if err != nil {
		t.Fatalf("other detail: %v", err)
	}
	if len(detail.RecentMessages) != 0 {
		t.Errorf("recent messages leaked to other viewer: %+v", detail.RecentMessages)
	}
}
