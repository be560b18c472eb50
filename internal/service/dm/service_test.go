package dm

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eternal_memories_server/internal/dao/mysql/repository"
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
	if err := db.AutoMigrate(&model.UserInfo{}, &model.DirectMessage{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return repository.NewRepositories(db)
}

func seedPair(t *testing.T, repos *repository.Repositories) {
	t.Helper()
	for uuid, name := range map[string]string{aliceUuid: "alice", bobUuid: "bob"} {
		if err := repos.User.Create(&model.UserInfo{Uuid: uuid, Username: name, RawPassword: "123456"}); err != nil {
			t.Fatalf("seed user %s: %v", name, err)
		}
	}
}

func TestSendMessage(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewDirectMessageService(repos)
	seedPair(t, repos)

	rsp, err := svc.SendMessage(aliceUuid, "bob", "  hi bob  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if rsp.Status != "ok" {
		t.Errorf("status = %q, want ok", rsp.Status)
	}
	if rsp.Sender != "alice" {
		t.Errorf("sender = %q, want alice", rsp.Sender)
	}
	if rsp.Message != "hi bob" {
		t.Errorf("message = %q, want trimmed content", rsp.Message)
	}

	// 空白内容与不存在的收件人都被拒绝
	if _, err := svc.SendMessage(aliceUuid, "bob", "   "); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("blank send: err = %v, want invalid param", err)
	}
	if _, err := svc.SendMessage(aliceUuid, "nobody", "hi"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("unknown peer: err = %v, want not found", err)
	}
	// 不能给自己发私信
	if _, err := svc.SendMessage(aliceUuid, "alice", "hi me"); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("self send: err = %v, want invalid param", err)
	}
}

func TestThreadMarksRead(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewDirectMessageService(repos)
	seedPair(t, repos)

	if _, err := svc.SendMessage(aliceUuid, "bob", "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendMessage(aliceUuid, "bob", "second"); err != nil {
		t.Fatalf("send: %v", err)
	}

	// 发送方拉取线程不影响 bob 的未读状态
	if _, err := svc.InitialThread(aliceUuid, "bob"); err != nil {
		t.Fatalf("alice thread: %v", err)
	}
	messages, err := repos.DirectMessage.FindLatestBetween(aliceUuid, bobUuid, 10)
	if err != nil {
		t.Fatalf("find messages: %v", err)
	}
	for _, m := range messages {
		if m.IsRead {
			t.Errorf("message %q already read before bob fetched", m.Content)
		}
	}

	// 接收方拉取线程把未读全部置为已读
	thread, err := svc.InitialThread(bobUuid, "alice")
	if err != nil {
		t.Fatalf("bob thread: %v", err)
	}
	if len(thread.Results) != 2 {
		t.Fatalf("thread size = %d, want 2", len(thread.Results))
	}
	if thread.Results[0].Content != "first" || thread.Results[1].Content != "second" {
		t.Errorf("thread order = %q, %q; want first, second", thread.Results[0].Content, thread.Results[1].Content)
	}
	messages, err = repos.DirectMessage.FindLatestBetween(aliceUuid, bobUuid, 10)
	if err != nil {
		t.Fatalf("find messages: %v", err)
	}
	for _, m := range messages {
		if !m.IsRead {
			t.Errorf("message %q still unread after bob fetched", m.Content)
		}
	}

	// 重复拉取是幂等的
	if _, err := svc.InitialThread(bobUuid, "alice"); err != nil {
		t.Fatalf("repeat fetch: %v", err)
	}
}

func TestFetchThreadIncremental(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewDirectMessageService(repos)
	seedPair(t, repos)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		msg := &model.DirectMessage{
			SenderUuid:   aliceUuid,
			ReceiverUuid: bobUuid,
			Content:      fmt.Sprintf("msg-%d", i+1),
		}
		msg.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := repos.DirectMessage.Create(msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	since := base.Add(1 * time.Second).Format(time.RFC3339)
	thread, err := svc.FetchThread(bobUuid, "alice", since)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(thread.Results) != 2 {
		t.Fatalf("incremental size = %d, want 2", len(thread.Results))
	}
	if thread.Results[0].Content != "msg-3" || thread.Results[1].Content != "msg-4" {
		t.Errorf("items = %q, %q; want msg-3, msg-4", thread.Results[0].Content, thread.Results[1].Content)
	}

	// 增量拉取同样触发已读标记
	messages, err := repos.DirectMessage.FindLatestBetween(aliceUuid, bobUuid, 10)
	if err != nil {
		t.Fatalf("find messages: %v", err)
	}
	for _, m := range messages {
		if !m.IsRead {
			t.Errorf("message %q still unread after incremental fetch", m.Content)
		}
	}

	// 游标解析失败退化为最新窗口
	thread, err = svc.FetchThread(bobUuid, "alice", "garbage")
	if err != nil {
		t.Fatalf("fetch with bad cursor: %v", err)
	}
	if len(thread.Results) != 4 {
		t.Errorf("degraded fetch = %d items, want 4", len(thread.Results))
	}
}
