package community

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/constants"
	"eternal_memories_server/pkg/errorx"
)

// newTestRepos 基于内存 SQLite 构造 Repository 聚合
// 每个测试用例独享一个数据库实例
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
		&model.Community{},
		&model.Membership{},
		&model.Channel{},
		&model.CommunityMessage{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return repository.NewRepositories(db)
}

// seedUser 写入一个测试用户
func seedUser(t *testing.T, repos *repository.Repositories, uuid, username string) {
	t.Helper()
	err := repos.User.Create(&model.UserInfo{
		Uuid:        uuid,
		Username:    username,
		RawPassword: "123456",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

func TestCreateCommunityBootstrap(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")

	rsp, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{
		Name:        "Garden of Memories",
		Description: "a quiet place",
	})
	if err != nil {
		t.Fatalf("create community: %v", err)
	}
	if rsp.Slug != "garden-of-memories" {
		t.Errorf("slug = %q, want garden-of-memories", rsp.Slug)
	}
	if rsp.Role != model.RoleOwner {
		t.Errorf("role = %q, want owner", rsp.Role)
	}

	// owner 成员关系必须随社区一起建好
	membership, err := repos.Membership.FindByCommunityAndUser(rsp.ID, "U0000000000000000001")
	if err != nil {
		t.Fatalf("find owner membership: %v", err)
	}
	if membership.Role != model.RoleOwner {
		t.Errorf("membership role = %q, want owner", membership.Role)
	}

	// 默认频道 general 必须随社区一起建好
	channels, err := repos.Channel.ListByCommunity(rsp.ID)
	if err != nil {
		t.Fatalf("list channels: %v", err)
	}
	if len(channels) != 1 || channels[0].Name != constants.DEFAULT_CHANNEL_NAME {
		t.Errorf("channels = %+v, want one %q channel", channels, constants.DEFAULT_CHANNEL_NAME)
	}
}

func TestCreateCommunityDuplicateSlug(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")

	if _, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{Name: "Sunset Cove"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// 同名（同 slug）社区不允许重复创建
	if _, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{Name: "Sunset  Cove"}); err == nil {
		t.Fatal("duplicate create should fail")
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")
	seedUser(t, repos, "U0000000000000000002", "bob")

	rsp, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{Name: "Open Circle"})
	if err != nil {
		t.Fatalf("create community: %v", err)
	}

	if err := svc.Join("U0000000000000000002", rsp.Slug); err != nil {
		t.Fatalf("join: %v", err)
	}
	// 重复加入不报错，也不改变角色
	if err := svc.Join("U0000000000000000002", rsp.Slug); err != nil {
		t.Fatalf("second join: %v", err)
	}
	// owner 重复加入不会被降级成 member
	if err := svc.Join("U0000000000000000001", rsp.Slug); err != nil {
		t.Fatalf("owner join: %v", err)
	}
	membership, err := repos.Membership.FindByCommunityAndUser(rsp.ID, "U0000000000000000001")
	if err != nil {
		t.Fatalf("find owner membership: %v", err)
	}
	if membership.Role != model.RoleOwner {
		t.Errorf("owner role after join = %q, want owner", membership.Role)
	}
}

func TestLeaveKeepsOwner(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")
	seedUser(t, repos, "U0000000000000000002", "bob")

	rsp, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{Name: "Harbor"})
	if err != nil {
		t.Fatalf("create community: %v", err)
	}
	if err := svc.Join("U0000000000000000002", rsp.Slug); err != nil {
		t.Fatalf("join: %v", err)
	}

	// 普通成员可以退出
	if err := svc.Leave("U0000000000000000002", rsp.Slug); err != nil {
		t.Fatalf("member leave: %v", err)
	}
	if _, err := repos.Membership.FindByCommunityAndUser(rsp.ID, "U0000000000000000002"); !errorx.IsNotFound(err) {
		t.Errorf("member membership should be gone, got err = %v", err)
	}

	// owner 的退出是空操作，成员关系保留
	if err := svc.Leave("U0000000000000000001", rsp.Slug); err != nil {
		t.Fatalf("owner leave: %v", err)
	}
	membership, err := repos.Membership.FindByCommunityAndUser(rsp.ID, "U0000000000000000001")
	if err != nil {
		t.Fatalf("owner membership should survive: %v", err)
	}
	if membership.Role != model.RoleOwner {
		t.Errorf("owner role = %q, want owner", membership.Role)
	}
}

func TestPrivateCommunityAccess(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")
	seedUser(t, repos, "U0000000000000000002", "bob")

	isPublic := false
	rsp, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{
		Name:     "Inner Room",
		IsPublic: &isPublic,
	})
	if err != nil {
		t.Fatalf("create community: %v", err)
	}

	// 匿名与非成员都不能看私有社区
	if _, err := svc.GetCommunity("", rsp.Slug); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("anonymous get: err = %v, want forbidden", err)
	}
	if _, err := svc.GetCommunity("U0000000000000000002", rsp.Slug); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("non-member get: err = %v, want forbidden", err)
	}
	if _, err := svc.InitialFeed("U0000000000000000002", rsp.Slug, "general"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("non-member feed: err = %v, want forbidden", err)
	}

	// 加入后即可浏览
	if err := svc.Join("U0000000000000000002", rsp.Slug); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.GetCommunity("U0000000000000000002", rsp.Slug); err != nil {
		t.Errorf("member get: %v", err)
	}

	// 匿名列表里不出现私有社区
	list, err := svc.ListCommunities("", "")
	if err != nil {
		t.Fatalf("anonymous list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("anonymous list = %d communities, want 0", len(list))
	}
}

func TestPostMessageRequiresMembership(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")
	seedUser(t, repos, "U0000000000000000002", "bob")

	rsp, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{Name: "Commons"})
	if err != nil {
		t.Fatalf("create community: %v", err)
	}

	// 非成员发言被拒，什么都不落库
	if _, err := svc.PostMessage("U0000000000000000002", rsp.Slug, "general", request.PostMessageRequest{Content: "hi"}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("non-member post: err = %v, want forbidden", err)
	}
	feed, err := svc.InitialFeed("U0000000000000000001", rsp.Slug, "general")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed.Results) != 0 {
		t.Errorf("feed has %d messages after rejected post, want 0", len(feed.Results))
	}

	// 空白内容不落库
	if _, err := svc.PostMessage("U0000000000000000001", rsp.Slug, "general", request.PostMessageRequest{Content: "   "}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("blank post: err = %v, want invalid param", err)
	}

	posted, err := svc.PostMessage("U0000000000000000001", rsp.Slug, "general", request.PostMessageRequest{Content: "  hello  "})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if posted.Status != "success" {
		t.Errorf("status = %q, want success", posted.Status)
	}
	if posted.Author != "alice" {
		t.Errorf("author = %q, want alice", posted.Author)
	}
	if posted.Content != "hello" {
		t.Errorf("content = %q, want trimmed hello", posted.Content)
	}
}

// seedMessages 以递增时间戳直接写入频道消息
func seedMessages(t *testing.T, repos *repository.Repositories, channelID uint, authorUuid string, n int, base time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		msg := &model.CommunityMessage{
			ChannelID:  channelID,
			AuthorUuid: authorUuid,
			Content:    fmt.Sprintf("msg-%d", i+1),
		}
		msg.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := repos.CommunityMessage.Create(msg); err != nil {
			t.Fatalf("seed message %d: %v", i+1, err)
		}
	}
}

func TestInitialFeedOrderingAndWindow(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")

	rsp, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{Name: "Feed Test"})
	if err != nil {
		t.Fatalf("create community: %v", err)
	}
	channel, err := repos.Channel.FindByCommunityAndSlug(rsp.ID, "general")
	if err != nil {
		t.Fatalf("find channel: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessages(t, repos, channel.ID, "U0000000000000000001", 60, base)

	feed, err := svc.InitialFeed("U0000000000000000001", rsp.Slug, "general")
	if err != nil {
		t.Fatalf("initial feed: %v", err)
	}
	// 60 条只取最新 50 条，升序排列
	if len(feed.Results) != constants.FEED_PAGE_SIZE {
		t.Fatalf("feed size = %d, want %d", len(feed.Results), constants.FEED_PAGE_SIZE)
	}
	if feed.Results[0].Content != "msg-11" {
		t.Errorf("first item = %q, want msg-11", feed.Results[0].Content)
	}
	if feed.Results[len(feed.Results)-1].Content != "msg-60" {
		t.Errorf("last item = %q, want msg-60", feed.Results[len(feed.Results)-1].Content)
	}
	wantTs := base.Add(59 * time.Second).Format(time.RFC3339)
	if feed.LatestTimestamp != wantTs {
		t.Errorf("latest timestamp = %q, want %q", feed.LatestTimestamp, wantTs)
	}
}

func TestFetchFeedIncremental(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")

	rsp, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{Name: "Cursor Test"})
	if err != nil {
		t.Fatalf("create community: %v", err)
	}
	channel, err := repos.Channel.FindByCommunityAndSlug(rsp.ID, "general")
	if err != nil {
		t.Fatalf("find channel: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessages(t, repos, channel.ID, "U0000000000000000001", 5, base)

	// since 严格大于：游标指向第 3 条时只回第 4、5 条
	since := base.Add(2 * time.Second).Format(time.RFC3339)
	feed, err := svc.FetchFeed("U0000000000000000001", rsp.Slug, "general", since)
	if err != nil {
		t.Fatalf("fetch feed: %v", err)
	}
	if len(feed.Results) != 2 {
		t.Fatalf("incremental size = %d, want 2", len(feed.Results))
	}
	if feed.Results[0].Content != "msg-4" || feed.Results[1].Content != "msg-5" {
		t.Errorf("incremental items = %q, %q; want msg-4, msg-5", feed.Results[0].Content, feed.Results[1].Content)
	}

	// 游标等于最新消息时间时返回空
	latest := base.Add(4 * time.Second).Format(time.RFC3339)
	feed, err = svc.FetchFeed("U0000000000000000001", rsp.Slug, "general", latest)
	if err != nil {
		t.Fatalf("fetch at head: %v", err)
	}
	if len(feed.Results) != 0 {
		t.Errorf("fetch at head = %d items, want 0", len(feed.Results))
	}

	// 游标解析失败时退化为最新窗口，不报错
	feed, err = svc.FetchFeed("U0000000000000000001", rsp.Slug, "general", "not-a-timestamp")
	if err != nil {
		t.Fatalf("fetch with bad cursor: %v", err)
	}
	if len(feed.Results) != 5 {
		t.Errorf("degraded fetch = %d items, want 5", len(feed.Results))
	}
	if feed.Results[0].Content != "msg-1" {
		t.Errorf("degraded first item = %q, want msg-1", feed.Results[0].Content)
	}
}

func TestCreateChannelPermissions(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCommunityService(repos)
	seedUser(t, repos, "U0000000000000000001", "alice")
	seedUser(t, repos, "U0000000000000000002", "bob")

	rsp, err := svc.CreateCommunity("U0000000000000000001", request.CreateCommunityRequest{Name: "Channel Test"})
	if err != nil {
		t.Fatalf("create community: %v", err)
	}
	if err := svc.Join("U0000000000000000002", rsp.Slug); err != nil {
		t.Fatalf("join: %v", err)
	}

	// 普通成员不能建频道
	if _, err := svc.CreateChannel("U0000000000000000002", rsp.Slug, request.CreateChannelRequest{Name: "random"}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("member create channel: err = %v, want forbidden", err)
	}

	// owner 可以
	ch, err := svc.CreateChannel("U0000000000000000001", rsp.Slug, request.CreateChannelRequest{Name: "Announcements"})
	if err != nil {
		t.Fatalf("owner create channel: %v", err)
	}
	if ch.Slug != "announcements" {
		t.Errorf("channel slug = %q, want announcements", ch.Slug)
	}

	// 同社区内频道 slug 不可重复
	if _, err := svc.CreateChannel("U0000000000000000001", rsp.Slug, request.CreateChannelRequest{Name: "announcements"}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("duplicate channel: err = %v, want invalid param", err)
	}

	// 名称升序：announcements 排在 general 前面
	channels, err := svc.ListChannels("U0000000000000000001", rsp.Slug)
	if err != nil {
		t.Fatalf("list channels: %v", err)
	}
	if len(channels) != 2 || channels[0].Slug != "announcements" || channels[1].Slug != "general" {
		t.Errorf("channels = %+v, want announcements then general", channels)
	}
}

func TestRolePermissions(t *testing.T) {
	cases := []struct {
		role       model.Role
		canViewPri bool
		canPost    bool
		canManage  bool
		canLeave   bool
	}{
		{model.RoleOwner, true, true, true, false},
		{model.RoleAdmin, true, true, true, true},
		{model.RoleMember, true, true, false, true},
		{model.RoleNone, false, false, false, false},
	}
	for _, tc := range cases {
		if got := tc.role.CanView(false); got != tc.canViewPri {
			t.Errorf("%q CanView(private) = %v, want %v", tc.role, got, tc.canViewPri)
		}
		if got := tc.role.CanPost(); got != tc.canPost {
			t.Errorf("%q CanPost = %v, want %v", tc.role, got, tc.canPost)
		}
		if got := tc.role.CanManageChannels(); got != tc.canManage {
			t.Errorf("%q CanManageChannels = %v, want %v", tc.role, got, tc.canManage)
		}
		if got := tc.role.CanLeave(); got != tc.canLeave {
			t.Errorf("%q CanLeave = %v, want %v", tc.role, got, tc.canLeave)
		}
		if !tc.role.CanView(true) && tc.role != model.RoleNone {
			t.Errorf("%q should view public communities", tc.role)
		}
	}
	// 公开社区对匿名可见
	if !model.Role(model.RoleNone).CanView(true) {
		t.Error("anonymous should view public communities")
	}
}
