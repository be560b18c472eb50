package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/errorx"
	"eternal_memories_server/pkg/util/jwt"
)

// fakeCache 内存版 CacheService，测试中替代 Redis
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakeCache) GetOrError(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "key not found")
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeCache) {
	t.Helper()
	jwt.Init("test-secret", 15, 168)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.UserInfo{}, &model.Profile{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	cache := newFakeCache()
	return NewAuthService(repository.NewRepositories(db), cache), cache
}

func TestRegisterCreatesProfile(t *testing.T) {
	svc, _ := newTestService(t)

	rsp, err := svc.Register(request.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.HasPrefix(rsp.Uuid, "U") || len(rsp.Uuid) != 20 {
		t.Errorf("uuid = %q, want U + 19 chars", rsp.Uuid)
	}

	// 公开资料随用户一起建好
	profile, err := svc.repos.Profile.FindByUserUuid(rsp.Uuid)
	if err != nil {
		t.Fatalf("find profile: %v", err)
	}
	if profile.DisplayName != "alice" || !profile.PublicSearch {
		t.Errorf("profile = %+v, want display alice and public search", profile)
	}

	// 用户名占用
	if _, err := svc.Register(request.RegisterRequest{Username: "alice", Password: "x"}); errorx.GetCode(err) != errorx.CodeUserExist {
		t.Errorf("duplicate register: err = %v, want user exist", err)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	svc, cache := newTestService(t)

	if _, err := svc.Register(request.RegisterRequest{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 密码错误
	if _, err := svc.Login(request.LoginRequest{Username: "alice", Password: "wrong"}); errorx.GetCode(err) != errorx.CodeInvalidPassword {
		t.Errorf("wrong password: err = %v, want invalid password", err)
	}
	// 用户不存在
	if _, err := svc.Login(request.LoginRequest{Username: "nobody", Password: "x"}); errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Errorf("unknown user: err = %v, want user not exist", err)
	}

	login, err := svc.Login(request.LoginRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.AccessToken == "" || login.RefreshToken == "" {
		t.Fatal("login returned empty tokens")
	}

	// 刷新成功换取新的双 Token
	refreshed, err := svc.RefreshToken(request.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatal("refresh returned empty tokens")
	}

	// Access Token 不能用来刷新
	if _, err := svc.RefreshToken(request.RefreshTokenRequest{RefreshToken: login.AccessToken}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Errorf("refresh with access token: err = %v, want unauthorized", err)
	}

	// 旧 Refresh Token 的 TokenID 已被新登录覆盖，单点互踢
	if _, err := svc.RefreshToken(request.RefreshTokenRequest{RefreshToken: login.RefreshToken}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Errorf("refresh with stale token: err = %v, want unauthorized", err)
	}

	// 登出后新 Token 也不能再刷新
	if err := svc.Logout(login.Uuid); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if v, _ := cache.Get(context.Background(), tokenKey(login.Uuid)); v != "" {
		t.Errorf("token id survived logout: %q", v)
	}
	if _, err := svc.RefreshToken(request.RefreshTokenRequest{RefreshToken: refreshed.RefreshToken}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Errorf("refresh after logout: err = %v, want unauthorized", err)
	}
}
