package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"roomhub/backend/config"
	"roomhub/backend/internal/dto"
	"roomhub/backend/internal/model"
	"roomhub/backend/pkg/jwt"
)

// ── 测试辅助 ──

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-0123456789abcdef",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
	}
}

func setupTestAuthService(t *testing.T) (AuthService, *testRepos, *jwt.Manager) {
	t.Helper()
	cfg := testAuthConfig()
	repos := newTestRepos()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	// Redis 传 nil：Logout 走降级路径
	svc := NewAuthService(cfg, repos.toRepository(), jwtMgr, nil, zap.NewNop())
	return svc, repos, jwtMgr
}

func seedUser(t *testing.T, repos *testRepos, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	repos.user.users[username] = &model.User{
		UserID:       "u-" + username,
		Username:     username,
		Name:         username,
		PasswordHash: string(hash),
		Role:         "member",
	}
}

// ════════════════════════════════════════════════════════════
// Login 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Login_Success(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService(t)
	seedUser(t, repos, "alice", "secret123")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("应返回 Token 对")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("有效期期望 900 秒，实际 %d", resp.ExpiresIn)
	}
	if resp.User.Username != "alice" {
		t.Errorf("响应用户期望 alice，实际: %q", resp.User.Username)
	}

	// Access Token 可解析且声明正确
	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析 AccessToken 失败: %v", err)
	}
	if claims.Username != "alice" || claims.TokenType != "access" {
		t.Errorf("声明不符: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repos, _ := setupTestAuthService(t)
	seedUser(t, repos, "alice", "secret123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := setupTestAuthService(t)

	// 未知用户与密码错误返回同一错误，不泄露用户是否存在
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_RememberMeLongerRefresh(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService(t)
	seedUser(t, repos, "alice", "secret123")

	short, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	long, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice", Password: "secret123", RememberMe: true,
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	shortClaims, _ := jwtMgr.ParseToken(short.RefreshToken)
	longClaims, _ := jwtMgr.ParseToken(long.RefreshToken)
	if !longClaims.ExpiresAt.After(shortClaims.ExpiresAt.Time) {
		t.Error("RememberMe 的 RefreshToken 应有更长有效期")
	}
	if !longClaims.RememberMe {
		t.Error("RememberMe 声明应被写入 RefreshToken")
	}
}

// ════════════════════════════════════════════════════════════
// Logout / GetCurrentUser 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Logout_NilRedisDegrades(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService(t)
	seedUser(t, repos, "alice", "secret123")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	claims, _ := jwtMgr.ParseToken(resp.AccessToken)

	// Redis 不可用时降级为无操作，不报错
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Errorf("降级路径不应报错，实际: %v", err)
	}
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, repos, _ := setupTestAuthService(t)
	seedUser(t, repos, "alice", "secret123")

	user, err := svc.GetCurrentUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("期望 alice，实际: %q", user.Username)
	}

	_, err = svc.GetCurrentUser(context.Background(), "nobody")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
