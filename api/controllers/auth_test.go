package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/internal/auth"
	pkgAuth "github.com/camarize/camarize-backend/pkg/auth"
	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type stubAuthService struct {
	loginReq  *auth.LoginRequest
	loginErr  error
	revokedID string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.loginReq = &req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{AccessToken: "access2", RefreshToken: "refresh2"}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.revokedID = accessID
	return nil
}

func TestAuthLoginReturnsTokenPair(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@x.com","senha":"secret1"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.loginReq == nil || svc.loginReq.Email != "ana@x.com" {
		t.Fatalf("login payload not forwarded: %+v", svc.loginReq)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.AccessToken != "access" || envelope.Data.RefreshToken != "refresh" {
		t.Fatalf("tokens missing from response: %+v", envelope.Data)
	}
}

func TestAuthLoginValidatesBody(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.loginReq != nil {
		t.Fatalf("service must not run on invalid body")
	}
}

func TestAuthLoginPropagatesUnauthorized(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@x.com","senha":"wrong12"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthLogoutRevokesTokenSession(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "camarize", ExpirationMinutes: 30}
	jti := uuid.NewString()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().Add(-time.Hour), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleMembro,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	AuthLogout(svc, cfg, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 even for expired token, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.revokedID != jti {
		t.Fatalf("expected session %s revoked, got %s", jti, svc.revokedID)
	}
}

func TestAuthLogoutRequiresToken(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	AuthLogout(svc, config.JWTConfig{Secret: "test-secret", Issuer: "camarize", ExpirationMinutes: 30}, nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}
