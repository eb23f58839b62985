package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/smeta-acts/internal/model"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseValidToken(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":       userID.String(),
		"tenant_id": tenantID.String(),
		"role":      "MANAGER",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	principal, err := NewParser("secret").Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if principal.UserID != userID || principal.TenantID != tenantID {
		t.Error("principal ids do not match claims")
	}
	if principal.Role != model.RoleManager {
		t.Errorf("role = %s, want MANAGER", principal.Role)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()
	valid := jwt.MapClaims{
		"sub":       userID.String(),
		"tenant_id": tenantID.String(),
		"role":      "ESTIMATOR",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, "other", valid)},
		{"expired", signToken(t, "secret", jwt.MapClaims{
			"sub":       userID.String(),
			"tenant_id": tenantID.String(),
			"role":      "ESTIMATOR",
			"exp":       time.Now().Add(-time.Hour).Unix(),
		})},
		{"bad subject", signToken(t, "secret", jwt.MapClaims{
			"sub":       "not-a-uuid",
			"tenant_id": tenantID.String(),
			"role":      "ESTIMATOR",
			"exp":       time.Now().Add(time.Hour).Unix(),
		})},
		{"missing tenant", signToken(t, "secret", jwt.MapClaims{
			"sub":  userID.String(),
			"role": "ESTIMATOR",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})},
		{"garbage", "not.a.token"},
	}
	parser := NewParser("secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
