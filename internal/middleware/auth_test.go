package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Gowsikakho/expense-track/internal/models"
)

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID"), "email": c.GetString("email")})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{Email: "owner@example.com"}
	user.ID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	foreignToken, _ := foreign.SignedString([]byte("some-other-secret"))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredToken, _ := expired.SignedString(getJWTKey())

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid_token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong_scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "garbage_token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "foreign_signature", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized},
		{name: "expired_token", header: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized},
	}

	router := setupAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthRequest(router, tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			body := parseBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				if body["user_id"] != user.ID {
					t.Errorf("user_id = %v, want %s", body["user_id"], user.ID)
				}
				return
			}
			errObj, ok := body["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected error object in response")
			}
			if code, _ := errObj["code"].(string); code != "UNAUTHORIZED" {
				t.Errorf("error code = %q, want UNAUTHORIZED", code)
			}
		})
	}
}
