package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"social_graph/model"
	"social_graph/service"
	"social_graph/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	db := setupTestDB(t)
	rdb, _ := setupRedis(t)
	require.NoError(t, db.Create(&model.User{UserID: "ada1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "x"}).Error)

	authSvc := service.NewAuthService(db, rdb, "test-secret", time.Hour)
	good, err := authSvc.CreateToken("ada1")
	require.NoError(t, err)
	revoked, err := authSvc.CreateToken("ada1")
	require.NoError(t, err)
	revokedClaims, err := authSvc.ParseToken(revoked.Token)
	require.NoError(t, err)
	require.NoError(t, authSvc.Revoke(context.Background(), revokedClaims))

	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	r.GET("/me", AuthMiddleware(authSvc), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		claims, _ := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "jti": claims.ID})
	})

	tests := []struct {
		name       string
		prepare    func(req *http.Request)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "cookie",
			prepare: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: good.Token})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "bearer header",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+good.Token)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing",
			prepare:    func(req *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authentication token missing",
		},
		{
			name: "invalid",
			prepare: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "garbage"})
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Wrong authentication token",
		},
		{
			name: "revoked",
			prepare: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: revoked.Token})
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Wrong authentication token",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				resp := decode(t, w)
				assert.Equal(t, tt.wantStatus, resp.Status)
				assert.Equal(t, tt.wantMsg, resp.Message)
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "ada1", body["user_id"])
			assert.NotEmpty(t, body["jti"])
		})
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(utils.ConflictError("User not found"))
	})
	r.GET("/wrapped", func(c *gin.Context) {
		_ = c.Error(errors.Join(errors.New("context"), utils.UnauthorizedError("nope")))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("unexpected")
	})
	r.GET("/written", func(c *gin.Context) {
		utils.SuccessWithMessage(c, "ok", nil)
		_ = c.Error(errors.New("after write"))
	})

	tests := []struct {
		path       string
		wantStatus int
		wantMsg    string
	}{
		{"/conflict", http.StatusConflict, "User not found"},
		{"/wrapped", http.StatusUnauthorized, "nope"},
		{"/boom", http.StatusInternalServerError, "internal server error"},
		{"/panic", http.StatusInternalServerError, "internal server error"},
		{"/written", http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestRateLimit(t *testing.T) {
	rdb, mr := setupRedis(t)

	r := gin.New()
	r.POST("/login", RateLimit(rdb, 2, time.Minute, "login"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())

	assert.Equal(t, "3", mustGet(t, mr, "rl:login:10.0.0.1"))
	assert.Equal(t, time.Minute, mr.TTL("rl:login:10.0.0.1"))

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, do())
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := gin.New()
	r.POST("/nil", RateLimit(nil, 1, time.Minute, "nil"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rdb, mr := setupRedis(t)
	mr.Close()
	r.POST("/down", RateLimit(rdb, 1, time.Minute, "down"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/nil", "/nil", "/down", "/down"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()

	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
