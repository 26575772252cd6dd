package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/shahadat-technovicinity/school-management-system/internal/domain"
	"github.com/shahadat-technovicinity/school-management-system/internal/middleware"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/contextutil"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/token"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, sub token.Subject, typ string) string {
	t.Helper()
	tok, err := token.Generate(testSecret, sub, typ, time.Minute, time.Now())
	assert.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("school_id")+"|"+c.GetString("employee_id"))
	})

	sub := token.Subject{UserID: "u-1", EmployeeID: "e-1", SchoolID: "s-1", Role: "ACCOUNTANT"}

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{
			name:   "bearer header",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signed(t, sub, token.TypeAccess)) },
			status: http.StatusOK,
			body:   "s-1|e-1",
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: signed(t, sub, token.TypeAccess)})
			},
			status: http.StatusOK,
			body:   "s-1|e-1",
		},
		{
			name:   "missing token",
			setup:  func(r *http.Request) {},
			status: http.StatusUnauthorized,
			body:   "Token not found",
		},
		{
			name:   "refresh token rejected",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signed(t, sub, token.TypeRefresh)) },
			status: http.StatusUnauthorized,
			body:   "INVALID_TOKEN",
		},
		{
			name: "token without school",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signed(t, token.Subject{UserID: "u-1"}, token.TypeAccess))
			},
			status: http.StatusUnauthorized,
			body:   "School ID not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

type stubEnforcer struct {
	allowed bool
	err     error
	got     domain.EnforceRequest
}

func (s *stubEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	s.got = req
	return s.allowed, s.err
}

func TestRBACAuthorize(t *testing.T) {
	withIdentity := func(c *gin.Context) {
		c.Set("employee_id", "e-1")
		c.Set("school_id", "s-1")
		c.Next()
	}

	t.Run("allowed", func(t *testing.T) {
		enf := &stubEnforcer{allowed: true}
		router := gin.New()
		router.GET("/x", withIdentity, middleware.RBACAuthorize(enf, "salary", "pay"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, domain.EnforceRequest{EmployeeID: "e-1", SchoolID: "s-1", Resource: "salary", Action: "pay"}, enf.got)
	})

	t.Run("denied", func(t *testing.T) {
		router := gin.New()
		router.GET("/x", withIdentity, middleware.RBACAuthorize(&stubEnforcer{}, "salary", "pay"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "salary:pay")
	})

	t.Run("enforcer error", func(t *testing.T) {
		router := gin.New()
		router.GET("/x", withIdentity, middleware.RBACAuthorize(&stubEnforcer{err: errors.New("boom")}, "salary", "read"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("no identity", func(t *testing.T) {
		router := gin.New()
		router.GET("/x", middleware.RBACAuthorize(&stubEnforcer{allowed: true}, "salary", "read"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	const path = "/salaries"
	cacheKey := "idemp:" + path + ":u-1:key-1"
	lockKey := cacheKey + ":lock"

	t.Run("replays a stored response", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"id":"salary-1"}`)

		called := false
		router := gin.New()
		router.POST(path, func(c *gin.Context) {
			c.Set("user_id_validated", "u-1")
			c.Next()
		}, middleware.Idempotency(db), func(c *gin.Context) {
			called = true
		})

		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "salary-1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("takes the lock on first use", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)

		var gotLock string
		router := gin.New()
		router.POST(path, func(c *gin.Context) {
			c.Set("user_id_validated", "u-1")
			c.Next()
		}, middleware.Idempotency(db), func(c *gin.Context) {
			gotLock = c.GetString("idempotency_lock_key")
			c.Status(http.StatusCreated)
		})

		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, lockKey, gotLock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a concurrent duplicate", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		router := gin.New()
		router.POST(path, func(c *gin.Context) {
			c.Set("user_id_validated", "u-1")
			c.Next()
		}, middleware.Idempotency(db), func(c *gin.Context) {
			t.Fatal("handler must not run")
		})

		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
	})

	t.Run("no key passes through", func(t *testing.T) {
		db, _ := redismock.NewClientMock()
		router := gin.New()
		router.POST(path, middleware.Idempotency(db), func(c *gin.Context) {
			c.Status(http.StatusAccepted)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
	})
}

func TestRateLimitByUser(t *testing.T) {
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		c.Set("user_id", "u-1")
		c.Next()
	}, middleware.RateLimitByUser(0.001, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "TOO_MANY_REQUESTS")
}

func TestContextLogger(t *testing.T) {
	router := gin.New()
	var rid, school string
	router.GET("/x", func(c *gin.Context) {
		c.Set("school_id", "s-1")
		c.Next()
	}, middleware.RequestID(), middleware.ContextLogger(zap.NewNop()), func(c *gin.Context) {
		rid = contextutil.GetRequestID(c.Request.Context())
		school = contextutil.GetSchoolID(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", rid)
	assert.Equal(t, "s-1", school)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
