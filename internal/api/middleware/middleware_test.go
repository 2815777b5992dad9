package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) (*token.Manager, service.UserService, *model.User) {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	users := repository.NewUserRepository(db)
	u := &model.User{Username: "leo", PasswordHash: "x"}
	require.NoError(t, users.Create(t.Context(), u))
	return token.NewManager("secret", time.Hour), service.NewUserService(users), u
}

func whoami(c *gin.Context) {
	c.String(http.StatusOK, CurrentUserID(c))
}

func TestAuthenticateSources(t *testing.T) {
	tokens, users, u := setup(t)
	tok, _, err := tokens.Issue(u.ID, u.Username)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Authenticate(tokens, users))
	r.GET("/me", whoami)

	cases := map[string]func(*http.Request){
		"bearer": func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) },
		"token":  func(req *http.Request) { req.Header.Set("Authorization", "Token "+tok) },
		"cookie": func(req *http.Request) { req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok}) },
	}
	for name, apply := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			apply(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, u.ID, w.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequireAPIAuth(t *testing.T) {
	r := gin.New()
	r.POST("/v1/posts/", RequireAPIAuth(), whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/posts/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSiteAuthRedirects(t *testing.T) {
	r := gin.New()
	r.POST("/create/", RequireSiteAuth("/auth/login/"), whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/create/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", w.Header().Get("Location"))
}

func TestRateLimiterOnlyLimitsWrites(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)
	r := gin.New()
	r.Use(limiter.Middleware())
	r.Any("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/x", nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, do(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost))
	assert.Equal(t, http.StatusOK, do(http.MethodGet))
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Now()
	limiter.now = func() time.Time { return now }
	limiter.limiter("1.1.1.1")

	now = now.Add(time.Hour)
	limiter.limiter("2.2.2.2")
	assert.Len(t, limiter.visitors, 1)
}
