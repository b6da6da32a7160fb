package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/auth"
	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/permissions"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	tokens      *auth.TokenManager
	authService *services.AuthService
	handlers    Handlers
}

func setupAPITestEnv(t *testing.T, generator services.TaskGenerator) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.MigrateDatabase(db))

	users := repository.NewUserRepository(db)
	boards := repository.NewBoardRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	resolver := permissions.NewResolver(boards, projects, tasks)

	tokens, err := auth.NewTokenManager("test-jwt-secret", time.Hour)
	require.NoError(t, err)

	authService := services.NewAuthService(users)
	h := Handlers{
		Auth:    NewAuthHandler(authService, tokens),
		Board:   NewBoardHandler(services.NewBoardService(boards, users, resolver)),
		Project: NewProjectHandler(services.NewProjectService(projects, users, resolver)),
		Task:    NewTaskHandler(services.NewTaskService(tasks, projects, users, resolver, generator)),
		Health:  NewHealthHandler(db),
	}

	router := gin.New()
	router.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(router, h, tokens)

	return &apiTestEnv{
		db:          db,
		router:      router,
		tokens:      tokens,
		authService: authService,
		handlers:    h,
	}
}

func (e *apiTestEnv) createUser(t *testing.T, name string) *models.User {
	t.Helper()

	user := &models.User{Email: name + "@example.com", Name: name, PasswordHash: "hashed"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// request performs an API call authenticated as user via a bearer token. A nil
// user sends no credentials.
func (e *apiTestEnv) request(t *testing.T, method, path string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		token, _, err := e.tokens.Generate(user.ID, user.Email)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]interface{}](t, w)["code"].(string)
}
