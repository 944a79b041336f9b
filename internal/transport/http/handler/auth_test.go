package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quicknotes/internal/app"
	"quicknotes/internal/model"
	"quicknotes/internal/repository"
	"quicknotes/internal/transport/http/middleware"
)

const testJWTSecret = "handler-test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Category{}, &model.Note{}))

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	authService := app.NewAuthService(
		userRepo,
		app.NewCategorySeeder(categoryRepo),
		nil,
		testJWTSecret,
		15*time.Minute,
		24*time.Hour,
	)
	categoryService := app.NewCategoryService(categoryRepo)
	noteService := app.NewNoteService(noteRepo, categoryRepo)

	authHandler := NewAuthHandler(authService)
	categoryHandler := NewCategoryHandler(categoryService)
	noteHandler := NewNoteHandler(noteService)

	authRequired := middleware.AuthJWT(testJWTSecret)

	router := gin.New()
	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/token/refresh", authHandler.Refresh)
	authGroup.GET("/me", authRequired, authHandler.Me)

	categoryGroup := v1.Group("/categories")
	categoryGroup.Use(authRequired)
	categoryGroup.GET("", categoryHandler.List)

	noteGroup := v1.Group("/notes")
	noteGroup.Use(authRequired)
	noteGroup.GET("", noteHandler.List)
	noteGroup.POST("", noteHandler.Create)

	return router
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	var data map[string]interface{}
	if len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, &data))
	}
	return data
}

func registerTestUser(t *testing.T, router *gin.Engine, email string) (access, refresh string) {
	t.Helper()

	recorder := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "testpass123",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	data := decodeData(t, recorder)
	access, _ = data["access"].(string)
	refresh, _ = data["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

func TestRegisterEndpoint_Success(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "new@example.com",
		"password": "testpass123",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	data := decodeData(t, recorder)
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "new@example.com", user["email"])
	assert.Equal(t, "new", user["username"])
	assert.NotContains(t, recorder.Body.String(), "password")
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	router := newTestRouter(t)

	// Invalid email format.
	recorder := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "invalid-email",
		"password": "testpass123",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Missing password.
	recorder = doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "new@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	router := newTestRouter(t)
	registerTestUser(t, router, "dup@example.com")

	recorder := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "dup@example.com",
		"password": "testpass123",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLoginEndpoint_Contract(t *testing.T) {
	router := newTestRouter(t)
	registerTestUser(t, router, "login@example.com")

	// Missing field means 400.
	recorder := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "login@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Wrong password and unknown user both mean 401.
	recorder = doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "login@example.com",
		"password": "wrongpass123",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "unknown@example.com",
		"password": "whatever123",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Correct credentials succeed.
	recorder = doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "login@example.com",
		"password": "testpass123",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeData(t, recorder)
	assert.NotEmpty(t, data["access"])
	assert.NotEmpty(t, data["refresh"])
}

func TestTokenRefreshEndpoint(t *testing.T) {
	router := newTestRouter(t)
	_, refresh := registerTestUser(t, router, "refresh@example.com")

	recorder := doJSON(router, http.MethodPost, "/api/v1/auth/token/refresh", "", gin.H{
		"refresh": refresh,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeData(t, recorder)
	assert.NotEmpty(t, data["access"])

	recorder = doJSON(router, http.MethodPost, "/api/v1/auth/token/refresh", "", gin.H{
		"refresh": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestMeEndpoint(t *testing.T) {
	router := newTestRouter(t)
	access, _ := registerTestUser(t, router, "me@example.com")

	recorder := doJSON(router, http.MethodGet, "/api/v1/auth/me", access, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeData(t, recorder)
	assert.Equal(t, "me@example.com", data["email"])

	recorder = doJSON(router, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProtectedResourcesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(router, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doJSON(router, http.MethodGet, "/api/v1/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestNotesEndpoint_CategoryShapeAndScoping(t *testing.T) {
	router := newTestRouter(t)
	access, _ := registerTestUser(t, router, "owner@example.com")

	// The three default categories exist right after registration.
	recorder := doJSON(router, http.MethodGet, "/api/v1/categories", access, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var listEnvelope struct {
		Data []struct {
			ID    float64 `json:"id"`
			Name  string  `json:"name"`
			Color string  `json:"color"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listEnvelope))
	require.Len(t, listEnvelope.Data, 3)
	categoryID := uint(listEnvelope.Data[0].ID)

	recorder = doJSON(router, http.MethodPost, "/api/v1/notes", access, gin.H{
		"title":    "hello",
		"content":  "world",
		"category": categoryID,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	data := decodeData(t, recorder)
	assert.Equal(t, listEnvelope.Data[0].Name, data["category_name"])
	assert.Equal(t, listEnvelope.Data[0].Color, data["category_color"])
}
