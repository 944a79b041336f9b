package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quicknotes/internal/model"
	"quicknotes/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database lives on a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Category{}, &model.Note{}))
	return db
}

// memoryDenylist is an in-process TokenDenylist for tests.
type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemoryDenylist() *memoryDenylist {
	return &memoryDenylist{revoked: make(map[string]time.Time)}
}

func (d *memoryDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.revoked[jti]
	return ok && time.Now().Before(until), nil
}

type testEnv struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	categoryRepo *repository.CategoryRepository
	noteRepo     *repository.NoteRepository
	denylist     *memoryDenylist

	auth       *AuthService
	categories *CategoryService
	notes      *NoteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	denylist := newMemoryDenylist()

	return &testEnv{
		db:           db,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		noteRepo:     noteRepo,
		denylist:     denylist,
		auth: NewAuthService(
			userRepo,
			NewCategorySeeder(categoryRepo),
			denylist,
			"test-secret",
			15*time.Minute,
			24*time.Hour,
		),
		categories: NewCategoryService(categoryRepo),
		notes:      NewNoteService(noteRepo, categoryRepo),
	}
}

func (e *testEnv) registerUser(t *testing.T, email string) *model.User {
	t.Helper()

	result, err := e.auth.Register(RegisterInput{Email: email, Password: "testpass123"})
	require.NoError(t, err)
	return result.User
}
