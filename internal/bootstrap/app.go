package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"quicknotes/internal/app"
	"quicknotes/internal/cache"
	"quicknotes/internal/config"
	"quicknotes/internal/model"
	mysqlClient "quicknotes/internal/platform/mysql"
	redisClient "quicknotes/internal/platform/redis"
	"quicknotes/internal/repository"
)

type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	Redis  *redis.Client

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Category{}, &model.Note{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	application := &App{
		Config:    cfg,
		MySQL:     mysqlDB,
		Redis:     redisCli,
		StartedAt: time.Now(),
	}

	if err := application.ensureAdminUser(); err != nil {
		return nil, err
	}
	return application, nil
}

// ensureAdminUser provisions the configured superuser account once.
func (a *App) ensureAdminUser() error {
	adminCfg := a.Config.Admin
	if adminCfg.Email == "" || adminCfg.Password == "" {
		return nil
	}

	userRepo := repository.NewUserRepository(a.MySQL)
	existing, err := userRepo.GetByEmail(adminCfg.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	categoryRepo := repository.NewCategoryRepository(a.MySQL)
	authService := app.NewAuthService(
		userRepo,
		app.NewCategorySeeder(categoryRepo),
		cache.NewTokenDenylist(a.Redis),
		a.Config.Auth.JWTSecret,
		time.Duration(a.Config.Auth.AccessExpireMinute)*time.Minute,
		time.Duration(a.Config.Auth.RefreshExpireMinute)*time.Minute,
	)
	if _, err := authService.CreateSuperuser(app.SuperuserInput{
		Email:    adminCfg.Email,
		Password: adminCfg.Password,
	}); err != nil {
		if errors.Is(err, app.ErrEmailExists) {
			return nil
		}
		return fmt.Errorf("provision admin user failed: %w", err)
	}
	log.Printf("provisioned admin user %s", adminCfg.Email)
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
