package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpadp "credconecta-backend/internal/adapter/http"
	appmw "credconecta-backend/internal/adapter/middleware"
	"credconecta-backend/internal/adapter/repository/mirror"
	repo "credconecta-backend/internal/adapter/repository/mysql"
	"credconecta-backend/internal/config"
	loanDomain "credconecta-backend/internal/domain/loan"
	"credconecta-backend/internal/infrastructure/cache"
	infradb "credconecta-backend/internal/infrastructure/db"
	"credconecta-backend/internal/infrastructure/logging"
	"credconecta-backend/internal/infrastructure/scheduler"
	"credconecta-backend/internal/usecase/auth"
	"credconecta-backend/internal/usecase/contract"
	"credconecta-backend/internal/usecase/loan"
	"credconecta-backend/internal/usecase/notification"
)

const (
	sweepTimeout   = 5 * time.Minute
	mirrorSyncSpec = "@every 1m"
)

// openStores returns the db that backs the transactional repositories and the
// loan repository. With mysql the loan set is mirrored into SQLite.
func openStores(cfg *config.Config, log *logrus.Logger) (*gorm.DB, loanDomain.Repository, error) {
	lvl := infradb.ParseLogLevel(cfg.GormLogLevel)

	local, err := infradb.OpenSQLite(cfg.SQLitePath, lvl)
	if err != nil {
		return nil, nil, err
	}
	if err := infradb.Migrate(local); err != nil {
		return nil, nil, err
	}
	if cfg.StorageDriver == config.StorageSQLite {
		return local, repo.NewLoanRepository(local), nil
	}

	primary, err := infradb.OpenGorm(cfg.MySQLDSN(), lvl)
	if err != nil {
		return nil, nil, err
	}
	if err := infradb.Migrate(primary); err != nil {
		return nil, nil, err
	}
	loans := mirror.NewLoanRepository(repo.NewLoanRepository(primary), repo.NewLoanRepository(local), log)
	return primary, loans, nil
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	db, loans, err := openStores(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("storage init failed")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(context.Background(), cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			// idempotency is optional; keep serving without it
			log.WithError(err).Warn("redis unavailable, idempotency disabled")
			rdb = nil
		}
	}

	tx := repo.NewGormUoW(db)
	users := repo.NewUserRepository(db)

	notifUC := notification.NewUsecase(repo.NewNotificationRepository(db), repo.NewSettingsRepository(db), loans, log)
	loanUC := loan.NewUsecase(loans, tx, log).WithNotifier(notifUC).WithUsers(users)
	contractUC := contract.NewUsecase(repo.NewContractRepository(db), repo.NewTemplateRepository(db), tx, log).
		WithNotifier(notifUC).
		WithLoans(loans)
	authUC := auth.NewUsecase(users, cfg.AdminPassword, cfg.JWTSecret, cfg.TokenTTL, log)

	if err := contractUC.EnsureDefaultTemplate(context.Background()); err != nil {
		log.WithError(err).Fatal("seed default template")
	}

	sched := scheduler.New(log, sweepTimeout)
	err = sched.Add("overdue-sweep", cfg.OverdueSweepCron, func(ctx context.Context) error {
		_, err := notifUC.CheckOverdueLoans(ctx)
		return err
	})
	if err != nil {
		log.WithError(err).Fatal("invalid OVERDUE_SWEEP_CRON")
	}
	if m, ok := loans.(*mirror.LoanRepository); ok {
		err = sched.Add("mirror-sync", mirrorSyncSpec, func(ctx context.Context) error {
			_, err := m.Sync(ctx)
			return err
		})
		if err != nil {
			log.WithError(err).Fatal("schedule mirror sync")
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	routes := httpadp.Routes{
		Health:        httpadp.NewHandler(rdb),
		Auth:          httpadp.NewAuthHandler(authUC),
		Loans:         httpadp.NewLoanHandler(loanUC),
		Contracts:     httpadp.NewContractHandler(contractUC),
		Notifications: httpadp.NewNotificationHandler(notifUC),
		Tokens:        authUC,
	}
	if rdb != nil {
		routes.Idempotency = appmw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL(), log)
	}
	routes.Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start()
	go func() {
		addr := ":" + cfg.AppPort
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	sched.Stop()
	if rdb != nil {
		_ = rdb.Close()
	}
}
