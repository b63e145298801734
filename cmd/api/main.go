package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	httpadp "obras-backend/internal/adapter/http"
	lockadp "obras-backend/internal/adapter/lock"
	"obras-backend/internal/adapter/middleware"
	"obras-backend/internal/adapter/repository/firestoredb"
	mysqlrepo "obras-backend/internal/adapter/repository/mysql"
	"obras-backend/internal/config"
	"obras-backend/internal/domain/uow"
	"obras-backend/internal/infrastructure/cache"
	"obras-backend/internal/infrastructure/db"
	"obras-backend/internal/infrastructure/docstore"
	"obras-backend/internal/infrastructure/logging"
	"obras-backend/internal/usecase/company"
	"obras-backend/internal/usecase/project"
	"obras-backend/internal/usecase/report"
	"obras-backend/internal/usecase/resource"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	// hours and totals travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	repos, tx, closer, err := openStorage(ctx, cfg)
	if err != nil {
		log.WithError(err).WithField("storage", cfg.StorageDriver).Fatal("failed to open storage")
	}
	defer closer.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer rdb.Close()

	reports := report.NewUsecase(repos, tx,
		report.WithLocker(lockadp.NewRedisLocker(rdb, cfg.ReportLockTTL())),
		report.WithLogger(log),
		report.WithLocation(cfg.Location()),
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}),
		middleware.RequestLogger(log),
		echomw.Recover(),
	)
	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(cfg.StorageDriver),
		Companies: httpadp.NewCompanyHandler(company.NewUsecase(repos.Companies, log), log),
		Projects:  httpadp.NewProjectHandler(project.NewUsecase(repos.Projects, repos.Companies, log), log),
		Resources: httpadp.NewResourceHandler(resource.NewUsecase(repos, tx, log), log),
		Reports:   httpadp.NewReportHandler(reports, log),
	}, middleware.Idempotency(rdb, cfg.IdempotencyTTL(), log))

	go func() {
		addr := ":" + cfg.AppPort
		log.WithFields(logrus.Fields{"addr": addr, "storage": cfg.StorageDriver, "env": cfg.AppEnv}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// openStorage builds the repositories and unit of work of the configured backend.
func openStorage(ctx context.Context, cfg *config.Config) (uow.Repos, uow.UnitOfWork, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.StorageFirestore:
		client, err := docstore.OpenFirestore(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			return uow.Repos{}, nil, nil, err
		}
		repos := uow.Repos{
			Companies: firestoredb.NewCompanyRepository(client),
			Projects:  firestoredb.NewProjectRepository(client),
			Workers:   firestoredb.NewWorkerRepository(client),
			Machinery: firestoredb.NewMachineryRepository(client),
			Reports:   firestoredb.NewReportRepository(client),
		}
		return repos, firestoredb.NewFirestoreUoW(client), client, nil
	default:
		gdb, err := db.OpenGorm(cfg.MySQLDSN(), db.ParseLogLevel(cfg.DBLogLevel))
		if err != nil {
			return uow.Repos{}, nil, nil, err
		}
		if err := mysqlrepo.Migrate(gdb); err != nil {
			return uow.Repos{}, nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return uow.Repos{}, nil, nil, err
		}
		repos := uow.Repos{
			Companies: mysqlrepo.NewCompanyRepository(gdb),
			Projects:  mysqlrepo.NewProjectRepository(gdb),
			Workers:   mysqlrepo.NewWorkerRepository(gdb),
			Machinery: mysqlrepo.NewMachineryRepository(gdb),
			Reports:   mysqlrepo.NewReportRepository(gdb),
		}
		return repos, mysqlrepo.NewGormUoW(gdb), sqlDB, nil
	}
}
