package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/billsplit/internal/config"
	"github.com/fsdevblog/billsplit/internal/metrics"
	"github.com/fsdevblog/billsplit/internal/repository/pgrepo"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/internal/service"
	"github.com/fsdevblog/billsplit/internal/service/psswd"
	"github.com/fsdevblog/billsplit/internal/session"
	"github.com/fsdevblog/billsplit/internal/transport/api"
	"github.com/fsdevblog/billsplit/internal/transport/events"
	"github.com/fsdevblog/billsplit/internal/transport/social"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"address":      a.Config.RunAddress,
		"kafkaBrokers": a.Config.KafkaBrokers,
		"policy":       a.Config.InsufficientFundsPolicy,
	}).Info("starting app")

	policy, policyErr := service.ParseInsufficientFundsPolicy(a.Config.InsufficientFundsPolicy)
	if policyErr != nil {
		return fmt.Errorf("app run: %s", policyErr.Error())
	}

	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	redisClient, redisErr := session.Connect(notifyCtx, a.Config.RedisURL, a.Logger)
	if redisErr != nil {
		return fmt.Errorf("app run: %s", redisErr.Error())
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			a.Logger.WithError(err).Error("close redis client")
		}
	}()

	paymentMetrics, metricsErr := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)
	if metricsErr != nil {
		return fmt.Errorf("app run: %s", metricsErr.Error())
	}

	factoryArgs := service.FactoryArgs{
		UOW:        unitOfWork,
		JWTSecret:  []byte(a.Config.JWTUserSecret),
		Hasher:     psswd.NewBcrypt(0),
		Sessions:   session.NewStore(redisClient),
		Admission:  social.New(a.Config.SocialServiceAddress, a.Logger),
		Observer:   paymentMetrics,
		Policy:     policy,
		SessionTTL: a.Config.SessionTTL,
		Logger:     a.Logger,
	}

	// без брокеров события не публикуются
	if len(a.Config.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(a.Config.KafkaBrokers, a.Config.KafkaTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				a.Logger.WithError(err).Error("close kafka publisher")
			}
		}()
		factoryArgs.Publisher = publisher
	}

	services, sErr := service.Factory(factoryArgs)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:         a.Logger,
		UserService:    services.UserService,
		BillService:    services.BillService,
		PaymentService: services.PaymentService,
		MetricsHandler: promhttp.Handler(),
		DevMode:        os.Getenv("GIN_MODE") != "release",
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	errChan := make(chan error, 1)
	go func() {
		if runErr := srv.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.WithError(err).Error("http server shutdown")
		}
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.BillRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewBillRepository(dbtx)
		},
		repoargs.ParticipantRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewParticipantRepository(dbtx)
		},
		repoargs.PaymentRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewPaymentRepository(dbtx)
		},
		repoargs.AccountRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewAccountRepository(dbtx)
		},
	}
	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
