package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"tarim-admin/internal/api"
	"tarim-admin/internal/config"
	"tarim-admin/internal/dashboard"
	"tarim-admin/internal/db"
	"tarim-admin/internal/docstore"
	"tarim-admin/internal/events"
	"tarim-admin/internal/logger"
	"tarim-admin/internal/menu"
	"tarim-admin/internal/metrics"
	"tarim-admin/internal/middleware"
	"tarim-admin/internal/order"
	"tarim-admin/internal/profile"
	"tarim-admin/internal/rtdb"
	"tarim-admin/internal/state"
	"tarim-admin/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	initRedisFunc   = db.InitRedis
	startServerFunc = func(addr string, handler http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return srv.ListenAndServe()
	}
)

type publisher interface {
	order.EventPublisher
	Close() error
}

// server is the wired application. Close releases what newServer started.
type server struct {
	handler http.Handler
	closers []func()
}

func (s *server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	rdb := initRedisFunc(cfg)
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := newServer(ctx, cfg, database, rdb)
	defer srv.Close()

	logger.L().Info("http server running", zap.String("port", cfg.AppPort))
	return startServerFunc(":"+cfg.AppPort, srv.handler)
}

func newPublisher(cfg *config.Config) publisher {
	if cfg.KafkaBroker == "" {
		logger.L().Info("KAFKA_BROKER not set, order events are disabled")
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaTopic))
}

func chartLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.L().Warn("unknown CHART_TIMEZONE, using UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}

func newServer(ctx context.Context, cfg *config.Config, database *sql.DB, rdb *redis.Client) *server {
	srv := &server{}
	reg := metrics.NewRegistry()

	docs := docstore.NewPostgresStore(database)
	tree := rtdb.New(rdb, cfg.RTDBPrefix)

	pub := newPublisher(cfg)
	srv.closers = append(srv.closers, func() {
		if err := pub.Close(); err != nil {
			logger.L().Warn("failed to close event publisher", zap.Error(err))
		}
	})

	orderSvc := order.NewService(
		order.NewRepository(tree, docs),
		order.NewSynchronizer(tree, docs, reg),
		pub,
	)
	profileSvc := profile.NewService(profile.NewRepository(docs))
	userSvc := user.NewService(user.NewRepository(database), profileSvc)
	menuSvc := menu.NewService(menu.NewRepository(docs))
	dashboardSvc := dashboard.NewService(orderSvc, chartLocation(cfg.ChartTimezone))

	store := state.NewStore()
	store.Dispatch(state.Loading{Slice: state.SliceOrders})
	stop, err := orderSvc.Subscribe(ctx,
		func(orders []order.Order) {
			store.Dispatch(state.OrdersLoaded{Orders: orders})
		},
		func(err error) {
			logger.L().Error("live order subscription failed", zap.Error(err))
			store.Dispatch(state.Failed{Slice: state.SliceOrders, Err: err})
		},
	)
	if err != nil {
		logger.L().Error("failed to subscribe to orders", zap.Error(err))
		store.Dispatch(state.Failed{Slice: state.SliceOrders, Err: err})
	} else {
		srv.closers = append(srv.closers, stop)
	}

	limiter := middleware.NewRateLimiter()
	go limiter.RunCleanup(ctx)

	h := api.NewHandler(api.Services{
		Users:     userSvc,
		Profiles:  profileSvc,
		Menu:      menuSvc,
		Orders:    orderSvc,
		Dashboard: dashboardSvc,
	}, store, reg, api.TrackingQR{BaseURL: cfg.TrackingBaseURL}, cfg.CORSOrigins)

	srv.handler = api.NewRouter(h, limiter, cfg.CORSOrigins)
	return srv
}
