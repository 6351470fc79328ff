package main // Entry point package

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/bus-ticketing/internal/booking"
	"github.com/iliyamo/bus-ticketing/internal/config"
	"github.com/iliyamo/bus-ticketing/internal/database"
	"github.com/iliyamo/bus-ticketing/internal/handler"
	"github.com/iliyamo/bus-ticketing/internal/middleware"
	"github.com/iliyamo/bus-ticketing/internal/queue"
	"github.com/iliyamo/bus-ticketing/internal/repository"
	"github.com/iliyamo/bus-ticketing/internal/router"
	"github.com/iliyamo/bus-ticketing/internal/service"
	"github.com/iliyamo/bus-ticketing/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		e.Logger.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		e.Logger.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	var sessions session.Store
	if rdb != nil {
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.Session.Prefix, cfg.Session.TTL)
	} else {
		e.Logger.Warn("redis unavailable: sessions kept in memory, cache and rate limit disabled")
		sessions = session.NewMemoryStore(cfg.Session.TTL)
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	chart := booking.SampleChart()
	if cfg.Booking.ChartFile != "" {
		if chart, err = booking.LoadChartFile(cfg.Booking.ChartFile); err != nil {
			e.Logger.Fatalf("load seat chart: %v", err)
		}
	}

	var pub service.Publisher = service.NopPublisher{Logger: e.Logger}
	if cfg.Broker.Enabled {
		pub = service.NewAMQPPublisher(cfg.Broker.URL, e.Logger)
		go func() {
			if err := queue.StartCheckoutConsumer(ctx, cfg.Broker.URL, "logs", e.Logger); err != nil && ctx.Err() == nil {
				e.Logger.Errorf("checkout consumer stopped: %v", err)
			}
		}()
	}

	router.RegisterRoutes(e, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterLayouts(e, handler.NewLayoutHandler(sessions, repository.NewLayoutRepo(db)), cfg.JWTSecret)
	router.RegisterBooking(e, handler.NewBookingHandler(sessions, chart, cfg.Booking.PricePerSeat, pub), cfg.JWTSecret)

	addr := ":" + cfg.Port
	e.Logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
