package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/moviex-storefront/internal/booking"
	"github.com/iliyamo/moviex-storefront/internal/catalog"
	"github.com/iliyamo/moviex-storefront/internal/config"
	"github.com/iliyamo/moviex-storefront/internal/database"
	"github.com/iliyamo/moviex-storefront/internal/fixtures"
	"github.com/iliyamo/moviex-storefront/internal/handler"
	"github.com/iliyamo/moviex-storefront/internal/middleware"
	"github.com/iliyamo/moviex-storefront/internal/queue"
	"github.com/iliyamo/moviex-storefront/internal/repository"
	"github.com/iliyamo/moviex-storefront/internal/router"
	"github.com/iliyamo/moviex-storefront/internal/service"
	"github.com/iliyamo/moviex-storefront/internal/session"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	movies, err := fixtures.Movies()
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}
	snacks, err := fixtures.Snacks()
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	var db *sql.DB
	if cfg.UsesMySQL() {
		db, err = database.Open(database.Settings{
			User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		})
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("database: %v", err)
		}
	}

	src, err := repository.Open(cfg.MovieSource, repository.Backends{
		Redis: rdb, DB: db, Fixtures: movies, Poll: cfg.MoviePoll,
	})
	if err != nil {
		log.Fatalf("movie source: %v", err)
	}
	cat := catalog.New(src)
	if err := cat.Start(ctx); err != nil {
		log.Fatalf("catalog: %v", err)
	}
	defer cat.Stop()

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, cfg.SweepEvery)
	wallet := session.NewWallet(cfg.TicketPastAfter, cfg.WalletIdle)
	go wallet.Run(ctx, cfg.SweepEvery)

	var publisher service.TicketPublisher = service.NopPublisher{}
	if cfg.PublishEnabled {
		publisher = &service.RabbitPublisher{URL: cfg.RabbitURL}
	}
	if cfg.ConsumeEnabled {
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogDir: cfg.LogDir}
		go func() { _ = consumer.Run(ctx) }()
	}

	tickets := booking.NewTicketGenerator(rand.NewSource(time.Now().UnixNano()))
	v := booking.NewValidator()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Validator = handler.NewRequestValidator(v)

	router.RegisterRoutes(e, router.Handlers{
		Movies: &handler.MovieHandler{Catalog: cat},
		Stream: &handler.StreamHandler{Source: src, Upgrader: handler.NewUpgrader()},
		Bookings: &handler.BookingHandler{
			Catalog:   cat,
			Sessions:  sessions,
			Wallet:    wallet,
			Snacks:    snacks,
			Layout:    booking.DefaultLayout(),
			Tickets:   tickets,
			Publisher: publisher,
		},
		Tickets:        &handler.TicketHandler{Tickets: tickets, Wallet: wallet},
		PaymentMethods: &handler.PaymentMethodHandler{Registrar: booking.NewMethodRegistrar(v), Wallet: wallet},
		Cache:          middleware.NewRedisCache(config.LoadCacheConfig(), rdb, cat.Version),
		RateLimit:      middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, movies=%s)", addr, cfg.Env, cfg.MovieSource)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
