package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

var logLevels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true
	lvl, ok := logLevels[cfg.LogLevel]
	if !ok {
		lvl = log.INFO
	}
	e.Logger.SetLevel(lvl)
	e.Logger.SetHeader(`{"time":"${time_rfc3339}","level":"${level}","file":"${short_file}","line":"${line}"}`)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		e.Logger.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		e.Logger.Warnf("redis unavailable, cache disabled and rate limiting per process: %v", err)
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	e.Pre(middleware.CORS(cfg.CORSOrigins))
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Errorj(log.JSON{"id": v.RequestID, "method": v.Method, "uri": v.URI, "status": v.Status, "latency": v.Latency.String(), "error": v.Error.Error()})
				return nil
			}
			c.Logger().Infoj(log.JSON{"id": v.RequestID, "method": v.Method, "uri": v.URI, "status": v.Status, "latency": v.Latency.String()})
			return nil
		},
	}))

	store := repository.NewStore(db)
	txStore := service.NewSQLStore(store)
	publisher := queue.NewPublisher(cfg.RabbitURL, e.Logger)

	reservations := service.NewReservations(txStore, publisher, e.Logger)
	reservedRooms := service.NewReservedRooms(txStore)
	quotes := service.NewQuotes(store.RoomTypes)
	invoices := service.NewInvoices(store.Billings, cfg.HotelName)

	router.RegisterRoutes(e, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.NewRedisCache(cacheCfg, rdb),
		Purge:     middleware.PurgeOnWrite(cacheCfg, rdb),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),

		Auth:             handler.NewAuthHandler(cfg, store.Users, store.Tokens),
		Reservations:     handler.NewReservationHandler(reservations, store.Reservations, store.History),
		Rooms:            handler.NewRoomHandler(store.Rooms),
		RoomTypeFeatures: handler.NewRoomTypeFeatureHandler(store.RoomTypeFeatures),
		Billing:          handler.NewBillingHandler(invoices),
		Users:            handler.NewUserHandler(store.Users, store.Tokens, cfg.BcryptCost),
		Public:           handler.NewPublicHandler(store.RoomTypes, store.Rooms, quotes),
		Resources: handler.AdminResources(handler.AdminStores{
			ReservedRooms: handler.ReservedRoomStore{Reads: store.ReservedRooms, Writes: reservedRooms},
			Companions:    store.Companions,
			Rooms:         store.Rooms,
			RoomTypes:     store.RoomTypes,
			Features:      store.Features,
			Guests:        store.Guests,
			Addons:        store.Addons,
			AddonOrders:   store.AddonOrders,
			Billings:      store.Billings,
		}),
		Ready: handler.Ready(db),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ConsumerEnabled {
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.EventLogDir, e.Logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.Logger.Errorf("status consumer stopped: %v", err)
			}
		}()
	}

	go func() {
		addr := ":" + cfg.Port
		e.Logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
	}
}
