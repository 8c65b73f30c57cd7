package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/menu-assistant/internal/cart"
	"github.com/wichananm65/menu-assistant/internal/catalog"
	"github.com/wichananm65/menu-assistant/internal/category"
	"github.com/wichananm65/menu-assistant/internal/chat"
	"github.com/wichananm65/menu-assistant/internal/config"
	"github.com/wichananm65/menu-assistant/internal/favorite"
	"github.com/wichananm65/menu-assistant/internal/logging"
	"github.com/wichananm65/menu-assistant/internal/onboarding"
	"github.com/wichananm65/menu-assistant/internal/order"
	"github.com/wichananm65/menu-assistant/internal/recommended"
	"github.com/wichananm65/menu-assistant/internal/user"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := openDB(ctx, cfg, log)
	if db != nil {
		defer db.Close()
	}
	rdb := openRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	var src catalog.Source = catalog.BundledSource{}
	if cfg.CatalogSource == "postgres" && db != nil {
		src = catalog.NewPostgresSource(db)
	}
	menu, err := catalog.Load(ctx, src)
	if err != nil {
		log.WithError(err).Fatal("could not load catalog")
	}
	log.WithFields(logrus.Fields{
		"source": cfg.CatalogSource,
		"items":  len(menu.Items()),
		"combos": len(menu.Combos()),
	}).Info("catalog loaded")

	// stores fall back to process memory when the backing service is not configured
	var (
		userRepo     user.Repository     = user.NewInMemoryRepository(nil)
		favoriteRepo favorite.Repository = favorite.NewInMemoryRepository()
		orderRepo    order.Repository    = order.NewInMemoryRepository()
		codes        user.CodeStore      = user.NewInMemoryCodeStore()
		revoker      user.Revoker        = user.NewInMemoryRevoker()
		seen         onboarding.Store    = onboarding.NewInMemoryStore()
		publisher    order.Publisher     = order.NoopPublisher{}
	)
	if db != nil {
		userRepo = user.NewPostgresRepository(db)
		favoriteRepo = favorite.NewPostgresRepository(db)
		orderRepo = order.NewPostgresRepository(db)
	}
	if rdb != nil {
		codes = user.NewRedisCodeStore(rdb)
		revoker = user.NewRedisRevoker(rdb)
		seen = onboarding.NewRedisStore(rdb)
	}
	if cfg.KafkaBroker != "" {
		writer := order.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaOrderTopic)
		defer writer.Close()
		publisher = order.NewKafkaPublisher(writer)
		log.WithField("topic", cfg.KafkaOrderTopic).Info("publishing orders to kafka")
	}

	userService := user.NewService(userRepo, codes, cfg.VerificationCodeTTL, log)
	tokens := user.NewTokenIssuer(cfg.JWTSecret, user.DefaultTokenTTL)
	cartService := cart.NewService(cart.NewInMemoryRepository(), menu, log)
	chatService := chat.NewService(chat.NewClient(chat.ClientConfig{
		BaseURL:        cfg.ChatBaseURL,
		SearchEngine:   cfg.ChatSearchEngine,
		PollInterval:   cfg.ChatPollInterval,
		MaxAttempts:    cfg.ChatMaxAttempts,
		RequestTimeout: cfg.ChatRequestTimeout,
	}, log), log)
	defer chatService.Close()

	userHandler := user.NewHandler(userService, tokens, revoker)
	recommendedHandler := recommended.NewHandler(recommended.NewService(menu))
	catalogHandler := catalog.NewHandler(catalog.NewService(menu))
	categoryHandler := category.NewHandler(category.NewService(menu))
	cartHandler := cart.NewHandler(cartService)
	chatHandler := chat.NewHandler(chatService)
	favoriteHandler := favorite.NewHandler(favorite.NewService(favoriteRepo, menu, log))
	onboardingHandler := onboarding.NewHandler(seen, log)
	orderService := order.NewService(cartService, orderRepo, publisher, log).
		WithPickupCoder(order.QRPickupCoder{BaseURL: cfg.PublicBaseURL})
	orderHandler := order.NewHandler(orderService)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupCORS(app, cfg.CORSAllowOrigins)
	app.Use(logging.RequestLogger(log))

	userHandler.RegisterPublicRoutes(app)
	// /menu/recommended must be matched before /menu/:id
	recommendedHandler.RegisterPublicRoutes(app)
	catalogHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)

	app.Use(user.NewJWTMiddleware(tokens.Secret(), func(c *fiber.Ctx) bool {
		return c.Method() == fiber.MethodOptions
	}))
	app.Use(user.RevocationGuard(revoker, log))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	chatHandler.RegisterProtectedRoutes(app)
	favoriteHandler.RegisterProtectedRoutes(app)
	onboardingHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	go func() {
		log.WithField("addr", cfg.Addr).Info("starting server")
		if err := app.Listen(cfg.Addr); err != nil {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Warn("shutdown did not complete cleanly")
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// openDB returns nil when DATABASE_URL is unset; the server then keeps
// users, favorites and orders in memory.
func openDB(ctx context.Context, cfg config.Config, log logrus.FieldLogger) *sql.DB {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set, using in-memory storage")
		return nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("could not open database")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.WithError(err).Fatal("could not reach database")
	}
	if err := migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("could not prepare schema")
	}
	return db
}

func openRedis(ctx context.Context, cfg config.Config, log logrus.FieldLogger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR is not set, sessions and onboarding state are kept in memory")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Fatal("could not reach redis")
	}
	return rdb
}
