// @title CorsGate Admin API
// @version 1.0
// @description Manage the CORS policies enforced by CorsGate proxy nodes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/common"
	"github.com/NeuralTrust/CorsGate/pkg/config"
	"github.com/NeuralTrust/CorsGate/pkg/dependency_container"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	"github.com/NeuralTrust/CorsGate/pkg/infra/database"
	"github.com/NeuralTrust/CorsGate/pkg/infra/jwt"
	infraLogger "github.com/NeuralTrust/CorsGate/pkg/infra/logger"
	_ "github.com/NeuralTrust/CorsGate/pkg/infra/migrations"
	"github.com/NeuralTrust/CorsGate/pkg/server"
	"github.com/NeuralTrust/CorsGate/pkg/server/router"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	serverTypeAdmin = "admin"
	serverTypeProxy = "proxy"
	commandToken    = "token"

	initialReloadTimeout = 30 * time.Second
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	command := getCommand()
	if command == serverTypeAdmin || command == serverTypeProxy {
		_ = os.Setenv("SERVER_TYPE", command)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if command == commandToken {
		if err := printAdminToken(cfg); err != nil {
			log.Fatalf("failed to create admin token: %v", err)
		}
		return
	}

	if cfg.Server.NodeID == "" {
		if hostname, err := os.Hostname(); err == nil {
			cfg.Server.NodeID = hostname
		}
	}

	logger, closeLogger, err := infraLogger.NewLogger(infraLogger.Options{
		Server:       cfg.Server.Type,
		Level:        cfg.Log.Level,
		AsyncConsole: cfg.Server.Type == serverTypeProxy,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogger()

	db, err := database.NewDB(logger, &database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.DBName,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("failed to close database")
		}
	}()

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:            cfg,
		Logger:         logger,
		DB:             db,
		EventsRegistry: event.Registry,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize dependency container")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go container.RedisListener.Listen(ctx, cache.PolicyEventsChannel)

	reloadCtx, reloadCancel := context.WithTimeout(ctx, initialReloadTimeout)
	if _, err := container.PolicyLoader.Reload(reloadCtx); err != nil {
		logger.WithError(err).Error("initial policy load failed, serving until the next reload succeeds")
	}
	reloadCancel()

	container.PolicyScheduler.Start()
	workers := cfg.Telemetry.Workers
	if workers <= 0 {
		workers = common.DefaultWorkers
	}
	container.MetricsWorker.StartWorkers(workers)

	srv := initializeServer(cfg, logger, container)
	go func() {
		if err := srv.Run(); err != nil {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()
	container.PolicyScheduler.Stop()
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
	}
	container.MetricsWorker.Shutdown()
	logger.Info("server gracefully stopped")
}

func getCommand() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return ""
}

func printAdminToken(cfg *config.Config) error {
	if cfg.Server.SecretKey == "" {
		return fmt.Errorf("server.secret_key is not set")
	}
	token, err := jwt.NewJwtManager(cfg.Server.SecretKey, cfg.Server.TokenTTL).CreateToken(common.AdminTokenSubject)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func initializeServer(
	cfg *config.Config,
	logger *logrus.Logger,
	container *dependency_container.Container,
) server.Server {
	switch cfg.Server.Type {
	case serverTypeAdmin:
		return server.NewAdminServer(server.AdminServerDI{
			Config: cfg,
			Logger: logger,
			Routers: []router.ServerRouter{
				router.NewAdminRouter(container.MiddlewareTransport, container.HandlerTransport),
			},
		})
	default:
		return server.NewProxyServer(server.ProxyServerDI{
			Config: cfg,
			Logger: logger,
			Routers: []router.ServerRouter{
				router.NewProxyRouter(container.MiddlewareTransport, container.HandlerTransport),
			},
		})
	}
}
