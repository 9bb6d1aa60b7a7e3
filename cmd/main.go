// @title                       Smart Home Proxy API
// @version                     1.0
// @description                 Session-based proxy in front of the eWeLink cloud API.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "smarthome_proxy/docs"
	"smarthome_proxy/internal/cloud"
	"smarthome_proxy/internal/config"
	"smarthome_proxy/internal/handlers"
	"smarthome_proxy/internal/hub"
	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/mqtt"
	"smarthome_proxy/internal/repository"
	"smarthome_proxy/internal/repository/db"
	"smarthome_proxy/internal/server"
	"smarthome_proxy/internal/service"
	"smarthome_proxy/internal/telemetry"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// closers run in reverse order on shutdown.
type closers []func()

func (c *closers) add(f func()) { *c = append(*c, f) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func main() {
	// load configs/config.yml + PROXY_* env
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleFormat).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid config", "err", err)
	}
	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	var cleanup closers
	defer cleanup.run()

	// open DB
	sqlDB, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	cleanup.add(func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	})

	// wire dependencies
	repos := repository.NewRepository(sqlDB, credentialStore(cfg, log))
	registry := hub.NewRegistry(log.Named("hub"))
	deps := service.Deps{
		Repos:    repos,
		Gateway:  cloud.NewClient(cloudConfig(cfg)),
		Registry: registry,
		Auth: service.AuthConfig{
			SigningKey: cfg.Auth.SigningKey,
			SessionTTL: cfg.Auth.SessionTTL,
			Refresh:    cfg.Auth.Refresh,
		},
		Log: log.Named("service"),
	}
	if pub := connectMQTT(cfg, log, &cleanup); pub != nil {
		deps.Publisher = pub
	}
	if rec := openRecorder(cfg, log, &cleanup); rec != nil {
		deps.Recorder = rec
	}
	services := service.NewService(deps)

	apiHandler := handlers.NewHandler(services, log.Named("http"), handlers.Options{
		AppRedirectURL: cfg.Cloud.AppRedirectURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// start HTTP server
	srv := &server.Server{}
	srv.OnShutdown(registry.CloseAll)
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// openDB initializes the SQLite database holding the journal (and credentials with store.driver=sqlite).
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening sqlite", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

// credentialStore returns nil for the sqlite driver; the repository then keeps credentials in the DB.
func credentialStore(cfg *config.Config, log *logger.Logger) repository.CredentialStore {
	if cfg.Store.Driver == config.StoreSQLite {
		log.Infow("credential store", "driver", config.StoreSQLite, "path", cfg.DB.Path)
		return nil
	}
	log.Infow("credential store", "driver", config.StoreFile, "path", cfg.Store.Path)
	return repository.NewCredentialFile(cfg.Store.Path)
}

func cloudConfig(cfg *config.Config) cloud.Config {
	return cloud.Config{
		AppID:        cfg.Cloud.AppID,
		AppSecret:    cfg.Cloud.AppSecret,
		RedirectURL:  cfg.Cloud.RedirectURL,
		OAuthPageURL: cfg.Cloud.OAuthPageURL,
		BaseURLs:     cfg.Cloud.RegionBaseURLs(),
		Timeout:      cfg.Cloud.Timeout,
		AccessTTL:    cfg.Cloud.AccessTTL,
	}
}

// connectMQTT returns nil when MQTT is disabled or the broker is unreachable;
// device updates then only go to WebSocket clients.
func connectMQTT(cfg *config.Config, log *logger.Logger, cleanup *closers) *mqtt.DevicePublisher {
	if !cfg.MQTT.Enabled {
		return nil
	}
	client, err := mqtt.Connect(mqtt.Config{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		Username:    cfg.MQTT.Username,
		Password:    cfg.MQTT.Password,
		TopicPrefix: cfg.MQTT.TopicPrefix,
		QoS:         byte(cfg.MQTT.QoS),
	})
	if err != nil {
		log.Errorw("mqtt disabled", "broker", cfg.MQTT.Broker, "err", err)
		return nil
	}
	cleanup.add(func() {
		if err := client.Close(); err != nil {
			log.Errorw("failed to close mqtt", "err", err)
		}
	})
	log.Infow("mqtt connected", "broker", cfg.MQTT.Broker)
	return mqtt.NewDevicePublisher(client, log.Named("mqtt"))
}

// openRecorder returns nil when InfluxDB is disabled or unreachable.
func openRecorder(cfg *config.Config, log *logger.Logger, cleanup *closers) *telemetry.Recorder {
	if !cfg.Influx.Enabled {
		return nil
	}
	batch := cfg.Influx.BatchSize
	if batch < 0 {
		batch = 0
	}
	rec, err := telemetry.NewRecorder(telemetry.Config{
		URL:           cfg.Influx.URL,
		Token:         cfg.Influx.Token,
		Org:           cfg.Influx.Org,
		Bucket:        cfg.Influx.Bucket,
		BatchSize:     uint(batch),
		FlushInterval: cfg.Influx.FlushInterval,
	}, log.Named("telemetry"))
	if err != nil {
		log.Errorw("influx disabled", "url", cfg.Influx.URL, "err", err)
		return nil
	}
	cleanup.add(rec.Close)
	log.Infow("influx connected", "url", cfg.Influx.URL, "bucket", cfg.Influx.Bucket)
	return rec
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
