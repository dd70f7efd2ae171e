// Command registry-server serves the exam attestation registry API over a
// record store selected by URI.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/zkpvault/attestation-registry/common"
	"github.com/zkpvault/attestation-registry/httpserver"
	"github.com/zkpvault/attestation-registry/interfaces"
	"github.com/zkpvault/attestation-registry/registry"
	"github.com/zkpvault/attestation-registry/storage"
)

var flags []cli.Flag = []cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for API",
	},
	&cli.StringFlag{
		Name:  "metrics-addr",
		Value: "127.0.0.1:8090",
		Usage: "address to listen on for Prometheus metrics",
	},
	&cli.StringFlag{
		Name:  "store-uri",
		Value: "memory://",
		Usage: "record store location: memory://, file://, postgres://, s3://, vault:// or ipfs://",
	},
	&cli.StringFlag{
		Name:     "authority",
		Required: true,
		Usage:    "hex account address permitted to register exams",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Value: false,
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Value: false,
		Usage: "log debug messages",
	},
	&cli.BoolFlag{
		Name:  "log-uid",
		Value: false,
		Usage: "generate a uuid and add to all log messages",
	},
	&cli.StringFlag{
		Name:  "log-service",
		Value: "registry-server",
		Usage: "add 'service' tag to logs",
	},
	&cli.BoolFlag{
		Name:  "pprof",
		Value: false,
		Usage: "enable pprof debug endpoint",
	},
	&cli.Int64Flag{
		Name:  "drain-seconds",
		Value: 45,
		Usage: "seconds to wait in drain HTTP request",
	},
}

func main() {
	app := &cli.App{
		Name:   "registry-server",
		Usage:  "Serve the exam attestation registry API",
		Flags:  flags,
		Action: runServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(cCtx *cli.Context) error {
	listenAddr := cCtx.String("listen-addr")
	metricsAddr := cCtx.String("metrics-addr")
	storeURI := cCtx.String("store-uri")
	authorityHex := cCtx.String("authority")
	logJSON := cCtx.Bool("log-json")
	logDebug := cCtx.Bool("log-debug")
	logUID := cCtx.Bool("log-uid")
	logService := cCtx.String("log-service")
	enablePprof := cCtx.Bool("pprof")
	drainDuration := time.Duration(cCtx.Int64("drain-seconds")) * time.Second

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}

	authority, err := interfaces.NewAccountAddressFromHex(authorityHex)
	if err != nil {
		logger.Error("Invalid authority address", "err", err)
		return err
	}

	location, err := interfaces.NewRecordStoreLocation(storeURI)
	if err != nil {
		logger.Error("Invalid store URI", "err", err)
		return err
	}

	storeFactory := storage.NewRecordStoreFactory(logger)
	store, err := storeFactory.RecordStoreFor(location)
	if err != nil {
		logger.Error("Failed to create record store", "err", err)
		return err
	}
	logger.Info("Record store ready", "location", location.String())

	reg := registry.New(authority, store, logger)
	handler := httpserver.NewHandler(reg, httpserver.SystemClock{}, logger)

	cfg := &httpserver.HTTPServerConfig{
		ListenAddr:               listenAddr,
		MetricsAddr:              metricsAddr,
		Log:                      logger,
		EnablePprof:              enablePprof,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}

	server, err := httpserver.New(cfg, handler)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit

	logger.Info("Shutting down")
	server.Shutdown()
	return nil
}
