package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.hon.one/radiocross/common"
	"dev.hon.one/radiocross/core"
	"dev.hon.one/radiocross/db"
	"dev.hon.one/radiocross/http"
	"dev.hon.one/radiocross/util"
)

func main() {
	log.Infof("Starting %v version %v by %v", common.AppName, common.AppVersion, common.AppAuthor)

	// Parse CLI args (may exit)
	debug := false
	once := false
	configPath := ""
	flag.BoolVar(&debug, "debug", debug, "Show debug messages.")
	flag.BoolVar(&once, "once", once, "Run the report once and exit.")
	flag.StringVar(&configPath, "config", configPath, "Config file path.")
	flag.Parse()
	if debug {
		log.SetLevel(log.TraceLevel)
		log.Info("Debug mode enabled")
	}

	// Load config
	if !common.LoadConfig(configPath) {
		os.Exit(1)
	}

	// Load env file, credential and endpoints (not needed for captured dumps)
	if !common.LoadEnv(common.GlobalConfig.EnvPath) {
		os.Exit(1)
	}
	if common.GlobalConfig.InputPath == "" && (!common.LoadCredential() || !common.LoadEndpoints()) {
		os.Exit(1)
	}

	pipeline := core.NewPipeline()

	if once {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		if _, err := pipeline.Run(ctx); err != nil {
			cancel()
			os.Exit(1)
		}
		return
	}

	// Setup internal shutdown mechanism
	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
	shutdown := util.NewShutdownChannelDistributor(shutdownChannel)

	// Run internal services in background and wait for all to finish
	var waitGroup sync.WaitGroup
	http.StartServer(&waitGroup, shutdown)
	db.StartClient(&waitGroup, shutdown)
	interval := time.Duration(common.GlobalConfig.RunIntervalSeconds * float64(time.Second))
	core.StartRunner(&waitGroup, shutdown, pipeline, interval)

	// Wait for internal services to finish
	waitGroup.Wait()
}
