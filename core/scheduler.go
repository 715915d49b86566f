package core

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.hon.one/radiocross/util"
)

// StartRunner - Run the pipeline immediately and then on every interval in background.
// A non-positive interval runs only once.
func StartRunner(waitGroup *sync.WaitGroup, shutdown *util.ShutdownChannelDistributor, pipeline *Pipeline, interval time.Duration) {
	// Setup shutdown signal and waitgroup
	shutdownChannel := make(chan bool, 1)
	if !shutdown.AddListener(shutdownChannel) {
		return
	}
	waitGroup.Add(1)

	// Cancel a running run on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-shutdownChannel
		cancel()
	}()

	go func() {
		defer waitGroup.Done()
		defer log.Info("Runner stopped")
		defer cancel()

		// Run immediately
		pipeline.Run(ctx)
		if interval <= 0 {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pipeline.Run(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.WithFields(log.Fields{
		"interval": interval,
	}).Info("Runner started")
}
