package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/mhagen/solarstats/internal/config"
	"github.com/mhagen/solarstats/internal/homeassistant"
	"github.com/mhagen/solarstats/internal/relay"
	"github.com/mhagen/solarstats/internal/sampler"
	"github.com/mhagen/solarstats/internal/scheduler"
)

// Command solarstats relays periodic energy readings into the
// home-automation platform's long-term statistics store.
//
// The daemon:
//   - Registers the statistic catalog on startup
//   - Samples configured entities on a fixed interval
//   - Flushes buffered readings as hourly summaries (default every 60s)
//   - Serves Prometheus metrics
//
// Usage:
//
//	solarstats [flags]
//
// The flags are:
//
//	-config string
//	      path to config file (default "config.yaml")
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	appConfig, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(appConfig.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"base_url":       appConfig.Platform.BaseURL,
		"flush_interval": appConfig.Relay.FlushIntervalSeconds,
	}).Info("Starting statistics relay")

	client := homeassistant.NewClient(homeassistant.ClientConfig{
		BaseURL:        appConfig.Platform.BaseURL,
		Token:          appConfig.Platform.Token,
		Timeout:        time.Duration(appConfig.Platform.TimeoutSeconds) * time.Second,
		RateLimit:      appConfig.Platform.RateLimit,
		RateLimitBurst: appConfig.Platform.RateLimitBurst,
	}, logger)

	r := relay.New(client, logger)
	prometheus.MustRegister(r.Collectors()...)

	// Create a context that will be canceled on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Best-effort: failures are logged and retried on next start
	r.RegisterCatalog(ctx)

	flushInterval := time.Duration(appConfig.Relay.FlushIntervalSeconds) * time.Second
	sched := scheduler.NewScheduler(ctx, r, flushInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	mappings := make([]sampler.Mapping, len(appConfig.Sampling.Sensors))
	for i, s := range appConfig.Sampling.Sensors {
		mappings[i] = sampler.Mapping{
			EntityID:    s.EntityID,
			StatisticID: s.StatisticID,
			Kind:        s.Kind,
		}
	}
	smp := sampler.New(client, r, mappings,
		time.Duration(appConfig.Sampling.IntervalSeconds)*time.Second, logger)
	if err := smp.Start(); err != nil {
		logger.Fatalf("Failed to start sampler: %v", err)
	}

	errChan := make(chan error, 1)

	if appConfig.Metrics.Enabled {
		go func() {
			addr := fmt.Sprintf(":%d", appConfig.Metrics.Port)
			logger.WithFields(logrus.Fields{"addr": addr}).Info("Serving metrics")
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, nil); err != nil {
				errChan <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.WithFields(logrus.Fields{"signal": sig.String()}).Info("Shutting down")
	case err := <-errChan:
		logger.Errorf("Service error: %v", err)
	}

	// Stop sampling first so nothing lands in the queue after the final
	// flush, then drain what remains.
	smp.Stop()
	sched.Stop()
	logger.Info("Relay stopped")
}
