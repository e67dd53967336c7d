package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"callminder/internal/api"
	"callminder/internal/config"
	"callminder/internal/notify"
	"callminder/internal/poller"
	"callminder/internal/store"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg.LogLevel)

	taskStore, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("store init failed")
	}

	notifier, err := notify.NewTwilio(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioCallerNumber,
		cfg.AppBaseURL,
		cfg.VoiceWebhookSecret,
	)
	if err != nil {
		log.WithError(err).Fatal("twilio init failed")
	}

	interval := time.Duration(cfg.CheckIntervalSeconds) * time.Second
	duePoller := poller.New(taskStore, notifier, cfg.Timezone, interval, log)
	if err := duePoller.Start(); err != nil {
		log.WithError(err).Fatal("poller start failed")
	}

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: api.NewServer(cfg, taskStore, log).Router(),
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	waitForShutdown(server, duePoller, log)
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func waitForShutdown(server *http.Server, duePoller *poller.Poller, log *logrus.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	duePoller.Stop()
}
