package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/deadline-reminder/internal/credential"
	"github.com/nhle/deadline-reminder/internal/dedupe"
	"github.com/nhle/deadline-reminder/internal/dispatch"
	"github.com/nhle/deadline-reminder/internal/email"
	"github.com/nhle/deadline-reminder/internal/httpapi"
	"github.com/nhle/deadline-reminder/internal/model"
	"github.com/nhle/deadline-reminder/internal/scan"
	"github.com/nhle/deadline-reminder/internal/schedule"
	"github.com/nhle/deadline-reminder/internal/store"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", model.DefaultConfigPath(), "path to config yaml")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("opening store")
	}
	defer st.Close()

	smtpCfg := email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		TLS:      cfg.SMTP.TLS,
	}
	if smtpCfg.Password == "" {
		pw, err := credential.Get(credential.SMTPPasswordKey)
		if err != nil {
			log.Warn().Err(err).Msg("no SMTP password in config or keyring")
		} else {
			smtpCfg.Password = pw
		}
	}
	gateway := email.NewSMTPGateway(smtpCfg, cfg.SMTP.RatePerSec,
		log.With().Str("component", "email").Logger())

	disp := dispatch.New(dispatch.Params{
		Tasks:         st,
		Users:         st,
		Notifications: st,
		Mailer:        gateway,
		Deduper:       dedupe.New(st, hours(cfg.Reminder.DedupeWindowHours)),
		Scanner: scan.New(hours(cfg.Reminder.LookaheadHours), cfg.Reminder.MaxIterations,
			log.With().Str("component", "scan").Logger()),
		Log: log.With().Str("component", "dispatch").Logger(),
	})

	runner, err := schedule.New(cfg.Reminder.Schedule, disp.RunDeadlineCheck,
		log.With().Str("component", "schedule").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("configuring schedule")
	}
	runner.Start()

	api := httpapi.New(disp, st, log.With().Str("component", "http").Logger())
	srv := &http.Server{Addr: cfg.HTTP.ListenAddr, Handler: api.Handler()}

	go func() {
		log.Info().Str("addr", cfg.HTTP.ListenAddr).Msg("http listener started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	runner.Stop(shutdownCtx)
	log.Info().Msg("reminderd stopped")
}

// newLogger builds the root console logger at the configured level.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// hours converts a fractional hour count from config into a Duration.
func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
