package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	dispatcherx "github.com/touchbase-labs/touchbase/assistant/agents/dispatcher"
	resolverx "github.com/touchbase-labs/touchbase/assistant/agents/resolver"
	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
	rosterx "github.com/touchbase-labs/touchbase/assistant/roster"
	statex "github.com/touchbase-labs/touchbase/assistant/state"
	configx "github.com/touchbase-labs/touchbase/pkg/config"
	_ "github.com/touchbase-labs/touchbase/pkg/logger/autoload"
	openrouterx "github.com/touchbase-labs/touchbase/pkg/openrouter"
	qstashx "github.com/touchbase-labs/touchbase/pkg/qstash"
	serverx "github.com/touchbase-labs/touchbase/server"
)

type AppConfig struct {
	Addr         string `envconfig:"ADDR" default:":8080"`
	PublicURL    string `envconfig:"PUBLIC_URL"`
	HomeLocation string `envconfig:"HOME_LOCATION"`
	ResolverMode string `envconfig:"RESOLVER_MODE" default:"llm"`
	ScheduleCron string `envconfig:"SCHEDULE_CRON" default:"0 9 * * *"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	SQLitePath   string `envconfig:"SQLITE_PATH" default:"touchbase.db"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")
	ctx := context.Background()

	store, err := openStore(ctx, appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open roster store")
	}
	defer store.Close()

	if err := seedLocation(ctx, store, appCfg.HomeLocation); err != nil {
		log.Fatal().Err(err).Msg("seed my_location")
	}

	sessions := statex.NewCellStore(store)

	resolver, err := buildResolver(ctx, appCfg.ResolverMode)
	if err != nil {
		log.Fatal().Err(err).Msg("build resolver")
	}

	assistant, err := dispatcherx.New(store, sessions, resolver)
	if err != nil {
		log.Fatal().Err(err).Msg("build dispatcher")
	}

	ensureSchedule(ctx, appCfg)

	srv := serverx.New(assistant)
	go func() {
		log.Info().Str("addr", appCfg.Addr).Msg("listening")
		if err := srv.Start(appCfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func openStore(ctx context.Context, cfg *AppConfig) (rosterx.Store, error) {
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		return rosterx.NewPostgresStore(ctx, dsn)
	}
	return rosterx.NewSQLiteStore(cfg.SQLitePath)
}

// seedLocation writes my_location on first boot when HOME_LOCATION is
// set. An existing cell always wins.
func seedLocation(ctx context.Context, store rosterx.Store, home string) error {
	_, err := store.Scalar(ctx, rosterx.CellMyLocation)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, rosterx.ErrCellNotFound):
		return err
	}

	home = strings.TrimSpace(home)
	if home == "" {
		log.Warn().Msg("my_location is not set; suggestions will fail until it is")
		return nil
	}
	return store.SetScalars(ctx, map[rosterx.Cell]string{rosterx.CellMyLocation: home})
}

func buildResolver(ctx context.Context, mode string) (contractx.Resolver, error) {
	var llmCfg openrouterx.Config
	if strings.TrimSpace(mode) != resolverx.ModeRules {
		llmCfg = *configx.MustNew[openrouterx.Config]("OPENROUTER")
		preflight(ctx, llmCfg)
	}
	return resolverx.New(ctx, mode, llmCfg)
}

// preflight checks the configured model is served. Failures only warn;
// the server boots anyway and the first reply surfaces the real error.
func preflight(ctx context.Context, cfg openrouterx.Config) {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := openrouterx.Preflight(pctx, client, cfg.Model); err != nil {
		log.Warn().Err(err).Str("model", cfg.Model).Msg("model preflight failed")
	}
}

// ensureSchedule registers the daily cron with QStash when a public URL
// and token are configured. Best effort: a failure is logged and the
// server still boots, since /daily-suggestion can always be hit by hand.
func ensureSchedule(ctx context.Context, cfg *AppConfig) {
	publicURL := strings.TrimSpace(cfg.PublicURL)
	if publicURL == "" {
		log.Info().Msg("no public url configured; skipping qstash schedule")
		return
	}

	qstashCfg, err := configx.New[qstashx.Config]("QSTASH")
	if err != nil {
		log.Warn().Err(err).Msg("qstash config unavailable; skipping schedule")
		return
	}
	if strings.TrimSpace(qstashCfg.Token) == "" {
		log.Info().Msg("no qstash token configured; skipping schedule")
		return
	}

	client, err := qstashx.NewClient(*qstashCfg)
	if err != nil {
		log.Warn().Err(err).Msg("qstash client unavailable; skipping schedule")
		return
	}

	destination := strings.TrimRight(publicURL, "/") + "/daily-suggestion"
	sched, err := client.EnsureSchedule(ctx, destination, cfg.ScheduleCron)
	if err != nil {
		log.Warn().Err(err).Msg("could not register daily schedule")
		return
	}
	log.Info().Str("schedule_id", sched.ID).Str("cron", sched.Cron).Msg("daily schedule registered")
}
