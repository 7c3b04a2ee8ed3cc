package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/calendon/schedpilot/agent/orchestrator"
	sessionx "github.com/calendon/schedpilot/agent/session"
	toolx "github.com/calendon/schedpilot/agent/tool"
	"github.com/calendon/schedpilot/pkg/calendarapi"
	configx "github.com/calendon/schedpilot/pkg/config"
	"github.com/calendon/schedpilot/pkg/gmailapi"
	"github.com/calendon/schedpilot/pkg/googleauth"
	logx "github.com/calendon/schedpilot/pkg/logger"
	openrouterx "github.com/calendon/schedpilot/pkg/openrouter"
	serverx "github.com/calendon/schedpilot/server"
)

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	chatModel, err := openRouterCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize chat model")
	}

	authCfg := configx.MustNew[googleauth.Config]("GOOGLE")
	auth := googleauth.NewManager(*authCfg)

	mail := gmailapi.NewLazyClient(auth)
	cal := calendarapi.NewLazyClient(auth)

	registry, err := toolx.NewDefaultRegistry(mail, cal, time.Now)
	if err != nil {
		log.Fatal().Err(err).Msg("build tool registry")
	}

	store, err := sessionx.NewStore(func(id string) (*orchestratorx.Session, error) {
		return orchestratorx.NewSession(id, chatModel, registry)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build session store")
	}

	openRouterClient := openrouterx.NewClient(*openRouterCfg)
	if openRouterClient == nil {
		log.Fatal().Msg("build openrouter client")
	}

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	srv := serverx.New(*serverCfg, store, auth, log.Logger,
		serverx.WithLogoutHook(func() {
			mail.Invalidate()
			cal.Invalidate()
		}),
		serverx.WithModelCatalog(func(ctx context.Context) ([]string, error) {
			return openrouterx.ListModels(ctx, openRouterClient)
		}),
	)

	log.Info().
		Str("model", openRouterCfg.Model).
		Int("tools", len(registry.Names())).
		Msg("scheduling assistant starting")

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server exited")
	}
	log.Info().Msg("shutdown complete")
}
