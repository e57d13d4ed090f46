package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"formulastats/pkg/apps"
	"formulastats/pkg/apps/mainapp"
	"formulastats/pkg/notification"
	"formulastats/pkg/pubsub"
	"formulastats/pkg/scheduler"
	"formulastats/pkg/settings"
	"formulastats/pkg/webserver"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// startScheduler runs the roster refresh job until ctx is done.
func (s *services) startScheduler(ctx context.Context, g *errgroup.Group) error {
	sched, err := scheduler.New(s.cfg.ScrapeCron, s.cache, s.cfg.RosterCategories(), s.logger)
	if err != nil {
		return err
	}
	sched.Start()
	s.logger.Info("next roster refresh", "at", sched.Next())
	g.Go(func() error {
		<-ctx.Done()
		sched.Stop()
		return nil
	})
	return nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var debugRoutes bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard and refresh driver rosters on schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.services(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd)
			defer stop()
			defer s.events.Close()

			g, gctx := errgroup.WithContext(ctx)
			if err := s.startScheduler(gctx, g); err != nil {
				return err
			}
			m := webserver.NewManager(s.svc, s.cfg.WebConfig(), s.logger)
			if debugRoutes {
				m.Debug()
			}
			g.Go(func() error { return m.Serve(gctx) })
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&debugRoutes, "debug-routes", false, "log every registered route")
	return cmd
}

func newBotCmd(opts *rootOptions) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot with roster notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.services(cmd)
			if err != nil {
				return err
			}
			if s.cfg.TelegramToken == "" {
				return errors.New("TELEGRAM_TOKEN is not set")
			}
			api, err := tgbotapi.NewBotAPI(s.cfg.TelegramToken)
			if err != nil {
				return errors.Wrap(err, "connect to telegram")
			}
			api.Debug = debug

			sm, err := settings.NewManager(s.cfg.DBPath, s.logger)
			if err != nil {
				return err
			}
			defer sm.Close()

			ctx, stop := signalContext(cmd)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			if err := s.startScheduler(gctx, g); err != nil {
				return err
			}

			refreshed := s.events.Subscribe(pubsub.TopicRosterRefreshed)
			notifier := notification.NewManager(api, sm, s.logger)
			g.Go(func() error {
				notifier.Start(gctx, refreshed)
				return nil
			})

			u := tgbotapi.NewUpdate(0)
			u.Timeout = 60
			updates := api.GetUpdatesChan(u)
			bot := apps.NewBot(api, mainapp.NewMainApp(api, s.svc, sm, s.logger), s.logger)
			s.logger.Info("start listening for updates", "bot", api.Self.UserName)
			g.Go(func() error {
				bot.Run(gctx, updates)
				api.StopReceivingUpdates()
				s.events.Close()
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "log every interaction with the Telegram servers")
	return cmd
}
