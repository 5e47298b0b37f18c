package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the liveness heartbeat until interrupted",
		Long: `Sends the periodic "still here" signal while a session is cached.
SIGUSR1 marks the terminal hidden (heartbeat suspends), SIGUSR2 marks
it visible again. Interrupt to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if !a.oracle.IsAuthenticated() {
				return errors.New("no authenticated session; run login first")
			}

			controller := a.heartbeatController()
			controller.Start(ctx)
			defer controller.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Heartbeat running every %s\n", a.cfg.Heartbeat.Interval)

			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return watchVisibility(ctx, a, controller)
			})
			return group.Wait()
		},
	}
}

// visibilityController is what the signal watcher drives.
type visibilityController interface {
	SetVisible(ctx context.Context, visible bool)
}

func watchVisibility(ctx context.Context, a *app, controller visibilityController) error {
	hidden := make(chan os.Signal, 1)
	visible := make(chan os.Signal, 1)
	signal.Notify(hidden, syscall.SIGUSR1)
	signal.Notify(visible, syscall.SIGUSR2)
	defer signal.Stop(hidden)
	defer signal.Stop(visible)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hidden:
			a.logger.Info("terminal hidden, heartbeat suspended")
			controller.SetVisible(ctx, false)
		case <-visible:
			a.logger.Info("terminal visible, heartbeat resumed")
			controller.SetVisible(ctx, true)
		}
	}
}
