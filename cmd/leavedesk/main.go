package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/aussiebroadwan/leavedesk/internal/client/app"
)

func main() {
	ping := flag.Bool("ping", false, "check that the backend is reachable and exit")
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *ping); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run(ctx context.Context, cfg app.Config, ping bool) (err error) {
	if !ping && (!term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd()))) {
		return errors.New("leavedesk needs an interactive terminal; use -ping for a non-interactive check")
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		err = errors.Join(err, application.Close())
	}()

	if ping {
		health, err := application.Client().GetLiveness(ctx)
		if err != nil {
			return fmt.Errorf("backend unreachable: %w", err)
		}
		fmt.Printf("%s is %s (version %s, up %s)\n", cfg.APIURL, health.Status, health.Version, health.Uptime)
		return nil
	}

	return application.Run(ctx, tea.WithAltScreen())
}
