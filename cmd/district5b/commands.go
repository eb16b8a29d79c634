package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/database"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/scheduler"
)

var rootCmd = &cobra.Command{
	Use:   "district5b",
	Short: "District 5B community site API",
	Long: `district5b serves the District 5B community site: blog, events, FAQs,
resources, roster, the meetings feed and the admin API behind them.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and flush the content cache",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush [entity]",
	Short: "Flush the whole content cache or one entity (story, event, faq, ...)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCacheFlush(cmd.Context(), args)
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage site settings",
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default settings row if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		env.SetupEnvFile()
		if err := database.SetupDatabase(); err != nil {
			return err
		}
		if err := database.EnsureSettings(database.GetDB()); err != nil {
			return err
		}
		fmt.Println("Settings are in place.")
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cacheCmd.AddCommand(cacheFlushCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(serveCmd, cacheCmd, settingsCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := NewServices(ctx)
	if err != nil {
		return err
	}
	app := NewApplication(svc)

	if env.GetEnvBool("CRON_ENABLED", true) {
		var warmer scheduler.MeetingWarmer
		if svc.Meetings.Enabled() {
			warmer = svc.Meetings
		}
		jobs := scheduler.NewManager(svc.Stories, warmer, nil)
		if err := jobs.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer jobs.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("[App] shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func runCacheFlush(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := NewServices(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if err := svc.Cache.Flush(ctx); err != nil {
			return err
		}
		fmt.Println("Content cache flushed.")
		return nil
	}

	removed, err := svc.Cache.FlushEntity(ctx, content.Entity(args[0]))
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return errors.New(appErr.Message)
		}
		return err
	}
	fmt.Printf("Removed %d cached %s key(s).\n", removed, args[0])
	return nil
}
