package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/internal/app"
	"github.com/fatflowers/courseshop/internal/app/service/planadmin"
	"github.com/fatflowers/courseshop/internal/app/service/reconcile"
	"github.com/fatflowers/courseshop/pkg/config"
	"github.com/fatflowers/courseshop/pkg/logctx"
)

var operator string

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "User plan maintenance",
	Long: `planctl reconciles verified payments into user plans and applies
operator actions (verify, extend, change, cancel) to existing plans.

Configuration is read the same way as the API server (config.yaml, .env,
APP_* environment variables).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&operator, "operator", "", "operator identity recorded in plan change logs")
	rootCmd.AddCommand(backfillCmd, reconcileCmd, verifyCmd, extendCmd, changeCmd, cancelCmd, decodeCmd)
}

// services is the slice of the fx graph the commands use.
type services struct {
	Cfg        *config.Config
	Log        *zap.SugaredLogger
	Reconciler *reconcile.Service
	PlanAdmin  *planadmin.Service
}

// runWithServices starts the service graph without the HTTP server, runs fn
// and stops the graph again.
func runWithServices(cmd *cobra.Command, fn func(ctx context.Context, s *services) error) error {
	var s services
	a := fx.New(
		app.Services,
		fx.NopLogger,
		fx.Populate(&s.Cfg, &s.Log, &s.Reconciler, &s.PlanAdmin),
	)
	if err := a.Err(); err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	startCtx, cancel := context.WithTimeout(cmd.Context(), app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
		defer cancel()
		if err := a.Stop(stopCtx); err != nil {
			s.Log.Warnw("failed to stop services", "error", err)
		}
	}()

	ctx := cmd.Context()
	if operator != "" {
		ctx = context.WithValue(ctx, logctx.KeyOperator, operator)
	}
	return fn(ctx, &s)
}
