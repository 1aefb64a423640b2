package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/internal/app/service/planpolicy"
	"github.com/fatflowers/courseshop/internal/app/service/subscription"
	"github.com/fatflowers/courseshop/internal/models"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Create user plans for every verified payment that has none",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithServices(cmd, func(ctx context.Context, s *services) error {
			res, err := s.Reconciler.ReconcileVerified(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Summary())
			for _, f := range res.Failed {
				fmt.Fprintf(out, "  failed payment=%s transaction=%s: %s\n", f.PaymentID, f.TransactionID, f.Error)
			}
			if len(res.Failed) > 0 {
				return fmt.Errorf("%d payments failed", len(res.Failed))
			}
			return nil
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <payment-id>",
	Short: "Create the user plan for one verified payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithServices(cmd, func(ctx context.Context, s *services) error {
			plan, err := s.Reconciler.ReconcileByPaymentID(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), plan)
		})
	},
}

var (
	verifyPlanName string
	verifyAmount   string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <plan-id>",
	Short: "Verify a pending plan and restart its window now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var amount *float64
		if verifyAmount != "" {
			if amount = planpolicy.ParseAmount(verifyAmount); amount == nil {
				return fmt.Errorf("invalid amount %q", verifyAmount)
			}
		}
		return runPlanAction(cmd, func(ctx context.Context, s *services) (*models.UserPlan, error) {
			return s.PlanAdmin.Verify(ctx, args[0], verifyPlanName, amount)
		})
	},
}

var extendCmd = &cobra.Command{
	Use:   "extend <plan-id> <YYYY-MM-DD|RFC3339>",
	Short: "Overwrite the expiry date of a plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlanAction(cmd, func(ctx context.Context, s *services) (*models.UserPlan, error) {
			expiry, err := parseExpiry(args[1], s.Cfg.Location())
			if err != nil {
				return nil, err
			}
			return s.PlanAdmin.Extend(ctx, args[0], expiry)
		})
	},
}

var changeCmd = &cobra.Command{
	Use:   "change <plan-id> <plan-name>",
	Short: "Switch a plan to another plan name and recompute its expiry",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args[1:], " ")
		return runPlanAction(cmd, func(ctx context.Context, s *services) (*models.UserPlan, error) {
			return s.PlanAdmin.Change(ctx, args[0], name)
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <plan-id>",
	Short: "Cancel a pending or verified plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlanAction(cmd, func(ctx context.Context, s *services) (*models.UserPlan, error) {
			return s.PlanAdmin.Cancel(ctx, args[0])
		})
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <token>",
	Short: "Show the subscription a client token grants (signature not checked)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := subscription.NewResolverWithDecoder(subscription.UnverifiedDecoder{}, zap.NewNop().Sugar())
		return printJSON(cmd.OutOrStdout(), r.Resolve(cmd.Context(), args[0], time.Now()))
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyPlanName, "plan-name", "", "replace the stored plan name")
	verifyCmd.Flags().StringVar(&verifyAmount, "amount", "", "paid amount, used to tell monthly from yearly premium")
}

func runPlanAction(cmd *cobra.Command, fn func(ctx context.Context, s *services) (*models.UserPlan, error)) error {
	return runWithServices(cmd, func(ctx context.Context, s *services) error {
		plan, err := fn(ctx, s)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), plan)
	})
}

// parseExpiry accepts a date, read as end of that day in loc, or an RFC3339
// timestamp.
func parseExpiry(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t.AddDate(0, 0, 1).Add(-time.Second), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q: want YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
