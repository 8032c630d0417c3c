package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"course-registry/feature/reset"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Inspect or change the registration reset state",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		state, err := rt.coordinator.State(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read reset state: %w", err)
		}
		fmt.Printf("Reset state: %s\n", state)
		return nil
	},
}

var softResetCmd = &cobra.Command{
	Use:   "soft",
	Short: "Hide all registrations, keeping the durable copy for a restore",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset(cmd, true, (*reset.Coordinator).TriggerReset)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Undo a soft reset and write the kept registrations back",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset(cmd, false, (*reset.Coordinator).Restore)
	},
}

var hardResetCmd = &cobra.Command{
	Use:   "hard",
	Short: "Delete every registration from every store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset(cmd, true, (*reset.Coordinator).HardReset)
	},
}

func init() {
	RootCmd.AddCommand(resetCmd)
	resetCmd.AddCommand(softResetCmd, restoreCmd, hardResetCmd)
	resetCmd.PersistentFlags().BoolVarP(&yesConfirm, "yes", "y", false, "Skip the confirmation prompt")
}

type transitionFunc func(*reset.Coordinator, context.Context) (reset.Outcome, error)

func runReset(cmd *cobra.Command, destructive bool, transition transitionFunc) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	if destructive && !confirmDestructiveAction() {
		fmt.Println("Aborted.")
		return nil
	}

	outcome, err := transition(rt.coordinator, cmd.Context())
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}

	rt.logger.Info("Reset transition",
		zap.String("from", string(outcome.From)),
		zap.String("to", string(outcome.To)),
		zap.Bool("noop", outcome.NoOp),
	)

	outcome.Records = nil
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
