package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	applyChanges bool
	yesConfirm   bool
)

// errResetActive is returned when convergence would refill stores hidden by a soft reset.
var errResetActive = errors.New("a soft reset is active; restore or hard reset first")

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare the registration stores and converge them",
	Long: `Lists every configured store, reports counts, failures and duplicates,
and plans the writes that bring the weaker stores in line with the largest one.
Nothing is written unless --apply is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		return runReconcile(cmd.Context(), rt)
	},
}

func init() {
	RootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().BoolVar(&applyChanges, "apply", false, "Execute the planned convergence writes")
	reconcileCmd.Flags().BoolVarP(&yesConfirm, "yes", "y", false, "Skip the confirmation prompt")
}

func runReconcile(ctx context.Context, rt *runtime) error {
	l := rt.logger

	snapshots := rt.engine.Load(ctx)
	view := reconcile.BuildView(snapshots, models.Key)

	// The in-memory cache belongs to this process and is always empty here.
	var actions []reconcile.Action
	for _, a := range reconcile.Plan(snapshots, models.Key) {
		if a.Target != reconcile.RoleEphemeral {
			actions = append(actions, a)
		}
	}

	printReconcileReport(l, snapshots, view, actions)

	if len(actions) == 0 {
		fmt.Println("\n✓ Stores agree, nothing to do")
		return nil
	}
	if !applyChanges {
		fmt.Println("\nDry run. Re-run with --apply to execute the actions above.")
		return nil
	}

	resetActive, err := rt.local.ResetFlag(ctx)
	if err != nil {
		return fmt.Errorf("failed to read reset flag: %w", err)
	}
	if resetActive {
		return errResetActive
	}

	if !confirmDestructiveAction() {
		fmt.Println("Aborted.")
		return nil
	}

	executed, err := rt.engine.Apply(ctx, snapshots, actions)
	l.Info("Convergence finished", zap.Int("executed", executed), zap.Int("planned", len(actions)))
	if err != nil {
		return fmt.Errorf("convergence incomplete: %w", err)
	}
	return nil
}

// printReconcileReport logs per-store state and the planned actions.
func printReconcileReport(l *zap.Logger, snapshots []reconcile.Snapshot[models.Registration], view reconcile.View[models.Registration], actions []reconcile.Action) {
	for _, snap := range snapshots {
		if snap.Err != nil {
			l.Warn("Store unavailable", zap.String("role", string(snap.Role)), zap.Error(snap.Err))
			continue
		}
		l.Info("Store", zap.String("role", string(snap.Role)), zap.Int("records", len(snap.Records)))
	}

	l.Info("Merged view",
		zap.String("source", string(view.Source)),
		zap.Int("records", len(view.Records)),
		zap.Int("conflicts", view.Conflicts),
	)

	for _, a := range actions {
		l.Info("Planned action",
			zap.String("type", string(a.Type)),
			zap.String("target", string(a.Target)),
			zap.Int("missing", a.Missing),
			zap.Int("count", a.Count),
			zap.String("reason", a.Reason),
		)
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
