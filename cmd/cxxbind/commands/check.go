package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/progress"
	"github.com/teranos/cxxbind/runner"
)

var checkFlags generationFlags

// CheckCmd verifies committed bindings
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify committed bindings are up to date",
	Long: `Generate into a scratch directory and compare with the output directory.

Source version lines are ignored, so a new commit of the input alone does
not make the bindings stale. Exits with status 2 when files differ or are
missing.`,
	RunE: runCheck,
}

func init() {
	checkFlags.register(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := checkFlags.loadConfig(cmd)
	if err != nil {
		return err
	}

	var emitter progress.Emitter = progress.Discard{}
	if jsonOutput {
		emitter = newEmitter(cmd)
	}
	result, err := runner.Check(cfg, emitter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.UpToDate {
		pterm.Success.WithWriter(out).Printfln("Bindings in %s are up to date", cfg.OutputDir())
		return nil
	}
	for _, f := range result.Differences {
		pterm.Fprintln(out, "  changed: "+f)
	}
	for _, f := range result.Missing {
		pterm.Fprintln(out, "  missing: "+f)
	}
	return errors.WithHint(errors.Mark(
		errors.Newf("%d changed, %d missing in %s", len(result.Differences), len(result.Missing), cfg.OutputDir()),
		ErrStale), "run cxxbind generate and commit the result")
}
