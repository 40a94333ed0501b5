package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/cxxbind/config"
	"github.com/teranos/cxxbind/logger"
	"github.com/teranos/cxxbind/progress"
	"github.com/teranos/cxxbind/runner"
	"github.com/teranos/cxxbind/watch"
)

var (
	genFlags  generationFlags
	watchMode bool
)

// GenerateCmd generates bindings
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate bindings",
	Long: `Generate one header and one source file per translation unit.

Units that are ignored, empty or system headers are skipped. Declarations
that cannot be translated are reported and left out; the rest of the unit
is still generated.

With --watch, the AST document, the transform script and the project config
are watched and the whole run repeats after every change.`,
	Example: `  cxxbind generate
  cxxbind generate -i build/ast.yaml -o gen -s bind.toml
  cxxbind generate -e "value-type Point" -e "ignore-unit '^internal/'"
  cxxbind generate --watch`,
	RunE: runGenerate,
}

func init() {
	genFlags.register(GenerateCmd)
	GenerateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Regenerate whenever an input changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := genFlags.loadConfig(cmd)
	if err != nil {
		return err
	}
	emitter := newEmitter(cmd)

	_, runErr := runner.Run(cfg, cfg.OutputDir(), emitter)
	if !watchMode {
		return runErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndRegenerate(ctx, cmd, cfg, emitter)
}

func watchAndRegenerate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, emitter progress.Emitter) error {
	files := []string{cfg.InputPath()}
	if p := cfg.ScriptPath(); p != "" {
		files = append(files, p)
	}
	if cfg.File != "" {
		files = append(files, cfg.File)
	}

	w, err := watch.New(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, files...)
	if err != nil {
		return err
	}
	w.OnChange(func(path string) error {
		emitter.EmitInfo("Change detected in " + path)
		// Reload so edits to cxxbind.toml take effect
		fresh, err := genFlags.loadConfig(cmd)
		if err != nil {
			emitter.EmitError("config", err)
			return err
		}
		_, err = runner.Run(fresh, fresh.OutputDir(), emitter)
		return err
	})
	w.Start()
	defer w.Stop()

	emitter.EmitInfo("Watching for changes (Ctrl+C to stop)")
	logger.Infow("Watching inputs", logger.FieldCount, len(files))
	<-ctx.Done()
	return nil
}
