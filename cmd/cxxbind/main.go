package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/cxxbind/cmd/cxxbind/commands"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cxxbind",
	Short: "cxxbind - managed bindings for native C++ libraries",
	Long: `cxxbind - generate managed bindings from a parsed C++ library.

cxxbind reads the AST document a frontend produced for a native library,
applies a transform script (renames, ignores, value types, enums built from
macros), and writes one header and one source file per translation unit.

Available commands:
  generate - Generate bindings (add --watch to regenerate on change)
  check    - Verify committed bindings are up to date
  config   - Show, validate or initialize configuration
  version  - Show version information

Examples:
  cxxbind generate                      # Use ./cxxbind.toml
  cxxbind generate --input ast.yaml -o gen
  cxxbind generate --edit "rename-class widget_t Widget"
  cxxbind check                         # Fail if gen/ is stale`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: commands.InitLogger,
}

func init() {
	commands.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(commands.ExitCode(err))
	}
}
