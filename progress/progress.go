// Package progress reports generation progress to the operator.
//
// Implementations include:
//   - CLIEmitter: pretty-printed terminal output using pterm
//   - JSONEmitter: one JSON event per line for editors and CI
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/cxxbind/logger"
)

// Emitter receives operator-facing events from the pipeline and the CLI
type Emitter interface {
	// EmitStage announces a phase of the run (load, transform, generate...)
	EmitStage(stage string, message string)

	// EmitGenerated reports one written artifact file
	EmitGenerated(file string)

	// EmitSkipped reports a declaration dropped because of an unsupported construct
	EmitSkipped(unit, decl string, err error)

	// EmitWarning reports a best-effort degradation
	EmitWarning(message string)

	// EmitComplete prints the run summary
	EmitComplete(summary map[string]interface{})

	// EmitError reports a failure in stage
	EmitError(stage string, err error)

	// EmitInfo prints an informational message
	EmitInfo(message string)
}

// GeneratedLine is the operator report line for one written file
func GeneratedLine(file string) string {
	return fmt.Sprintf("  Generated '%s'.", file)
}

// Event is a structured JSON progress event
type Event struct {
	Type      string                 `json:"type"`      // "stage", "generated", "skipped", "warning", "complete", "error", "info"
	Timestamp time.Time              `json:"timestamp"` // When this event occurred
	Data      map[string]interface{} `json:"data"`      // Event-specific data
}

// CLIEmitter outputs pretty-printed progress to a terminal using pterm
type CLIEmitter struct {
	verbosity int
	out       io.Writer
}

// NewCLIEmitter creates a CLI progress emitter writing to stdout
func NewCLIEmitter(verbosity int) *CLIEmitter {
	return NewCLIEmitterTo(os.Stdout, verbosity)
}

// NewCLIEmitterTo creates a CLI progress emitter writing to w
func NewCLIEmitterTo(w io.Writer, verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity, out: w}
}

// EmitStage prints a stage announcement
func (e *CLIEmitter) EmitStage(stage string, message string) {
	if logger.ShouldOutput(e.verbosity, logger.OutputUnitProgress) {
		pterm.Fprintln(e.out, pterm.Sprintf("%s: %s", pterm.LightCyan(stage), message))
	}
}

// EmitGenerated prints the generated-file line. It is always shown.
func (e *CLIEmitter) EmitGenerated(file string) {
	pterm.Fprintln(e.out, GeneratedLine(file))
}

// EmitSkipped prints a skipped declaration
func (e *CLIEmitter) EmitSkipped(unit, decl string, err error) {
	pterm.Warning.WithWriter(e.out).Printfln("Skipped %s in %s: %v", decl, unit, err)
}

// EmitWarning prints a degradation warning
func (e *CLIEmitter) EmitWarning(message string) {
	if logger.ShouldOutput(e.verbosity, logger.OutputMacroWarnings) {
		pterm.Warning.WithWriter(e.out).Println(message)
	}
}

// EmitComplete prints the completion summary
func (e *CLIEmitter) EmitComplete(summary map[string]interface{}) {
	pterm.Success.WithWriter(e.out).Println("Generation complete")
	if logger.ShouldOutput(e.verbosity, logger.OutputUnitProgress) {
		for key, value := range summary {
			pterm.Fprintln(e.out, pterm.Sprintf("  %s: %v", key, value))
		}
	}
}

// EmitError prints an error
func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Error.WithWriter(e.out).Printfln("Error in %s: %v", stage, err)
}

// EmitInfo prints an informational message
func (e *CLIEmitter) EmitInfo(message string) {
	if logger.ShouldOutput(e.verbosity, logger.OutputUnitProgress) {
		pterm.Info.WithWriter(e.out).Println(message)
	}
}

// JSONEmitter writes one JSON event per line
type JSONEmitter struct {
	encoder *json.Encoder
	now     func() time.Time
}

// NewJSONEmitter creates a JSON progress emitter writing to w
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{
		encoder: json.NewEncoder(w),
		now:     time.Now,
	}
}

func (e *JSONEmitter) emit(kind string, data map[string]interface{}) {
	e.encoder.Encode(Event{Type: kind, Timestamp: e.now(), Data: data})
}

// EmitStage emits a stage event
func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{
		"stage":   stage,
		"message": message,
	})
}

// EmitGenerated emits a generated-file event
func (e *JSONEmitter) EmitGenerated(file string) {
	e.emit("generated", map[string]interface{}{
		"file": file,
	})
}

// EmitSkipped emits a skipped-declaration event
func (e *JSONEmitter) EmitSkipped(unit, decl string, err error) {
	e.emit("skipped", map[string]interface{}{
		"unit":  unit,
		"decl":  decl,
		"error": err.Error(),
	})
}

// EmitWarning emits a warning event
func (e *JSONEmitter) EmitWarning(message string) {
	e.emit("warning", map[string]interface{}{
		"message": message,
	})
}

// EmitComplete emits a completion event
func (e *JSONEmitter) EmitComplete(summary map[string]interface{}) {
	e.emit("complete", summary)
}

// EmitError emits an error event
func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}

// EmitInfo emits an info event
func (e *JSONEmitter) EmitInfo(message string) {
	e.emit("info", map[string]interface{}{
		"message": message,
	})
}

// Discard is an Emitter that drops every event
type Discard struct{}

func (Discard) EmitStage(string, string)            {}
func (Discard) EmitGenerated(string)                {}
func (Discard) EmitSkipped(string, string, error)   {}
func (Discard) EmitWarning(string)                  {}
func (Discard) EmitComplete(map[string]interface{}) {}
func (Discard) EmitError(string, error)             {}
func (Discard) EmitInfo(string)                     {}
