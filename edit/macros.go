package edit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// Warning records a best-effort degradation during the pre-pass
type Warning struct {
	Unit       string
	Macro      string
	Expression string
	Message    string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: macro %s = %q: %s", w.Unit, w.Macro, w.Expression, w.Message)
}

// macroPattern is one user pattern with the literal prefix stripped from item names
type macroPattern struct {
	re     *regexp.Regexp
	prefix string
}

// GenerateEnumFromMacros builds an enum named name from the macros whose
// names match any of patterns.
//
// Units are scanned in library order. The first unit with at least one
// matching macro receives the enum and scanning stops there. Item names drop
// the literal prefix of the pattern that matched (FOO_A under "FOO_.*" is
// A). Values are parsed as hexadecimal after a 0x prefix, decimal otherwise;
// anything else becomes 0 and is recorded as a Warning.
//
// Returns nil when no unit has a match. If an enum named name already
// exists and is not ignored it is returned unchanged.
func (e *Editor) GenerateEnumFromMacros(name string, patterns ...string) (*ast.Enumeration, error) {
	e.mustBeEditable()
	if len(patterns) == 0 {
		return nil, errors.Newf("edit: enum %s: no macro patterns", name)
	}

	alternation, err := compile(strings.Join(patterns, "|"))
	if err != nil {
		return nil, err
	}
	parts := make([]macroPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := compile(p)
		if err != nil {
			return nil, err
		}
		prefix, _ := re.LiteralPrefix()
		parts = append(parts, macroPattern{re: re, prefix: prefix})
	}

	if existing := e.findLiveEnum(name); existing != nil {
		e.log.Debugw("Enum already exists, not synthesizing",
			logger.FieldDecl, name,
			logger.FieldUnit, unitPath(existing.Unit))
		return existing, nil
	}

	enum := ast.NewEnumeration(name)
	for _, unit := range e.lib.Units {
		for _, macro := range unit.Macros {
			if !alternation.MatchString(macro.Name) {
				continue
			}
			enum.AddItem(ast.EnumItem{
				Name:       itemName(macro.Name, parts),
				Expression: macro.Expression,
				Value:      e.parseMacroValue(unit, macro),
			})
		}

		if len(enum.Items) > 0 {
			unit.AddEnum(enum)
			e.log.Infow("Synthesized enum from macros",
				logger.FieldDecl, name,
				logger.FieldUnit, unit.FilePath,
				logger.FieldCount, len(enum.Items))
			return enum, nil
		}
	}

	e.log.Debugw("No macros matched, enum not synthesized",
		logger.FieldDecl, name,
		logger.FieldPattern, alternation.String())
	return nil, nil
}

// findLiveEnum returns the first enum named name that is not ignored
func (e *Editor) findLiveEnum(name string) *ast.Enumeration {
	for _, unit := range e.lib.Units {
		for _, en := range unit.Enums {
			if en.Name == name && !en.IsIgnored() {
				return en
			}
		}
	}
	return nil
}

// itemName strips the literal prefix of the first pattern that matches macro.
// The full macro name is kept when the rest would not be an identifier.
func itemName(macro string, parts []macroPattern) string {
	for _, p := range parts {
		if !p.re.MatchString(macro) {
			continue
		}
		if p.prefix != "" && strings.HasPrefix(macro, p.prefix) && isIdentStart(macro[len(p.prefix):]) {
			return macro[len(p.prefix):]
		}
		return macro
	}
	return macro
}

func isIdentStart(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (e *Editor) parseMacroValue(unit *ast.TranslationUnit, macro *ast.MacroDefinition) int64 {
	val, err := ParseMacroExpression(macro.Expression)
	if err == nil {
		return val
	}

	w := Warning{
		Unit:       unit.FilePath,
		Macro:      macro.Name,
		Expression: macro.Expression,
		Message:    "not a numeric literal, using 0",
	}
	e.warnings = append(e.warnings, w)
	e.log.Warnw("Macro value degraded to 0",
		logger.FieldMacro, macro.Name,
		logger.FieldUnit, unit.FilePath,
		logger.FieldReason, err.Error())
	return 0
}

// ParseMacroExpression parses a macro's literal replacement text as a number:
// hexadecimal after a 0x or 0X prefix, decimal otherwise. Hex literals are
// unsigned 64-bit and wrap to their two's-complement value (0xFFFFFFFFFFFFFFFF
// is -1). Symbolic expressions are not evaluated.
func ParseMacroExpression(expr string) (int64, error) {
	s := strings.TrimSpace(expr)
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "hex literal %q", expr)
		}
		return int64(v), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "decimal literal %q", expr)
	}
	return v, nil
}

func unitPath(u *ast.TranslationUnit) string {
	if u == nil {
		return ""
	}
	return u.FilePath
}
