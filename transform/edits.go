package transform

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/cxxbind/edit"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// Edit is one editor operation with its arguments. Source says where it came
// from, e.g. "script.toml:rename_class" or "--edit".
type Edit struct {
	Op     string
	Args   []string
	Source string
}

func (e Edit) String() string {
	return e.Op + " " + shellquote.Join(e.Args...)
}

type operation struct {
	usage string
	// min and max argument counts; max < 0 means unbounded
	min, max int
	apply    func(e *edit.Editor, args []string) error
}

var operations = map[string]operation{
	"ignore-unit": {"ignore-unit PATTERN", 1, 1, func(e *edit.Editor, a []string) error {
		n, err := e.IgnoreTranslationUnitsMatching(a[0])
		if err == nil && n == 0 {
			logger.Debugw("No translation unit matched", logger.FieldPattern, a[0])
		}
		return err
	}},
	"ignore-class": {"ignore-class NAME", 1, 1, func(e *edit.Editor, a []string) error {
		e.IgnoreClassWithName(a[0])
		return nil
	}},
	"ignore-function": {"ignore-function NAME", 1, 1, func(e *edit.Editor, a []string) error {
		e.IgnoreFunctionWithName(a[0])
		return nil
	}},
	"ignore-enum": {"ignore-enum NAME", 1, 1, func(e *edit.Editor, a []string) error {
		e.IgnoreEnumWithName(a[0])
		return nil
	}},
	"ignore-enum-with-item": {"ignore-enum-with-item PATTERN", 1, 1, func(e *edit.Editor, a []string) error {
		return e.IgnoreEnumWithMatchingItem(a[0])
	}},
	"ignore-method": {"ignore-method CLASS METHOD", 2, 2, func(e *edit.Editor, a []string) error {
		e.IgnoreClassMethodWithName(a[0], a[1])
		return nil
	}},
	"rename-class": {"rename-class FROM TO", 2, 2, func(e *edit.Editor, a []string) error {
		e.SetClassBindName(a[0], a[1])
		return nil
	}},
	"rename-enum": {"rename-enum FROM TO", 2, 2, func(e *edit.Editor, a []string) error {
		e.SetNameOfEnumWithName(a[0], a[1])
		return nil
	}},
	"rename-enum-with-item": {"rename-enum-with-item PATTERN TO", 2, 2, func(e *edit.Editor, a []string) error {
		return e.SetNameOfEnumWithMatchingItem(a[0], a[1])
	}},
	"value-type": {"value-type NAME", 1, 1, func(e *edit.Editor, a []string) error {
		e.SetClassAsValueType(a[0])
		return nil
	}},
	"enum-from-macros": {"enum-from-macros NAME PATTERN...", 2, -1, func(e *edit.Editor, a []string) error {
		enum, err := e.GenerateEnumFromMacros(a[0], a[1:]...)
		if err == nil && enum == nil {
			logger.Infow("No macros matched", logger.FieldDecl, a[0], logger.FieldPattern, strings.Join(a[1:], "|"))
		}
		return err
	}},
}

// Operations lists the usage line of every supported edit, sorted
func Operations() []string {
	out := make([]string, 0, len(operations))
	for _, op := range operations {
		out = append(out, op.usage)
	}
	sort.Strings(out)
	return out
}

// ParseEdit parses a one-line edit such as `rename-class "foo_t" Foo`.
// Arguments are split the way a POSIX shell would.
func ParseEdit(line string) (Edit, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return Edit{}, errors.Wrapf(err, "failed to parse edit %q", line)
	}
	if len(words) == 0 {
		return Edit{}, errors.New("empty edit")
	}
	ed := Edit{Op: words[0], Args: words[1:], Source: "--edit"}
	if err := ed.validate(); err != nil {
		return Edit{}, err
	}
	return ed, nil
}

func (e Edit) validate() error {
	op, ok := operations[e.Op]
	if !ok {
		return errors.WithHintf(errors.Newf("unknown edit %q", e.Op),
			"supported edits: %s", strings.Join(Operations(), ", "))
	}
	if len(e.Args) < op.min || (op.max >= 0 && len(e.Args) > op.max) {
		return errors.WithHintf(errors.Newf("edit %q takes the wrong number of arguments", e.Op),
			"usage: %s", op.usage)
	}
	for _, a := range e.Args {
		if a == "" {
			return errors.WithHintf(errors.Newf("edit %q has an empty argument", e.Op), "usage: %s", op.usage)
		}
	}
	return nil
}

func (e Edit) apply(ed *edit.Editor) error {
	if err := e.validate(); err != nil {
		return err
	}
	return operations[e.Op].apply(ed, e.Args)
}
