package typemap

import (
	"strings"
	"text/template"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
)

// Static is a strategy described entirely by text templates, used for
// overrides declared in transform scripts. Templates see:
//
//	.Name  the parameter name (to native) or return variable (from native)
//	.Args  the rendered template arguments when the type is a specialization
//
// An empty marshal template means the direction is unsupported.
type Static struct {
	names      []string
	signature  *template.Template
	toNative   *template.Template
	fromNative *template.Template
}

// StaticSpec is the textual form of a Static strategy
type StaticSpec struct {
	Names      []string
	Signature  string
	ToNative   string
	FromNative string
}

type staticData struct {
	Name string
	Args []string
}

// NewStatic parses the templates of spec
func NewStatic(spec StaticSpec) (*Static, error) {
	if len(spec.Names) == 0 {
		return nil, errors.New("typemap: static strategy has no names")
	}
	label := spec.Names[0]
	if spec.Signature == "" {
		return nil, errors.Newf("typemap: static strategy %s has no signature", label)
	}

	s := &Static{names: spec.Names}
	var err error
	if s.signature, err = parseTemplate(label+".signature", spec.Signature); err != nil {
		return nil, err
	}
	if s.toNative, err = parseTemplate(label+".to_native", spec.ToNative); err != nil {
		return nil, err
	}
	if s.fromNative, err = parseTemplate(label+".from_native", spec.FromNative); err != nil {
		return nil, err
	}
	return s, nil
}

// Entry returns the registration row for s
func (s *Static) Entry() Entry {
	return Entry{Names: s.names, New: func() TypeMap { return s }}
}

func parseTemplate(name, text string) (*template.Template, error) {
	if text == "" {
		return nil, nil
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "typemap: parse %s", name)
	}
	return tmpl, nil
}

func (s *Static) Signature(ctx *Context) (string, error) {
	return s.render(s.signature, ctx, "")
}

func (s *Static) MarshalToNative(ctx *Context, mctx MarshalContext) (string, error) {
	if s.toNative == nil {
		return "", errors.Unsupported("marshal to native", s.names[0])
	}
	return s.render(s.toNative, ctx, mctx.ParameterName)
}

func (s *Static) MarshalFromNative(ctx *Context, mctx MarshalContext) (string, error) {
	if s.fromNative == nil {
		return "", errors.Unsupported("marshal from native", s.names[0])
	}
	return s.render(s.fromNative, ctx, mctx.ReturnVarName)
}

func (s *Static) render(tmpl *template.Template, ctx *Context, name string) (string, error) {
	data := staticData{Name: name}
	if ctx != nil && ctx.Printer != nil {
		if spec, ok := ctx.Type.(*ast.TemplateSpecializationType); ok {
			for _, arg := range spec.Arguments {
				printed, err := ctx.Printer.Print(arg)
				if err != nil {
					return "", err
				}
				data.Args = append(data.Args, printed)
			}
		}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrapf(err, "typemap: render %s", tmpl.Name())
	}
	return sb.String(), nil
}
