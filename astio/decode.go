package astio

import (
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// ErrUnsupportedFormat indicates a document written for another format version
var ErrUnsupportedFormat = errors.New("unsupported AST format")

// Load reads the AST document at path
func Load(path string) (*ast.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open AST document %s", path)
	}
	defer f.Close()

	lib, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load AST document %s", path)
	}
	return lib, nil
}

// Decode reads an AST document from r. Unknown keys are rejected.
func Decode(r io.Reader) (*ast.Library, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.NewMalformedASTError("empty AST document")
		}
		return nil, errors.Wrap(errors.Mark(err, errors.ErrMalformedAST), "failed to decode AST document")
	}

	if err := checkFormat(doc.FormatVersion); err != nil {
		return nil, err
	}

	b := &builder{index: make(map[indexKey]ast.Decl)}
	return b.build(&doc)
}

func checkFormat(version string) error {
	if version == "" {
		return errors.WithHintf(errors.Wrap(ErrUnsupportedFormat, "format_version is missing"),
			"the document must declare a format_version matching %s", SupportedFormat)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(errors.Mark(err, ErrUnsupportedFormat), "invalid format_version %q", version)
	}
	constraint, err := semver.NewConstraint(SupportedFormat)
	if err != nil {
		return errors.Wrapf(err, "invalid format constraint %s", SupportedFormat)
	}
	if !constraint.Check(v) {
		return errors.WithHintf(errors.Wrapf(ErrUnsupportedFormat, "format_version %s", version),
			"this build reads documents matching %s; regenerate the AST with a matching frontend", SupportedFormat)
	}
	return nil
}

// namespace separates names that C++ lets coexist, such as a class
// template and its pattern class
type namespace int

const (
	tags namespace = iota
	typedefs
	templates
	functions
)

type indexKey struct {
	ns   namespace
	name string
}

// builder creates declarations in a first pass and resolves type
// references once every referencable declaration is indexed
type builder struct {
	index  map[indexKey]ast.Decl
	fixups []fixup
}

type fixup struct {
	unit string
	run  func() error
}

func malformedIn(unit string, err error) error {
	return errors.WithHintf(err, "while reading unit %s", unit)
}

func (b *builder) build(doc *document) (*ast.Library, error) {
	lib := ast.NewLibrary(doc.Library)

	for i := range doc.Units {
		ud := &doc.Units[i]
		if ud.Path == "" {
			return nil, errors.NewMalformedASTError("unit %d has no path", i)
		}
		unit := ast.NewTranslationUnit(ud.Path)
		unit.IsSystemHeader = ud.SystemHeader
		lib.AddUnit(unit)

		for j := range ud.Declarations {
			d, err := b.declaration(ud.Path, &ud.Declarations[j])
			if err != nil {
				return nil, malformedIn(ud.Path, err)
			}
			unit.AddDeclaration(d)
		}
	}

	for _, f := range b.fixups {
		if err := f.run(); err != nil {
			return nil, malformedIn(f.unit, err)
		}
	}

	logger.Debugw("Decoded AST document",
		logger.FieldLibrary, lib.Name,
		logger.FieldCount, len(lib.Units))
	return lib, nil
}

func (b *builder) register(ns namespace, d ast.Decl) {
	key := indexKey{ns: ns, name: d.Base().QualifiedOriginalName}
	if _, exists := b.index[key]; exists {
		// Redeclarations resolve to the first declaration seen
		return
	}
	b.index[key] = d
}

func (b *builder) lookup(ns namespace, name string) ast.Decl {
	return b.index[indexKey{ns: ns, name: name}]
}

// later resolves td into *target in the second pass
func (b *builder) later(unit string, target *ast.Type, td *typeDoc, what string) {
	b.fixups = append(b.fixups, fixup{unit: unit, run: func() error {
		t, err := b.typ(td)
		if err != nil {
			return errors.Wrap(err, what)
		}
		*target = t
		return nil
	}})
}

// laterOptional is later for types whose absence means void
func (b *builder) laterOptional(unit string, target *ast.Type, td *typeDoc, what string) {
	if td != nil {
		b.later(unit, target, td, what)
	}
}

func base(name, qualified, access, comment string) (ast.DeclBase, error) {
	acc, err := parseAccess(access)
	if err != nil {
		return ast.DeclBase{}, err
	}
	if qualified == "" {
		qualified = name
	}
	return ast.DeclBase{Name: name, QualifiedOriginalName: qualified, Access: acc, Comment: comment}, nil
}

func (b *builder) declaration(unit string, d *declDoc) (ast.Decl, error) {
	if d.Kind == "" {
		return nil, errors.NewMalformedASTError("declaration %q has no kind", d.Name)
	}
	if d.Name == "" {
		return nil, errors.NewMalformedASTError("%s declaration has no name", d.Kind)
	}
	db, err := base(d.Name, d.QualifiedName, d.Access, d.Comment)
	if err != nil {
		return nil, err
	}

	switch d.Kind {
	case "class":
		return b.class(unit, db, d)

	case "enum":
		e := ast.NewEnumeration(d.Name)
		e.DeclBase = db
		if d.Type != nil {
			b.later(unit, &e.Type, d.Type, "enum "+db.QualifiedOriginalName)
		}
		for _, it := range d.Items {
			if it.Name == "" {
				return nil, errors.NewMalformedASTError("enum %s has an unnamed item", db.QualifiedOriginalName)
			}
			e.AddItem(ast.EnumItem{Name: it.Name, Expression: it.Expression, Value: it.Value})
		}
		b.register(tags, e)
		return e, nil

	case "function":
		f := &ast.Function{DeclBase: db}
		b.laterOptional(unit, &f.ReturnType, d.ReturnType, "return type of "+db.QualifiedOriginalName)
		f.Parameters = b.parameters(unit, d.Parameters, db.QualifiedOriginalName)
		b.register(functions, f)
		return f, nil

	case "typedef":
		td := &ast.Typedef{DeclBase: db}
		b.later(unit, &td.Type, d.Type, "typedef "+db.QualifiedOriginalName)
		b.register(typedefs, td)
		return td, nil

	case "class_template":
		ct := &ast.ClassTemplate{DeclBase: db}
		b.templated(unit, &ct.TemplatedDecl, tags, d.Templated, db.QualifiedOriginalName)
		b.register(templates, ct)
		return ct, nil

	case "function_template":
		ft := &ast.FunctionTemplate{DeclBase: db}
		b.templated(unit, &ft.TemplatedDecl, functions, d.Templated, db.QualifiedOriginalName)
		b.register(templates, ft)
		return ft, nil

	case "macro":
		return &ast.MacroDefinition{DeclBase: db, Expression: d.Expression}, nil
	}

	return nil, errors.NewMalformedASTError("unknown declaration kind %q for %s", d.Kind, db.QualifiedOriginalName)
}

func (b *builder) templated(unit string, target *ast.Decl, ns namespace, ref, owner string) {
	if ref == "" {
		return
	}
	b.fixups = append(b.fixups, fixup{unit: unit, run: func() error {
		d := b.lookup(ns, ref)
		if d == nil {
			return errors.NewMalformedASTError("template %s refers to unknown declaration %s", owner, ref)
		}
		*target = d
		return nil
	}})
}

func (b *builder) class(unit string, db ast.DeclBase, d *declDoc) (*ast.Class, error) {
	c := &ast.Class{DeclBase: db, IsAbstract: d.Abstract}
	if d.ValueType {
		c.Category = ast.ValueType
	}

	for _, fd := range d.Fields {
		if fd.Name == "" {
			return nil, errors.NewMalformedASTError("class %s has an unnamed field", db.QualifiedOriginalName)
		}
		qualified := fd.QualifiedName
		if qualified == "" {
			qualified = db.QualifiedOriginalName + "::" + fd.Name
		}
		fb, err := base(fd.Name, qualified, fd.Access, fd.Comment)
		if err != nil {
			return nil, err
		}
		f := &ast.Field{DeclBase: fb}
		c.AddField(f)
		b.later(unit, &f.Type, fd.Type, "field "+fb.QualifiedOriginalName)
	}

	for i := range d.Methods {
		m, err := b.method(unit, &d.Methods[i], db.QualifiedOriginalName)
		if err != nil {
			return nil, err
		}
		c.AddMethod(m)
	}

	b.register(tags, c)
	return c, nil
}

func (b *builder) method(unit string, md *methodDoc, class string) (*ast.Method, error) {
	if md.Name == "" {
		return nil, errors.NewMalformedASTError("class %s has an unnamed method", class)
	}
	qualified := md.QualifiedName
	if qualified == "" {
		qualified = class + "::" + md.Name
	}
	mb, err := base(md.Name, qualified, md.Access, md.Comment)
	if err != nil {
		return nil, err
	}

	m := &ast.Method{
		DeclBase:             mb,
		IsConstructor:        md.Constructor || md.DefaultConstructor || md.CopyConstructor || md.MoveConstructor,
		IsDefaultConstructor: md.DefaultConstructor,
		IsCopyConstructor:    md.CopyConstructor,
		IsMoveConstructor:    md.MoveConstructor,
		IsDestructor:         md.Destructor,
		IsStatic:             md.Static,
		IsConst:              md.Const,
		IsVirtual:            md.Virtual,
		OperatorKind:         parseOperator(md.Operator),
	}
	if m.Kind, err = methodKind(md, m); err != nil {
		return nil, err
	}

	b.laterOptional(unit, &m.ReturnType, md.ReturnType, "return type of "+qualified)
	m.Parameters = b.parameters(unit, md.Parameters, qualified)
	return m, nil
}

func (b *builder) parameters(unit string, docs []paramDoc, owner string) []*ast.Parameter {
	params := make([]*ast.Parameter, 0, len(docs))
	for i := range docs {
		pd := &docs[i]
		p := &ast.Parameter{DeclBase: ast.DeclBase{Name: pd.Name}, IsConst: pd.Const}
		b.later(unit, &p.Type, pd.Type, "parameter "+pd.Name+" of "+owner)
		params = append(params, p)
	}
	return params
}

// typeParameters builds the parameters of a function type. It runs in the
// second pass so nested types resolve directly.
func (b *builder) typeParameters(docs []paramDoc) ([]*ast.Parameter, error) {
	params := make([]*ast.Parameter, 0, len(docs))
	for _, pd := range docs {
		t, err := b.typ(pd.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %q", pd.Name)
		}
		params = append(params, &ast.Parameter{DeclBase: ast.DeclBase{Name: pd.Name}, Type: t, IsConst: pd.Const})
	}
	return params, nil
}

func (b *builder) typ(td *typeDoc) (ast.Type, error) {
	if td == nil {
		return nil, errors.NewMalformedASTError("missing type")
	}

	switch td.Kind {
	case "primitive":
		p, ok := ast.ParsePrimitive(td.Primitive)
		if !ok {
			return nil, errors.NewMalformedASTError("unknown primitive %q", td.Primitive)
		}
		return &ast.PrimitiveType{Primitive: p}, nil

	case "pointer", "reference":
		pointee, err := b.typ(td.Pointee)
		if err != nil {
			return nil, errors.Wrap(err, td.Kind)
		}
		return &ast.PointerType{
			Pointee:           pointee,
			Qualifiers:        ast.TypeQualifiers{IsConst: td.Const, IsVolatile: td.Volatile},
			IsLValueReference: td.Reference || td.Kind == "reference",
		}, nil

	case "array":
		elem, err := b.typ(td.Element)
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}
		size := int64(-1)
		if td.Size != nil {
			size = *td.Size
		}
		return &ast.ArrayType{Element: elem, Size: size}, nil

	case "function":
		fn := &ast.FunctionType{}
		if td.Return != nil {
			ret, err := b.typ(td.Return)
			if err != nil {
				return nil, errors.Wrap(err, "function return")
			}
			fn.ReturnType = ret
		}
		params, err := b.typeParameters(td.Parameters)
		if err != nil {
			return nil, err
		}
		fn.Parameters = params
		return fn, nil

	case "tag":
		switch d := b.lookup(tags, td.Ref).(type) {
		case *ast.Class, *ast.Enumeration:
			return &ast.TagType{Decl: d}, nil
		case nil:
			return nil, errors.NewMalformedASTError("tag refers to unknown declaration %q", td.Ref)
		default:
			return nil, errors.NewMalformedASTError("tag refers to %s %q", d.DeclKind(), td.Ref)
		}

	case "typedef":
		td2, ok := b.lookup(typedefs, td.Ref).(*ast.Typedef)
		if !ok {
			return nil, errors.NewMalformedASTError("typedef type refers to unknown typedef %q", td.Ref)
		}
		return &ast.TypedefType{Decl: td2}, nil

	case "template":
		ct, ok := b.lookup(templates, td.Ref).(*ast.ClassTemplate)
		if !ok {
			return nil, errors.NewMalformedASTError("specialization refers to unknown template %q", td.Ref)
		}
		spec := &ast.TemplateSpecializationType{Template: ct}
		for i, a := range td.Arguments {
			arg, err := b.typ(a)
			if err != nil {
				return nil, errors.Wrapf(err, "template argument %d of %s", i, td.Ref)
			}
			spec.Arguments = append(spec.Arguments, arg)
		}
		return spec, nil

	case "member_pointer":
		pointee, err := b.typ(td.Pointee)
		if err != nil {
			return nil, errors.Wrap(err, "member pointer")
		}
		return &ast.MemberPointerType{Pointee: pointee}, nil

	case "":
		return nil, errors.NewMalformedASTError("type has no kind")
	}
	return nil, errors.NewMalformedASTError("unknown type kind %q", td.Kind)
}

func parseAccess(s string) (ast.AccessSpecifier, error) {
	switch s {
	case "", "public":
		return ast.AccessPublic, nil
	case "protected":
		return ast.AccessProtected, nil
	case "private":
		return ast.AccessPrivate, nil
	}
	return 0, errors.NewMalformedASTError("unknown access specifier %q", s)
}

var operators = map[string]ast.OperatorKind{
	"":   ast.OperatorNone,
	"==": ast.OperatorEqual,
	"!=": ast.OperatorNotEqual,
	"=":  ast.OperatorAssign,
	"<":  ast.OperatorLess,
	"+":  ast.OperatorPlus,
	"-":  ast.OperatorMinus,
	"[]": ast.OperatorSubscript,
	"()": ast.OperatorCall,
}

func parseOperator(s string) ast.OperatorKind {
	if k, ok := operators[s]; ok {
		return k
	}
	return ast.OperatorOther
}

func methodKind(md *methodDoc, m *ast.Method) (ast.MethodKind, error) {
	switch md.Kind {
	case "normal":
		return ast.MethodNormal, nil
	case "constructor":
		return ast.MethodConstructor, nil
	case "destructor":
		return ast.MethodDestructor, nil
	case "conversion":
		return ast.MethodConversion, nil
	case "operator":
		return ast.MethodOperator, nil
	case "":
		switch {
		case m.IsConstructor:
			return ast.MethodConstructor, nil
		case m.IsDestructor:
			return ast.MethodDestructor, nil
		case m.OperatorKind != ast.OperatorNone:
			return ast.MethodOperator, nil
		}
		return ast.MethodNormal, nil
	}
	return 0, errors.NewMalformedASTError("unknown method kind %q for %s", md.Kind, m.QualifiedOriginalName)
}
