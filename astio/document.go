// Package astio reads the AST document produced by the source-analysis
// frontend into the ast model.
//
// The document is YAML (JSON is accepted as a subset). Declarations name
// each other by qualified name; references are resolved in a second pass
// once every declaration of the document is known.
package astio

// SupportedFormat is the semver constraint the document's format_version
// must satisfy
const SupportedFormat = "^1.0"

type document struct {
	FormatVersion string    `yaml:"format_version"`
	Library       string    `yaml:"library"`
	Units         []unitDoc `yaml:"units"`
}

type unitDoc struct {
	Path         string    `yaml:"path"`
	SystemHeader bool      `yaml:"system_header"`
	Declarations []declDoc `yaml:"declarations"`
}

// declDoc is the union of every declaration kind; Kind selects the
// fields that apply
type declDoc struct {
	Kind          string `yaml:"kind"`
	Name          string `yaml:"name"`
	QualifiedName string `yaml:"qualified_name"`
	Access        string `yaml:"access"`
	Comment       string `yaml:"comment"`

	// class
	Abstract  bool        `yaml:"abstract"`
	ValueType bool        `yaml:"value_type"`
	Fields    []fieldDoc  `yaml:"fields"`
	Methods   []methodDoc `yaml:"methods"`

	// enum
	Type  *typeDoc  `yaml:"type"`
	Items []itemDoc `yaml:"items"`

	// function
	ReturnType *typeDoc   `yaml:"return_type"`
	Parameters []paramDoc `yaml:"parameters"`

	// class_template, function_template
	Templated string `yaml:"templated"`

	// macro
	Expression string `yaml:"expression"`
}

type itemDoc struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
	Value      int64  `yaml:"value"`
}

type fieldDoc struct {
	Name          string   `yaml:"name"`
	QualifiedName string   `yaml:"qualified_name"`
	Access        string   `yaml:"access"`
	Comment       string   `yaml:"comment"`
	Type          *typeDoc `yaml:"type"`
}

type methodDoc struct {
	Name          string     `yaml:"name"`
	QualifiedName string     `yaml:"qualified_name"`
	Access        string     `yaml:"access"`
	Comment       string     `yaml:"comment"`
	Kind          string     `yaml:"kind"`
	ReturnType    *typeDoc   `yaml:"return_type"`
	Parameters    []paramDoc `yaml:"parameters"`

	Constructor        bool   `yaml:"constructor"`
	DefaultConstructor bool   `yaml:"default_constructor"`
	CopyConstructor    bool   `yaml:"copy_constructor"`
	MoveConstructor    bool   `yaml:"move_constructor"`
	Destructor         bool   `yaml:"destructor"`
	Static             bool   `yaml:"static"`
	Const              bool   `yaml:"const"`
	Virtual            bool   `yaml:"virtual"`
	Operator           string `yaml:"operator"`
}

type paramDoc struct {
	Name  string   `yaml:"name"`
	Type  *typeDoc `yaml:"type"`
	Const bool     `yaml:"const"`
}

// typeDoc is the union of every type kind
type typeDoc struct {
	Kind      string `yaml:"kind"`
	Primitive string `yaml:"primitive"`

	// pointer, member_pointer
	Pointee   *typeDoc `yaml:"pointee"`
	Const     bool     `yaml:"const"`
	Volatile  bool     `yaml:"volatile"`
	Reference bool     `yaml:"reference"`

	// array
	Element *typeDoc `yaml:"element"`
	Size    *int64   `yaml:"size"`

	// function
	Return     *typeDoc   `yaml:"return"`
	Parameters []paramDoc `yaml:"parameters"`

	// tag, typedef, template
	Ref       string     `yaml:"ref"`
	Arguments []*typeDoc `yaml:"arguments"`
}
