package model

// Document describes one Java source file: a package and a single top-level
// type. Documents are decoded from YAML, TOML or JSON.
type Document struct {
	Package             string `json:"package" yaml:"package" toml:"package"`
	FileComment         string `json:"file_comment,omitempty" yaml:"file_comment,omitempty" toml:"file_comment,omitempty"`
	SkipJavaLangImports bool   `json:"skip_java_lang_imports,omitempty" yaml:"skip_java_lang_imports,omitempty" toml:"skip_java_lang_imports,omitempty"`
	Type                *Type  `json:"type" yaml:"type" toml:"type"`

	// Source is the file the document was read from.
	Source string `json:"-" yaml:"-" toml:"-"`
}

type Type struct {
	Kind          string         `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"` // class, interface, enum, annotation
	Name          string         `json:"name" yaml:"name" toml:"name"`
	Javadoc       string         `json:"javadoc,omitempty" yaml:"javadoc,omitempty" toml:"javadoc,omitempty"`
	Annotations   []Annotation   `json:"annotations,omitempty" yaml:"annotations,omitempty" toml:"annotations,omitempty"`
	Modifiers     []string       `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	TypeVariables []TypeVariable `json:"type_variables,omitempty" yaml:"type_variables,omitempty" toml:"type_variables,omitempty"`
	Extends       string         `json:"extends,omitempty" yaml:"extends,omitempty" toml:"extends,omitempty"`
	Implements    []string       `json:"implements,omitempty" yaml:"implements,omitempty" toml:"implements,omitempty"`
	EnumConstants []EnumConstant `json:"enum_constants,omitempty" yaml:"enum_constants,omitempty" toml:"enum_constants,omitempty"`
	Fields        []*Field       `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	StaticBlock   []Step         `json:"static_block,omitempty" yaml:"static_block,omitempty" toml:"static_block,omitempty"`
	Initializer   []Step         `json:"initializer_block,omitempty" yaml:"initializer_block,omitempty" toml:"initializer_block,omitempty"`
	Methods       []*Method      `json:"methods,omitempty" yaml:"methods,omitempty" toml:"methods,omitempty"`
	Types         []*Type        `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty"`

	// Accessors generates getters, setters and collection adders for every
	// instance field.
	Accessors bool `json:"accessors,omitempty" yaml:"accessors,omitempty" toml:"accessors,omitempty"`
	Omit      bool `json:"omit,omitempty" yaml:"omit,omitempty" toml:"omit,omitempty"`
}

type TypeVariable struct {
	Name   string   `json:"name" yaml:"name" toml:"name"`
	Bounds []string `json:"bounds,omitempty" yaml:"bounds,omitempty" toml:"bounds,omitempty"`
}

type EnumConstant struct {
	Name    string    `json:"name" yaml:"name" toml:"name"`
	Javadoc string    `json:"javadoc,omitempty" yaml:"javadoc,omitempty" toml:"javadoc,omitempty"`
	Args    *Code     `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	Methods []*Method `json:"methods,omitempty" yaml:"methods,omitempty" toml:"methods,omitempty"`
}

type Field struct {
	Name        string       `json:"name" yaml:"name" toml:"name"`
	Type        string       `json:"type" yaml:"type" toml:"type"`
	Javadoc     string       `json:"javadoc,omitempty" yaml:"javadoc,omitempty" toml:"javadoc,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty" toml:"annotations,omitempty"`
	Modifiers   []string     `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	Initializer *Code        `json:"initializer,omitempty" yaml:"initializer,omitempty" toml:"initializer,omitempty"`
	Accessors   bool         `json:"accessors,omitempty" yaml:"accessors,omitempty" toml:"accessors,omitempty"`
	Omit        bool         `json:"omit,omitempty" yaml:"omit,omitempty" toml:"omit,omitempty"`
}

type Method struct {
	Name          string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Constructor   bool           `json:"constructor,omitempty" yaml:"constructor,omitempty" toml:"constructor,omitempty"`
	Javadoc       string         `json:"javadoc,omitempty" yaml:"javadoc,omitempty" toml:"javadoc,omitempty"`
	Annotations   []Annotation   `json:"annotations,omitempty" yaml:"annotations,omitempty" toml:"annotations,omitempty"`
	Modifiers     []string       `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	TypeVariables []TypeVariable `json:"type_variables,omitempty" yaml:"type_variables,omitempty" toml:"type_variables,omitempty"`
	Returns       string         `json:"returns,omitempty" yaml:"returns,omitempty" toml:"returns,omitempty"` // void when empty
	Parameters    []Parameter    `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters,omitempty"`
	Varargs       bool           `json:"varargs,omitempty" yaml:"varargs,omitempty" toml:"varargs,omitempty"`
	Throws        []string       `json:"throws,omitempty" yaml:"throws,omitempty" toml:"throws,omitempty"`
	Default       *Code          `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Code          []Step         `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty"`
	Omit          bool           `json:"omit,omitempty" yaml:"omit,omitempty" toml:"omit,omitempty"`
}

type Parameter struct {
	Name        string       `json:"name" yaml:"name" toml:"name"`
	Type        string       `json:"type" yaml:"type" toml:"type"`
	Javadoc     string       `json:"javadoc,omitempty" yaml:"javadoc,omitempty" toml:"javadoc,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty" toml:"annotations,omitempty"`
	Final       bool         `json:"final,omitempty" yaml:"final,omitempty" toml:"final,omitempty"`
}

type Annotation struct {
	Type    string   `json:"type" yaml:"type" toml:"type"`
	Members []Member `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`
}

// Member is one name = value pair; repeating a name makes an array.
type Member struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Code `yaml:",inline"`
}

// Code is a format string and its arguments.
type Code struct {
	Format string `json:"format" yaml:"format" toml:"format"`
	Args   []Arg  `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
}

// Step is one line of a code body. Exactly one of the text keys is set,
// or End.
type Step struct {
	Statement string `json:"statement,omitempty" yaml:"statement,omitempty" toml:"statement,omitempty"`
	Add       string `json:"add,omitempty" yaml:"add,omitempty" toml:"add,omitempty"`
	Comment   string `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
	Begin     string `json:"begin,omitempty" yaml:"begin,omitempty" toml:"begin,omitempty"`
	Next      string `json:"next,omitempty" yaml:"next,omitempty" toml:"next,omitempty"`
	End       bool   `json:"end,omitempty" yaml:"end,omitempty" toml:"end,omitempty"`
	EndWith   string `json:"end_with,omitempty" yaml:"end_with,omitempty" toml:"end_with,omitempty"`
	Args      []Arg  `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
}

// Arg is a single-key map naming the placeholder it feeds: T (type
// expression), S (string or null), N (name) or L (any literal).
type Arg map[string]any
