package elements

import (
	"fmt"
	"path/filepath"
)

// Diagnostic records a region that was kept as opaque text because it could
// not be read as a declaration.
type Diagnostic struct {
	Path    string
	Line    int
	Element ID
	Reason  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d: %s", d.Path, d.Line, d.Reason)
}

// JavaFile is the root of an Element Model, bound to one source path.
// Elements holds the top-level sequence in source order; imports are stored
// in place so that reordering them leaves the surrounding text untouched.
type JavaFile struct {
	Path        string
	Elements    []Element
	Diagnostics []Diagnostic

	nextID ID
}

// NewJavaFile creates an empty file. IDs handed out by NextID start at 1.
func NewJavaFile(path string) *JavaFile {
	return &JavaFile{Path: path}
}

// NextID allocates a fresh element identity.
func (f *JavaFile) NextID() ID {
	f.nextID++
	return f.nextID
}

// Name is the base name of the source path.
func (f *JavaFile) Name() string {
	return filepath.Base(f.Path)
}

func (f *JavaFile) Text() string {
	return Concat(f.Elements)
}

// Imports returns the import statements in their current order.
func (f *JavaFile) Imports() []*Import {
	var imports []*Import
	for _, e := range f.Elements {
		if imp, ok := e.(*Import); ok {
			imports = append(imports, imp)
		}
	}
	return imports
}

// Containers returns the top-level type declarations.
func (f *JavaFile) Containers() []*Container {
	var containers []*Container
	for _, e := range f.Elements {
		if c, ok := e.(*Container); ok {
			containers = append(containers, c)
		}
	}
	return containers
}

// Methods returns every method of the file, nested types included, in
// document order.
func (f *JavaFile) Methods() []*Method {
	var methods []*Method
	Walk(f.Elements, func(e Element) bool {
		if m, ok := e.(*Method); ok {
			methods = append(methods, m)
			return false
		}
		return true
	})
	return methods
}

// Variables returns every field of the file, nested types included.
func (f *JavaFile) Variables() []*Variable {
	var vars []*Variable
	Walk(f.Elements, func(e Element) bool {
		if v, ok := e.(*Variable); ok {
			vars = append(vars, v)
		}
		_, isMethod := e.(*Method)
		return !isMethod
	})
	return vars
}

// Walk visits elems depth first. Returning false from fn skips the children
// of the visited element.
func Walk(elems []Element, fn func(Element) bool) {
	for _, e := range elems {
		if !fn(e) {
			continue
		}
		switch n := e.(type) {
		case *Container:
			Walk(n.Members, fn)
		case *Method:
			Walk(n.Body, fn)
		}
	}
}

// Sequences calls fn for every ordered element sequence of the file: the
// top level, each container's members and each method body. fn may replace
// the sequence it is given.
func (f *JavaFile) Sequences(fn func(seq []Element) []Element) {
	f.Elements = rewriteSequences(f.Elements, fn)
}

func rewriteSequences(seq []Element, fn func([]Element) []Element) []Element {
	for _, e := range seq {
		switch n := e.(type) {
		case *Container:
			n.Members = rewriteSequences(n.Members, fn)
		case *Method:
			n.Body = rewriteSequences(n.Body, fn)
		}
	}
	return fn(seq)
}
