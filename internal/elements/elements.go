package elements

import "strings"

// ID is a stable element identity. It is assigned once at parse time and does
// not change when members are reordered.
type ID uint32

// Kind discriminates the element variants.
type Kind int

const (
	KindCodeLine Kind = iota
	KindComment
	KindImport
	KindVariable
	KindMethod
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindCodeLine:
		return "code"
	case KindComment:
		return "comment"
	case KindImport:
		return "import"
	case KindVariable:
		return "variable"
	case KindMethod:
		return "method"
	case KindContainer:
		return "container"
	default:
		return "unknown"
	}
}

// Element is a node of a parsed source file. Text reconstructs the source
// region the element was parsed from.
type Element interface {
	ID() ID
	Kind() Kind
	Text() string
	SetText(text string)
}

// Member is an element that can be reordered inside a container.
type Member interface {
	Element
	MemberName() string
	Protection() ProtectionLevel
}

// VariableHolder exposes the variables declared directly by an element.
type VariableHolder interface {
	Variables() []*Variable
}

type base struct {
	id ID
}

func (b base) ID() ID { return b.id }

// CodeLine is an opaque run of raw text: whitespace, statements, initializer
// blocks or any region the parser could not classify.
type CodeLine struct {
	base
	Raw string
}

func NewCodeLine(id ID, raw string) *CodeLine {
	return &CodeLine{base: base{id: id}, Raw: raw}
}

func (c *CodeLine) Kind() Kind          { return KindCodeLine }
func (c *CodeLine) Text() string        { return c.Raw }
func (c *CodeLine) SetText(text string) { c.Raw = text }

// Comment is a comment run. Raw includes the indentation in front of the
// comment and, for comments on their own line, the terminating newline, so
// removing it leaves the surrounding layout intact.
type Comment struct {
	base
	Raw string
}

func NewComment(id ID, raw string) *Comment {
	return &Comment{base: base{id: id}, Raw: raw}
}

func (c *Comment) Kind() Kind          { return KindComment }
func (c *Comment) Text() string        { return c.Raw }
func (c *Comment) SetText(text string) { c.Raw = text }

// Import is a single import statement.
type Import struct {
	base
	Raw string
}

func NewImport(id ID, raw string) *Import {
	return &Import{base: base{id: id}, Raw: raw}
}

func (i *Import) Kind() Kind          { return KindImport }
func (i *Import) Text() string        { return i.Raw }
func (i *Import) SetText(text string) { i.Raw = text }

// Path returns the imported name without the keyword, static marker and
// terminator.
func (i *Import) Path() string {
	s := strings.TrimSpace(i.Raw)
	s = strings.TrimPrefix(s, "import")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "static ")
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	return strings.TrimSpace(s)
}

// Concat joins the text of a sequence of elements.
func Concat(elems []Element) string {
	var sb strings.Builder
	for _, e := range elems {
		sb.WriteString(e.Text())
	}
	return sb.String()
}
