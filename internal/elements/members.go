package elements

import "strings"

// Variable is a field or parameter declaration. Raw is the declaration text
// exactly as written (for a field, including its terminator).
type Variable struct {
	base
	Raw         string
	Type        string
	Name        string
	Initializer string
	Level       ProtectionLevel
}

// NewVariable parses decl into a Variable. It returns an error when the
// declaration has no type/name shape; callers keep such text as a CodeLine.
func NewVariable(id ID, decl string) (*Variable, error) {
	v := &Variable{base: base{id: id}}
	if err := v.parse(decl); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Variable) parse(decl string) error {
	typ, name, init, level, err := ParseVariable(decl)
	if err != nil {
		return err
	}
	v.Raw, v.Type, v.Name, v.Initializer, v.Level = decl, typ, name, init, level
	return nil
}

func (v *Variable) Kind() Kind                  { return KindVariable }
func (v *Variable) Text() string                { return v.Raw }
func (v *Variable) MemberName() string          { return v.Name }
func (v *Variable) Protection() ProtectionLevel { return v.Level }

// SetText replaces the declaration and re-reads its parts. Text that no
// longer parses is kept verbatim with the previous parts.
func (v *Variable) SetText(text string) {
	if err := v.parse(text); err != nil {
		v.Raw = text
	}
}

// Method is a method or constructor. Header holds everything from the start of
// the declaration through the opening brace (or the terminator for a method
// without a body); Closing holds the closing brace.
type Method struct {
	base
	Header     string
	Name       string
	ReturnType string
	Level      ProtectionLevel
	Static     bool
	Params     []*Variable
	Body       []Element
	Closing    string
}

// NewMethod parses header into a Method with the given body elements.
func NewMethod(id ID, header string, body []Element, closing string, nextID func() ID) (*Method, error) {
	m := &Method{base: base{id: id}, Body: body, Closing: closing}
	if err := m.parseHeader(header, nextID); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Method) parseHeader(header string, nextID func() ID) error {
	sig, err := ParseSignature(header)
	if err != nil {
		return err
	}
	params := make([]*Variable, 0, len(sig.Params))
	for i, p := range sig.Params {
		id := ID(0)
		if i < len(m.Params) {
			id = m.Params[i].ID()
		} else if nextID != nil {
			id = nextID()
		}
		v, err := NewVariable(id, p)
		if err != nil {
			return err
		}
		params = append(params, v)
	}
	m.Header = header
	m.Name = sig.Name
	m.ReturnType = sig.ReturnType
	m.Level = sig.Protection
	m.Static = sig.Static
	m.Params = params
	return nil
}

func (m *Method) Kind() Kind                  { return KindMethod }
func (m *Method) MemberName() string          { return m.Name }
func (m *Method) Protection() ProtectionLevel { return m.Level }

// HasBody reports whether the method declares a body.
func (m *Method) HasBody() bool { return m.Closing != "" }

func (m *Method) Text() string {
	var sb strings.Builder
	sb.WriteString(m.Header)
	sb.WriteString(Concat(m.Body))
	sb.WriteString(m.Closing)
	return sb.String()
}

// SetText replaces the declaration header and re-reads name, return type,
// modifiers and parameters from it. Parameter identities are kept by
// position.
func (m *Method) SetText(text string) {
	if err := m.Reparse(text); err != nil {
		m.Header = text
	}
}

// Reparse is SetText that reports a header which no longer parses.
func (m *Method) Reparse(header string) error {
	return m.parseHeader(header, nil)
}

// BodyText returns the text between the braces.
func (m *Method) BodyText() string { return Concat(m.Body) }

func (m *Method) Variables() []*Variable {
	return append([]*Variable(nil), m.Params...)
}

// Container is a class, interface, enum or record declaration.
type Container struct {
	base
	Header  string
	Keyword string
	Name    string
	Level   ProtectionLevel
	Members []Element
	Closing string
}

// NewContainer builds a container from its header and parsed members.
func NewContainer(id ID, header string, members []Element, closing string) *Container {
	c := &Container{base: base{id: id}, Members: members, Closing: closing}
	c.SetText(header)
	return c
}

func (c *Container) Kind() Kind                  { return KindContainer }
func (c *Container) MemberName() string          { return c.Name }
func (c *Container) Protection() ProtectionLevel { return c.Level }

func (c *Container) Text() string {
	return c.Header + Concat(c.Members) + c.Closing
}

// SetText replaces the raw declaration header.
func (c *Container) SetText(text string) {
	c.Header = text
	c.Keyword, c.Name, c.Level, _ = ParseContainerHeader(text)
}

// Variables returns the fields declared directly in the container.
func (c *Container) Variables() []*Variable {
	var vars []*Variable
	for _, m := range c.Members {
		if v, ok := m.(*Variable); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// Methods returns the methods declared directly in the container.
func (c *Container) Methods() []*Method {
	var methods []*Method
	for _, m := range c.Members {
		if mm, ok := m.(*Method); ok {
			methods = append(methods, mm)
		}
	}
	return methods
}
