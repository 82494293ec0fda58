package normalize

import (
	"slices"
	"sort"
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
)

// member kind ranks: fields, then methods, then nested types
func kindRank(k elements.Kind) int {
	switch k {
	case elements.KindVariable:
		return 0
	case elements.KindMethod:
		return 1
	default:
		return 2
	}
}

// sortMembers reorders the members of every container by kind, protection
// level and name. A member moves together with the comments directly above it
// and any comment trailing it on the same line. The whitespace and opaque text
// between members stays where it is.
func sortMembers(file *elements.JavaFile, _ Reporter) {
	elements.Walk(file.Elements, func(e elements.Element) bool {
		if c, ok := e.(*elements.Container); ok {
			sortContainer(c)
		}
		return true
	})
}

// memberGroup is a member with its attached comments, c.Members[start:end].
type memberGroup struct {
	start, end int
	member     elements.Member
}

func groupMembers(items []elements.Element) []memberGroup {
	var groups []memberGroup
	lead := -1
	for i := 0; i < len(items); i++ {
		switch e := items[i].(type) {
		case *elements.Comment:
			if lead < 0 {
				lead = i
			}
		case *elements.CodeLine:
			if strings.TrimSpace(e.Raw) != "" {
				lead = -1
			}
		case elements.Member:
			g := memberGroup{start: i, member: e}
			if lead >= 0 {
				g.start = lead
			}
			lead = -1
			for i+1 < len(items) && items[i+1].Kind() == elements.KindComment {
				i++
			}
			g.end = i + 1
			groups = append(groups, g)
		default:
			lead = -1
		}
	}
	return groups
}

func sortContainer(c *elements.Container) {
	groups := groupMembers(c.Members)
	if len(groups) < 2 {
		return
	}

	sorted := slices.Clone(groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].member, sorted[j].member
		if ra, rb := kindRank(a.Kind()), kindRank(b.Kind()); ra != rb {
			return ra < rb
		}
		if a.Protection() != b.Protection() {
			return a.Protection() < b.Protection()
		}
		if a.MemberName() != b.MemberName() {
			return a.MemberName() < b.MemberName()
		}
		return a.Text() < b.Text()
	})

	out := make([]elements.Element, 0, len(c.Members))
	prev := 0
	for k, g := range groups {
		out = append(out, c.Members[prev:g.start]...)
		s := sorted[k]
		out = append(out, c.Members[s.start:s.end]...)
		prev = g.end
	}
	c.Members = append(out, c.Members[prev:]...)
}

// orderImports sorts the import statements lexicographically, permuting them
// among the top-level slots they occupy.
func orderImports(file *elements.JavaFile, _ Reporter) {
	var slots []int
	var imports []*elements.Import
	for i, e := range file.Elements {
		if imp, ok := e.(*elements.Import); ok {
			slots = append(slots, i)
			imports = append(imports, imp)
		}
	}
	sort.SliceStable(imports, func(i, j int) bool {
		return imports[i].Text() < imports[j].Text()
	})
	for k, slot := range slots {
		file.Elements[slot] = imports[k]
	}
}
