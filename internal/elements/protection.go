package elements

// ProtectionLevel is a declared visibility modifier. The order of the
// constants is the sort rank used when members are sorted.
type ProtectionLevel int

const (
	Public ProtectionLevel = iota
	Protected
	PackagePrivate
	Private
)

func (p ProtectionLevel) String() string {
	switch p {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "package-private"
	}
}

// ParseProtectionLevel maps a modifier keyword to its level. Package-private
// has no keyword.
func ParseProtectionLevel(word string) (ProtectionLevel, bool) {
	switch word {
	case "public":
		return Public, true
	case "protected":
		return Protected, true
	case "private":
		return Private, true
	default:
		return PackagePrivate, false
	}
}
