package utility

// variantKind selects how a variant changes the generated rule
type variantKind int

const (
	pseudoVariant variantKind = iota // Appends to the selector
	parentVariant                    // Prefixes the selector
	mediaVariant                     // Wraps the rule in @media
)

// variant is a resolved class prefix such as "hover" or "md"
type variant struct {
	kind  variantKind
	value string // ":hover", ".group:hover ", "(min-width: 768px)"
	rank  int    // Position in the output: lower ranks come first
}

// pseudo variants in output order
var pseudoVariants = []struct {
	name     string
	selector string
}{
	{"first", ":first-child"},
	{"last", ":last-child"},
	{"odd", ":nth-child(odd)"},
	{"even", ":nth-child(even)"},
	{"visited", ":visited"},
	{"focus-within", ":focus-within"},
	{"hover", ":hover"},
	{"focus", ":focus"},
	{"focus-visible", ":focus-visible"},
	{"active", ":active"},
	{"disabled", ":disabled"},
}

// variantSet resolves variant names against the theme's screens.
type variantSet struct {
	byName map[string]variant
}

func newVariantSet(th *Theme) *variantSet {
	vs := &variantSet{byName: make(map[string]variant)}

	rank := 1
	for _, p := range pseudoVariants {
		vs.byName[p.name] = variant{kind: pseudoVariant, value: p.selector, rank: rank}
		rank++
	}
	vs.byName["group-hover"] = variant{kind: parentVariant, value: ".group:hover ", rank: rank}
	rank++

	vs.byName["dark"] = variant{kind: mediaVariant, value: "(prefers-color-scheme: dark)", rank: rank}
	rank++

	for _, screen := range th.Screens() {
		width, _ := th.Lookup(screen, "screens")
		vs.byName[screen] = variant{kind: mediaVariant, value: "(min-width: " + width + ")", rank: rank}
		rank++
	}

	return vs
}

func (vs *variantSet) lookup(name string) (variant, bool) {
	v, ok := vs.byName[name]
	return v, ok
}
