package utility

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yacobolo/twsnip/internal/stylesheet"
)

// Value kinds accepted by a functional utility in brackets
const (
	anyValue = iota
	colorValue
	lengthValue
	noArbitrary
)

// utility is one registry entry: a static class ("flex") or a functional
// root ("p", "bg") that takes a theme key or an arbitrary value.
type utility struct {
	order int

	// Static utilities
	decls [][2]string

	// Functional utilities
	root      string
	sections  []string                        // Theme sections searched for the key, in order
	lookup    func(key string) (string, bool) // Replaces sections for computed keys (grid-cols-3)
	build     func(value string) [][2]string  // Declarations for a resolved value
	extra     func(key string, th *Theme) [][2]string
	arbitrary int    // Value kind accepted in brackets
	negative  bool   // Accepts a leading '-'
	suffix    string // Appended to the class selector
}

// match is a resolved utility ready to be turned into a rule
type match struct {
	order  int
	decls  [][2]string
	suffix string
}

// registry resolves utility names. Functional roots are tried longest
// first, so "min-w-0" never resolves through a shorter root.
type registry struct {
	static     map[string]*utility
	functional map[string][]*utility
	roots      []string
	next       int
}

func (r *registry) add(name string, decls ...[2]string) {
	r.static[name] = &utility{order: r.next, decls: decls}
	r.next++
}

func (r *registry) fn(u utility) {
	u.order = r.next
	r.next++
	if _, ok := r.functional[u.root]; !ok {
		r.roots = append(r.roots, u.root)
	}
	r.functional[u.root] = append(r.functional[u.root], &u)
}

// property is the common build function: every property gets the value
func property(props ...string) func(string) [][2]string {
	return func(v string) [][2]string {
		out := make([][2]string, len(props))
		for i, p := range props {
			out[i] = [2]string{p, v}
		}
		return out
	}
}

// resolve finds the declarations for a utility name against a theme.
func (r *registry) resolve(name string, negative bool, th *Theme) (match, bool) {
	if !negative {
		if u, ok := r.static[name]; ok {
			return match{order: u.order, decls: u.decls}, true
		}
	}

	for _, root := range r.roots {
		var key string
		switch {
		case name == root:
			key = ""
		case strings.HasPrefix(name, root+"-"):
			key = name[len(root)+1:]
		default:
			continue
		}

		for _, u := range r.functional[root] {
			if negative && !u.negative {
				continue
			}
			value, ok := u.value(key, th)
			if !ok {
				continue
			}
			if negative {
				value = negate(value)
			}

			decls := u.build(value)
			if u.extra != nil {
				decls = append(decls, u.extra(key, th)...)
			}
			return match{order: u.order, decls: decls, suffix: u.suffix}, true
		}
	}

	return match{}, false
}

func (u *utility) value(key string, th *Theme) (string, bool) {
	if v, ok := splitArbitrary(key); ok {
		if !validArbitrary(v) {
			return "", false
		}
		switch u.arbitrary {
		case anyValue:
			return v, true
		case colorValue:
			return v, isColorValue(v)
		case lengthValue:
			return v, isLengthValue(v) && !isColorValue(v)
		default:
			return "", false
		}
	}
	if u.lookup != nil {
		return u.lookup(key)
	}
	return th.Lookup(key, u.sections...)
}

// numberedLookup accepts integer keys in [1, limit] and formats them
func numberedLookup(limit int, format func(n int) string, named map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := named[key]; ok {
			return v, true
		}
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > limit {
			return "", false
		}
		return format(n), true
	}
}

// sortRoots orders roots longest first, ties alphabetically
func (r *registry) sortRoots() {
	sort.SliceStable(r.roots, func(i, j int) bool {
		if len(r.roots[i]) != len(r.roots[j]) {
			return len(r.roots[i]) > len(r.roots[j])
		}
		return r.roots[i] < r.roots[j]
	})
}

// toDeclarations converts declaration pairs into nodes
func toDeclarations(pairs [][2]string, important bool) []stylesheet.Node {
	nodes := make([]stylesheet.Node, 0, len(pairs))
	for _, p := range pairs {
		nodes = append(nodes, &stylesheet.Declaration{Property: p[0], Value: p[1], Important: important})
	}
	return nodes
}

var defaultRegistry = newRegistry()

// newRegistry builds the utility table. Insertion order is the cascade
// order of the generated rules.
func newRegistry() *registry {
	r := &registry{
		static:     make(map[string]*utility),
		functional: make(map[string][]*utility),
	}

	// Accessibility
	r.add("sr-only",
		[2]string{"position", "absolute"},
		[2]string{"width", "1px"},
		[2]string{"height", "1px"},
		[2]string{"padding", "0"},
		[2]string{"margin", "-1px"},
		[2]string{"overflow", "hidden"},
		[2]string{"clip", "rect(0, 0, 0, 0)"},
		[2]string{"white-space", "nowrap"},
		[2]string{"border-width", "0"},
	)

	// Visibility and position
	r.add("visible", [2]string{"visibility", "visible"})
	r.add("invisible", [2]string{"visibility", "hidden"})
	r.add("collapse", [2]string{"visibility", "collapse"})
	for _, v := range []string{"static", "fixed", "absolute", "relative", "sticky"} {
		r.add(v, [2]string{"position", v})
	}

	inset := []string{"inset", "spacing"}
	r.fn(utility{root: "inset", sections: inset, build: property("inset"), negative: true})
	r.fn(utility{root: "inset-x", sections: inset, build: property("left", "right"), negative: true})
	r.fn(utility{root: "inset-y", sections: inset, build: property("top", "bottom"), negative: true})
	for _, side := range []string{"top", "right", "bottom", "left"} {
		r.fn(utility{root: side, sections: inset, build: property(side), negative: true})
	}
	r.fn(utility{root: "z", sections: []string{"zIndex"}, build: property("z-index"), negative: true})

	// Margin
	margin := []string{"margin", "spacing"}
	r.fn(utility{root: "m", sections: margin, build: property("margin"), negative: true, arbitrary: lengthValue})
	r.fn(utility{root: "mx", sections: margin, build: property("margin-left", "margin-right"), negative: true, arbitrary: lengthValue})
	r.fn(utility{root: "my", sections: margin, build: property("margin-top", "margin-bottom"), negative: true, arbitrary: lengthValue})
	r.fn(utility{root: "mt", sections: margin, build: property("margin-top"), negative: true, arbitrary: lengthValue})
	r.fn(utility{root: "mr", sections: margin, build: property("margin-right"), negative: true, arbitrary: lengthValue})
	r.fn(utility{root: "mb", sections: margin, build: property("margin-bottom"), negative: true, arbitrary: lengthValue})
	r.fn(utility{root: "ml", sections: margin, build: property("margin-left"), negative: true, arbitrary: lengthValue})

	// Display
	for _, v := range []string{"block", "inline-block", "inline", "flex", "inline-flex", "table", "table-row", "table-cell", "grid", "inline-grid", "contents", "list-item", "flow-root"} {
		r.add(v, [2]string{"display", v})
	}
	r.add("hidden", [2]string{"display", "none"})

	// Sizing
	r.fn(utility{root: "h", sections: []string{"height", "spacing"}, build: property("height"), arbitrary: lengthValue})
	r.fn(utility{root: "min-h", sections: []string{"minHeight"}, build: property("min-height"), arbitrary: lengthValue})
	r.fn(utility{root: "w", sections: []string{"width", "spacing"}, build: property("width"), arbitrary: lengthValue})
	r.fn(utility{root: "min-w", lookup: keywordLookup(map[string]string{
		"0": "0px", "full": "100%", "min": "min-content", "max": "max-content", "fit": "fit-content",
	}), build: property("min-width"), arbitrary: lengthValue})
	r.fn(utility{root: "max-w", sections: []string{"maxWidth"}, build: property("max-width"), arbitrary: lengthValue})

	// Flexbox
	r.add("flex-1", [2]string{"flex", "1 1 0%"})
	r.add("flex-auto", [2]string{"flex", "1 1 auto"})
	r.add("flex-initial", [2]string{"flex", "0 1 auto"})
	r.add("flex-none", [2]string{"flex", "none"})
	r.add("shrink", [2]string{"flex-shrink", "1"})
	r.add("shrink-0", [2]string{"flex-shrink", "0"})
	r.add("grow", [2]string{"flex-grow", "1"})
	r.add("grow-0", [2]string{"flex-grow", "0"})

	r.add("cursor-pointer", [2]string{"cursor", "pointer"})
	r.add("cursor-default", [2]string{"cursor", "default"})
	r.add("cursor-not-allowed", [2]string{"cursor", "not-allowed"})

	for _, v := range []string{"none", "text", "all", "auto"} {
		r.add("select-"+v, [2]string{"user-select", v})
	}
	r.add("appearance-none", [2]string{"appearance", "none"})

	// Grid
	r.fn(utility{root: "grid-cols", lookup: numberedLookup(12, func(n int) string {
		return "repeat(" + strconv.Itoa(n) + ", minmax(0, 1fr))"
	}, map[string]string{"none": "none"}), build: property("grid-template-columns"), arbitrary: anyValue})
	r.fn(utility{root: "col-span", lookup: numberedLookup(12, func(n int) string {
		return "span " + strconv.Itoa(n) + " / span " + strconv.Itoa(n)
	}, map[string]string{"full": "1 / -1"}), build: property("grid-column"), arbitrary: noArbitrary})
	r.fn(utility{root: "grid-rows", lookup: numberedLookup(6, func(n int) string {
		return "repeat(" + strconv.Itoa(n) + ", minmax(0, 1fr))"
	}, map[string]string{"none": "none"}), build: property("grid-template-rows"), arbitrary: anyValue})

	r.add("flex-row", [2]string{"flex-direction", "row"})
	r.add("flex-row-reverse", [2]string{"flex-direction", "row-reverse"})
	r.add("flex-col", [2]string{"flex-direction", "column"})
	r.add("flex-col-reverse", [2]string{"flex-direction", "column-reverse"})
	r.add("flex-wrap", [2]string{"flex-wrap", "wrap"})
	r.add("flex-wrap-reverse", [2]string{"flex-wrap", "wrap-reverse"})
	r.add("flex-nowrap", [2]string{"flex-wrap", "nowrap"})

	// Alignment
	for _, v := range []string{"start", "end", "center", "baseline", "stretch"} {
		r.add("items-"+v, [2]string{"align-items", flexKeyword(v)})
	}
	for _, v := range []string{"start", "end", "center", "between", "around", "evenly"} {
		r.add("justify-"+v, [2]string{"justify-content", flexKeyword(v)})
	}
	for _, v := range []string{"start", "end", "center", "between", "around", "evenly"} {
		r.add("content-"+v, [2]string{"align-content", flexKeyword(v)})
	}
	for _, v := range []string{"auto", "start", "end", "center", "stretch", "baseline"} {
		r.add("self-"+v, [2]string{"align-self", flexKeyword(v)})
	}

	// Gap and space between
	gap := []string{"gap", "spacing"}
	r.fn(utility{root: "gap", sections: gap, build: property("gap"), arbitrary: lengthValue})
	r.fn(utility{root: "gap-x", sections: gap, build: property("column-gap"), arbitrary: lengthValue})
	r.fn(utility{root: "gap-y", sections: gap, build: property("row-gap"), arbitrary: lengthValue})

	spaceSuffix := " > :not([hidden]) ~ :not([hidden])"
	r.fn(utility{root: "space-x", sections: []string{"space", "spacing"}, build: property("margin-left"), negative: true, arbitrary: lengthValue, suffix: spaceSuffix})
	r.fn(utility{root: "space-y", sections: []string{"space", "spacing"}, build: property("margin-top"), negative: true, arbitrary: lengthValue, suffix: spaceSuffix})

	// Overflow
	for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
		r.add("overflow-"+v, [2]string{"overflow", v})
		r.add("overflow-x-"+v, [2]string{"overflow-x", v})
		r.add("overflow-y-"+v, [2]string{"overflow-y", v})
	}
	r.add("truncate",
		[2]string{"overflow", "hidden"},
		[2]string{"text-overflow", "ellipsis"},
		[2]string{"white-space", "nowrap"},
	)
	for _, v := range []string{"normal", "nowrap", "pre", "pre-line", "pre-wrap"} {
		r.add("whitespace-"+v, [2]string{"white-space", v})
	}

	// Borders
	r.fn(utility{root: "rounded", sections: []string{"borderRadius"}, build: property("border-radius"), arbitrary: lengthValue})
	for _, side := range []struct {
		name  string
		props []string
	}{
		{"t", []string{"border-top-left-radius", "border-top-right-radius"}},
		{"r", []string{"border-top-right-radius", "border-bottom-right-radius"}},
		{"b", []string{"border-bottom-right-radius", "border-bottom-left-radius"}},
		{"l", []string{"border-top-left-radius", "border-bottom-left-radius"}},
	} {
		r.fn(utility{root: "rounded-" + side.name, sections: []string{"borderRadius"}, build: property(side.props...), arbitrary: lengthValue})
	}
	r.fn(utility{root: "border", sections: []string{"borderWidth"}, build: property("border-width"), arbitrary: lengthValue})
	for _, side := range []struct {
		name  string
		props []string
	}{
		{"x", []string{"border-left-width", "border-right-width"}},
		{"y", []string{"border-top-width", "border-bottom-width"}},
		{"t", []string{"border-top-width"}},
		{"r", []string{"border-right-width"}},
		{"b", []string{"border-bottom-width"}},
		{"l", []string{"border-left-width"}},
	} {
		r.fn(utility{root: "border-" + side.name, sections: []string{"borderWidth"}, build: property(side.props...), arbitrary: lengthValue})
	}
	for _, v := range []string{"solid", "dashed", "dotted", "double", "none"} {
		r.add("border-"+v, [2]string{"border-style", v})
	}
	r.fn(utility{root: "border", sections: []string{"borderColor", "colors"}, build: property("border-color"), arbitrary: colorValue})

	// Backgrounds
	r.fn(utility{root: "bg", sections: []string{"backgroundColor", "colors"}, build: property("background-color"), arbitrary: anyValue})

	// Padding
	padding := []string{"padding", "spacing"}
	r.fn(utility{root: "p", sections: padding, build: property("padding"), arbitrary: lengthValue})
	r.fn(utility{root: "px", sections: padding, build: property("padding-left", "padding-right"), arbitrary: lengthValue})
	r.fn(utility{root: "py", sections: padding, build: property("padding-top", "padding-bottom"), arbitrary: lengthValue})
	r.fn(utility{root: "pt", sections: padding, build: property("padding-top"), arbitrary: lengthValue})
	r.fn(utility{root: "pr", sections: padding, build: property("padding-right"), arbitrary: lengthValue})
	r.fn(utility{root: "pb", sections: padding, build: property("padding-bottom"), arbitrary: lengthValue})
	r.fn(utility{root: "pl", sections: padding, build: property("padding-left"), arbitrary: lengthValue})

	// Typography
	for _, v := range []string{"left", "center", "right", "justify", "start", "end"} {
		r.add("text-"+v, [2]string{"text-align", v})
	}
	r.fn(utility{root: "text", sections: []string{"fontSize"}, build: property("font-size"), arbitrary: lengthValue,
		extra: func(key string, th *Theme) [][2]string {
			if lh, ok := th.Lookup(key, lineHeightSection); ok {
				return [][2]string{{"line-height", lh}}
			}
			return nil
		}})
	r.fn(utility{root: "font", sections: []string{"fontWeight"}, build: property("font-weight"), arbitrary: noArbitrary})
	r.add("uppercase", [2]string{"text-transform", "uppercase"})
	r.add("lowercase", [2]string{"text-transform", "lowercase"})
	r.add("capitalize", [2]string{"text-transform", "capitalize"})
	r.add("normal-case", [2]string{"text-transform", "none"})
	r.add("italic", [2]string{"font-style", "italic"})
	r.add("not-italic", [2]string{"font-style", "normal"})
	r.fn(utility{root: "leading", sections: []string{"lineHeight", "spacing"}, build: property("line-height"), arbitrary: anyValue})
	r.fn(utility{root: "text", sections: []string{"textColor", "colors"}, build: property("color"), arbitrary: colorValue})
	r.add("underline", [2]string{"text-decoration-line", "underline"})
	r.add("overline", [2]string{"text-decoration-line", "overline"})
	r.add("line-through", [2]string{"text-decoration-line", "line-through"})
	r.add("no-underline", [2]string{"text-decoration-line", "none"})

	// Effects
	r.fn(utility{root: "opacity", sections: []string{"opacity"}, build: property("opacity"), arbitrary: anyValue})
	r.fn(utility{root: "shadow", sections: []string{"boxShadow"}, build: property("box-shadow"), arbitrary: anyValue})

	// Filters
	r.fn(utility{root: "backdrop-blur", sections: []string{"backdropBlur", "blur"}, build: func(v string) [][2]string {
		return [][2]string{{"backdrop-filter", "blur(" + v + ")"}}
	}, arbitrary: lengthValue})

	r.sortRoots()
	return r
}

func flexKeyword(v string) string {
	switch v {
	case "start", "end":
		return "flex-" + v
	case "between", "around", "evenly":
		return "space-" + v
	}
	return v
}

func keywordLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}
