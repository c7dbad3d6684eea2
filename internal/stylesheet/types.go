// Package stylesheet provides a small CSS syntax tree used by the
// regeneration pipeline: parse once, transform in stages, print once.
package stylesheet

// Node is any element of a stylesheet: comments, rules, at-rules,
// declarations and raw text.
type Node interface {
	node()
}

// Comment is a CSS comment including its /* */ delimiters.
type Comment struct {
	Text string
}

// Declaration is a property: value pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is a qualified rule: a selector list followed by a block.
type Rule struct {
	Selectors []string // ".btn", ".btn:hover" (one entry per comma separated selector)
	Nodes     []Node   // Declarations, nested at-rules (@apply) and comments
}

// AtRule is an at-rule such as @media, @tailwind or @apply.
type AtRule struct {
	Name     string // Without the leading '@'
	Params   string
	Nodes    []Node
	HasBlock bool // False for statement at-rules ending in ';'
}

// Raw holds text we keep verbatim, such as the body of an unknown at-rule.
type Raw struct {
	Text string
}

// Stylesheet is the root of a parsed document.
type Stylesheet struct {
	Name  string // Source name used in error messages
	Nodes []Node
}

func (*Comment) node()     {}
func (*Declaration) node() {}
func (*Rule) node()        {}
func (*AtRule) node()      {}
func (*Raw) node()         {}

// Decl is a shorthand constructor used by generators.
func Decl(property, value string) *Declaration {
	return &Declaration{Property: property, Value: value}
}

// Declarations returns the declarations directly inside the rule.
func (r *Rule) Declarations() []*Declaration {
	var decls []*Declaration
	for _, n := range r.Nodes {
		if d, ok := n.(*Declaration); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// Clone returns a deep copy of a node.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Comment:
		c := *v
		return &c
	case *Declaration:
		c := *v
		return &c
	case *Raw:
		c := *v
		return &c
	case *Rule:
		return &Rule{
			Selectors: append([]string(nil), v.Selectors...),
			Nodes:     CloneAll(v.Nodes),
		}
	case *AtRule:
		return &AtRule{
			Name:     v.Name,
			Params:   v.Params,
			Nodes:    CloneAll(v.Nodes),
			HasBlock: v.HasBlock,
		}
	default:
		return n
	}
}

// CloneAll deep copies a node list.
func CloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

// WalkRules calls fn for every rule in the tree, depth first, passing the
// enclosing at-rules from outermost to innermost.
func WalkRules(nodes []Node, fn func(rule *Rule, ancestors []*AtRule)) {
	walkRules(nodes, nil, fn)
}

func walkRules(nodes []Node, ancestors []*AtRule, fn func(*Rule, []*AtRule)) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *Rule:
			fn(v, ancestors)
			walkRules(v.Nodes, ancestors, fn)
		case *AtRule:
			walkRules(v.Nodes, append(ancestors[:len(ancestors):len(ancestors)], v), fn)
		}
	}
}
