package stylesheet

import (
	"strings"
)

const indentUnit = "  "

// Print renders the stylesheet. Output is deterministic: two-space
// indentation, one declaration per line, blank lines between blocks.
func Print(sheet *Stylesheet) string {
	var b strings.Builder
	printNodes(&b, sheet.Nodes, 0)
	out := b.String()
	if out == "" {
		return ""
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// PrintNodes renders a node list at the top level.
func PrintNodes(nodes []Node) string {
	return Print(&Stylesheet{Nodes: nodes})
}

func printNodes(b *strings.Builder, nodes []Node, depth int) {
	var prev Node
	for _, n := range nodes {
		if prev != nil && isBlock(prev) && isBlock(n) {
			b.WriteByte('\n')
		}
		printNode(b, n, depth)
		prev = n
	}
}

func printNode(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch v := n.(type) {
	case *Comment:
		b.WriteString(indent)
		b.WriteString(v.Text)
		b.WriteByte('\n')

	case *Declaration:
		b.WriteString(indent)
		b.WriteString(v.Property)
		b.WriteString(": ")
		b.WriteString(v.Value)
		if v.Important {
			b.WriteString(" !important")
		}
		b.WriteString(";\n")

	case *Raw:
		text := strings.TrimSpace(v.Text)
		if text == "" {
			return
		}
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(indent)
			b.WriteString(strings.TrimSpace(line))
			b.WriteByte('\n')
		}

	case *Rule:
		b.WriteString(indent)
		b.WriteString(strings.Join(v.Selectors, ",\n"+indent))
		b.WriteString(" {\n")
		printNodes(b, v.Nodes, depth+1)
		b.WriteString(indent)
		b.WriteString("}\n")

	case *AtRule:
		b.WriteString(indent)
		b.WriteByte('@')
		b.WriteString(v.Name)
		if v.Params != "" {
			b.WriteByte(' ')
			b.WriteString(v.Params)
		}
		if !v.HasBlock {
			b.WriteString(";\n")
			return
		}
		b.WriteString(" {\n")
		printNodes(b, v.Nodes, depth+1)
		b.WriteString(indent)
		b.WriteString("}\n")
	}
}

func isBlock(n Node) bool {
	switch v := n.(type) {
	case *Rule:
		return true
	case *AtRule:
		return v.HasBlock
	}
	return false
}
