package stylesheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// parserState maintains context while building the tree
type parserState struct {
	sheet *Stylesheet
	stack []*[]Node // Open containers, innermost last
	raw   *Raw      // Raw node receiving tokens of an unknown at-rule body
}

// Parse parses CSS content into a Stylesheet. The name is only used in
// error messages.
func Parse(content string, name string) (*Stylesheet, error) {
	state := &parserState{sheet: &Stylesheet{Name: name}}
	state.stack = []*[]Node{&state.sheet.Nodes}

	p := css.NewParser(parse.NewInputString(content), false)

	for {
		gt, _, data := p.Next()

		switch gt {
		case css.ErrorGrammar:
			err := p.Err()
			if errors.Is(err, io.EOF) {
				return state.sheet, nil
			}
			return nil, fmt.Errorf("parse %s: %w", name, err)

		case css.CommentGrammar:
			state.push(&Comment{Text: string(data)})

		case css.AtRuleGrammar:
			state.push(&AtRule{
				Name:   atRuleName(data),
				Params: joinPrelude(p.Values()),
			})

		case css.BeginAtRuleGrammar:
			at := &AtRule{
				Name:     atRuleName(data),
				Params:   joinPrelude(p.Values()),
				HasBlock: true,
			}
			state.push(at)
			state.open(&at.Nodes)

		case css.BeginRulesetGrammar:
			rule := &Rule{Selectors: splitSelectorTokens(p.Values())}
			state.push(rule)
			state.open(&rule.Nodes)

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			state.close()

		case css.DeclarationGrammar:
			state.push(newDeclaration(string(data), p.Values()))

		case css.CustomPropertyGrammar:
			value := ""
			if values := p.Values(); len(values) > 0 {
				value = strings.TrimSpace(string(values[0].Data))
			}
			state.push(&Declaration{Property: string(data), Value: value})

		case css.TokenGrammar:
			// Body of an unknown at-rule; stray CDO/CDC tokens at the top level are dropped
			if len(state.stack) > 1 {
				state.appendRaw(string(data))
			}
		}
	}
}

// MustParse parses CSS that is known to be valid (embedded assets, tests).
func MustParse(content string, name string) *Stylesheet {
	sheet, err := Parse(content, name)
	if err != nil {
		panic(err)
	}
	return sheet
}

func (s *parserState) push(n Node) {
	s.raw = nil
	top := s.stack[len(s.stack)-1]
	*top = append(*top, n)
}

func (s *parserState) open(children *[]Node) {
	s.raw = nil
	s.stack = append(s.stack, children)
}

func (s *parserState) close() {
	s.raw = nil
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *parserState) appendRaw(text string) {
	if s.raw == nil {
		s.raw = &Raw{}
		top := s.stack[len(s.stack)-1]
		*top = append(*top, s.raw)
	}
	s.raw.Text += text
}

// atRuleName strips the '@' from an at-keyword token
func atRuleName(data []byte) string {
	return strings.TrimPrefix(string(data), "@")
}

// newDeclaration builds a declaration, splitting off a trailing !important
func newDeclaration(property string, values []css.Token) *Declaration {
	decl := &Declaration{Property: property}

	n := len(values)
	if n >= 2 &&
		values[n-2].TokenType == css.DelimToken && string(values[n-2].Data) == "!" &&
		values[n-1].TokenType == css.IdentToken && strings.EqualFold(string(values[n-1].Data), "important") {
		decl.Important = true
		values = values[:n-2]
	}

	decl.Value = strings.TrimSpace(joinTokens(values))
	return decl
}

// joinTokens concatenates token data. The parser already collapsed
// whitespace into single-space tokens; commas get a trailing space back.
func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
		if t.TokenType == css.CommaToken {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// joinPrelude concatenates at-rule prelude tokens. The parser drops the
// whitespace after ':' and ','; it is put back after commas and after
// colons directly inside a parenthesized condition, so "(min-width: 1px)"
// survives while "@page :first" and "selector(a:hover)" stay tight.
func joinPrelude(tokens []css.Token) string {
	var b strings.Builder
	var open []bool // true for a bare '(' condition, false for a function
	for i, t := range tokens {
		b.Write(t.Data)
		switch t.TokenType {
		case css.LeftParenthesisToken:
			open = append(open, true)
		case css.FunctionToken:
			open = append(open, false)
		case css.RightParenthesisToken:
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
		inCondition := len(open) > 0 && open[len(open)-1]
		space := t.TokenType == css.CommaToken ||
			t.TokenType == css.ColonToken && inCondition
		if space && i+1 < len(tokens) && tokens[i+1].TokenType != css.WhitespaceToken {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// splitSelectorTokens splits a selector list on top-level commas
func splitSelectorTokens(tokens []css.Token) []string {
	var selectors []string
	var current strings.Builder
	depth := 0

	flush := func() {
		if sel := strings.TrimSpace(current.String()); sel != "" {
			selectors = append(selectors, sel)
		}
		current.Reset()
	}

	for _, t := range tokens {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				flush()
				continue
			}
		}
		current.Write(t.Data)
		if t.TokenType == css.CommaToken {
			current.WriteByte(' ')
		}
	}
	flush()

	return selectors
}

// SplitSelectors splits a selector list string on top-level commas.
func SplitSelectors(list string) []string {
	var selectors []string
	depth := 0
	start := 0
	escaped := false

	for i, r := range list {
		switch {
		case escaped:
			escaped = false
			continue
		case r == '\\':
			escaped = true
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth--
		case r == ',' && depth == 0:
			if sel := strings.TrimSpace(list[start:i]); sel != "" {
				selectors = append(selectors, sel)
			}
			start = i + 1
		}
	}
	if sel := strings.TrimSpace(list[start:]); sel != "" {
		selectors = append(selectors, sel)
	}

	return selectors
}
