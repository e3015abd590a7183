package css

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/jmylchreest/mdyou/internal/scheme"
)

// Stats summarises a Retrofit run.
type Stats struct {
	// Replaced counts rewritten colour literals.
	Replaced int
	// ByRole counts replacements per role.
	ByRole map[scheme.Role]int
	// Unmatched lists hex literals in declaration values with no alias.
	Unmatched []string
}

// Retrofit rewrites hex colour literals in declaration values to
// var(<prefix><role>, <literal>) using table. Selectors, comments, strings,
// existing var() expressions and declarations of prefix properties are
// left as they are. Everything else is copied byte for byte.
func Retrofit(src []byte, table AliasTable, prefix string) ([]byte, Stats, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	r := &retrofitter{
		table:  table,
		prefix: prefix,
		stats:  Stats{ByRole: map[scheme.Role]int{}},
		seen:   map[string]bool{},
	}

	l := css.NewLexer(parse.NewInputBytes(src))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, Stats{}, fmt.Errorf("failed to tokenise stylesheet: %w", err)
			}
			break
		}
		r.token(tt, data)
	}
	r.flush(true)

	return r.out.Bytes(), r.stats, nil
}

type pendingToken struct {
	tt   css.TokenType
	data []byte
}

// retrofitter buffers the tokens of a declaration value so that a value
// that turns out to be a nested selector (terminated by '{') is written
// back untouched.
type retrofitter struct {
	table  AliasTable
	prefix string
	out    bytes.Buffer
	stats  Stats
	seen   map[string]bool

	depth    int
	inValue  bool
	skip     bool
	pending  []pendingToken
	lastName string
}

func (r *retrofitter) token(tt css.TokenType, data []byte) {
	if !r.inValue {
		switch tt {
		case css.LeftBraceToken:
			r.depth++
			r.lastName = ""
		case css.RightBraceToken:
			if r.depth > 0 {
				r.depth--
			}
			r.lastName = ""
		case css.SemicolonToken:
			r.lastName = ""
		case css.IdentToken, css.CustomPropertyNameToken:
			r.lastName = string(data)
		case css.ColonToken:
			if r.depth > 0 && r.lastName != "" {
				r.out.Write(data)
				r.startValue(r.lastName)
				return
			}
		case css.WhitespaceToken, css.CommentToken:
		default:
			r.lastName = ""
		}
		r.out.Write(data)
		return
	}

	switch tt {
	case css.SemicolonToken, css.RightBraceToken:
		r.flush(true)
		r.out.Write(data)
		if tt == css.RightBraceToken && r.depth > 0 {
			r.depth--
		}
		r.lastName = ""
		return
	case css.LeftBraceToken:
		// Not a declaration after all, e.g. "a:hover {".
		r.flush(false)
		r.out.Write(data)
		r.depth++
		r.lastName = ""
		return
	}
	r.pending = append(r.pending, pendingToken{tt: tt, data: append([]byte(nil), data...)})
}

func (r *retrofitter) startValue(property string) {
	r.inValue = true
	r.skip = strings.HasPrefix(property, r.prefix)
	r.pending = r.pending[:0]
	r.lastName = ""
}

func (r *retrofitter) flush(declaration bool) {
	if !r.inValue {
		return
	}
	rewrite := declaration && !r.skip

	inVar := 0
	var stack []bool
	for _, tok := range r.pending {
		switch tok.tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			isVar := tok.tt == css.FunctionToken && strings.EqualFold(string(tok.data), "var(")
			stack = append(stack, isVar)
			if isVar {
				inVar++
			}
		case css.RightParenthesisToken:
			if n := len(stack); n > 0 {
				if stack[n-1] {
					inVar--
				}
				stack = stack[:n-1]
			}
		case css.HashToken:
			if rewrite && inVar == 0 && r.replace(tok.data) {
				continue
			}
		}
		r.out.Write(tok.data)
	}

	r.inValue = false
	r.skip = false
	r.pending = r.pending[:0]
}

func (r *retrofitter) replace(literal []byte) bool {
	hex := string(literal)
	role, ok := r.table.Lookup(hex)
	if !ok {
		if isColourHash(hex) {
			upper := strings.ToUpper(hex)
			if !r.seen[upper] {
				r.seen[upper] = true
				r.stats.Unmatched = append(r.stats.Unmatched, upper)
			}
		}
		return false
	}
	fmt.Fprintf(&r.out, "var(%s, %s)", PropertyName(r.prefix, role), hex)
	r.stats.Replaced++
	r.stats.ByRole[role]++
	return true
}

func isColourHash(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	switch len(s) - 1 {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
