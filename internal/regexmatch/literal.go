// Package regexmatch extracts a literal/n-gram expression from a parsed
// regular expression's syntax tree and classifies whether that expression is
// an exact stand-in for the regex itself: a regex predicate can be answered
// straight from the n-gram index, without falling back to a per-document
// regex scan, iff it uses no look-around assertions and the extracted
// expression matches exactly the same document set as the full regex.
//
// regexp/syntax.Regexp is the parsed syntax tree Go's own regexp engine
// compiles from, so it is used directly here rather than introducing a
// separate parser: no third-party package in this codebase's dependency set
// offers a regex AST, and regexp/syntax already exposes exactly the
// concatenation/alternation/repetition node shapes literal extraction needs
// to walk. The technique below — walking those nodes to find substrings that
// must appear in any match — is the same one indexed grep tools use to turn
// a regex into a trigram-index pre-filter.
package regexmatch

import "regexp/syntax"

// LiteralExpr is the extracted literal/n-gram expression: either a single
// required literal substring, a conjunction of sub-expressions that must
// all match (from concatenation), or a disjunction of sub-expressions where
// at least one must match (from alternation). A nil *LiteralExpr means "no
// literal constraint could be extracted" — the spec's "no filter possible"
// case, which both MatchLiteralExpression and CanMatchExactly treat as "all
// documents might match."
type LiteralExpr struct {
	Literal  string
	And      []*LiteralExpr
	Or       []*LiteralExpr
}

func literal(s string) *LiteralExpr { return &LiteralExpr{Literal: s} }

// IsLiteral reports whether e is a single required literal (not an And/Or
// composition).
func (e *LiteralExpr) IsLiteral() bool {
	return e != nil && e.Literal != "" && len(e.And) == 0 && len(e.Or) == 0
}

// FromSyntax extracts a LiteralExpr from re, the top-level entry point used
// by MetadataProvider's segment-side regex evaluation.
func FromSyntax(re *syntax.Regexp) *LiteralExpr {
	re = unwrapAnchorsAndCaptures(re)
	return extract(re)
}

// unwrapAnchorsAndCaptures strips capture groups and top-level
// begin/end-text anchors so a fully-anchored literal regex like `^foo$`
// still extracts the same literal as the bare `foo`. The anchors themselves
// are still look assertions, so Pattern.HasLookAssertion keeps such a regex
// from being treated as exact.
func unwrapAnchorsAndCaptures(re *syntax.Regexp) *syntax.Regexp {
	for {
		switch re.Op {
		case syntax.OpCapture:
			if len(re.Sub) == 1 {
				re = re.Sub[0]
				continue
			}
		case syntax.OpConcat:
			filtered := stripAnchors(re.Sub)
			if len(filtered) == 1 {
				re = filtered[0]
				continue
			}
			if len(filtered) != len(re.Sub) {
				cp := *re
				cp.Sub = filtered
				return &cp
			}
		}
		return re
	}
}

func stripAnchors(subs []*syntax.Regexp) []*syntax.Regexp {
	out := make([]*syntax.Regexp, 0, len(subs))
	for _, s := range subs {
		if s.Op == syntax.OpBeginText || s.Op == syntax.OpBeginLine ||
			s.Op == syntax.OpEndText || s.Op == syntax.OpEndLine {
			continue
		}
		out = append(out, s)
	}
	return out
}

func extract(re *syntax.Regexp) *LiteralExpr {
	switch re.Op {
	case syntax.OpLiteral:
		return literal(string(re.Rune))
	case syntax.OpCapture:
		if len(re.Sub) == 1 {
			return extract(re.Sub[0])
		}
		return nil
	case syntax.OpConcat:
		return extractConcat(re.Sub)
	case syntax.OpAlternate:
		return extractAlternate(re.Sub)
	case syntax.OpPlus:
		// x+ requires at least one x: its literal contribution (if any)
		// still must appear, so it participates like a single occurrence.
		if len(re.Sub) == 1 {
			return extract(re.Sub[0])
		}
		return nil
	default:
		// OpStar, OpQuest, OpRepeat (with min 0), OpAnyChar, OpCharClass,
		// OpBeginText/OpEndText/OpWordBoundary/..., OpEmptyMatch: none of
		// these guarantee a literal substring must occur, so they
		// contribute nothing to the literal expression.
		return nil
	}
}

// extractConcat builds the conjunction of every sub-expression's literal
// contribution, merging adjacent required literals into a single run (the
// same way the regex engine would have merged them into one OpLiteral had
// they not been split by, say, an intervening capture boundary).
func extractConcat(subs []*syntax.Regexp) *LiteralExpr {
	var parts []*LiteralExpr
	var run string

	flush := func() {
		if run != "" {
			parts = append(parts, literal(run))
			run = ""
		}
	}

	for _, s := range subs {
		sub := extract(s)
		if sub.IsLiteral() {
			run += sub.Literal
			continue
		}
		flush()
		if sub != nil {
			parts = append(parts, sub)
		}
	}
	flush()

	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	default:
		return &LiteralExpr{And: parts}
	}
}

// extractAlternate builds the disjunction of every branch's literal
// contribution. Per spec, a regex is only an exact candidate filter when
// every branch can be pinned down; if any branch contributes nothing, the
// alternation as a whole can't narrow the candidate set, so the whole
// expression is dropped (nil).
func extractAlternate(subs []*syntax.Regexp) *LiteralExpr {
	parts := make([]*LiteralExpr, 0, len(subs))
	for _, s := range subs {
		sub := extract(s)
		if sub == nil {
			return nil
		}
		parts = append(parts, sub)
	}
	if len(parts) == 0 {
		return nil
	}
	return &LiteralExpr{Or: parts}
}
