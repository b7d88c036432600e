package regexmatch

import (
	"regexp"
	"regexp/syntax"

	pferrors "github.com/iamNilotpal/predicatefilter/pkg/errors"
)

// Pattern bundles a compiled regular expression with its parsed syntax tree
// and a precomputed LiteralExpr, so MetadataProvider's regex path (spec
// §4.3) only pays the parse cost once per predicate node.
type Pattern struct {
	source   string
	compiled *regexp.Regexp
	syntax   *syntax.Regexp
	hasLook  bool
	literal  *LiteralExpr
}

// Parse compiles pattern, returning a pferrors.RegexError (spec §7.6,
// always invalid-argument) if it is not a valid regular expression.
func Parse(pattern string) (*Pattern, error) {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, pferrors.NewRegexError(err, "failed to parse regular expression").
			WithPattern(pattern)
	}

	tree, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, pferrors.NewRegexError(err, "failed to parse regular expression syntax").
			WithPattern(pattern)
	}
	tree = tree.Simplify()

	return &Pattern{
		source:   pattern,
		compiled: compiled,
		syntax:   tree,
		hasLook:  hasLookAssertion(tree),
		literal:  FromSyntax(tree),
	}, nil
}

// Source returns the original pattern text.
func (p *Pattern) Source() string { return p.source }

// MatchString reports whether the compiled expression matches s anywhere.
func (p *Pattern) MatchString(s string) bool { return p.compiled.MatchString(s) }

// LiteralExpr returns the literal/n-gram expression extracted from this
// pattern's syntax tree, or nil if none could be extracted (spec §4.3:
// "treated as 'no filter possible', i.e. 'all documents'").
func (p *Pattern) LiteralExpr() *LiteralExpr { return p.literal }

// HasLookAssertion reports whether the parsed expression uses any
// zero-width look assertion (anchors, word boundaries) anywhere in its
// tree. Spec §4.3 exactness requires the HIR use "no look-around
// assertions" — the Go analogue of Rust regex-syntax's non-empty Look set.
func (p *Pattern) HasLookAssertion() bool { return p.hasLook }

func hasLookAssertion(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	}
	for _, sub := range re.Sub {
		if hasLookAssertion(sub) {
			return true
		}
	}
	return false
}
