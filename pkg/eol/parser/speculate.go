package parser

import (
	"github.com/sambeau/eol/pkg/eol/ast"
	perrors "github.com/sambeau/eol/pkg/eol/errors"
)

// try runs rule speculatively. If rule fails the cursor is put back where
// it was and ok is false; the failure itself is not an error. Depth errors
// are the exception and are returned, since no other alternative can get
// further down the same input.
//
// Attempts nest: an inner try rewinds to its own mark before the outer one
// sees the result.
func (p *Parser) try(rule func() error) (ok bool, err error) {
	m := p.mark()
	if err := rule(); err != nil {
		p.rewind(m)
		if isFatal(err) {
			return false, err
		}
		p.noteFailure(err)
		return false, nil
	}
	return true, nil
}

// tryNode is try for rules that produce a single node.
func (p *Parser) tryNode(rule func() (*ast.Node, error)) (*ast.Node, error) {
	var node *ast.Node
	ok, err := p.try(func() error {
		n, err := rule()
		node = n
		return err
	})
	if !ok {
		return nil, err
	}
	return node, nil
}

func isFatal(err error) bool {
	pe, ok := err.(*perrors.ParseError)
	return ok && pe.Class == perrors.ClassDepth
}

// noteFailure remembers the swallowed error that got furthest into the
// input.
func (p *Parser) noteFailure(err error) {
	pe, ok := err.(*perrors.ParseError)
	if !ok {
		return
	}
	if p.furthest == nil || pe.Offset > p.furthest.Offset {
		p.furthest = pe
	}
}

// preferFurthest picks the error to report once every alternative has
// failed. A generic mismatch or dead end is replaced by a speculative
// failure that got further, since that is usually where the input is
// actually wrong: in "x := ;" the assignment attempt reaches the ";"
// while the committed expression statement already stops at ":=".
func (p *Parser) preferFurthest(err error) error {
	pe, ok := err.(*perrors.ParseError)
	if !ok || p.furthest == nil {
		return err
	}
	if pe.Class != perrors.ClassMismatched && pe.Class != perrors.ClassNoViable {
		return err
	}
	if pe.Code != "PARSE-0001" && pe.Code != "PARSE-0002" {
		return err
	}
	if p.furthest.Offset > pe.Offset {
		return p.furthest
	}
	return err
}
