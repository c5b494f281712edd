package token

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// bfLexer recognizes only the eight significant Brainfuck characters as
// tokens; every other rune (comments, in BF parlance) is matched by the
// catch-all "Other" rule and elided by the parser below. Grounded directly
// on the teacher's grammar.KansoLexer — same lexer.MustStateful shape, one
// rule per token class.
var bfLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Op", Pattern: `[+\-<>\[\],.]`},
		{Name: "Other", Pattern: `[^+\-<>\[\],.]+`},
	},
})

// program and node mirror grammar.Program/grammar.Module: a participle
// grammar over tagged structs that lets the recursive-descent parser reject
// unbalanced brackets as a parse error, rather than hand-rolling a bracket
// stack here.
type program struct {
	Nodes []*node `@@*`
}

type node struct {
	Pos  lexer.Position
	Loop *loop  `  @@`
	Op   string `| @("+" | "-" | "<" | ">" | "," | ".")`
}

type loop struct {
	Pos   lexer.Position
	Open  string  `"["`
	Body  []*node `@@*`
	Close string  `"]"`
}

var bfParser = participle.MustBuild[program](
	participle.Lexer(bfLexer),
	participle.Elide("Other"),
)

// Parse tokenizes and bracket-matches a Brainfuck source file, returning the
// flat token Stream the Builder consumes. Unmatched brackets surface as a
// participle.Error from the parser; callers render it with
// errors.FormatParseError.
func Parse(filename, source string) (Stream, error) {
	p, err := bfParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	var out Stream
	flatten(p.Nodes, &out)
	return out, nil
}

// ParseFile reads path and parses it, wrapping a read failure distinctly
// from a parse failure so callers can tell InputIO from UnbalancedBrackets
// apart (spec.md §7).
func ParseFile(path string) (Stream, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, string(source))
}

func flatten(nodes []*node, out *Stream) {
	for _, n := range nodes {
		if n.Loop != nil {
			*out = append(*out, Token{Kind: LoopOpen, Pos: toPos(n.Loop.Pos)})
			flatten(n.Loop.Body, out)
			*out = append(*out, Token{Kind: LoopClose, Pos: toPos(n.Loop.Pos)})
			continue
		}
		*out = append(*out, Token{Kind: opKind(n.Op), Pos: toPos(n.Pos)})
	}
}

func opKind(op string) Kind {
	switch op {
	case "+":
		return Inc
	case "-":
		return Dec
	case "<":
		return Left
	case ">":
		return Right
	case ".":
		return Output
	case ",":
		return Input
	default:
		panic("token: unreachable op " + op)
	}
}

func toPos(p lexer.Position) Position {
	return Position{Filename: p.Filename, Line: p.Line, Column: p.Column, Offset: p.Offset}
}
