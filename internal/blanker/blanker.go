// Package blanker turns solved koans into the koans a learner starts from.
// Every answer marker __(v) is replaced by a FillMeIn[T]() placeholder.
package blanker

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
)

const (
	// MarkerFunc marks an answer in the solved koans
	MarkerFunc = "__"
	// PlaceholderFunc stands in for an answer in a learner's koans
	PlaceholderFunc = "FillMeIn"
)

// ErrCannotInferType is returned for a marker whose type cannot be read off
// its argument. Such markers need the explicit form __[T](v).
var ErrCannotInferType = errors.New("cannot infer placeholder type")

// builtin types a conversion such as byte(',') can name
var builtinTypes = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"byte": true, "rune": true, "float32": true, "float64": true,
	"complex64": true, "complex128": true,
}

// Blanker rewrites answer markers into placeholders
type Blanker struct{}

// New creates a new Blanker
func New() *Blanker {
	return &Blanker{}
}

// Blank rewrites every answer marker of a Go source file and returns the
// formatted result together with the number of placeholders written.
func (b *Blanker) Blank(filename string, src []byte) ([]byte, int, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, 0, fmt.Errorf("error parsing file %s: %w", filename, err)
	}

	count := 0
	var inferErr error
	ast.Inspect(file, func(n ast.Node) bool {
		if inferErr != nil {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		explicit, isMarker := markerType(call)
		if !isMarker {
			return true
		}

		typ := explicit
		if typ == nil {
			if len(call.Args) != 1 {
				inferErr = fmt.Errorf("%s: %s takes exactly one argument", fset.Position(call.Pos()), MarkerFunc)
				return false
			}
			typ, err = InferType(call.Args[0])
			if err != nil {
				inferErr = fmt.Errorf("%s: %w", fset.Position(call.Pos()), err)
				return false
			}
		}

		// The call node is rewritten in place so that comments keep their positions
		call.Fun = &ast.IndexExpr{
			X:      &ast.Ident{NamePos: call.Fun.Pos(), Name: PlaceholderFunc},
			Lbrack: call.Lparen,
			Index:  typ,
			Rbrack: call.Lparen,
		}
		call.Args = nil
		call.Ellipsis = token.NoPos
		count++
		return false
	})
	if inferErr != nil {
		return nil, 0, inferErr
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, 0, fmt.Errorf("error formatting file %s: %w", filename, err)
	}
	return buf.Bytes(), count, nil
}

// markerType reports whether call is an answer marker, and returns its type
// argument when it was written explicitly.
func markerType(call *ast.CallExpr) (ast.Expr, bool) {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return nil, fun.Name == MarkerFunc
	case *ast.IndexExpr:
		if id, ok := fun.X.(*ast.Ident); ok && id.Name == MarkerFunc {
			return fun.Index, true
		}
	}
	return nil, false
}

// InferType returns the type of an answer as Go source: the default type of
// a literal, the type of a composite literal, or the type a conversion names.
func InferType(expr ast.Expr) (ast.Expr, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		switch e.Kind {
		case token.STRING:
			return ast.NewIdent("string"), nil
		case token.INT:
			return ast.NewIdent("int"), nil
		case token.FLOAT:
			return ast.NewIdent("float64"), nil
		case token.CHAR:
			return ast.NewIdent("rune"), nil
		case token.IMAG:
			return ast.NewIdent("complex128"), nil
		}
	case *ast.Ident:
		if e.Name == "true" || e.Name == "false" {
			return ast.NewIdent("bool"), nil
		}
	case *ast.CompositeLit:
		if e.Type != nil {
			return e.Type, nil
		}
	case *ast.ParenExpr:
		return InferType(e.X)
	case *ast.UnaryExpr:
		if e.Op == token.SUB || e.Op == token.ADD {
			return InferType(e.X)
		}
		if e.Op == token.AND {
			if lit, ok := e.X.(*ast.CompositeLit); ok && lit.Type != nil {
				return &ast.StarExpr{X: lit.Type}, nil
			}
		}
	case *ast.CallExpr:
		if id, ok := e.Fun.(*ast.Ident); ok && builtinTypes[id.Name] && len(e.Args) == 1 {
			return ast.NewIdent(id.Name), nil
		}
	}
	return nil, fmt.Errorf("%w from %T", ErrCannotInferType, expr)
}
