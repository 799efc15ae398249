package discovery

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"unicode"
	"unicode/utf8"

	"gokoans/internal/domain"
)

// PlaceholderFunc is the function that marks a value left for the learner
const PlaceholderFunc = "FillMeIn"

// Parser parses koan files to extract koans
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindKoans finds all koans in a koan file, in source order
func (p *Parser) FindKoans(filePath string) ([]domain.Koan, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, content, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("error parsing file %s: %w", filePath, err)
	}

	topic := TopicName(filePath)

	var koans []domain.Koan
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !isTestFunc(fn) {
			continue
		}
		koans = append(koans, domain.Koan{
			Name:         fn.Name.Name,
			Topic:        topic,
			FilePath:     filePath,
			Line:         fset.Position(fn.Pos()).Line,
			Placeholders: CountPlaceholders(fn.Body),
		})
	}

	return koans, nil
}

// isTestFunc applies the go test rules: TestXxx with Xxx not starting with a
// lower case letter, taking a single *testing.T.
func isTestFunc(fn *ast.FuncDecl) bool {
	if fn.Recv != nil || fn.Body == nil {
		return false
	}
	name := fn.Name.Name
	if len(name) < 4 || name[:4] != "Test" {
		return false
	}
	if len(name) > 4 {
		r, _ := utf8.DecodeRuneInString(name[4:])
		if unicode.IsLower(r) {
			return false
		}
	}

	params := fn.Type.Params.List
	if len(params) != 1 || len(params[0].Names) > 1 {
		return false
	}
	star, ok := params[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "T" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "testing"
}

// CountPlaceholders counts the FillMeIn calls below node
func CountPlaceholders(node ast.Node) int {
	if node == nil {
		return 0
	}
	count := 0
	ast.Inspect(node, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if ok && isPlaceholder(call.Fun) {
			count++
		}
		return true
	})
	return count
}

func isPlaceholder(fun ast.Expr) bool {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name == PlaceholderFunc
	case *ast.SelectorExpr:
		return f.Sel.Name == PlaceholderFunc
	case *ast.IndexExpr:
		return isPlaceholder(f.X)
	case *ast.IndexListExpr:
		return isPlaceholder(f.X)
	}
	return false
}
