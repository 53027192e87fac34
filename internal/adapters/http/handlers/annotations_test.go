package handlers

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAPIHandlers_HaveSwaggerAnnotations keeps the /api/v1 handlers
// documented for swag: every exported gin handler needs a summary and a route.
func TestAPIHandlers_HaveSwaggerAnnotations(t *testing.T) {
	for _, file := range []string{"quote.go", "vote.go", "admin.go"} {
		parsed, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ParseComments)
		require.NoError(t, err)

		for _, decl := range parsed.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || !fn.Name.IsExported() || !isGinHandler(fn) {
				continue
			}

			doc := fn.Doc.Text()
			assert.Contains(t, doc, "@Summary", "%s: %s", file, fn.Name.Name)
			assert.Contains(t, doc, "@Router /api/v1/", "%s: %s", file, fn.Name.Name)
		}
	}
}

func isGinHandler(fn *ast.FuncDecl) bool {
	params := fn.Type.Params.List
	if len(params) != 1 || fn.Type.Results != nil {
		return false
	}

	star, ok := params[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}

	sel, ok := star.X.(*ast.SelectorExpr)

	return ok && sel.Sel.Name == "Context"
}
