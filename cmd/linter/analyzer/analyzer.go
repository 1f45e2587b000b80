package analyzer

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const (
	analyzerName = "forbiddencalls"
	analyzerDoc  = "reports usage of panic, log.Fatal and os.Exit outside main function " +
		"and of net/http helpers that bypass an injected http.Client"
)

// bypassingHTTPHelpers send requests through http.DefaultClient, which has no
// place for the caller's transport or test server client.
var bypassingHTTPHelpers = map[string]bool{
	"Get":           true,
	"Head":          true,
	"Post":          true,
	"PostForm":      true,
	"DefaultClient": true,
}

// Analyzer checks for forbidden calls (panic, log.Fatal, os.Exit) and for
// package-level net/http request helpers.
var Analyzer = &analysis.Analyzer{
	Name:     analyzerName,
	Doc:      analyzerDoc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
		(*ast.SelectorExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(node ast.Node) {
		switch n := node.(type) {
		case *ast.CallExpr:
			checkCall(pass, n)
		case *ast.SelectorExpr:
			checkHTTPHelper(pass, n)
		}
	})

	return nil, nil
}

func checkCall(pass *analysis.Pass, callExpr *ast.CallExpr) {
	switch fn := callExpr.Fun.(type) {
	case *ast.Ident:
		if fn.Name == "panic" {
			pass.Reportf(callExpr.Pos(), "panic is forbidden")
		}
	case *ast.SelectorExpr:
		checkSelectorExpr(pass, fn, callExpr)
	}
}

func checkSelectorExpr(pass *analysis.Pass, selectorExpr *ast.SelectorExpr, callExpr *ast.CallExpr) {
	if pkgPath, ok := importedPackage(pass, selectorExpr); ok {
		fn := selectorExpr.Sel.Name

		switch {
		case pkgPath == "log" && fn == "Fatal":
			if !isInMainFunction(pass, callExpr) {
				pass.Reportf(callExpr.Pos(), "log.Fatal is forbidden outside main function")
			}
		case pkgPath == "os" && fn == "Exit":
			if !isInMainFunction(pass, callExpr) {
				pass.Reportf(callExpr.Pos(), "os.Exit is forbidden outside main function")
			}
		}
	}
}

func checkHTTPHelper(pass *analysis.Pass, selectorExpr *ast.SelectorExpr) {
	pkgPath, ok := importedPackage(pass, selectorExpr)
	if !ok || pkgPath != "net/http" {
		return
	}

	if name := selectorExpr.Sel.Name; bypassingHTTPHelpers[name] {
		pass.Reportf(selectorExpr.Pos(), "http.%s is forbidden, use an injected *http.Client", name)
	}
}

// importedPackage returns the import path when selectorExpr is a qualified
// identifier such as os.Exit.
func importedPackage(pass *analysis.Pass, selectorExpr *ast.SelectorExpr) (string, bool) {
	ident, ok := selectorExpr.X.(*ast.Ident)
	if !ok || pass.TypesInfo == nil {
		return "", false
	}

	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok {
		return "", false
	}

	return pkgName.Imported().Path(), true
}

func isInMainFunction(pass *analysis.Pass, node ast.Node) bool {
	for _, f := range pass.Files {
		for _, decl := range f.Decls {
			if funcDecl, ok := decl.(*ast.FuncDecl); ok {
				if funcDecl.Name.Name == "main" && isNodeInsideFunc(node, funcDecl) {
					return true
				}
			}
		}
	}
	return false
}

func isNodeInsideFunc(target ast.Node, funcDecl *ast.FuncDecl) bool {
	found := false
	ast.Inspect(funcDecl.Body, func(n ast.Node) bool {
		if n == target {
			found = true
			return false
		}
		return true
	})
	return found
}
