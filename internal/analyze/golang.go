package analyze

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"

	"github.com/fzipp/gocyclo"

	"github.com/unbound-force/tddguard/internal/model"
)

// goAnalyzer parses Go source text with go/parser and scores each
// function with gocyclo (decision points + 1).
type goAnalyzer struct{}

func (goAnalyzer) Language() string { return "go" }

func (goAnalyzer) Analyze(unit model.SourceUnit) ([]model.FunctionSignature, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, unit.StableID(), unit.Content, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	// Complexity per declaration line, computed once for the file.
	complexity := map[int]int{}
	for _, stat := range gocyclo.AnalyzeASTFile(file, fset, nil) {
		complexity[stat.Pos.Line] = stat.Complexity
	}

	var funcs []model.FunctionSignature
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Name == nil || fd.Body == nil {
			continue
		}

		pos := fset.Position(fd.Pos())
		sig := model.FunctionSignature{
			Name:         fd.Name.Name,
			Receiver:     goReceiver(fd),
			Params:       goParams(fd.Type.Params),
			Returns:      goReturns(fd.Type.Results),
			Doc:          fd.Doc.Text(),
			Complexity:   complexity[pos.Line],
			NestingDepth: goNestingDepth(fd.Body),
			Location:     fmt.Sprintf("%s:%d", unit.StableID(), pos.Line),
		}
		if sig.Complexity == 0 {
			sig.Complexity = 1
		}
		sig.Body = goBodyExpr(fd, sig.Params)
		sig.Contracts = ParseContracts(sig.Doc, sig.Params)

		funcs = append(funcs, sig)
	}

	return funcs, nil
}

// goReceiver returns the receiver type string for methods, e.g.
// "*Store", or "" for package-level functions.
func goReceiver(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	return types.ExprString(fd.Recv.List[0].Type)
}

func goParams(fields *ast.FieldList) []model.Param {
	if fields == nil {
		return nil
	}
	var params []model.Param
	for _, field := range fields.List {
		declared := types.ExprString(field.Type)
		st := goSemanticType(field.Type)
		if len(field.Names) == 0 {
			params = append(params, model.Param{Name: "_", Type: st, Declared: declared})
			continue
		}
		for _, name := range field.Names {
			params = append(params, model.Param{
				Name:     name.Name,
				Type:     st,
				Declared: declared,
			})
		}
	}
	return params
}

func goReturns(fields *ast.FieldList) []model.Return {
	if fields == nil {
		return nil
	}
	var returns []model.Return
	for _, field := range fields.List {
		r := model.Return{
			Type:     goSemanticType(field.Type),
			Declared: types.ExprString(field.Type),
		}
		// Unnamed multi-return fields share one entry per field;
		// named groups expand per name.
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			returns = append(returns, r)
		}
	}
	return returns
}

// goSemanticType maps a Go type expression to the language-agnostic
// semantic category used for edge-case derivation.
func goSemanticType(expr ast.Expr) model.SemanticType {
	switch t := expr.(type) {
	case *ast.Ident:
		switch t.Name {
		case "int", "int8", "int16", "int32", "int64", "rune", "byte":
			return model.TypeInt
		case "uint", "uint8", "uint16", "uint32", "uint64", "uintptr":
			return model.TypeUint
		case "float32", "float64":
			return model.TypeFloat
		case "string":
			return model.TypeString
		case "bool":
			return model.TypeBool
		case "error", "any":
			return model.TypeNullable
		default:
			return model.TypeOpaque
		}
	case *ast.ArrayType:
		return model.TypeSequence
	case *ast.MapType:
		return model.TypeMap
	case *ast.StarExpr, *ast.InterfaceType, *ast.ChanType, *ast.FuncType:
		return model.TypeNullable
	case *ast.Ellipsis:
		return model.TypeSequence
	default:
		return model.TypeOpaque
	}
}

// goNestingDepth returns the maximum block nesting depth of a
// function body. The body block itself is depth 0.
func goNestingDepth(body *ast.BlockStmt) int {
	max := 0
	var walk func(stmt ast.Stmt, depth int)
	walk = func(stmt ast.Stmt, depth int) {
		if depth > max {
			max = depth
		}
		switch s := stmt.(type) {
		case *ast.BlockStmt:
			for _, inner := range s.List {
				walk(inner, depth+1)
			}
		case *ast.IfStmt:
			walk(s.Body, depth)
			if s.Else != nil {
				walk(s.Else, depth)
			}
		case *ast.ForStmt:
			walk(s.Body, depth)
		case *ast.RangeStmt:
			walk(s.Body, depth)
		case *ast.SwitchStmt:
			walk(s.Body, depth)
		case *ast.TypeSwitchStmt:
			walk(s.Body, depth)
		case *ast.SelectStmt:
			walk(s.Body, depth)
		case *ast.CaseClause:
			for _, inner := range s.Body {
				walk(inner, depth+1)
			}
		case *ast.CommClause:
			for _, inner := range s.Body {
				walk(inner, depth+1)
			}
		case *ast.LabeledStmt:
			walk(s.Stmt, depth)
		}
	}
	for _, stmt := range body.List {
		walk(stmt, 0)
	}
	return max
}

// goBodyExpr extracts a derivable body semantic: a body consisting
// of a single "return a <op> b" where both operands are parameters.
func goBodyExpr(fd *ast.FuncDecl, params []model.Param) *model.BodyExpr {
	if len(fd.Body.List) != 1 {
		return nil
	}
	ret, ok := fd.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return nil
	}
	bin, ok := ret.Results[0].(*ast.BinaryExpr)
	if !ok {
		return nil
	}
	left, ok := bin.X.(*ast.Ident)
	if !ok {
		return nil
	}
	right, ok := bin.Y.(*ast.Ident)
	if !ok {
		return nil
	}
	if !isParam(params, left.Name) || !isParam(params, right.Name) {
		return nil
	}
	return &model.BodyExpr{
		Op:    bin.Op.String(),
		Left:  left.Name,
		Right: right.Name,
	}
}

func isParam(params []model.Param, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}
