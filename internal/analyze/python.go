package analyze

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/unbound-force/tddguard/internal/model"
)

// pythonAnalyzer is a heuristic structural parser for Python source:
// it recognizes def headers (including multi-line ones), type hints,
// docstrings, and branch keywords for complexity scoring. It is not
// a compiler front end; it extracts exactly the structural facts the
// pipeline consumes.
type pythonAnalyzer struct{}

func (pythonAnalyzer) Language() string { return "python" }

var (
	pyDefRe    = regexp.MustCompile(`^(\s*)def\s+([A-Za-z_]\w*)\s*\(`)
	pyClassRe  = regexp.MustCompile(`^(\s*)class\s+([A-Za-z_]\w*)`)
	pyBranchRe = regexp.MustCompile(`^\s*(if|elif|for|while|except|case)\b`)
	pyBoolOpRe = regexp.MustCompile(`\b(and|or)\b`)
	pyRetRe    = regexp.MustCompile(`^\s*return\s+(\w+)\s*([+\-*/%]|//|==|<=|>=|<|>)\s*(\w+)\s*$`)
)

func (pythonAnalyzer) Analyze(unit model.SourceUnit) ([]model.FunctionSignature, error) {
	lines := strings.Split(unit.Content, "\n")

	var funcs []model.FunctionSignature
	var class string
	classIndent := -1

	for i := 0; i < len(lines); i++ {
		if m := pyClassRe.FindStringSubmatch(lines[i]); m != nil {
			class = m[2]
			classIndent = len(expandIndent(m[1]))
			continue
		}

		m := pyDefRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}

		indent := len(expandIndent(m[1]))
		if classIndent >= 0 && indent <= classIndent {
			class = "" // left the class body
			classIndent = -1
		}

		header, next, err := pyCollectHeader(lines, i)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		sig, err := pyParseHeader(header, m[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if class != "" && indent > classIndent {
			sig.Receiver = class
		}
		sig.Location = fmt.Sprintf("%s:%d", unit.StableID(), i+1)

		body := pyBodyLines(lines, next, indent)
		if len(body) == 0 {
			return nil, fmt.Errorf("line %d: def %s has no body (truncated input?)", i+1, sig.Name)
		}

		sig.Doc, body = pyDocstring(body)
		sig.Complexity = pyComplexity(body)
		sig.NestingDepth = pyNestingDepth(body, indent)
		sig.Body = pyBodyExpr(body, sig.Params)
		sig.Contracts = ParseContracts(sig.Doc, sig.Params)

		funcs = append(funcs, sig)
		i = next - 1
	}

	return funcs, nil
}

// pyCollectHeader joins a possibly multi-line def header into one
// string ending at the colon. Returns the header and the index of
// the first body line.
func pyCollectHeader(lines []string, start int) (string, int, error) {
	var sb strings.Builder
	depth := 0
	for i := start; i < len(lines); i++ {
		line := lines[i]
		sb.WriteString(strings.TrimRight(line, " \t"))
		for _, r := range line {
			switch r {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
		}
		if depth < 0 {
			return "", 0, fmt.Errorf("unbalanced parentheses in def header")
		}
		if depth == 0 && strings.HasSuffix(strings.TrimRight(line, " \t"), ":") {
			return sb.String(), i + 1, nil
		}
		sb.WriteString(" ")
	}
	return "", 0, fmt.Errorf("unterminated def header")
}

// pyParseHeader extracts parameters and the return hint from a
// complete def header line.
func pyParseHeader(header, name string) (model.FunctionSignature, error) {
	open := strings.Index(header, "(")
	close := pyMatchParen(header, open)
	if open < 0 || close < 0 {
		return model.FunctionSignature{}, fmt.Errorf("malformed def %s", name)
	}

	sig := model.FunctionSignature{Name: name}

	for _, raw := range pySplitParams(header[open+1 : close]) {
		p := strings.TrimSpace(raw)
		if p == "" || p == "self" || p == "cls" || p == "*" || p == "/" {
			continue
		}
		nullable := strings.Contains(p, "= None") || strings.Contains(p, "=None")
		if eq := strings.Index(p, "="); eq >= 0 {
			p = strings.TrimSpace(p[:eq])
		}
		pname, hint := p, ""
		if colon := strings.Index(p, ":"); colon >= 0 {
			pname = strings.TrimSpace(p[:colon])
			hint = strings.TrimSpace(p[colon+1:])
		}
		pname = strings.TrimLeft(pname, "*")
		st := pySemanticType(hint)
		if nullable {
			st = model.TypeNullable
		}
		sig.Params = append(sig.Params, model.Param{
			Name:     pname,
			Type:     st,
			Declared: hint,
		})
	}

	rest := header[close+1:]
	if arrow := strings.Index(rest, "->"); arrow >= 0 {
		hint := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[arrow+2:]), ":"))
		if hint != "" && hint != "None" {
			sig.Returns = append(sig.Returns, model.Return{
				Type:     pySemanticType(hint),
				Declared: hint,
			})
		}
	}

	return sig, nil
}

// pyMatchParen returns the index of the parenthesis matching the one
// at open, or -1.
func pyMatchParen(s string, open int) int {
	if open < 0 {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// pySplitParams splits a parameter list on top-level commas,
// respecting bracket nesting in hints like Dict[str, int].
func pySplitParams(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	if strings.TrimSpace(s[last:]) != "" {
		parts = append(parts, s[last:])
	}
	return parts
}

// pySemanticType maps a Python type hint to the semantic category.
func pySemanticType(hint string) model.SemanticType {
	h := strings.TrimSpace(hint)
	switch {
	case h == "":
		return model.TypeOpaque
	case strings.HasPrefix(h, "Optional[") || strings.HasSuffix(h, "| None") || h == "None":
		return model.TypeNullable
	case h == "int":
		return model.TypeInt
	case h == "float":
		return model.TypeFloat
	case h == "str":
		return model.TypeString
	case h == "bool":
		return model.TypeBool
	case strings.HasPrefix(h, "list") || strings.HasPrefix(h, "List") ||
		strings.HasPrefix(h, "tuple") || strings.HasPrefix(h, "Tuple") ||
		strings.HasPrefix(h, "Sequence") || strings.HasPrefix(h, "set") ||
		strings.HasPrefix(h, "Set"):
		return model.TypeSequence
	case strings.HasPrefix(h, "dict") || strings.HasPrefix(h, "Dict") ||
		strings.HasPrefix(h, "Mapping"):
		return model.TypeMap
	default:
		return model.TypeOpaque
	}
}

// pyBodyLines returns the lines belonging to a def body: everything
// after the header with indentation deeper than the def keyword.
func pyBodyLines(lines []string, start, defIndent int) []string {
	var body []string
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(expandIndent(line))-len(strings.TrimLeft(expandIndent(line), " ")) <= defIndent {
			break
		}
		body = append(body, line)
	}
	return body
}

// pyDocstring strips a leading docstring from the body, returning
// its text and the remaining lines.
func pyDocstring(body []string) (string, []string) {
	if len(body) == 0 {
		return "", body
	}
	first := strings.TrimSpace(body[0])
	var delim string
	switch {
	case strings.HasPrefix(first, `"""`):
		delim = `"""`
	case strings.HasPrefix(first, `'''`):
		delim = `'''`
	default:
		return "", body
	}

	// Single-line docstring.
	inner := strings.TrimPrefix(first, delim)
	if strings.HasSuffix(inner, delim) && len(inner) >= len(delim) {
		return strings.TrimSuffix(inner, delim), body[1:]
	}

	// Multi-line: collect until the closing delimiter.
	parts := []string{inner}
	for i := 1; i < len(body); i++ {
		line := strings.TrimSpace(body[i])
		if strings.HasSuffix(line, delim) {
			parts = append(parts, strings.TrimSuffix(line, delim))
			return strings.TrimSpace(strings.Join(parts, "\n")), body[i+1:]
		}
		parts = append(parts, line)
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// pyComplexity counts decision points + 1 across body lines.
func pyComplexity(body []string) int {
	c := 1
	for _, line := range body {
		if pyBranchRe.MatchString(line) {
			c++
		}
		c += len(pyBoolOpRe.FindAllString(line, -1))
	}
	return c
}

// pyNestingDepth estimates the maximum nesting depth relative to the
// body's base indentation, treating four spaces (or one tab) as one
// level.
func pyNestingDepth(body []string, defIndent int) int {
	base := defIndent + 4
	max := 0
	for _, line := range body {
		expanded := expandIndent(line)
		indent := len(expanded) - len(strings.TrimLeft(expanded, " "))
		depth := (indent - base) / 4
		if depth > max {
			max = depth
		}
	}
	return max
}

// pyBodyExpr extracts a derivable body semantic from a body that is
// a single "return a <op> b" statement over parameters.
func pyBodyExpr(body []string, params []model.Param) *model.BodyExpr {
	if len(body) != 1 {
		return nil
	}
	m := pyRetRe.FindStringSubmatch(body[0])
	if m == nil {
		return nil
	}
	if !isParam(params, m[1]) || !isParam(params, m[3]) {
		return nil
	}
	op := m[2]
	if op == "//" {
		op = "/"
	}
	return &model.BodyExpr{Op: op, Left: m[1], Right: m[3]}
}

// expandIndent rewrites leading tabs as four spaces so indentation
// comparisons work across mixed styles.
func expandIndent(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return strings.ReplaceAll(line[:i], "\t", "    ") + line[i:]
}
