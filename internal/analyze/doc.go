package analyze

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/unbound-force/tddguard/internal/model"
)

// contractRe matches documented behavior clauses of the form
// "returns <value> when <param> is <value>", e.g.
// "returns +infinity when b is zero".
var contractRe = regexp.MustCompile(
	`(?i)returns?\s+([+\-]?[\w.]+)\s+when\s+(\w+)\s+is\s+([+\-]?[\w.]+)`)

// ParseContracts extracts structured contracts from documentation
// text. Clauses referencing unknown parameters are ignored. The
// result order follows the document order, so repeated parses of the
// same text are identical.
func ParseContracts(doc string, params []model.Param) []model.DocContract {
	if doc == "" {
		return nil
	}

	var contracts []model.DocContract
	for _, m := range contractRe.FindAllStringSubmatch(doc, -1) {
		param := m[2]
		if !isParam(params, param) {
			continue
		}
		result, ok := parseDocValue(m[1])
		if !ok {
			continue
		}
		when, ok := parseDocValue(m[3])
		if !ok {
			continue
		}
		contracts = append(contracts, model.DocContract{
			Result: result,
			Param:  param,
			When:   when,
		})
	}
	return contracts
}

// parseDocValue maps a documented value word to a language-agnostic
// Value. Recognized words: zero, one, empty, nil/none/null,
// +/-infinity, true/false, and numeric literals.
func parseDocValue(word string) (model.Value, bool) {
	switch strings.ToLower(word) {
	case "zero":
		return model.IntValue("0"), true
	case "one":
		return model.IntValue("1"), true
	case "empty":
		return model.StringValue(""), true
	case "nil", "none", "null":
		return model.NullValue(), true
	case "infinity", "+infinity", "inf", "+inf":
		return model.FloatValue("+Inf"), true
	case "-infinity", "-inf":
		return model.FloatValue("-Inf"), true
	case "nan":
		return model.FloatValue("NaN"), true
	case "true":
		return model.BoolValue(true), true
	case "false":
		return model.BoolValue(false), true
	}

	if _, err := strconv.ParseInt(word, 10, 64); err == nil {
		return model.IntValue(word), true
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return model.FloatValue(word), true
	}
	return model.Value{}, false
}
