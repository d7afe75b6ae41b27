package params

import (
	"fmt"
	"strings"

	"github.com/gonum/floats"

	"bitbucket.org/Davydov/makepsw/psw"
)

// Kind is a type of constraint violation.
type Kind int

const (
	// Missing means a constrained parameter has no value.
	Missing Kind = iota
	// OutOfRange means a probability is outside of [0,1].
	OutOfRange
	// NotNormalized means a group does not sum to one.
	NotNormalized
)

// Violation describes a constraint which is not satisfied.
type Violation struct {
	Kind  Kind
	Exprs []psw.Expr
	Value float64
}

func (v Violation) String() string {
	keys := make([]string, len(v.Exprs))
	for i, e := range v.Exprs {
		keys[i] = e.Key()
	}
	switch v.Kind {
	case Missing:
		return fmt.Sprintf("missing value for %s", strings.Join(keys, ", "))
	case OutOfRange:
		return fmt.Sprintf("%s=%g is not in [0,1]", keys[0], v.Value)
	case NotNormalized:
		return fmt.Sprintf("sum(%s)=%g != 1", strings.Join(keys, ", "), v.Value)
	}
	return "unknown violation"
}

// Check returns all the constraints violated by the values. Rows of
// the substitution matrix over alphabet are checked through the
// matrix, other groups one expression at a time.
func Check(alphabet []string, cons psw.Constraints, v Values) (vs []Violation) {
	for _, e := range cons.Prob {
		val, err := v.Eval(e)
		if err != nil {
			vs = append(vs, Violation{Kind: Missing, Exprs: []psw.Expr{e}})
			continue
		}
		if val < 0 || val > 1 {
			vs = append(vs, Violation{Kind: OutOfRange, Exprs: []psw.Expr{e}, Value: val})
		}
	}

	rows := substitutionRows(alphabet, v)

	for _, g := range cons.Norm {
		if rv, ok := rows[groupKey(g)]; ok {
			vs = append(vs, rv...)
			continue
		}
		vals := make([]float64, 0, len(g))
		var missing []psw.Expr
		for _, e := range g {
			val, err := v.Eval(e)
			if err != nil {
				missing = append(missing, e)
				continue
			}
			if val < 0 || val > 1 {
				vs = append(vs, Violation{Kind: OutOfRange, Exprs: []psw.Expr{e}, Value: val})
			}
			vals = append(vals, val)
		}
		if len(missing) > 0 {
			vs = append(vs, Violation{Kind: Missing, Exprs: missing})
			continue
		}
		if sum := floats.Sum(vals); !floats.EqualWithinAbs(sum, 1, Tolerance) {
			vs = append(vs, Violation{Kind: NotNormalized, Exprs: g, Value: sum})
		}
	}

	for _, vi := range vs {
		log.Debug(vi)
	}
	return
}

// substitutionRows checks every row of the substitution matrix and
// returns the violations keyed by the row group. It returns nil if the
// matrix cannot be built, e.g. when a value is missing.
func substitutionRows(alphabet []string, v Values) map[string][]Violation {
	sub, err := SubstitutionMatrix(alphabet, v)
	if err != nil {
		log.Debug("Substitution rows checked one by one:", err)
		return nil
	}

	sums := RowSums(sub)
	rows := make(map[string][]Violation, len(alphabet))
	for i, c := range alphabet {
		row := make([]psw.Expr, len(alphabet))
		var rv []Violation
		for j, d := range alphabet {
			row[j] = psw.Name(psw.Sub(c, d))
			if val := sub.At(i, j); val < 0 || val > 1 {
				rv = append(rv, Violation{Kind: OutOfRange, Exprs: []psw.Expr{row[j]}, Value: val})
			}
		}
		if !floats.EqualWithinAbs(sums[i], 1, Tolerance) {
			rv = append(rv, Violation{Kind: NotNormalized, Exprs: row, Value: sums[i]})
		}
		rows[groupKey(row)] = rv
	}
	return rows
}

func groupKey(g []psw.Expr) string {
	keys := make([]string, len(g))
	for i, e := range g {
		keys[i] = e.Key()
	}
	return strings.Join(keys, "\x00")
}
