// Package params seeds parameter values for a machine and checks
// parameter values against the machine constraints.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/op/go-logging"

	"bitbucket.org/Davydov/makepsw/psw"
)

var log = logging.MustGetLogger("params")

// Tolerance is the maximum allowed deviation of a group sum from one.
const Tolerance = 1e-6

// ErrMissing is returned when an expression refers to an unknown parameter.
var ErrMissing = errors.New("missing parameter")

// Values maps parameter names to values.
type Values map[string]float64

// Read reads parameter values from a JSON object.
func Read(r io.Reader) (Values, error) {
	v := Values{}
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Write writes values as an indented JSON object with sorted keys.
func (v Values) Write(w io.Writer) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Names returns sorted parameter names.
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for n := range v {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Eval evaluates a weight expression.
func (v Values) Eval(e psw.Expr) (float64, error) {
	switch x := e.(type) {
	case psw.Name:
		val, ok := v[string(x)]
		if !ok {
			return math.NaN(), fmt.Errorf("%w: %s", ErrMissing, x)
		}
		return val, nil
	case psw.Not:
		val, err := v.Eval(x.X)
		return 1 - val, err
	case psw.Product:
		a, err := v.Eval(x.A)
		if err != nil {
			return math.NaN(), err
		}
		b, err := v.Eval(x.B)
		return a * b, err
	case nil:
		return 1, nil
	}
	return math.NaN(), fmt.Errorf("unsupported expression %T", e)
}

// Seed returns a feasible starting point: members of each norm group
// are set uniformly, all the other parameters are set to 0.5.
func Seed(cons psw.Constraints) Values {
	v := Values{}
	for _, g := range cons.Norm {
		var names []string
		for _, e := range g {
			if n, ok := e.(psw.Name); ok {
				names = append(names, string(n))
			}
		}
		for _, n := range names {
			if _, ok := v[n]; !ok {
				v[n] = 1 / float64(len(names))
			}
		}
	}
	for _, n := range cons.Parameters() {
		if _, ok := v[n]; !ok {
			v[n] = 0.5
		}
	}
	log.Debugf("Seeded %d parameters", len(v))
	return v
}

// SubstitutionMatrix returns the matrix of substitution parameters,
// rows are source symbols and columns are destination symbols.
func SubstitutionMatrix(alphabet []string, v Values) (*mat64.Dense, error) {
	n := len(alphabet)
	if n == 0 {
		return nil, errors.New("empty alphabet")
	}
	m := mat64.NewDense(n, n, nil)
	for i, c := range alphabet {
		for j, d := range alphabet {
			val, ok := v[psw.Sub(c, d)]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissing, psw.Sub(c, d))
			}
			m.Set(i, j, val)
		}
	}
	return m, nil
}

// RowSums returns the sum of every row of m.
func RowSums(m *mat64.Dense) []float64 {
	r, _ := m.Dims()
	sums := make([]float64, r)
	for i := range sums {
		sums[i] = floats.Sum(m.RawRowView(i))
	}
	return sums
}
