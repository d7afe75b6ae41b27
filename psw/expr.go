package psw

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadExpr is returned when a weight expression cannot be decoded.
var ErrBadExpr = errors.New("malformed weight expression")

// Expr is a transition weight: a parameter name or an expression
// built from parameter names.
type Expr interface {
	json.Marshaler
	// Key returns a canonical string identifying the expression.
	Key() string
}

// Name is a bare parameter name, serialized as a JSON string.
type Name string

// Not is one minus the wrapped expression, serialized as {"not": x}.
type Not struct {
	X Expr
}

// Product is a product of two expressions, serialized as {"*": [a, b]}.
type Product struct {
	A, B Expr
}

func (n Name) MarshalJSON() ([]byte, error) {
	return marshal(string(n))
}

func (n Not) MarshalJSON() ([]byte, error) {
	return marshal(map[string]Expr{"not": n.X})
}

func (p Product) MarshalJSON() ([]byte, error) {
	return marshal(map[string][]Expr{"*": {p.A, p.B}})
}

func (n Name) Key() string { return exprKey(n) }
func (n Not) Key() string { return exprKey(n) }
func (p Product) Key() string { return exprKey(p) }

// exprKey uses the compact JSON form, which is unique per expression tree.
func exprKey(e Expr) string {
	b, err := e.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%#v", e)
	}
	return string(b)
}

// UnmarshalExpr decodes a weight expression. A JSON null or empty
// input yields a nil expression.
func UnmarshalExpr(data []byte) (Expr, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Name(s), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadExpr, err)
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: %s", ErrBadExpr, data)
	}

	if raw, ok := obj["not"]; ok {
		x, err := UnmarshalExpr(raw)
		if err != nil {
			return nil, err
		}
		if x == nil {
			return nil, fmt.Errorf("%w: empty negation", ErrBadExpr)
		}
		return Not{x}, nil
	}

	if raw, ok := obj["*"]; ok {
		var args []json.RawMessage
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadExpr, err)
		}
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: product needs 2 operands, got %d", ErrBadExpr, len(args))
		}
		a, err := UnmarshalExpr(args[0])
		if err != nil {
			return nil, err
		}
		b, err := UnmarshalExpr(args[1])
		if err != nil {
			return nil, err
		}
		if a == nil || b == nil {
			return nil, fmt.Errorf("%w: empty product operand", ErrBadExpr)
		}
		return Product{a, b}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrBadExpr, data)
}

// Names returns the parameter names an expression refers to, in order
// of appearance.
func Names(e Expr) []string {
	switch x := e.(type) {
	case Name:
		return []string{string(x)}
	case Not:
		return Names(x.X)
	case Product:
		return append(Names(x.A), Names(x.B)...)
	}
	return nil
}

// exprSet is an insertion-ordered set of expressions.
type exprSet struct {
	seen  map[string]bool
	items []Expr
}

func newExprSet() *exprSet {
	return &exprSet{seen: make(map[string]bool), items: []Expr{}}
}

func (s *exprSet) add(es ...Expr) {
	for _, e := range es {
		k := e.Key()
		if s.seen[k] {
			continue
		}
		s.seen[k] = true
		s.items = append(s.items, e)
	}
}

// groupSet is an insertion-ordered set of expression groups.
type groupSet struct {
	seen  map[string]bool
	items [][]Expr
}

func newGroupSet() *groupSet {
	return &groupSet{seen: make(map[string]bool), items: [][]Expr{}}
}

func (s *groupSet) add(group []Expr) {
	var key bytes.Buffer
	for _, e := range group {
		key.WriteString(e.Key())
		key.WriteByte(0)
	}
	k := key.String()
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	s.items = append(s.items, group)
}
