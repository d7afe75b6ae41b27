package psw

import (
	"errors"
	"reflect"
	"testing"
)

func TestExprEncoding(tst *testing.T) {
	cases := []struct {
		e    Expr
		json string
	}{
		{Name("gapOpen"), `"gapOpen"`},
		{Not{Name("gapOpen")}, `{"not":"gapOpen"}`},
		{Product{Not{Name("insOpen")}, Not{Name("delOpen")}}, `{"*":[{"not":"insOpen"},{"not":"delOpen"}]}`},
		{Name("sub<&"), `"sub<&"`},
	}
	for _, c := range cases {
		b, err := c.e.MarshalJSON()
		if err != nil {
			tst.Error("Error encoding:", err)
			continue
		}
		if string(b) != c.json {
			tst.Errorf("Expected %s, got %s", c.json, b)
		}
		if c.e.Key() != c.json {
			tst.Errorf("Wrong key %s", c.e.Key())
		}
		e, err := UnmarshalExpr(b)
		if err != nil {
			tst.Error("Error decoding:", err)
		}
		if !reflect.DeepEqual(e, c.e) {
			tst.Errorf("Decoded %#v, expected %#v", e, c.e)
		}
	}
}

func TestUnmarshalExprErrors(tst *testing.T) {
	for _, s := range []string{`{}`, `{"not":"a","*":[]}`, `{"*":["a"]}`, `{"and":"a"}`, `{"not":null}`, `[1]`} {
		if _, err := UnmarshalExpr([]byte(s)); !errors.Is(err, ErrBadExpr) {
			tst.Errorf("%s: expected ErrBadExpr, got %v", s, err)
		}
	}
	e, err := UnmarshalExpr([]byte("null"))
	if e != nil || err != nil {
		tst.Error("null should decode to nil expression")
	}
}

func TestExprNames(tst *testing.T) {
	e := Product{Name("a"), Not{Product{Name("b"), Name("c")}}}
	if !reflect.DeepEqual(Names(e), []string{"a", "b", "c"}) {
		tst.Error("Wrong names:", Names(e))
	}
}

func TestExprSet(tst *testing.T) {
	s := newExprSet()
	s.add(Name("a"), Not{Name("a")}, Name("a"), Not{Name("a")}, Name("b"))
	if len(s.items) != 3 {
		tst.Error("Expected 3 unique expressions, got", s.items)
	}
	g := newGroupSet()
	g.add(exprs("a", "b"))
	g.add(exprs("a", "b"))
	g.add(exprs("b", "a"))
	if len(g.items) != 2 {
		tst.Error("Expected 2 unique groups, got", g.items)
	}
}
