package psw

import "strings"

// Eqm returns the equilibrium frequency parameter of symbol c.
func Eqm(c string) string {
	return "eqm" + c
}

// Sub returns the parameter of substituting symbol c with d.
func Sub(c, d string) string {
	return "sub" + c + d
}

// Namer derives indel parameter names. If Reversible is false,
// insertions and deletions share the "gap" family.
type Namer struct {
	Reversible bool
	Mixture    bool
}

func (n Namer) insFamily() string {
	if n.Reversible {
		return "ins"
	}
	return "gap"
}

func (n Namer) delFamily() string {
	if n.Reversible {
		return "del"
	}
	return "gap"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// InsOpen returns the insertion open parameter for mixture label k.
func (n Namer) InsOpen(k string) string { return n.insFamily() + "Open" + k }

// InsExtend returns the insertion extend parameter for mixture label k.
func (n Namer) InsExtend(k string) string { return n.insFamily() + "Extend" + k }

// DelOpen returns the deletion open parameter for mixture label k.
func (n Namer) DelOpen(k string) string { return n.delFamily() + "Open" + k }

// DelExtend returns the deletion extend parameter for mixture label k.
func (n Namer) DelExtend(k string) string { return n.delFamily() + "Extend" + k }

// NotInsOpen is the weight of not opening any insertion.
func (n Namer) NotInsOpen() Expr { return n.notOpen(n.insFamily()) }

// NotDelOpen is the weight of not opening any deletion. For a
// non-reversible namer it is the same expression as NotInsOpen.
func (n Namer) NotDelOpen() Expr { return n.notOpen(n.delFamily()) }

// notOpen is a named aggregate for a mixture (one minus the sum of the
// component open probabilities), otherwise the negation of the single
// open parameter.
func (n Namer) notOpen(family string) Expr {
	if n.Mixture {
		return Name("not" + capitalize(family) + "Open")
	}
	return Not{Name(family + "Open")}
}
