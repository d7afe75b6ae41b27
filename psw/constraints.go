package psw

// Constraints lists parameters bounded to [0,1] (Prob) and groups of
// parameters which sum to one (Norm).
type Constraints struct {
	Prob []Expr   `json:"prob"`
	Norm [][]Expr `json:"norm"`
}

// DeriveConstraints computes the constraints of the machine built
// from cfg.
func DeriveConstraints(cfg Config) Constraints {
	nm := cfg.Namer()
	idx := cfg.Indices()

	prob := newExprSet()
	if cfg.Mixture() {
		for _, k := range idx {
			prob.add(Name(nm.InsExtend(k)))
		}
		if cfg.Reversible {
			for _, k := range idx {
				prob.add(Name(nm.DelExtend(k)))
			}
		}
	} else {
		prob.add(Name(nm.InsOpen("")), Name(nm.InsExtend("")))
		prob.add(Name(nm.DelOpen("")), Name(nm.DelExtend("")))
	}

	norm := newGroupSet()

	eqm := make([]Expr, len(cfg.Alphabet))
	for i, c := range cfg.Alphabet {
		eqm[i] = Name(Eqm(c))
	}
	norm.add(eqm)

	for _, c := range cfg.Alphabet {
		sub := make([]Expr, len(cfg.Alphabet))
		for j, d := range cfg.Alphabet {
			sub[j] = Name(Sub(c, d))
		}
		norm.add(sub)
	}

	if cfg.Mixture() {
		ins := make([]Expr, 0, len(idx)+1)
		del := make([]Expr, 0, len(idx)+1)
		for _, k := range idx {
			ins = append(ins, Name(nm.InsOpen(k)))
			del = append(del, Name(nm.DelOpen(k)))
		}
		norm.add(append(ins, nm.NotInsOpen()))
		// identical to the insertion group unless reversible
		norm.add(append(del, nm.NotDelOpen()))
	}

	return Constraints{Prob: prob.items, Norm: norm.items}
}

// Parameters returns all parameter names referred to by the
// constraints, in order of first appearance.
func (c Constraints) Parameters() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(e Expr) {
		for _, n := range Names(e) {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	for _, e := range c.Prob {
		add(e)
	}
	for _, g := range c.Norm {
		for _, e := range g {
			add(e)
		}
	}
	return names
}
