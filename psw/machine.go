/*
Package psw builds pair HMM state machines for an
insertion/deletion/substitution process with an optional mixture of
geometric indel-length components.

The machine has start (S), insert (I), insert-extend (J), wait (W),
delete-extend (X), delete (D), match (M) and end (E) states. I, J, X
and D are replicated per mixture component. Transition weights refer
to named parameters, and the constraints list which parameters are
probabilities and which groups of parameters sum to one.
*/
package psw

// Transition is an edge of the machine. Empty In/Out mean no symbol
// is consumed/emitted, nil Weight means probability one.
type Transition struct {
	In     string `json:"in,omitempty"`
	Out    string `json:"out,omitempty"`
	To     string `json:"to"`
	Weight Expr   `json:"weight,omitempty"`
}

// State is a machine state with its outgoing transitions.
type State struct {
	ID    string       `json:"id"`
	Trans []Transition `json:"trans,omitempty"`
}

// Machine is a state machine together with its parameter constraints.
type Machine struct {
	State []State     `json:"state"`
	Cons  Constraints `json:"cons"`
}

// Find returns a state by id or nil.
func (m *Machine) Find(id string) *State {
	for i := range m.State {
		if m.State[i].ID == id {
			return &m.State[i]
		}
	}
	return nil
}

// NTransitions returns the total number of transitions.
func (m *Machine) NTransitions() (n int) {
	for _, s := range m.State {
		n += len(s.Trans)
	}
	return
}

// Build creates the machine and its constraints. States are
// ordered as S, J*, W, X*, I*, M, D*, E.
func Build(cfg Config) *Machine {
	nm := cfg.Namer()
	idx := cfg.Indices()
	alph := cfg.Alphabet
	id := cfg.stateID

	states := make([]State, 0, 4*len(idx)+4)

	// start
	s := State{ID: id("S")}
	for _, k := range idx {
		s.Trans = append(s.Trans, Transition{To: id("I" + k), Weight: Name(nm.InsOpen(k))})
	}
	s.Trans = append(s.Trans, Transition{To: id("W"), Weight: nm.NotInsOpen()})
	states = append(states, s)

	// insert extend decisions
	for _, k := range idx {
		states = append(states, State{ID: id("J" + k), Trans: []Transition{
			{To: id("I" + k), Weight: Name(nm.InsExtend(k))},
			{To: id("W"), Weight: Not{Name(nm.InsExtend(k))}},
		}})
	}

	// wait
	w := State{ID: id("W"), Trans: []Transition{{To: id("M"), Weight: nm.NotDelOpen()}}}
	for _, k := range idx {
		w.Trans = append(w.Trans, Transition{To: id("D" + k), Weight: Name(nm.DelOpen(k))})
	}
	states = append(states, w)

	// delete extend decisions
	for _, k := range idx {
		states = append(states, State{ID: id("X" + k), Trans: []Transition{
			{To: id("D" + k), Weight: Name(nm.DelExtend(k))},
			{To: id("M"), Weight: Not{Name(nm.DelExtend(k))}},
		}})
	}

	// inserts
	for _, k := range idx {
		ins := State{ID: id("I" + k), Trans: make([]Transition, 0, len(alph))}
		for _, c := range alph {
			ins.Trans = append(ins.Trans, Transition{Out: c, To: id("J" + k), Weight: Name(Eqm(c))})
		}
		states = append(states, ins)
	}

	// match
	match := State{ID: id("M"), Trans: make([]Transition, 0, 1+len(alph)*len(alph))}
	match.Trans = append(match.Trans, Transition{To: id("E")})
	for _, c := range alph {
		for _, d := range alph {
			match.Trans = append(match.Trans, Transition{In: c, Out: d, To: id("S"), Weight: Name(Sub(c, d))})
		}
	}
	states = append(states, match)

	// deletes
	for _, k := range idx {
		del := State{ID: id("D" + k), Trans: make([]Transition, 0, 1+len(alph))}
		del.Trans = append(del.Trans, Transition{To: id("E")})
		for _, c := range alph {
			del.Trans = append(del.Trans, Transition{In: c, To: id("X" + k)})
		}
		states = append(states, del)
	}

	states = append(states, State{ID: id("E")})

	return &Machine{State: states, Cons: DeriveConstraints(cfg)}
}
