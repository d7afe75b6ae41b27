package psw

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"unicode"
)

const machineAC = `{"state":[` +
	`{"id":"m-S","trans":[{"to":"m-I","weight":"gapOpen"},{"to":"m-W","weight":{"not":"gapOpen"}}]},` +
	`{"id":"m-J","trans":[{"to":"m-I","weight":"gapExtend"},{"to":"m-W","weight":{"not":"gapExtend"}}]},` +
	`{"id":"m-W","trans":[{"to":"m-M","weight":{"not":"gapOpen"}},{"to":"m-D","weight":"gapOpen"}]},` +
	`{"id":"m-X","trans":[{"to":"m-D","weight":"gapExtend"},{"to":"m-M","weight":{"not":"gapExtend"}}]},` +
	`{"id":"m-I","trans":[{"out":"A","to":"m-J","weight":"eqmA"},{"out":"C","to":"m-J","weight":"eqmC"}]},` +
	`{"id":"m-M","trans":[{"to":"m-E"},` +
	`{"in":"A","out":"A","to":"m-S","weight":"subAA"},{"in":"A","out":"C","to":"m-S","weight":"subAC"},` +
	`{"in":"C","out":"A","to":"m-S","weight":"subCA"},{"in":"C","out":"C","to":"m-S","weight":"subCC"}]},` +
	`{"id":"m-D","trans":[{"to":"m-E"},{"in":"A","to":"m-X"},{"in":"C","to":"m-X"}]},` +
	`{"id":"m-E"}],` +
	`"cons":{"prob":["gapOpen","gapExtend"],"norm":[["eqmA","eqmC"],["subAA","subAC"],["subCA","subCC"]]}}`

func mustConfig(tst *testing.T, alphabet, name, mix string, reversible bool) Config {
	cfg, err := NewConfig(alphabet, name, mix, reversible)
	if err != nil {
		tst.Fatal("Error creating config:", err)
	}
	return cfg
}

func stateIDs(m *Machine) (ids []string) {
	for _, s := range m.State {
		ids = append(ids, s.ID)
	}
	return
}

func TestBuildAC(tst *testing.T) {
	m := Build(mustConfig(tst, "AC", "m", "", false))

	b, err := Encode(m, false)
	if err != nil {
		tst.Fatal("Error encoding machine:", err)
	}
	if string(b) != machineAC {
		tst.Error("Wrong machine, got:", string(b))
	}

	ids := []string{"m-S", "m-J", "m-W", "m-X", "m-I", "m-M", "m-D", "m-E"}
	if !reflect.DeepEqual(stateIDs(m), ids) {
		tst.Error("Wrong state order:", stateIDs(m))
	}
}

func TestBuildTransitionCounts(tst *testing.T) {
	for _, alph := range []string{"A", "AB", "ACGT", "ARNDCQEGHILKMFPSTWYV"} {
		n := len(alph)
		m := Build(mustConfig(tst, alph, "t", "", false))
		if len(m.State) != 8 {
			tst.Error("Expected 8 states, got", len(m.State))
		}
		if got := len(m.Find("t-M").Trans); got != 1+n*n {
			tst.Errorf("alphabet %s: M has %d transitions, expected %d", alph, got, 1+n*n)
		}
		if got := len(m.Find("t-I").Trans); got != n {
			tst.Errorf("alphabet %s: I has %d transitions, expected %d", alph, got, n)
		}
		if got := len(m.Find("t-D").Trans); got != 1+n {
			tst.Errorf("alphabet %s: D has %d transitions, expected %d", alph, got, 1+n)
		}
		if e := m.Find("t-E"); e == nil || len(e.Trans) != 0 {
			tst.Error("End state should exist and be terminal")
		}
	}
}

func TestBuildMixture(tst *testing.T) {
	for mix := 1; mix <= 4; mix++ {
		cfg := mustConfig(tst, "AB", "t", string(rune('0'+mix)), true)
		m := Build(cfg)
		if len(m.State) != 4*mix+4 {
			tst.Errorf("mix=%d: expected %d states, got %d", mix, 4*mix+4, len(m.State))
		}
		roles := map[byte]int{}
		for _, s := range m.State {
			roles[s.ID[2]]++
		}
		for _, r := range []byte("IJXD") {
			if roles[r] != mix {
				tst.Errorf("mix=%d: %d states of role %c", mix, roles[r], r)
			}
		}
		for _, r := range []byte("SWME") {
			if roles[r] != 1 {
				tst.Errorf("mix=%d: %d states of role %c", mix, roles[r], r)
			}
		}
		if got := len(m.Find("t-S").Trans); got != mix+1 {
			tst.Errorf("mix=%d: start has %d transitions", mix, got)
		}
	}
}

func TestBuildMixtureIDs(tst *testing.T) {
	m := Build(mustConfig(tst, "A", "x", "2", false))
	ids := []string{"x-S", "x-J1", "x-J2", "x-W", "x-X1", "x-X2",
		"x-I1", "x-I2", "x-M", "x-D1", "x-D2", "x-E"}
	if !reflect.DeepEqual(stateIDs(m), ids) {
		tst.Error("Wrong state ids:", stateIDs(m))
	}

	s := m.Find("x-S")
	if s.Trans[0].Weight != Name("gapOpen1") || s.Trans[1].Weight != Name("gapOpen2") {
		tst.Error("Wrong open weights:", s.Trans)
	}
	if s.Trans[2].Weight != Name("notGapOpen") {
		tst.Error("Wrong not-open weight:", s.Trans[2].Weight)
	}
	w := m.Find("x-W")
	if w.Trans[0].Weight != Name("notGapOpen") || w.Trans[0].To != "x-M" {
		tst.Error("Wrong wait state:", w.Trans)
	}
	j := m.Find("x-J2")
	if j.Trans[1].Weight != (Not{Name("gapExtend2")}) {
		tst.Error("Wrong extend negation:", j.Trans[1].Weight)
	}
}

func TestReversibleTopology(tst *testing.T) {
	m1 := Build(mustConfig(tst, "ACG", "t", "3", false))
	m2 := Build(mustConfig(tst, "ACG", "t", "3", true))

	if len(m1.State) != len(m2.State) || m1.NTransitions() != m2.NTransitions() {
		tst.Error("Reversibility changed the topology")
	}
	for i := range m1.State {
		for j := range m1.State[i].Trans {
			t1, t2 := m1.State[i].Trans[j], m2.State[i].Trans[j]
			if t1.To != t2.To || t1.In != t2.In || t1.Out != t2.Out {
				tst.Error("Transition mismatch:", t1, t2)
			}
		}
	}

	if w := m2.Find("t-W").Trans[1].Weight; w != Name("delOpen1") {
		tst.Error("Expected delOpen1, got", w)
	}
	if w := m2.Find("t-S").Trans[0].Weight; w != Name("insOpen1") {
		tst.Error("Expected insOpen1, got", w)
	}
}

func TestBuildIdempotent(tst *testing.T) {
	cfg := mustConfig(tst, "ACGT", "dna", "2", true)
	m1 := Build(cfg)
	m2 := Build(cfg)
	if !reflect.DeepEqual(m1, m2) {
		tst.Error("Build is not deterministic")
	}
}

func TestMachineRoundTrip(tst *testing.T) {
	m := Build(mustConfig(tst, "AC", "m", "2", true))
	b, err := Encode(m, true)
	if err != nil {
		tst.Fatal(err)
	}
	m2, err := ReadMachine(bytes.NewReader(b))
	if err != nil {
		tst.Fatal("Error reading machine:", err)
	}
	if !reflect.DeepEqual(m, m2) {
		tst.Error("Machine changed after decoding")
	}
}

func TestNewConfigErrors(tst *testing.T) {
	cases := []struct {
		alphabet, name, mix string
		err                 error
	}{
		{"", "m", "", ErrNoAlphabet},
		{"", "", "", ErrNoAlphabet},
		{"AC", "", "", ErrNoName},
		{"AC", "m", "x", ErrBadMixture},
		{"AC", "m", "0", ErrBadMixture},
		{"AC", "m", "-2", ErrBadMixture},
		{"ACA", "m", "", ErrDuplicateSymbol},
	}
	for _, c := range cases {
		_, err := NewConfig(c.alphabet, c.name, c.mix, false)
		if !errors.Is(err, c.err) {
			tst.Errorf("NewConfig(%q, %q, %q): expected %v, got %v", c.alphabet, c.name, c.mix, c.err, err)
		}
		if err != nil && unicode.IsUpper([]rune(err.Error())[0]) {
			tst.Error("Error message should not be capitalized:", err)
		}
	}
}

func TestNewConfigUnicode(tst *testing.T) {
	cfg := mustConfig(tst, "αβ<", "u", "", false)
	if !reflect.DeepEqual(cfg.Alphabet, []string{"α", "β", "<"}) {
		tst.Error("Wrong alphabet split:", cfg.Alphabet)
	}
	b, err := Encode(Build(cfg).Cons.Norm[0], false)
	if err != nil {
		tst.Fatal(err)
	}
	if string(b) != `["eqmα","eqmβ","eqm<"]` {
		tst.Error("Wrong encoding:", string(b))
	}
}
