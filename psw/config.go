package psw

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNoAlphabet is returned when the alphabet is empty.
	ErrNoAlphabet = errors.New("no alphabet specified")
	// ErrNoName is returned when the model name is empty.
	ErrNoName = errors.New("no model name specified")
	// ErrBadMixture is returned for a non-numeric or non-positive
	// number of mixture components.
	ErrBadMixture = errors.New("number of mixture components should be a positive integer")
	// ErrDuplicateSymbol is returned when a symbol occurs twice in the alphabet.
	ErrDuplicateSymbol = errors.New("duplicate alphabet symbol")
)

// Config holds the validated inputs of the machine construction.
type Config struct {
	// Alphabet is the ordered list of symbols, one per code point.
	Alphabet []string
	// Name prefixes all state ids.
	Name string
	// Mix is the number of indel-length mixture components, 0 if
	// there is no mixture.
	Mix int
	// Reversible makes insertions and deletions use separate
	// parameters.
	Reversible bool
}

// NewConfig validates command-line style inputs. An empty mix means
// no mixture.
func NewConfig(alphabet, name, mix string, reversible bool) (Config, error) {
	if alphabet == "" {
		return Config{}, ErrNoAlphabet
	}
	if name == "" {
		return Config{}, ErrNoName
	}

	cfg := Config{Name: name, Reversible: reversible}

	if mix != "" {
		k, err := strconv.Atoi(strings.TrimSpace(mix))
		if err != nil || k < 1 {
			return Config{}, fmt.Errorf("%w: %q", ErrBadMixture, mix)
		}
		cfg.Mix = k
	}

	seen := make(map[rune]bool)
	for _, r := range alphabet {
		if seen[r] {
			return Config{}, fmt.Errorf("%w: %q", ErrDuplicateSymbol, r)
		}
		seen[r] = true
		cfg.Alphabet = append(cfg.Alphabet, string(r))
	}

	return cfg, nil
}

// Mixture reports whether a mixture of indel-length components was
// requested.
func (c Config) Mixture() bool {
	return c.Mix > 0
}

// Indices returns mixture labels: "1".."Mix" for a mixture or a single
// empty label otherwise.
func (c Config) Indices() []string {
	if !c.Mixture() {
		return []string{""}
	}
	idx := make([]string, c.Mix)
	for k := range idx {
		idx[k] = strconv.Itoa(k + 1)
	}
	return idx
}

// Namer returns the parameter namer for the configuration.
func (c Config) Namer() Namer {
	return Namer{Reversible: c.Reversible, Mixture: c.Mixture()}
}

func (c Config) stateID(role string) string {
	return c.Name + "-" + role
}
