// Package bio reads sequences and derives emission alphabets from them.
package bio

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrNoPrefix is returned when sequence data precedes the first header.
var ErrNoPrefix = errors.New("sequence w/o prefix")

// DefaultSkip holds the characters never treated as alphabet symbols.
const DefaultSkip = "-.*?"

// Sequence is a named nucleotide or protein sequence.
type Sequence struct {
	Name     string
	Sequence string
}

// Sequences stores multiple sequences. E.g. a sequence alignment.
type Sequences []Sequence

// ParseFasta parses FASTA sequences from a reader. Whitespace inside
// sequence lines is removed, letters are kept as they are.
func ParseFasta(rd io.Reader) (seqs Sequences, err error) {
	seqs = make(Sequences, 0, 10)
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			seqs = append(seqs, Sequence{Name: strings.TrimSpace(line[1:])})
			continue
		}
		if len(seqs) == 0 {
			return nil, ErrNoPrefix
		}
		seqs[len(seqs)-1].Sequence += strings.Join(strings.Fields(line), "")
	}
	err = scanner.Err()
	return
}

// Alphabet returns the distinct symbols of the sequences in order of
// first appearance. Symbols listed in skip are ignored.
func (seqs Sequences) Alphabet(skip string) string {
	var sb strings.Builder
	seen := make(map[rune]bool)
	for _, seq := range seqs {
		for _, r := range seq.Sequence {
			if seen[r] || strings.ContainsRune(skip, r) {
				continue
			}
			seen[r] = true
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Length returns the total number of symbols.
func (seqs Sequences) Length() (n int) {
	for _, seq := range seqs {
		n += len([]rune(seq.Sequence))
	}
	return
}
