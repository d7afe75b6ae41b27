package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bitbucket.org/Davydov/makepsw/bio"
	"bitbucket.org/Davydov/makepsw/params"
	"bitbucket.org/Davydov/makepsw/psw"
	"bitbucket.org/Davydov/makepsw/store"
)

// settings stores everything needed to generate and output a model.
type settings struct {
	alphabet     string
	alphabetFrom string
	name         string
	mix          string
	irrev        bool

	write          bool
	pretty         bool
	presetDir      string
	constraintsDir string
	paramsF        string
	checkF         string

	dbF      string
	list     bool
	show     string
	del      string
	consOnly bool
}

// newSettings initializes settings from global variables
// (command-line arguments).
func newSettings() *settings {
	return &settings{
		alphabet:     *alphabet,
		alphabetFrom: *alphabetFrom,
		name:         *name,
		mix:          *mix,
		irrev:        *irrev,

		write:          *write,
		pretty:         *pretty,
		presetDir:      *presetDir,
		constraintsDir: *constraintsDir,
		paramsF:        *paramsF,
		checkF:         *checkF,

		dbF:      *dbF,
		list:     *list,
		show:     *show,
		del:      *del,
		consOnly: *consOnly,
	}
}

// resolveAlphabet reads the alphabet from a FASTA file if requested.
func (s *settings) resolveAlphabet() error {
	if s.alphabetFrom == "" {
		return nil
	}
	if s.alphabet != "" {
		return errors.New("--alphabet and --alphabet-from are mutually exclusive")
	}
	f, err := os.Open(s.alphabetFrom)
	if err != nil {
		return err
	}
	defer f.Close()

	seqs, err := bio.ParseFasta(f)
	if err != nil {
		return err
	}
	s.alphabet = seqs.Alphabet(bio.DefaultSkip)
	log.Infof("Read %d sequences (%d symbols), alphabet: %s", len(seqs), seqs.Length(), s.alphabet)
	return nil
}

func (s *settings) config() (psw.Config, error) {
	return psw.NewConfig(s.alphabet, s.name, s.mix, s.irrev)
}

// run builds the machine and writes all the requested outputs. It
// returns false if parameter values failed the constraints check.
func (s *settings) run(cfg psw.Config, stdout io.Writer) (bool, error) {
	log.Infof("Building %s: %d symbols, %d mixture components, reversible=%v",
		cfg.Name, len(cfg.Alphabet), cfg.Mix, cfg.Reversible)
	m := psw.Build(cfg)
	log.Infof("Machine has %d states and %d transitions", len(m.State), m.NTransitions())

	if s.write {
		if err := s.writeFiles(cfg.Name, m); err != nil {
			return false, err
		}
	} else {
		if err := psw.Write(stdout, m, true); err != nil {
			return false, err
		}
	}

	if s.dbF != "" {
		db, err := store.Open(s.dbF)
		if err != nil {
			return false, fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		if err := db.Save(cfg.Name, m); err != nil {
			return false, err
		}
	}

	if s.paramsF != "" {
		if err := writeValues(s.paramsF, params.Seed(m.Cons)); err != nil {
			return false, err
		}
		log.Noticef("Starting parameters written to %s", s.paramsF)
	}

	if s.checkF != "" {
		return check(s.checkF, cfg, m)
	}
	return true, nil
}

// writeFiles writes the preset and the constraints files.
func (s *settings) writeFiles(name string, m *psw.Machine) error {
	files := []struct {
		dir string
		v   interface{}
	}{
		{s.presetDir, m},
		{s.constraintsDir, m.Cons},
	}
	for _, f := range files {
		b, err := psw.Encode(f.v, s.pretty)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(f.dir, 0755); err != nil {
			return err
		}
		fn := filepath.Join(f.dir, name+".json")
		if err := os.WriteFile(fn, b, 0644); err != nil {
			return err
		}
		log.Infof("Written %s", fn)
	}
	return nil
}

func writeValues(fn string, v params.Values) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := v.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// check verifies parameter values against the constraints of m.
func check(fn string, cfg psw.Config, m *psw.Machine) (bool, error) {
	f, err := os.Open(fn)
	if err != nil {
		return false, err
	}
	defer f.Close()

	v, err := params.Read(f)
	if err != nil {
		return false, fmt.Errorf("reading parameters: %w", err)
	}

	vs := params.Check(cfg.Alphabet, m.Cons, v)
	for _, vi := range vs {
		log.Error(vi)
	}
	if len(vs) > 0 {
		log.Errorf("%d constraint(s) violated", len(vs))
		return false, nil
	}
	log.Notice("All constraints are satisfied")
	return true, nil
}

// query answers --list, --show and --delete requests from the database.
func (s *settings) query(stdout io.Writer) error {
	db, err := store.Open(s.dbF)
	if err != nil {
		return err
	}
	defer db.Close()

	if s.list {
		names, err := db.Names()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(stdout, n)
		}
	}

	if s.show != "" {
		if s.consOnly {
			c, err := db.LoadConstraints(s.show)
			if err != nil {
				return fmt.Errorf("%s: %w", s.show, err)
			}
			if err := psw.Write(stdout, c, true); err != nil {
				return err
			}
		} else {
			m, err := db.Load(s.show)
			if err != nil {
				return fmt.Errorf("%s: %w", s.show, err)
			}
			if err := psw.Write(stdout, m, true); err != nil {
				return err
			}
		}
	}

	if s.del != "" {
		if err := db.Delete(s.del); err != nil {
			return fmt.Errorf("%s: %w", s.del, err)
		}
	}
	return nil
}
