/*

Makepsw generates a pair HMM for an insertion/deletion/substitution
process over an alphabet, with an optional mixture of geometric
indel-length components.

The basic usage looks like this:

	makepsw -a ACGT -n dna

, this will print the machine with its constraints as JSON. To write
preset/dna.json and constraints/dna.json instead:

	makepsw -a ACGT -n dna -m 2 -i -w -p

To see all the options run:

	makepsw -h

*/
package main

import (
	"errors"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/makepsw/psw"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = "branch: " + gitbranch + ", revision: " + githash + ", build time: " + buildstamp

// Logger settings.
var log = logging.MustGetLogger("makepsw")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("makepsw", "pair HMM preset generator").Version(version)

	// model
	alphabet     = app.Flag("alphabet", "alphabet").Short('a').String()
	alphabetFrom = app.Flag("alphabet-from", "take the alphabet from a FASTA file").ExistingFile()
	name         = app.Flag("name", "name").Short('n').String()
	mix          = app.Flag("mix", "no. of components to mixture geometric indel-length distribution").Short('m').String()
	irrev        = app.Flag("irrev", "allow insertion & deletion probs to be different "+
		"(not strictly the same as irreversibility, but close)").Short('i').Bool()

	// output
	write          = app.Flag("write", "write preset & constraints files").Short('w').Bool()
	pretty         = app.Flag("pretty", "indent written files").Short('p').Bool()
	presetDir      = app.Flag("preset-dir", "directory for preset files").Default("preset").String()
	constraintsDir = app.Flag("constraints-dir", "directory for constraints files").Default("constraints").String()
	paramsF        = app.Flag("params", "write a feasible starting parameter set to a file").String()
	checkF         = app.Flag("check", "check parameter values from a JSON file against the constraints").ExistingFile()

	// preset database
	dbF      = app.Flag("db", "store generated presets in a database").String()
	list     = app.Flag("list", "list models stored in the database").Bool()
	show     = app.Flag("show", "print a model stored in the database").String()
	del      = app.Flag("delete", "delete a model from the database").String()
	consOnly = app.Flag("constraints", "with --show, print only the constraints").Bool()

	// technical
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("warning").
		Enum("critical", "error", "warning", "notice", "info", "debug")
)

func main() {
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "makepsw")
	logging.SetLevel(level, "store")
	logging.SetLevel(level, "params")

	log.Info(version)
	log.Info("Command line:", os.Args)

	s := newSettings()

	if s.list || s.show != "" || s.del != "" {
		if s.dbF == "" {
			app.FatalUsage("--list, --show and --delete require --db")
		}
		if err := s.query(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := s.resolveAlphabet(); err != nil {
		log.Fatal("Error reading alphabet:", err)
	}

	cfg, err := s.config()
	if err != nil {
		switch {
		case errors.Is(err, psw.ErrNoAlphabet):
			app.FatalUsage("Please specify an alphabet")
		case errors.Is(err, psw.ErrNoName):
			app.FatalUsage("Please specify a model name")
		}
		app.Fatalf("%s", err)
	}

	ok, err := s.run(cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if !ok {
		os.Exit(1)
	}
}
