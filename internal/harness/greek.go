package harness

import (
	"path"

	"github.com/chmouel/wcexpect/internal/wc"
)

var greekDirs = []string{
	"",
	"A",
	"A/B",
	"A/B/E",
	"A/B/F",
	"A/C",
	"A/D",
	"A/D/G",
	"A/D/H",
}

var greekFiles = []string{
	"iota",
	"A/mu",
	"A/B/lambda",
	"A/B/E/alpha",
	"A/B/E/beta",
	"A/D/gamma",
	"A/D/G/pi",
	"A/D/G/rho",
	"A/D/G/tau",
	"A/D/H/chi",
	"A/D/H/omega",
	"A/D/H/psi",
}

// GreekContent returns the content the Greek tree gives the file at p.
func GreekContent(p string) string {
	return "This is the file '" + path.Base(p) + "'.\n"
}

// GreekTree returns a fresh model of the standard Greek tree: a root with
// iota and the A hierarchy, every item normal.
func GreekTree() *wc.Model {
	m := wc.New()
	for _, d := range greekDirs {
		m.AddDir(d)
	}
	for _, f := range greekFiles {
		m.AddFile(f, GreekContent(f))
	}
	return m
}
