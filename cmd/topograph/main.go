package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/asalnikov/topologies/internal/log"
	"github.com/asalnikov/topologies/pkg/topograph"
)

// Version holds the current version of topograph.
var Version = "(development)"

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

func envFlag(varname string) bool {
	val := os.Getenv(varname)
	return val != "" && strings.ToLower(val) != "false" && val != "0"
}

type elaborateOpts struct {
	Patch string             `goptions:"--patch, description='Apply a go-patch overlay file before elaborating'"`
	Gates bool               `goptions:"--gates, description='Include gate nodes in the DOT output'"`
	Help  bool               `goptions:"--help, -h"`
	Files goptions.Remainder `goptions:"description='Input JSON files to merge and elaborate'"`
}

type dumpOpts struct {
	Patch string             `goptions:"--patch, description='Apply a go-patch overlay file before dumping'"`
	Help  bool               `goptions:"--help, -h"`
	Files goptions.Remainder `goptions:"description='Input JSON files to merge and dump'"`
}

type diffOpts struct {
	Help  bool               `goptions:"--help, -h"`
	Files goptions.Remainder `goptions:"description='Two input JSON files whose elaborated topologies are compared'"`
}

// defaultToElaborate rewrites a bare "prog config.json [more.json...]"
// invocation into "prog elaborate config.json [more.json...]", satisfying
// spec.md §6.3's no-verb default contract while still letting the rest of
// the CLI be goptions verbs, the way the teacher's cmd/graft/main.go does.
func defaultToElaborate(args []string) []string {
	if len(args) == 0 {
		return args
	}
	switch args[0] {
	case "elaborate", "dump", "diff":
		return args
	}
	if strings.HasPrefix(args[0], "-") {
		return args
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, "elaborate")
	out = append(out, args...)
	return out
}

func main() {
	os.Args = append(os.Args[:1], defaultToElaborate(os.Args[1:])...)

	var options struct {
		Debug     bool          `goptions:"-D, --debug, description='Enable debugging'"`
		Trace     bool          `goptions:"-T, --trace, description='Enable trace mode debugging (very verbose)'"`
		Version   bool          `goptions:"-v, --version, description='Display version information'"`
		Color     string        `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Action    goptions.Verbs
		Elaborate elaborateOpts `goptions:"elaborate"`
		Dump      dumpOpts      `goptions:"dump"`
		Diff      diffOpts      `goptions:"diff"`
	}
	getopts(&options)

	if envFlag("DEBUG") || options.Debug {
		log.SetDebug(true)
	}
	if envFlag("TRACE") || options.Trace {
		log.SetTrace(true)
	}

	if options.Version {
		printfStdOut("%s - Version %s\n", os.Args[0], Version)
		exit(0)
		return
	}

	shouldEnableColor := false
	switch options.Color {
	case "on":
		shouldEnableColor = true
	case "off":
		shouldEnableColor = false
	case "auto", "":
		shouldEnableColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		log.PrintfStdErr("Invalid --color option: %s. Must be 'on', 'off', or 'auto'.\n", options.Color)
		exit(1)
		return
	}
	ansi.Color(shouldEnableColor)

	switch options.Action {
	case "elaborate":
		runElaborate(options.Elaborate)
	case "dump":
		runDump(options.Dump)
	case "diff":
		runDiff(options.Diff)
	default:
		usage()
		return
	}
	exit(0)
}

func loadAndPatch(files []string, patchPath string) (*topograph.NetworkDefinition, error) {
	def, err := topograph.LoadFiles(files)
	if err != nil {
		return nil, err
	}
	if patchPath != "" {
		patchData, err := os.ReadFile(patchPath)
		if err != nil {
			return nil, err
		}
		def, err = topograph.ApplyPatch(def, patchData)
		if err != nil {
			return nil, err
		}
	}
	return def, nil
}

func runElaborate(opts elaborateOpts) {
	if opts.Help || len(opts.Files) == 0 {
		usage()
		return
	}
	def, err := loadAndPatch(opts.Files, opts.Patch)
	if err != nil {
		log.PrintfStdErr("%s\n", topograph.ColorError(err))
		exit(1)
		return
	}
	g, err := topograph.Elaborate(def)
	if err != nil {
		log.PrintfStdErr("%s\n", topograph.ColorError(err))
		exit(1)
		return
	}
	printfStdOut("%s", g.Serialize(true))

	compacted, err := topograph.Compact(g)
	if err != nil {
		log.PrintfStdErr("%s\n", topograph.ColorError(err))
		exit(1)
		return
	}
	printfStdOut("%s", compacted.Serialize(opts.Gates))
}

func runDump(opts dumpOpts) {
	if opts.Help || len(opts.Files) == 0 {
		usage()
		return
	}
	def, err := loadAndPatch(opts.Files, opts.Patch)
	if err != nil {
		log.PrintfStdErr("%s\n", topograph.ColorError(err))
		exit(2)
		return
	}
	out, err := topograph.DumpYAML(def)
	if err != nil {
		log.PrintfStdErr("%s\n", topograph.ColorError(err))
		exit(2)
		return
	}
	printfStdOut("%s\n", out)
}

func runDiff(opts diffOpts) {
	if opts.Help || len(opts.Files) != 2 {
		usage()
		return
	}
	graphs := make([]*topograph.Graph, 2)
	for i, f := range opts.Files {
		def, err := topograph.LoadFiles([]string{f})
		if err != nil {
			log.PrintfStdErr("%s\n", topograph.ColorError(err))
			exit(2)
			return
		}
		g, err := topograph.Elaborate(def)
		if err != nil {
			log.PrintfStdErr("%s\n", topograph.ColorError(err))
			exit(2)
			return
		}
		g, err = topograph.Compact(g)
		if err != nil {
			log.PrintfStdErr("%s\n", topograph.ColorError(err))
			exit(2)
			return
		}
		graphs[i] = g
	}
	out, different, err := topograph.DiffGraphs(graphs[0], graphs[1])
	if err != nil {
		log.PrintfStdErr("%s\n", topograph.ColorError(err))
		exit(2)
		return
	}
	printfStdOut("%s\n", out)
	if different {
		exit(1)
	}
}
