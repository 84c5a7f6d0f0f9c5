package main

import (
	"time"

	"github.com/AndrewLester/ntpclient/internal/config"
	"github.com/AndrewLester/ntpclient/pkg/query"
	"github.com/spf13/pflag"
)

const defaultEnvPath = ".env"

type cliFlags struct {
	set *pflag.FlagSet

	configPath string
	envPath    string
	server     string
	samples    int
	timeout    time.Duration
	ttl        int
	utc        bool
	compare    bool
	noTUI      bool
	debugMode  bool
	verbose    bool
	help       bool
}

func newFlags(name string) *cliFlags {
	f := &cliFlags{set: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	s := f.set
	s.StringVar(&f.configPath, "config", config.DefaultConfigPath, "Path to the YAML config file.")
	s.StringVar(&f.envPath, "env", defaultEnvPath, "Path to an optional .env file.")
	s.StringVarP(&f.server, "server", "s", query.DefaultServer, "NTP server to query.")
	s.IntVarP(&f.samples, "samples", "n", 1, "Number of requests to send; the lowest delay wins.")
	s.DurationVar(&f.timeout, "timeout", query.DefaultTimeout, "How long to wait for each response.")
	s.IntVar(&f.ttl, "ttl", 0, "IP TTL of the request (0: system default).")
	s.BoolVar(&f.utc, "utc", false, "Show times in UTC instead of the local zone.")
	s.BoolVar(&f.compare, "compare", false, "Cross-check the result with github.com/beevik/ntp.")
	s.BoolVar(&f.noTUI, "no-tui", false, "Print plainly, without the progress display.")
	s.BoolVarP(&f.debugMode, "debug", "d", false, "Debug mode - show epoch conversion and bit fields. Implies --no-tui.")
	s.BoolVarP(&f.verbose, "verbose", "v", false, "Log every sample. Implies --no-tui.")
	s.BoolVarP(&f.help, "help", "h", false, "Show this help.")
	return f
}

func (f *cliFlags) parse(args []string) error {
	if err := f.set.Parse(args); err != nil {
		return err
	}
	// sample logging goes to stdout and would tear the progress view
	if f.debugMode || f.verbose {
		f.noTUI = true
	}
	return nil
}

// apply overrides conf with every flag given on the command line. The
// positional server wins over -s.
func (f *cliFlags) apply(conf *config.Config) {
	if f.set.Changed("server") {
		conf.Server = f.server
	}
	if f.set.NArg() > 0 {
		conf.Server = f.set.Arg(0)
	}
	if f.set.Changed("samples") {
		conf.Samples = f.samples
	}
	if f.set.Changed("timeout") {
		conf.Timeout = f.timeout
	}
	if f.set.Changed("ttl") {
		conf.TTL = f.ttl
	}
	if f.set.Changed("utc") {
		conf.LocalTime = !f.utc
	}
	if f.set.Changed("compare") {
		conf.Compare = f.compare
	}
}
