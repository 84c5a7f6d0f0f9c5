package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/AndrewLester/ntpclient/internal/config"
	"github.com/AndrewLester/ntpclient/internal/report"
	"github.com/AndrewLester/ntpclient/internal/ui"
	"github.com/AndrewLester/ntpclient/pkg/ntp"
	"github.com/AndrewLester/ntpclient/pkg/query"
	"github.com/spf13/pflag"
)

func usage(flags *cliFlags) {
	prog := os.Args[0]
	fmt.Printf("Usage: %s [-s server] [-n samples] [-d] [-h] [server]\n", prog)
	fmt.Println("\nOptions:")
	flags.set.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Printf("  %s\n", prog)
	fmt.Printf("  %s -s time.nist.gov\n", prog)
	fmt.Printf("  %s -n 4 --compare pool.ntp.org\n", prog)
	fmt.Printf("  %s -d\n", prog)
}

func main() {
	flags := newFlags(os.Args[0])
	flags.set.Usage = func() { usage(flags) }
	if err := flags.parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if flags.help {
		usage(flags)
		return
	}
	if flags.verbose {
		os.Setenv("INFO", "1")
	}
	if flags.debugMode {
		os.Setenv("DEBUG", "1")
	}

	conf, err := config.Load(flags.configPath, flags.envPath)
	if err != nil {
		log.Fatal(err)
	}
	flags.apply(&conf)
	if err := conf.Validate(); err != nil {
		log.Fatal(err)
	}

	if flags.debugMode {
		fmt.Println("=== DEBUG MODE ===")
		report.EpochDemo(os.Stdout, ntp.SystemClock{})
		report.BitFields(os.Stdout, ntp.BuildRequest())
		fmt.Println()
	}

	fmt.Printf("Querying NTP server: %s\n", conf.Server)

	options := conf.Options()
	var exchange *query.Exchange
	if flags.noTUI {
		exchange, err = query.Burst(context.Background(), options, conf.Samples, nil)
	} else {
		exchange, err = handleQueryCommand(options, conf.Samples)
	}
	if err != nil {
		fmt.Println(ui.ErrorStyle("Error:"), err)
		os.Exit(1)
	}

	if exchange.Addr != nil {
		fmt.Printf("Server IP: %s\n\n", exchange.Addr.IP)
	}
	report.Exchange(os.Stdout, exchange, conf.LocalTime)

	if conf.Compare {
		fmt.Println()
		comparison, err := query.CrossCheck(options, exchange.Result)
		if err != nil {
			fmt.Println(ui.ErrorStyle("Error:"), err)
			os.Exit(1)
		}
		report.Comparison(os.Stdout, comparison)
	}
}
