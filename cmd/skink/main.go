/*
The skink command line REPL is known as `skink`.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	skink "github.com/skink-lang/skink/repl"
)

func usage(myflags *flag.FlagSet) {
	fmt.Printf("skink command line help:\n")
	myflags.PrintDefaults()
	os.Exit(1)
}

func main() {
	cfg := skink.NewSkinkConfig("skink")
	cfg.DefineFlags()
	err := cfg.Flags.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(cfg.Flags)
	}

	if err != nil {
		panic(err)
	}
	err = cfg.ValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "skink command line error: '%v'\n", err)
		usage(cfg.Flags)
	}

	// the library does all the heavy lifting.
	skink.ReplMain(cfg)
}
