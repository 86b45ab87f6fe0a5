package skink

import (
	"flag"
)

// configure a skink repl
type SkinkConfig struct {
	CpuProfile    string
	MemProfile    string
	ExitOnFailure bool
	Flags         *flag.FlagSet
}

func NewSkinkConfig(cmdname string) *SkinkConfig {
	return &SkinkConfig{
		Flags: flag.NewFlagSet(cmdname, flag.ExitOnError),
	}
}

// call DefineFlags before myflags.Parse()
func (c *SkinkConfig) DefineFlags() {
	c.Flags.StringVar(&c.CpuProfile, "cpuprofile", "", "write cpu profile to file")
	c.Flags.StringVar(&c.MemProfile, "memprofile", "", "write mem profile to file")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit on failure instead of starting repl")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *SkinkConfig) ValidateConfig() error {
	return nil
}
