package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/altdrag/altdrag/cmd/altdrag/devices"
	"github.com/altdrag/altdrag/cmd/altdrag/engine"
	"github.com/altdrag/altdrag/cmd/altdrag/in"
	"github.com/altdrag/altdrag/cmd/altdrag/out"
	"github.com/altdrag/altdrag/cmd/altdrag/subcmd"
	"github.com/altdrag/altdrag/log2"
	"github.com/altdrag/altdrag/state"
)

var modules = []subcmd.Mod{
	engine.Mod,
	in.Mod,
	out.Mod,
	devices.Mod,
}

func main() {
	flagConfig := flag.String("config", "", "HCL config file, built-in defaults when empty")
	flagDebug := flag.Bool("debug", false, "debug logging, same as config log.debug=true")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [command]\ncommands:\n", os.Args[0])
		subcmd.PrintUsage(flag.CommandLine.Output(), modules)
		fmt.Fprintf(flag.CommandLine.Output(), "flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := log2.NewStderrAuto(log2.LInfo)
	config := state.DefaultConfig()
	if *flagConfig != "" {
		config = state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	}
	if *flagDebug {
		config.Log.Debug = true
	}
	log.SetLevel(config.LogLevel())

	cmdName := flag.Arg(0)
	args := []string{}
	if flag.NArg() > 1 {
		args = flag.Args()[1:]
	}
	if cmdName == "" {
		cmdName = engine.Mod.Name
	}
	mod, err := subcmd.Parse(cmdName, modules)
	if err != nil {
		log.Error(err)
		flag.Usage()
		os.Exit(1)
	}
	log.SetPrefix(mod.Name + ": ")

	ctx, g := state.NewContext(log, config)
	err = mod.Main(ctx, config, args)
	g.Alive.Stop()
	if err != nil {
		g.Error(err, "command=%s", mod.Name)
		os.Exit(1)
	}
	g.Alive.Wait()
}
