package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/markdias/abudgetapp-sub002/cmd"
	"github.com/markdias/abudgetapp-sub002/logger"
)

func main() {
	// a missing .env file is fine, the defaults apply
	_ = godotenv.Load()
	logger.Init(os.Getenv("BAP_ENV"))
	defer logger.Sync()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
