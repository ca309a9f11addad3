// Command cmdbot runs a bot answering the core commands on one irc server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aarondl/cmdbot/bot"
)

func main() {
	configFile := flag.String("config", "config.toml",
		"configuration file, .yaml or .yml files are read as yaml")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *version {
		fmt.Println(bot.Version)
		return
	}

	err := bot.RunFile(*configFile, func(b *bot.Bot) {
		b.Info("Starting", "version", bot.Version, "nick", b.CurrentNick())
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "cmdbot:", err)
		os.Exit(1)
	}
}
