package bot

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aarondl/cmdbot/config"
)

const (
	// dotenvFile is read for environment overrides when it exists.
	dotenvFile = ".env"
	// shutdownWait is how long pending replies get to finish on shutdown.
	shutdownWait = time.Second
)

// Run makes a very typical bot, see RunFile.
func Run(cb func(b *Bot)) error {
	return RunFile("", cb)
}

// RunFile makes a very typical bot. It will call the cb function passed in
// before starting to allow registration of handlers and commands. Returns
// error if the bot could not be created. Does NOT return until dead.
// The following are featured behaviors:
// Reads the configuration file, ./config.toml when filename is empty.
// Applies CMDBOT_ environment overrides, including those in ./.env.
// Watches for Keyboard Input OR SIGINT OR SIGTERM and shuts down normally.
// Pauses after death to allow pending replies to be delivered.
func RunFile(filename string, cb func(b *Bot)) error {
	cfg := config.New().FromFile(filename)
	if _, err := os.Stat(dotenvFile); err == nil {
		cfg.FromEnv(dotenvFile)
	} else {
		cfg.FromEnv()
	}

	b, err := New(cfg)
	if err != nil {
		return err
	}

	if cb != nil {
		cb(b)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	end := make(chan error, 1)
	go func() {
		end <- b.Start(ctx)
	}()

	input, quit := make(chan int, 1), make(chan os.Signal, 2)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		input <- 0
	}()

	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-input:
		cancel()
		err = <-end
	case <-quit:
		cancel()
		err = <-end
	case err = <-end:
	}

	if err != nil {
		b.Error("Server death", "err", err)
	}

	b.Info("Shutting down...")
	if !b.waitForHandlers(shutdownWait) {
		b.Warn("Gave up waiting for handlers", "wait", shutdownWait)
	}

	return err
}
