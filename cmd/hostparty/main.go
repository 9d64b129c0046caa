// Package main is the entry point for the hostparty CLI.
//
// hostparty provisions short-lived event hosts: it creates a compute
// instance, points a DNS record at it and waits until the host answers
// over HTTP. It also lists and deletes the hosts of a namespace.
//
// Commands: init, create, list, delete, version, completion.
//
// For detailed usage information, run:
//
//	hostparty --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hostparty/hostparty/cmd/hostparty/commands"
	"github.com/hostparty/hostparty/cmd/hostparty/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	if err != nil && !handlers.IsReported(err) {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(handlers.ExitCode(err))
}
