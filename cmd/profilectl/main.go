package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlibekovAA/profile-editor/internal/client/cli"
	"github.com/AlibekovAA/profile-editor/internal/common/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.LoadClientConfig())
	if err := root.ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
