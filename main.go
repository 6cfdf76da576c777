package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/PolarWolf314/envgate/cmd"
	"github.com/PolarWolf314/envgate/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, ui.Failed(err.Error()))
		}
		os.Exit(1)
	}
}
