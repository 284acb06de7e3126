package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/GoPowerDNS-Admin/zone-importer/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := app.Execute(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
