package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wrapper := NewWrapper(afero.NewOsFs(), os.Stdout)
	if err := wrapper.Run(ctx, os.Args); err != nil {
		stop()
		log.Fatal(err)
	}
}
