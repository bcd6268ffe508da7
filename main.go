package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/saiyan/cli"
	"github.com/ardnew/saiyan/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog uses the error's LogValue
		os.Exit(1)
	}
}
