package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/goliatone/go-mobiledoc/internal/prompt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	e := &env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		logW:   os.Stderr,
		driver: prompt.NewSurveyDriver(),
	}

	err := newApp(e).Run(ctx, os.Args)
	stop()
	if err != nil {
		if e.log != nil {
			e.log.Error("Program ended with error", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}
