package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	checklistcmd "github.com/examops/checkbot/internal/cmd/checklist"
)

func main() {
	cfg, err := checklistcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[CHECKLIST] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := checklistcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
