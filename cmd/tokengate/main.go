package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/caasmo/tokengate"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file (secrets may also come from the environment)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	var opts []tokengate.Option
	if *verbose {
		opts = append(opts, tokengate.WithPhusLogger(&slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	_, srv, err := tokengate.New(*configPath, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengate: %v\n", err)
		os.Exit(1)
	}

	srv.Run()
}
