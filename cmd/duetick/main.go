package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/duetick/duetick/internal/cli"
)

var version = "dev"

func main() {
	// A .env in the working directory can supply DUETICK_* overrides.
	_ = godotenv.Load()

	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "duetick failed: %v\n", err)
		os.Exit(1)
	}
}
