// Package main is the Tenang CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
