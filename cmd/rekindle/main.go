package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rekindle/backend/internal/cli"
	"github.com/rekindle/backend/internal/logging"
)

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")
	logging.Setup()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
