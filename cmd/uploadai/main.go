package main

import (
	"fmt"
	"os"

	"upload-ai/cmd/uploadai/cmd"
	"upload-ai/internal/config"
)

func main() {
	// A missing .env is fine; a broken one is only reported.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Configuration Warning: %v\n", err)
	}

	cmd.Execute()
}
