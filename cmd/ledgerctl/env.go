package main

import (
	"fmt"

	"github.com/joho/godotenv"
)

// loadEnvFile sets variables from path without overriding ones already set.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
