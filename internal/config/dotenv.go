package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads KEY=VALUE pairs from a dotenv file into the process environment.
// A missing file is not an error; production should use real env injection.
// Variables already present in the environment are not overwritten.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
