package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotenv(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat dotenv file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("failed to load dotenv file: %w", err)
	}
	return true, nil
}
