// Package configx loads layered configuration: a .env file, an optional
// TOML file, then environment variables.
//
// Defaults belong in the struct before Load is called. Fields are only
// overwritten by a layer that actually sets them, so env tags should not
// carry envDefault.
package configx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load fills cfg from .env, tomlPath and the environment, in that order of
// increasing precedence. Missing .env and TOML files are not errors.
func Load(cfg any, tomlPath string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env file: %w", err)
	}

	if tomlPath != "" {
		if _, err := os.Stat(tomlPath); err == nil {
			if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
				return fmt.Errorf("decode %s: %w", tomlPath, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", tomlPath, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Path returns the value of the environment variable key, or def.
func Path(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
