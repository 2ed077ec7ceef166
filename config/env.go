package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// The environment variables that override parameters.
const (
	EnvSeed      = "PRODSIM_SEED"
	EnvFinalTime = "PRODSIM_FINAL_TIME"
	EnvOutput    = "PRODSIM_OUTPUT"
	EnvLogLevel  = "PRODSIM_LOG"
)

// Overrides are parameter values given through the environment. Nil fields
// and empty strings are not set.
type Overrides struct {
	Seed      *int64
	FinalTime *float64
	Output    string
	LogLevel  string
}

// LoadEnv reads the overrides from a .env file and from the environment.
// Variables already set in the environment beat the file. A missing file is
// not an error.
func LoadEnv(path string) (Overrides, error) {
	values := map[string]string{}

	if path != "" {
		read, err := godotenv.Read(path)

		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Overrides{}, fmt.Errorf("config: reading %s: %w", path, err)
		default:
			values = read
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}

		return values[key]
	}

	o := Overrides{
		Output:   lookup(EnvOutput),
		LogLevel: lookup(EnvLogLevel),
	}

	if v := lookup(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Overrides{}, fmt.Errorf("%w: %s: %w", ErrInvalidParams, EnvSeed, err)
		}

		o.Seed = &seed
	}

	if v := lookup(EnvFinalTime); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Overrides{}, fmt.Errorf("%w: %s: %w",
				ErrInvalidParams, EnvFinalTime, err)
		}

		o.FinalTime = &t
	}

	return o, nil
}

// Apply writes the overrides into the parameters.
func (o Overrides) Apply(p *Params) {
	if o.Seed != nil {
		p.Seed = *o.Seed
	}

	if o.FinalTime != nil {
		p.FinalTime = *o.FinalTime
	}
}
