package srcmesh

import (
	"fmt"
	"strconv"
)

// ApplyEnv overrides config values from environment variables:
// THREADS sets the worker count and ACCUMULATE the accumulation mode.
func ApplyEnv(c *Config, getenv func(string) string) error {
	if v := getenv("THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: THREADS must be a positive integer, got %q", ErrInvalidConfig, v)
		}
		c.Workers = n
	}
	if v := getenv("ACCUMULATE"); v != "" {
		if _, err := ParseAccumulateMode(v); err != nil {
			return err
		}
		c.Accumulate = v
	}
	return nil
}
