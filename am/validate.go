package am

import (
	"net/url"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/tlgen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Generator.Schema == "" {
		return errors.WrapInvalidConfig(errors.New("generator.schema cannot be empty"), "generator")
	}
	if c.Generator.Output == "" {
		return errors.WrapInvalidConfig(errors.New("generator.output cannot be empty"), "generator")
	}
	if c.Generator.ClientOutput != "" && c.Generator.ClientOutput == c.Generator.Output {
		return errors.WrapInvalidConfig(
			errors.Newf("generator.client_output must differ from generator.output (%s)", c.Generator.Output),
			"generator")
	}
	if c.Generator.Client && c.Generator.ClientOutput != "" {
		return errors.WithHint(
			errors.WrapInvalidConfig(errors.New("generator.client and generator.client_output are mutually exclusive"), "generator"),
			"client_output already receives the client module, unset client",
		)
	}

	if c.Log.Verbosity < 0 {
		return errors.WrapInvalidConfig(errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity), "log")
	}

	// Runtime: 0 = tdjson default / unlimited, negative = invalid
	if c.Runtime.ReceiveTimeoutMS < 0 {
		return errors.WrapInvalidConfig(errors.Newf("runtime.receive_timeout_ms must be >= 0, got %d", c.Runtime.ReceiveTimeoutMS), "runtime")
	}
	if c.Runtime.RequestsPerSecond < 0 {
		return errors.WrapInvalidConfig(errors.Newf("runtime.requests_per_second must be >= 0, got %f", c.Runtime.RequestsPerSecond), "runtime")
	}
	if c.Runtime.Burst < 0 {
		return errors.WrapInvalidConfig(errors.Newf("runtime.burst must be >= 0, got %d", c.Runtime.Burst), "runtime")
	}
	if c.Runtime.URL != "" {
		u, err := url.Parse(c.Runtime.URL)
		if err != nil {
			return errors.WrapInvalidConfig(err, "runtime.url")
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return errors.WrapInvalidConfig(errors.Newf("runtime.url must use ws or wss, got %q", u.Scheme), "runtime")
		}
	}

	if c.Compat.TDLib != "" {
		if _, err := semver.NewConstraint(c.Compat.TDLib); err != nil {
			return errors.WithHint(
				errors.WrapInvalidConfig(err, "compat.tdlib"),
				`use a semver constraint such as ">= 1.8.0" or "~1.8"`,
			)
		}
	}

	return nil
}
