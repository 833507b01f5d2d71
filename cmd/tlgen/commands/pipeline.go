package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/teranos/tlgen/am"
	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
	"github.com/teranos/tlgen/tl"
	"github.com/teranos/tlgen/typegen/rust"
)

// rendered is one generated file held in memory
type rendered struct {
	path string
	data []byte
}

// render parses the schema and generates every configured output. Parse
// diagnostics are returned separately; with strict they abort the run.
func render(gen am.GeneratorConfig, strict bool) ([]rendered, []error, error) {
	defs, diags, err := tl.LoadFile(gen.Schema)
	if err != nil {
		return nil, nil, errors.WithHint(err, "set generator.schema or pass --schema, or run 'tlgen fetch' first")
	}
	if strict && len(diags) > 0 {
		return nil, diags, errors.WithHint(
			errors.Wrapf(errors.Join(diags...), "%d statements of %s failed to parse", len(diags), gen.Schema),
			"run 'tlgen parse' to list the failing statements")
	}

	// the header names the schema file only, so output does not depend on the checkout location
	source := filepath.Base(gen.Schema)
	generator := rust.NewGenerator(gen.Switches())

	var out bytes.Buffer
	if err := generator.Generate(&out, source, defs); err != nil {
		return nil, diags, errors.Wrapf(err, "failed to generate %s", gen.Output)
	}
	files := []rendered{{path: gen.Output, data: out.Bytes()}}

	if gen.ClientOutput != "" {
		var client bytes.Buffer
		if err := generator.GenerateClient(&client, source, defs); err != nil {
			return nil, diags, errors.Wrapf(err, "failed to generate %s", gen.ClientOutput)
		}
		files = append(files, rendered{path: gen.ClientOutput, data: client.Bytes()})
	}
	return files, diags, nil
}

// writeRendered writes each file, creating parent directories
func writeRendered(files []rendered) error {
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), am.DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", f.path)
		}
		if err := os.WriteFile(f.path, f.data, am.DefaultFilePermissions); err != nil {
			return errors.Wrapf(err, "failed to write %s", f.path)
		}
	}
	return nil
}

// regenerate renders and writes the outputs of gen
func regenerate(gen am.GeneratorConfig, strict bool) ([]rendered, []error, error) {
	start := time.Now()
	files, diags, err := render(gen, strict)
	if err != nil {
		return nil, diags, err
	}
	if err := writeRendered(files); err != nil {
		return nil, diags, err
	}
	logger.Infow("Generated bindings",
		logger.FieldSchema, gen.Schema,
		logger.FieldCount, len(files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return files, diags, nil
}
