// Package rust generates Rust bindings from TL definitions: serde structs
// for constructors, `@type`-tagged enums for boxed types and async
// functions sending requests through the crate's `send_request`.
package rust

import (
	"io"

	"go.uber.org/zap"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
	"github.com/teranos/tlgen/tl"
	"github.com/teranos/tlgen/typegen"
)

// Generator implements typegen.Generator for Rust
type Generator struct {
	cfg typegen.Config
	log *zap.SugaredLogger
}

// NewGenerator creates a new Rust generator
func NewGenerator(cfg typegen.Config) *Generator {
	return &Generator{
		cfg: cfg,
		log: logger.ComponentLogger("typegen"),
	}
}

// Language returns "rust"
func (g *Generator) Language() string {
	return "rust"
}

// FileExtension returns "rs"
func (g *Generator) FileExtension() string {
	return "rs"
}

// Generate writes the types, enums and functions modules for defs, plus
// the client module if enabled. Nothing is written if generation fails.
func (g *Generator) Generate(w io.Writer, source string, defs []*tl.Definition) error {
	meta, err := g.analyze(defs)
	if err != nil {
		return err
	}

	cw := &codeWriter{}
	writeHeader(cw, source)

	g.writeTypesMod(cw, defs, meta)
	if err := g.writeEnumsMod(cw, meta); err != nil {
		return errors.Wrap(err, "failed to generate enums")
	}
	g.writeFunctionsMod(cw, defs)
	if g.cfg.Client {
		g.writeClientMod(cw, defs)
	}

	return g.flush(w, cw, len(defs))
}

// GenerateClient writes only the client module, for crates that keep it
// in a separate file.
func (g *Generator) GenerateClient(w io.Writer, source string, defs []*tl.Definition) error {
	cw := &codeWriter{}
	writeHeader(cw, source)
	g.writeClientMod(cw, defs)
	return g.flush(w, cw, len(defs))
}

func (g *Generator) analyze(defs []*tl.Definition) (*typegen.Metadata, error) {
	meta := typegen.NewMetadata(defs, isBuiltinParam)

	isBuiltin := func(ty *tl.Type) bool {
		_, ok := builtinType(ty)
		return ok
	}
	if err := meta.Validate(defs, isBuiltin, ignoreType); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "schema references types without constructors"),
			"every boxed type used by a field or function result needs at least one constructor",
		)
	}
	return meta, nil
}

func (g *Generator) flush(w io.Writer, cw *codeWriter, count int) error {
	n, err := io.WriteString(w, cw.String())
	if err != nil {
		return errors.Wrap(err, "failed to write generated source")
	}
	g.log.Infow("Generated Rust bindings",
		logger.FieldLanguage, g.Language(),
		logger.FieldCount, count,
		logger.FieldBytes, n)
	return nil
}

func writeHeader(cw *codeWriter, source string) {
	cw.line("// Code generated by tlgen from %s. DO NOT EDIT.", source)
	cw.line("// Regenerate with: tlgen generate")
	cw.line("")
}
