// Package tl parses Type Language schemas into definitions.
//
// A schema is a sequence of `;`-terminated statements such as
//
//	//@description Contains information about a user @id User identifier
//	user id:int53 = User;
//
// with `---functions---` and `---types---` markers switching between
// type constructors and remote procedures.
package tl

import (
	"os"
	"strings"
	"time"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
)

// Parse returns every definition in contents along with the errors of
// the statements that failed. One malformed statement never affects its
// neighbours.
func Parse(contents string) ([]*Definition, []error) {
	var defs []*Definition
	var errs []error
	for def, err := range NewIterator(contents).All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, errs
}

// LoadFile reads and parses a schema file, logging one warning per
// statement that fails to parse. Only I/O failures are returned as error.
func LoadFile(path string) ([]*Definition, []error, error) {
	log := logger.ComponentLogger("tl")
	start := time.Now()

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read schema %s", path)
	}

	defs, errs := Parse(string(contents))
	for _, err := range errs {
		var stmt *StatementError
		if errors.As(err, &stmt) {
			log.Warnw("skipping statement",
				logger.FieldSchema, path,
				logger.FieldLine, stmt.Line,
				logger.FieldStatement, summarize(stmt.Statement),
				logger.FieldError, stmt.Err.Error())
			continue
		}
		log.Warnw("skipping statement", logger.FieldSchema, path, logger.FieldError, err.Error())
	}

	log.Infow("parsed schema",
		logger.FieldSchema, path,
		logger.FieldCount, len(defs),
		logger.FieldErrorCount, len(errs),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return defs, errs, nil
}

// summarize drops comment lines and collapses whitespace so diagnostics
// stay on one line.
func summarize(statement string) string {
	var parts []string
	for _, line := range strings.Split(statement, "\n") {
		code, _, _ := strings.Cut(line, "//")
		parts = append(parts, strings.Fields(code)...)
	}
	return strings.Join(parts, " ")
}
