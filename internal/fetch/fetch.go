// Package fetch downloads TL schemas with hashicorp/go-getter.
//
// Any go-getter source works: local paths, http(s) URLs, git
// repositories with a //subdir selector, and s3/gcs buckets. A
// ?checksum=sha256:... query is verified by go-getter itself.
package fetch

import (
	"context"
	"maps"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
	"github.com/teranos/tlgen/tl"
)

// Result describes a fetched schema
type Result struct {
	// Source is the go-getter URL after detection
	Source      string
	Path        string
	Definitions int
	// Errors are the statements that failed to parse
	Errors []error
}

// Schema fetches src into dst. The download lands in a temporary file
// next to dst and replaces dst only if it parses to at least one
// definition.
func Schema(ctx context.Context, src, dst string) (*Result, error) {
	log := logger.ComponentLogger("fetch")

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to detect source type of %s", src)
	}
	log.Debugw("go-getter detected source", "input", src, "detected", detected)

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", dir)
	}
	tmpDir, err := os.MkdirTemp(dir, ".tlgen-fetch-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tmpDir)

	tmp := filepath.Join(tmpDir, filepath.Base(dst))
	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     tmp,
		Pwd:     pwd,
		Mode:    getter.ClientModeFile,
		Getters: copyingGetters(),
	}
	if err := client.Get(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to fetch %s", src),
			"sources use go-getter syntax, e.g. git::https://github.com/tdlib/td//td/generate/scheme/td_api.tl")
	}

	contents, err := os.ReadFile(tmp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read fetched schema")
	}
	defs, errs := tl.Parse(string(contents))
	if len(defs) == 0 {
		return nil, errors.Newf("%s contains no TL definitions", src)
	}

	if err := os.Rename(tmp, dst); err != nil {
		return nil, errors.Wrapf(err, "failed to move schema to %s", dst)
	}

	log.Infow("fetched schema",
		logger.FieldSchema, dst,
		logger.FieldCount, len(defs),
		logger.FieldErrorCount, len(errs))

	return &Result{Source: detected, Path: dst, Definitions: len(defs), Errors: errs}, nil
}

// copyingGetters returns the default getters with local files copied
// instead of symlinked, so the temp directory can be removed afterwards.
func copyingGetters() map[string]getter.Getter {
	getters := maps.Clone(getter.Getters)
	getters["file"] = &getter.FileGetter{Copy: true}
	return getters
}
