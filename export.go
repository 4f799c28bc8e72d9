package jarvest

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DefaultOutDir is where the jar lands relative to the invocation directory.
const DefaultOutDir = "config"

// DefaultFileName is the jar file name inside the output directory.
const DefaultFileName = "cookies.txt"

// ExportOptions configures one export run.
type ExportOptions struct {
	Options

	// OutDir is the output directory, created if absent. Defaults to DefaultOutDir.
	OutDir string
	// FileName defaults to DefaultFileName.
	FileName string

	// Important overrides the audited cookie names. Defaults to
	// DefaultImportantCookies().
	Important []string

	// Fs defaults to the OS filesystem.
	Fs afero.Fs

	// Now is a clock override for the generation timestamp.
	Now func() time.Time
}

// ExportReport describes a completed export.
type ExportReport struct {
	// Path of the written jar.
	Path string
	// Count of cookie lines written.
	Count int
	// Browser that supplied the cookies (the first record's source).
	Browser Browser

	Audit    AuditReport
	Warnings []string
}

// Export runs the whole pipeline: load cookies from browser backends, format
// them as Netscape jar lines, write the jar file, and audit the written text.
//
// When no backend yields a matching cookie, Export returns ErrNoCookies and
// leaves the output path untouched: no file is created, none is truncated.
func Export(ctx context.Context, opts ExportOptions) (ExportReport, error) {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	res, err := Load(ctx, opts.Options)
	if err != nil {
		return ExportReport{Warnings: res.Warnings}, err
	}
	if len(res.Cookies) == 0 {
		return ExportReport{Warnings: res.Warnings}, ErrNoCookies
	}

	lines := make([]string, len(res.Cookies))
	for i, c := range res.Cookies {
		lines[i] = formatNetscapeLine(c)
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = DefaultOutDir
	}
	fileName := opts.FileName
	if fileName == "" {
		fileName = DefaultFileName
	}
	path := filepath.Join(outDir, fileName)

	if err := writeJar(fsys, path, opts.Domain, lines, now()); err != nil {
		return ExportReport{Warnings: res.Warnings}, err
	}

	important := opts.Important
	if important == nil {
		important = DefaultImportantCookies()
	}

	return ExportReport{
		Path:     path,
		Count:    len(lines),
		Browser:  res.Cookies[0].Source.Browser,
		Audit:    AuditJar(strings.Join(lines, "\n"), important),
		Warnings: res.Warnings,
	}, nil
}
