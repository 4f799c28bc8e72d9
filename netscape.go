package jarvest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// netscapeBanner is the first line downstream parsers use to recognize the format.
const netscapeBanner = "# Netscape HTTP Cookie File"

// noExpirySentinel replaces a missing expiry: max 32-bit epoch seconds
// (2038-01-19), the conventional "far future" value in cookie jars.
const noExpirySentinel int64 = 2147483647

// formatNetscapeLine renders one cookie as a tab-separated jar line:
// domain, subdomain flag, path, secure flag, expiry, name, value.
//
// The subdomain flag is TRUE exactly when the stored domain begins with a
// dot; that is a convention of the format, not the cookie's host-only
// attribute. Tabs or newlines inside name/value are written as-is, an
// accepted limitation of the format.
func formatNetscapeLine(c Cookie) string {
	expiry := noExpirySentinel
	if c.Expires != nil {
		expiry = c.Expires.Unix()
	}

	return strings.Join([]string{
		c.Domain,
		netscapeFlag(strings.HasPrefix(c.Domain, ".")),
		c.Path,
		netscapeFlag(c.Secure),
		strconv.FormatInt(expiry, 10),
		c.Name,
		c.Value,
	}, "\t")
}

func netscapeFlag(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// writeJar writes the four-line comment preamble followed by one line per
// cookie, in input order, creating the parent directory if needed and
// overwriting any existing file.
func writeJar(fsys afero.Fs, path string, domain string, lines []string, now time.Time) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("jarvest: create output directory: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString(netscapeBanner + "\n")
	fmt.Fprintf(&b, "# Generated on %s\n", now.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "# This file contains the HTTP cookies for %s\n", domain)
	b.WriteString("#\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := afero.WriteFile(fsys, path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("jarvest: write cookie jar: %w", err)
	}
	return nil
}
