package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/jarvest/jarvest"
)

var exportFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "domain, d",
		Usage:  "target domain to export cookies for",
		Value:  "youtube.com",
		EnvVar: "JARVEST_DOMAIN",
	},
	cli.StringSliceFlag{
		Name:  "also-domain, a",
		Usage: "companion domain exported alongside the target (repeatable)",
	},
	cli.StringSliceFlag{
		Name:  "browser, b",
		Usage: "browser backend, in probe order (repeatable)",
	},
	cli.StringSliceFlag{
		Name:  "name, n",
		Usage: "only export cookies with this name (repeatable)",
	},
	cli.StringSliceFlag{
		Name:  "important",
		Usage: "cookie name audited after writing (repeatable)",
	},
	cli.StringSliceFlag{
		Name:  "profile, p",
		Usage: "per-browser store override as browser=path (repeatable)",
	},
	cli.StringFlag{
		Name:   "out, o",
		Usage:  "output directory for the cookie jar",
		Value:  jarvest.DefaultOutDir,
		EnvVar: "JARVEST_OUT_DIR",
	},
	cli.StringFlag{
		Name:  "file, f",
		Usage: "output file name inside the output directory",
		Value: jarvest.DefaultFileName,
	},
	cli.StringFlag{
		Name:  "cookies-json",
		Usage: "inline cookie payload (JSON array or {\"cookies\": [...]})",
	},
	cli.StringFlag{
		Name:  "cookies-file",
		Usage: "path to an inline cookie JSON payload",
	},
	cli.BoolFlag{
		Name:  "merge, m",
		Usage: "merge cookies from every backend instead of stopping at the first hit",
	},
	cli.BoolFlag{
		Name:  "include-expired",
		Usage: "keep cookies whose expiry has passed",
	},
	cli.DurationFlag{
		Name:  "timeout",
		Usage: "timeout for keychain/keyring helper calls",
		Value: 3 * time.Second,
	},
	cli.BoolFlag{
		Name:  "quiet, q",
		Usage: "suppress per-backend warnings",
	},
}

func optionsFromFlags(ctx *cli.Context) (jarvest.ExportOptions, error) {
	var opts jarvest.ExportOptions
	opts.Domain = ctx.String("domain")
	opts.AlsoDomains = ctx.StringSlice("also-domain")
	if opts.Domain == "youtube.com" && len(opts.AlsoDomains) == 0 {
		// The session cookies that matter for youtube.com live on the
		// google.com SSO domain.
		opts.AlsoDomains = []string{"google.com"}
	}
	opts.Names = ctx.StringSlice("name")
	opts.Important = nil
	if imp := ctx.StringSlice("important"); len(imp) > 0 {
		opts.Important = imp
	}
	opts.OutDir = ctx.String("out")
	opts.FileName = ctx.String("file")
	opts.IncludeExpired = ctx.Bool("include-expired")
	opts.Timeout = ctx.Duration("timeout")
	if ctx.Bool("merge") {
		opts.Mode = jarvest.ModeMerge
	}

	for _, raw := range ctx.StringSlice("browser") {
		b, err := jarvest.ParseBrowser(raw)
		if err != nil {
			return opts, err
		}
		opts.Browsers = append(opts.Browsers, b)
	}

	for _, raw := range ctx.StringSlice("profile") {
		name, path, ok := strings.Cut(raw, "=")
		if !ok {
			return opts, fmt.Errorf("invalid --profile %q, want browser=path", raw)
		}
		b, err := jarvest.ParseBrowser(name)
		if err != nil {
			return opts, err
		}
		if opts.Profiles == nil {
			opts.Profiles = map[jarvest.Browser]string{}
		}
		opts.Profiles[b] = path
	}

	if v := ctx.String("cookies-json"); v != "" {
		opts.Inline.JSON = []byte(v)
	}
	if v := ctx.String("cookies-file"); v != "" {
		if _, err := os.Stat(v); err != nil {
			return opts, fmt.Errorf("inline cookie file: %w", err)
		}
		opts.Inline.File = v
	}

	return opts, nil
}
