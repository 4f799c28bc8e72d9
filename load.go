package jarvest

import (
	"context"
	"slices"
	"time"
)

// Load walks the configured backends in order and returns matching cookies.
//
// Per-backend failures become warnings and enumeration continues with the
// next backend; a single locked database or missing profile never aborts the
// run. In ModeFirst the walk stops at the first backend whose filtered result
// is non-empty.
func Load(ctx context.Context, opts Options) (Result, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	if opts.Mode == "" {
		opts.Mode = ModeFirst
	}

	domains := normalizeDomains(opts.Domain, opts.AlsoDomains)
	if len(domains) == 0 {
		return Result{}, ErrNoDomain
	}
	allow := nameAllowlist(opts.Names)

	browsers := opts.Browsers
	if len(browsers) == 0 {
		browsers = DefaultBrowsers()
	}
	browsers = slices.Compact(browsers)

	var all []Cookie
	var warnings []string

	if inlineAny(opts.Inline) {
		inlineCookies, inlineWarnings, err := readInlineCookies(opts.Inline)
		warnings = append(warnings, inlineWarnings...)
		if err != nil {
			warnings = append(warnings, err.Error())
		} else {
			inlineCookies = filterCookies(domains, allow, opts.IncludeExpired, inlineCookies)
			if opts.Mode == ModeFirst && len(inlineCookies) > 0 {
				return Result{Cookies: inlineCookies, Warnings: warnings}, nil
			}
			all = append(all, inlineCookies...)
		}
	}

	for _, b := range browsers {
		cookies, browserWarnings, err := readBackend(ctx, b, domains, opts)
		warnings = append(warnings, browserWarnings...)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}

		cookies = filterCookies(domains, allow, opts.IncludeExpired, cookies)
		if opts.Mode == ModeFirst {
			if len(cookies) > 0 {
				return Result{Cookies: cookies, Warnings: warnings}, nil
			}
			continue
		}
		all = append(all, cookies...)
	}

	if opts.Mode == ModeMerge {
		all = dedupeCookies(all)
	}
	return Result{Cookies: all, Warnings: warnings}, nil
}
