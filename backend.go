package jarvest

import (
	"context"
	"fmt"
)

// readBackend is a seam so tests can substitute fake backends.
var readBackend = readBackendCookies

func readBackendCookies(ctx context.Context, b Browser, domains []string, opts Options) ([]Cookie, []string, error) {
	profile := ""
	if opts.Profiles != nil {
		profile = opts.Profiles[b]
	}

	switch b {
	case BrowserChrome, BrowserChromium, BrowserEdge, BrowserBrave, BrowserVivaldi, BrowserOpera:
		return readChromiumCookies(ctx, chromiumVendorFor(b), profile, domains, opts)
	case BrowserFirefox:
		return readFirefoxCookies(ctx, profile, domains)
	case BrowserSafari:
		return readSafariCookies(ctx, profile)
	case BrowserInline:
		return nil, nil, nil
	default:
		return nil, []string{fmt.Sprintf("jarvest: unsupported browser %q", b)}, nil
	}
}
