package jarvest

import (
	"fmt"
	"strings"
	"time"
)

// Browser identifies a cookie source backend.
type Browser string

const (
	// BrowserInline is the inline cookie payload source.
	BrowserInline Browser = "inline"

	// BrowserChrome is Google Chrome.
	BrowserChrome Browser = "chrome"
	// BrowserChromium is Chromium.
	BrowserChromium Browser = "chromium"
	// BrowserEdge is Microsoft Edge.
	BrowserEdge Browser = "edge"
	// BrowserBrave is Brave Browser.
	BrowserBrave Browser = "brave"
	// BrowserVivaldi is Vivaldi.
	BrowserVivaldi Browser = "vivaldi"
	// BrowserOpera is Opera.
	BrowserOpera Browser = "opera"

	// BrowserFirefox is Mozilla Firefox.
	BrowserFirefox Browser = "firefox"

	// BrowserSafari is Apple Safari (macOS only).
	BrowserSafari Browser = "safari"
)

// Mode controls how results from multiple backends are combined.
type Mode string

const (
	// ModeFirst stops at the first backend that yields any matching cookie.
	ModeFirst Mode = "first"
	// ModeMerge unions results from all backends.
	ModeMerge Mode = "merge"
)

// Source describes where a cookie came from.
type Source struct {
	Browser   Browser
	Profile   string
	StorePath string
}

// Cookie is one browser cookie record.
//
// Domain is kept exactly as stored by the browser: a leading dot is
// significant for the Netscape jar's subdomain column and is never stripped.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool

	// Expires is nil for session cookies; the jar writer substitutes the
	// year-2038 sentinel for those.
	Expires *time.Time

	Source Source
}

// Result is returned by Load.
type Result struct {
	Cookies  []Cookie
	Warnings []string
}

// InlineCookies is an optional cookie payload source (JSON/base64/file).
type InlineCookies struct {
	// Exactly one of these is expected to be set. If multiple are set, JSON wins over Base64 over File.
	JSON   []byte
	Base64 string
	File   string
}

// Options configures cookie loading and filtering.
type Options struct {
	// Domain is the target domain; cookies scoped to it or any of its
	// subdomains match.
	Domain string

	// AlsoDomains are companion domains whose cookies are exported alongside
	// the target (e.g. the target site's SSO domain).
	AlsoDomains []string

	// Names is an allowlist of cookie names (empty means "all names").
	Names []string

	// Browsers is an ordered backend list. If empty, DefaultBrowsers() is used.
	Browsers []Browser

	// Mode controls how multiple backends are combined. Defaults to ModeFirst.
	Mode Mode

	// Profiles overrides per-browser store selection.
	// For Chromium-family: profile name, profile dir, or explicit Cookies DB path.
	// For Firefox: profile name/dir, or explicit cookies.sqlite path.
	// For Safari: explicit Cookies.binarycookies path (macOS only).
	Profiles map[Browser]string

	// Inline is an optional source that is always tried before browser reads.
	Inline InlineCookies

	IncludeExpired bool

	// Timeout for OS helper calls (keychain/keyring).
	Timeout time.Duration
}

// DefaultBrowsers returns the default backend order.
func DefaultBrowsers() []Browser {
	return []Browser{
		BrowserChrome,
		BrowserFirefox,
		BrowserEdge,
		BrowserSafari,
	}
}

// SupportedBrowsers returns every backend this build knows about, in default
// probe order within each family.
func SupportedBrowsers() []Browser {
	return []Browser{
		BrowserChrome,
		BrowserChromium,
		BrowserEdge,
		BrowserBrave,
		BrowserVivaldi,
		BrowserOpera,
		BrowserFirefox,
		BrowserSafari,
	}
}

// ParseBrowser maps a user-supplied backend name to a Browser.
func ParseBrowser(s string) (Browser, error) {
	b := Browser(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BrowserChrome, BrowserChromium, BrowserEdge, BrowserBrave,
		BrowserVivaldi, BrowserOpera, BrowserFirefox, BrowserSafari, BrowserInline:
		return b, nil
	}
	return "", fmt.Errorf("jarvest: unknown browser %q", s)
}
