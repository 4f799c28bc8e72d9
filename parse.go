package jarvest

import (
	"strconv"
	"strings"
)

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func envKeySafeStoragePassword(b Browser) string {
	//nolint:exhaustive // Only Chromium-family browsers map to Safe Storage env overrides.
	switch b {
	case BrowserChrome:
		return "JARVEST_CHROME_SAFE_STORAGE_PASSWORD"
	case BrowserEdge:
		return "JARVEST_EDGE_SAFE_STORAGE_PASSWORD"
	case BrowserBrave:
		return "JARVEST_BRAVE_SAFE_STORAGE_PASSWORD"
	case BrowserChromium:
		return "JARVEST_CHROMIUM_SAFE_STORAGE_PASSWORD"
	case BrowserVivaldi:
		return "JARVEST_VIVALDI_SAFE_STORAGE_PASSWORD"
	case BrowserOpera:
		return "JARVEST_OPERA_SAFE_STORAGE_PASSWORD"
	default:
		return "JARVEST_SAFE_STORAGE_PASSWORD"
	}
}
