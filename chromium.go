package jarvest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type chromiumVendor struct {
	browser Browser

	// user-visible
	label string

	// "Safe Storage" secret identifier.
	safeStorageService string
	safeStorageAccount string
}

func chromiumVendorFor(b Browser) chromiumVendor {
	//nolint:exhaustive // Only Chromium-family browsers are mapped here.
	switch b {
	case BrowserChrome:
		return chromiumVendor{browser: b, label: "Chrome", safeStorageService: "Chrome Safe Storage", safeStorageAccount: "Chrome"}
	case BrowserChromium:
		return chromiumVendor{browser: b, label: "Chromium", safeStorageService: "Chromium Safe Storage", safeStorageAccount: "Chromium"}
	case BrowserEdge:
		return chromiumVendor{browser: b, label: "Microsoft Edge", safeStorageService: "Microsoft Edge Safe Storage", safeStorageAccount: "Microsoft Edge"}
	case BrowserBrave:
		return chromiumVendor{browser: b, label: "Brave", safeStorageService: "Brave Safe Storage", safeStorageAccount: "Brave"}
	case BrowserVivaldi:
		return chromiumVendor{browser: b, label: "Vivaldi", safeStorageService: "Vivaldi Safe Storage", safeStorageAccount: "Vivaldi"}
	case BrowserOpera:
		return chromiumVendor{browser: b, label: "Opera", safeStorageService: "Opera Safe Storage", safeStorageAccount: "Opera"}
	default:
		return chromiumVendor{browser: b, label: string(b), safeStorageService: fmt.Sprintf("%s Safe Storage", b), safeStorageAccount: string(b)}
	}
}

type chromiumStore struct {
	cookiesDB string
	userData  string
	profile   string
}

func readChromiumCookies(ctx context.Context, vendor chromiumVendor, profileOverride string, domains []string, opts Options) ([]Cookie, []string, error) {
	stores, warnings := chromiumResolveStores(vendor.browser, profileOverride)
	if len(stores) == 0 {
		return nil, append(warnings, fmt.Sprintf("jarvest: %s cookie store not found", vendor.label)), nil
	}

	decrypt, decryptWarnings := chromiumDecryptor(vendor, stores, opts.Timeout)
	warnings = append(warnings, decryptWarnings...)

	var out []Cookie
	for _, st := range stores {
		snapshotPath, cleanup, snapWarnings, err := chromiumSnapshot(ctx, st.cookiesDB)
		warnings = append(warnings, snapWarnings...)
		if err != nil {
			continue
		}
		func() {
			defer cleanup()

			db, err := openCookieDB(ctx, snapshotPath)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("jarvest: failed to open %s cookies DB: %v", vendor.label, err))
				return
			}
			defer func() { _ = db.Close() }()

			metaVersion := chromiumMetaVersion(ctx, db)

			rows, err := chromiumReadCookieRows(ctx, db, domains)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("jarvest: failed to read %s cookies: %v", vendor.label, err))
				return
			}

			for _, row := range rows {
				c, ok := chromiumRowToCookie(vendor, st, row, metaVersion, decrypt)
				if !ok {
					continue
				}
				out = append(out, c)
			}
		}()
	}

	return out, warnings, nil
}

type chromiumDecryptFunc func(encrypted []byte, metaVersion int64) ([]byte, bool)

func chromiumRowToCookie(vendor chromiumVendor, st chromiumStore, row chromiumCookieRow, metaVersion int64, decrypt chromiumDecryptFunc) (Cookie, bool) {
	if row.name == "" || row.hostKey == "" {
		return Cookie{}, false
	}

	value := row.value
	if value == "" && len(row.encryptedValue) > 0 && decrypt != nil {
		if decrypted, ok := decrypt(row.encryptedValue, metaVersion); ok {
			if decoded, ok := chromiumDecodeCookieValue(decrypted); ok {
				value = decoded
			}
		}
	}
	if value == "" {
		return Cookie{}, false
	}

	var expires *time.Time
	if row.expiresUTC != 0 {
		if t, ok := chromiumExpiresToTime(row.expiresUTC); ok {
			expires = &t
		}
	}

	path := row.path
	if path == "" {
		path = "/"
	}

	// host_key is kept verbatim: the jar writer needs the leading dot.
	return Cookie{
		Name:     row.name,
		Value:    value,
		Domain:   row.hostKey,
		Path:     path,
		Secure:   row.isSecure,
		HTTPOnly: row.isHTTPOnly,
		Expires:  expires,
		Source: Source{
			Browser:   vendor.browser,
			Profile:   st.profile,
			StorePath: st.cookiesDB,
		},
	}, true
}

// chromiumEpochOffsetMicros is the offset between the Windows NT epoch
// (1601-01-01) Chromium timestamps count from and the Unix epoch, in
// microseconds.
const chromiumEpochOffsetMicros = int64(11644473600000000)

func chromiumExpiresToTime(expiresUTC int64) (time.Time, bool) {
	unixMicros := expiresUTC - chromiumEpochOffsetMicros
	if unixMicros <= 0 {
		return time.Time{}, false
	}
	return time.Unix(0, unixMicros*1000).UTC(), true
}

func chromiumResolveStores(b Browser, profileOverride string) ([]chromiumStore, []string) {
	if profileOverride != "" {
		return chromiumStoresFromOverride(b, profileOverride)
	}

	var out []chromiumStore
	var warnings []string
	for _, root := range chromiumUserDataDirs(b) {
		st, w := chromiumStoresFromUserDataDir(root)
		warnings = append(warnings, w...)
		out = append(out, st...)
	}
	return out, warnings
}

func chromiumStoresFromUserDataDir(userDataDir string) ([]chromiumStore, []string) {
	localStateBytes, err := os.ReadFile(filepath.Join(userDataDir, "Local State"))
	if err != nil {
		return nil, nil
	}

	var localState struct {
		Profile struct {
			InfoCache map[string]struct {
				Name string `json:"name"`
			} `json:"info_cache"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(localStateBytes, &localState); err != nil {
		// Fallback: still probe Default.
		return chromiumStoresForProfileDir(userDataDir, "Default", "Default"),
			[]string{fmt.Sprintf("jarvest: failed to parse Local State (%s): %v", userDataDir, err)}
	}

	var out []chromiumStore
	for profDir, prof := range localState.Profile.InfoCache {
		name := prof.Name
		if name == "" {
			name = profDir
		}
		out = append(out, chromiumStoresForProfileDir(userDataDir, profDir, name)...)
	}
	if len(out) == 0 {
		out = chromiumStoresForProfileDir(userDataDir, "Default", "Default")
	}
	return out, nil
}

func chromiumStoresForProfileDir(userDataDir string, profDir string, profName string) []chromiumStore {
	var out []chromiumStore
	candidates := []string{
		filepath.Join(userDataDir, profDir, "Network", "Cookies"),
		filepath.Join(userDataDir, profDir, "Cookies"),
	}
	for _, p := range candidates {
		if fileExists(p) {
			out = append(out, chromiumStore{
				cookiesDB: p,
				userData:  userDataDir,
				profile:   profName,
			})
		}
	}
	return out
}

func chromiumStoresFromOverride(b Browser, override string) ([]chromiumStore, []string) {
	override = strings.TrimSpace(override)
	if override == "" {
		return nil, nil
	}

	// Explicit file or profile directory.
	if fi, err := os.Stat(override); err == nil {
		if fi.IsDir() {
			st := chromiumStoresForProfileDir(filepath.Dir(override), filepath.Base(override), filepath.Base(override))
			if len(st) == 0 {
				return nil, []string{fmt.Sprintf("jarvest: %s cookies DB not found in %q", b, override)}
			}
			return st, nil
		}
		return chromiumStoreFromDBPath(override), nil
	}

	// Otherwise treat as a profile name across known roots.
	var out []chromiumStore
	for _, root := range chromiumUserDataDirs(b) {
		out = append(out, chromiumStoresForProfileDir(root, override, override)...)
	}
	if len(out) == 0 {
		return nil, []string{fmt.Sprintf("jarvest: %s profile %q not found", b, override)}
	}
	return out, nil
}

func chromiumStoreFromDBPath(cookiesDBPath string) []chromiumStore {
	dir := filepath.Dir(cookiesDBPath)
	if filepath.Base(dir) == "Network" {
		dir = filepath.Dir(dir)
	}
	return []chromiumStore{{
		cookiesDB: cookiesDBPath,
		userData:  filepath.Dir(dir),
		profile:   filepath.Base(dir),
	}}
}
