package jarvest

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func createChromiumFixture(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "Cookies")
	db := openTestSQLite(t, dbPath)

	if _, err := db.Exec(`CREATE TABLE meta(key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO meta(key,value) VALUES('version','20')`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE cookies(host_key TEXT, name TEXT, path TEXT, value TEXT, encrypted_value BLOB, expires_utc INTEGER, is_secure INTEGER, is_httponly INTEGER)`); err != nil {
		t.Fatal(err)
	}

	future := unixToChromiumMicros(time.Now().Add(24 * time.Hour).Unix())
	rows := []struct {
		host, name, path, value string
		expires                 int64
		secure, httpOnly        int
	}{
		{".youtube.com", "CONSENT", "/", "YES+1", future, 1, 0},
		{".youtube.com", "session", "/", "sess", 0, 0, 1},
		{".google.com", "SSID", "/", "gval", future, 1, 1},
		{".unrelated.net", "other", "/", "x", future, 0, 0},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO cookies(host_key,name,path,value,encrypted_value,expires_utc,is_secure,is_httponly) VALUES(?,?,?,?,?,?,?,?)`,
			r.host, r.name, r.path, r.value, []byte{}, r.expires, r.secure, r.httpOnly,
		); err != nil {
			t.Fatal(err)
		}
	}
	return dbPath
}

func TestLoad_Chromium_ExplicitDBPath(t *testing.T) {
	// Pin the Safe Storage password so no OS keyring is consulted.
	t.Setenv("JARVEST_CHROME_SAFE_STORAGE_PASSWORD", "pw")

	dbPath := createChromiumFixture(t)
	res, err := Load(context.Background(), Options{
		Domain:      "youtube.com",
		AlsoDomains: []string{"google.com"},
		Browsers:    []Browser{BrowserChrome},
		Profiles:    map[Browser]string{BrowserChrome: dbPath},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Cookies) != 3 {
		t.Fatalf("want 3 cookies, got %d (warnings=%v)", len(res.Cookies), res.Warnings)
	}

	byName := map[string]Cookie{}
	for _, c := range res.Cookies {
		byName[c.Name] = c
		if c.Source.Browser != BrowserChrome {
			t.Fatalf("source browser = %q", c.Source.Browser)
		}
	}
	if _, ok := byName["other"]; ok {
		t.Fatal("unrelated domain must be filtered out")
	}

	consent := byName["CONSENT"]
	if consent.Domain != ".youtube.com" {
		t.Fatalf("host_key must be kept verbatim, got %q", consent.Domain)
	}
	if !consent.Secure {
		t.Fatal("secure flag lost")
	}

	sess := byName["session"]
	if sess.Expires != nil {
		t.Fatalf("expires_utc=0 means session cookie, got %v", sess.Expires)
	}
}

func TestLoad_Chromium_MissingStoreIsWarningNotError(t *testing.T) {
	res, err := Load(context.Background(), Options{
		Domain:   "youtube.com",
		Browsers: []Browser{BrowserChrome},
		Profiles: map[Browser]string{BrowserChrome: filepath.Join(t.TempDir(), "nope", "Cookies")},
	})
	if err != nil {
		t.Fatalf("missing store must not be fatal: %v", err)
	}
	if len(res.Cookies) != 0 {
		t.Fatalf("want 0 cookies, got %d", len(res.Cookies))
	}
	if len(res.Warnings) == 0 {
		t.Fatal("missing store must produce a warning")
	}
}

func TestChromiumExpiresToTime(t *testing.T) {
	unix := int64(1999999999)
	got, ok := chromiumExpiresToTime(unixToChromiumMicros(unix))
	if !ok {
		t.Fatal("conversion failed")
	}
	if got.Unix() != unix {
		t.Fatalf("got %d want %d", got.Unix(), unix)
	}

	if _, ok := chromiumExpiresToTime(0); ok {
		t.Fatal("zero timestamp must not convert")
	}
}

func TestChromiumStoreFromDBPath_NetworkSubdir(t *testing.T) {
	st := chromiumStoreFromDBPath(filepath.Join("root", "Default", "Network", "Cookies"))
	if len(st) != 1 {
		t.Fatalf("want 1 store, got %d", len(st))
	}
	if st[0].profile != "Default" {
		t.Fatalf("profile = %q, want Default", st[0].profile)
	}
	if st[0].userData != "root" {
		t.Fatalf("userData = %q, want root", st[0].userData)
	}
}
