package jarvest

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestFormatNetscapeLine_SessionCookieSentinel(t *testing.T) {
	c := Cookie{Name: "CONSENT", Value: "YES+1", Domain: ".youtube.com", Path: "/", Secure: true}
	got := formatNetscapeLine(c)
	want := ".youtube.com\tTRUE\t/\tTRUE\t2147483647\tCONSENT\tYES+1"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormatNetscapeLine_ExplicitExpiry(t *testing.T) {
	exp := time.Unix(1999999999, 0)
	c := Cookie{Name: "SID", Value: "abc123", Domain: "youtube.com", Path: "/", Expires: &exp}
	got := formatNetscapeLine(c)
	want := "youtube.com\tFALSE\t/\tFALSE\t1999999999\tSID\tabc123"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormatNetscapeLine_SubdomainFlagFollowsLeadingDot(t *testing.T) {
	dotted := Cookie{Name: "a", Value: "1", Domain: ".example.com", Path: "/"}
	bare := Cookie{Name: "a", Value: "1", Domain: "example.com", Path: "/"}

	if fields := strings.Split(formatNetscapeLine(dotted), "\t"); fields[1] != "TRUE" {
		t.Fatalf("dotted domain: want TRUE got %q", fields[1])
	}
	if fields := strings.Split(formatNetscapeLine(bare), "\t"); fields[1] != "FALSE" {
		t.Fatalf("bare domain: want FALSE got %q", fields[1])
	}
}

func TestFormatNetscapeLine_Idempotent(t *testing.T) {
	exp := time.Unix(1999999999, 0)
	c := Cookie{Name: "YSC", Value: "v", Domain: ".youtube.com", Path: "/watch", Secure: true, Expires: &exp}
	if formatNetscapeLine(c) != formatNetscapeLine(c) {
		t.Fatal("same record formatted twice must yield identical lines")
	}
}

func TestWriteJar_HeaderAndBody(t *testing.T) {
	fsys := afero.NewMemMapFs()
	now := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	lines := []string{
		".youtube.com\tTRUE\t/\tTRUE\t2147483647\tCONSENT\tYES+1",
		"youtube.com\tFALSE\t/\tFALSE\t1999999999\tSID\tabc123",
	}

	if err := writeJar(fsys, "config/cookies.txt", "youtube.com", lines, now); err != nil {
		t.Fatal(err)
	}

	raw, err := afero.ReadFile(fsys, "config/cookies.txt")
	if err != nil {
		t.Fatal(err)
	}
	got := string(raw)
	want := "# Netscape HTTP Cookie File\n" +
		"# Generated on 2026-08-24 10:30:00 UTC\n" +
		"# This file contains the HTTP cookies for youtube.com\n" +
		"#\n" +
		lines[0] + "\n" +
		lines[1] + "\n"
	if got != want {
		t.Fatalf("jar mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteJar_OverwritesExistingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "config/cookies.txt", []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if err := writeJar(fsys, "config/cookies.txt", "example.com", []string{"example.com\tFALSE\t/\tFALSE\t2147483647\ta\t1"}, now); err != nil {
		t.Fatal(err)
	}

	raw, err := afero.ReadFile(fsys, "config/cookies.txt")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "stale") {
		t.Fatal("old content must be replaced")
	}
	if !strings.HasPrefix(string(raw), netscapeBanner) {
		t.Fatalf("missing banner: %q", string(raw))
	}
}
