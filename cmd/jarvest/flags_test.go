package main

import (
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli"

	"github.com/jarvest/jarvest"
)

func parseTestFlags(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("jarvest", flag.ContinueOnError)
	for _, f := range exportFlags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(nil, set, nil)
}

func TestOptionsFromFlags_Defaults(t *testing.T) {
	opts, err := optionsFromFlags(parseTestFlags(t))
	if err != nil {
		t.Fatal(err)
	}
	if opts.Domain != "youtube.com" {
		t.Fatalf("default domain = %q", opts.Domain)
	}
	if len(opts.AlsoDomains) != 1 || opts.AlsoDomains[0] != "google.com" {
		t.Fatalf("youtube.com must pull in google.com, got %v", opts.AlsoDomains)
	}
	if opts.OutDir != jarvest.DefaultOutDir || opts.FileName != jarvest.DefaultFileName {
		t.Fatalf("unexpected output defaults: %q %q", opts.OutDir, opts.FileName)
	}
	if opts.Mode != "" {
		t.Fatalf("mode must default empty (first), got %q", opts.Mode)
	}
	if opts.Timeout != 3*time.Second {
		t.Fatalf("timeout default = %v", opts.Timeout)
	}
}

func TestOptionsFromFlags_BrowsersProfilesMerge(t *testing.T) {
	opts, err := optionsFromFlags(parseTestFlags(t,
		"-domain", "example.com",
		"-browser", "firefox",
		"-browser", "chrome",
		"-profile", "firefox=/tmp/profile",
		"-merge",
	))
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.AlsoDomains) != 0 {
		t.Fatalf("non-youtube domain must not pull in google.com, got %v", opts.AlsoDomains)
	}
	if len(opts.Browsers) != 2 || opts.Browsers[0] != jarvest.BrowserFirefox || opts.Browsers[1] != jarvest.BrowserChrome {
		t.Fatalf("browser order lost: %v", opts.Browsers)
	}
	if opts.Profiles[jarvest.BrowserFirefox] != "/tmp/profile" {
		t.Fatalf("profile override lost: %v", opts.Profiles)
	}
	if opts.Mode != jarvest.ModeMerge {
		t.Fatalf("mode = %q", opts.Mode)
	}
}

func TestOptionsFromFlags_Invalid(t *testing.T) {
	if _, err := optionsFromFlags(parseTestFlags(t, "-browser", "netscape-navigator")); err == nil {
		t.Fatal("unknown browser must error")
	}
	if _, err := optionsFromFlags(parseTestFlags(t, "-profile", "no-equals-sign")); err == nil {
		t.Fatal("malformed profile override must error")
	}
}

func TestNoCookiesMessage_IncludesRemediation(t *testing.T) {
	msg := noCookiesMessage("youtube.com")
	if !strings.Contains(msg, "no youtube.com cookies found") {
		t.Fatalf("missing summary: %q", msg)
	}
	if !strings.Contains(msg, "log into youtube.com in a browser first") {
		t.Fatalf("missing remediation: %q", msg)
	}
}
