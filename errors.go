package jarvest

import "errors"

// ErrNoDomain is returned when Options.Domain is empty.
var ErrNoDomain = errors.New("jarvest: target domain required")

// ErrNoCookies is returned when every configured backend was tried and none
// yielded a matching cookie.
var ErrNoCookies = errors.New("jarvest: no matching cookies found in any browser")

// NoCookiesRemedy is actionable guidance shown alongside ErrNoCookies.
func NoCookiesRemedy(domain string) []string {
	return []string{
		"log into " + domain + " in a browser first",
		"close the browser so its cookie database is unlocked",
		"grant this tool permission to read browser data, then re-run",
	}
}
