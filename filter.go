package jarvest

import (
	"strings"
	"time"
)

// normalizeDomains lowercases, strips leading dots, and dedupes the target
// domain plus its companions. The result is used for matching only; cookie
// records keep their raw store domain.
func normalizeDomains(domain string, also []string) []string {
	seen := make(map[string]struct{}, 1+len(also))
	out := make([]string, 0, 1+len(also))
	add := func(d string) {
		d = normalizeHost(d)
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	add(domain)
	for _, d := range also {
		add(d)
	}
	return out
}

func nameAllowlist(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	allow := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		allow[name] = struct{}{}
	}
	if len(allow) == 0 {
		return nil
	}
	return allow
}

func filterCookies(domains []string, allow map[string]struct{}, includeExpired bool, cookies []Cookie) []Cookie {
	if len(cookies) == 0 {
		return nil
	}

	now := time.Now()
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		if allow != nil {
			if _, ok := allow[c.Name]; !ok {
				continue
			}
		}
		if !includeExpired && c.Expires != nil && c.Expires.Before(now) {
			continue
		}
		if !cookieInDomains(c.Domain, domains) {
			continue
		}
		if c.Path == "" {
			c.Path = "/"
		}
		out = append(out, c)
	}
	return out
}

// cookieInDomains reports whether a cookie's domain belongs to any of the
// configured domains or their subdomains.
func cookieInDomains(cookieDomain string, domains []string) bool {
	host := normalizeHost(cookieDomain)
	if host == "" {
		return false
	}
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, ".")
	return strings.ToLower(host)
}
