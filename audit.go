package jarvest

import "strings"

// auditSufficientMin is how many important cookies must be present before the
// jar is considered good enough for authenticated downloads.
const auditSufficientMin = 3

// DefaultImportantCookies returns the cookie names the downstream pipeline
// relies on for authentication.
func DefaultImportantCookies() []string {
	return []string{
		"CONSENT",
		"VISITOR_INFO1_LIVE",
		"YSC",
		"__Secure-1PSID",
		"__Secure-3PSID",
	}
}

// AuditReport is the advisory result of auditing a written jar.
type AuditReport struct {
	Found   []string
	Missing []string
}

// Sufficient reports whether enough important cookies were found. Advisory
// only; callers must not gate the exit status on it.
func (r AuditReport) Sufficient() bool {
	return len(r.Found) >= auditSufficientMin || len(r.Missing) == 0
}

// AuditJar counts which of the given names appear anywhere in the written
// text. The match is a naive substring check, not field-exact: a value that
// happens to contain one of the names counts too.
func AuditJar(text string, names []string) AuditReport {
	var r AuditReport
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.Contains(text, name) {
			r.Found = append(r.Found, name)
		} else {
			r.Missing = append(r.Missing, name)
		}
	}
	return r
}
