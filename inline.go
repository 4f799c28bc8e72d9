package jarvest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"time"
)

func inlineAny(in InlineCookies) bool {
	return len(in.JSON) > 0 || in.Base64 != "" || in.File != ""
}

type inlinePayload struct {
	Cookies []inlineCookie `json:"cookies"`
}

type inlineCookie struct {
	Name     string      `json:"name"`
	Value    string      `json:"value"`
	Domain   string      `json:"domain"`
	Path     string      `json:"path"`
	Secure   bool        `json:"secure"`
	HTTPOnly bool        `json:"httpOnly"`
	Expires  interface{} `json:"expires"`
}

func readInlineCookies(in InlineCookies) ([]Cookie, []string, error) {
	raw, warnings, err := readInlineBytes(in)
	if err != nil {
		return nil, warnings, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, warnings, errors.New("jarvest: inline cookies empty")
	}

	// Support both `Cookie[]` and `{ cookies: Cookie[] }`.
	var payload inlinePayload
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Cookies) > 0 {
		return inlineToCookies(payload.Cookies), warnings, nil
	}

	var arr []inlineCookie
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, warnings, err
	}
	return inlineToCookies(arr), warnings, nil
}

func readInlineBytes(in InlineCookies) ([]byte, []string, error) {
	switch {
	case len(in.JSON) > 0:
		return in.JSON, nil, nil
	case in.Base64 != "":
		b, err := base64.StdEncoding.DecodeString(in.Base64)
		if err != nil {
			return nil, nil, err
		}
		return b, nil, nil
	case in.File != "":
		b, err := os.ReadFile(in.File)
		if err != nil {
			return nil, nil, err
		}
		return b, nil, nil
	default:
		return nil, nil, errors.New("jarvest: no inline cookie source provided")
	}
}

func inlineToCookies(in []inlineCookie) []Cookie {
	if len(in) == 0 {
		return nil
	}
	out := make([]Cookie, 0, len(in))
	for _, c := range in {
		out = append(out, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			Expires:  parseInlineExpires(c.Expires),
			Source:   Source{Browser: BrowserInline},
		})
	}
	return out
}

func parseInlineExpires(v interface{}) *time.Time {
	switch vv := v.(type) {
	case float64:
		// JSON numbers come through as float64.
		sec := int64(vv)
		if sec <= 0 {
			return nil
		}
		t := time.Unix(sec, 0).UTC()
		return &t
	case string:
		if vv == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339, vv); err == nil {
			tt := t.UTC()
			return &tt
		}
		return nil
	default:
		return nil
	}
}
