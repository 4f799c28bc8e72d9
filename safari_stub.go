//go:build !darwin || ios

package jarvest

import "context"

func readSafariCookies(_ context.Context, _ string) ([]Cookie, []string, error) {
	return nil, []string{"jarvest: Safari supported on macOS only"}, nil
}
