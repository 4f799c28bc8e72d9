//go:build !darwin && !linux && !windows

package jarvest

import "time"

func chromiumDecryptor(_ chromiumVendor, _ []chromiumStore, _ time.Duration) (chromiumDecryptFunc, []string) {
	return nil, []string{"jarvest: chromium cookie decryption unsupported on this OS"}
}
