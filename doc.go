// Package jarvest exports cookies from local browser profiles (Chrome-family,
// Firefox, Safari) into a Netscape-format cookie jar file.
//
// This is intended for local tooling that feeds a downloader pipeline. It reads
// local browser state, may trigger keychain/keyring prompts, and should not be
// used in server contexts.
package jarvest
