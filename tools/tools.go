//go:build tools
// +build tools

// Package tools is used to manage tool dependencies via go mod.
//
// mockgen regenerates the fetcher mock in internal/loader:
//
//	go generate ./internal/loader/...
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
