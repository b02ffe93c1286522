package main

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Run from an empty directory so no project config file is picked up.
	dir, err := os.MkdirTemp("", "styleimport-cmd-test-")
	if err != nil {
		panic(err)
	}
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}
