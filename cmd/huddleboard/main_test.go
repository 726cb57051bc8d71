package main

import (
	"flag"
	"testing"
)

func TestFlagWasSet(t *testing.T) {
	if flagWasSet("metrics-port") {
		t.Fatal("Expected 'metrics-port' to be unset before any explicit Set")
	}

	// An explicit value must register even when it equals the default.
	if err := flag.Set("metrics-port", "9090"); err != nil {
		t.Fatalf("Failed to set flag: %v", err)
	}

	if !flagWasSet("metrics-port") {
		t.Error("Expected 'metrics-port' to be reported as set")
	}
	if flagWasSet("port") {
		t.Error("Expected 'port' to remain unset")
	}
}
