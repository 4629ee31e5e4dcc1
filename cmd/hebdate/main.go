// Command hebdate converts between Hebrew and Gregorian dates on the command
// line.
//
// Usage:
//
//	hebdate to-hebrew 2024-03-24
//	hebdate to-gregorian 5784 13 14
//	hebdate year 5784 --locale en
//	hebdate month 5784 7 --first-day monday
//	hebdate next 5784 13 14 --output yaml
//	hebdate gematria 5784
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/zapponejosh/hebcal-api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg, os.Stdout, os.Stderr, time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}
