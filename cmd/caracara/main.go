// Caracara - Witness pattern & risk scoring engine for legal operations.
// Copyright (c) 2025 opensource.legal
// Licensed under the Apache License 2.0

package main

import (
	"log/slog"
	"os"

	"github.com/opensource-legal/caracara/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
