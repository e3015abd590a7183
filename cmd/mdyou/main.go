// mdyou - Material You colour schemes for the web
//
// mdyou generates Material You colour schemes from a source colour and
// writes them as CSS custom properties.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/mdyou/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
