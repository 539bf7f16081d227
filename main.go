// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/nesgen/host"
	"github.com/beevik/term"
)

var (
	command string
	verbose bool
)

func init() {
	flag.StringVar(&command, "c", "", "run commands separated by ';' and exit")
	flag.BoolVar(&verbose, "v", false, "verbose compiler output")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: nesgen [options] [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	h := host.New()
	if verbose {
		if err := h.Set("verbose", "true"); err != nil {
			exitOnError(err)
		}
	}

	// Run commands given on the command line.
	if command != "" {
		script := strings.ReplaceAll(command, ";", "\n")
		if err := h.RunCommands(strings.NewReader(script), os.Stdout, false); err != nil {
			exitOnError(err)
		}
	}

	// Run commands contained in command-line files.
	args := flag.Args()
	for _, filename := range args {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		err = h.RunCommands(file, os.Stdout, false)
		file.Close()
		if err != nil {
			exitOnError(fmt.Errorf("%s: %w", filename, err))
		}
	}

	if command != "" || len(args) > 0 {
		return
	}

	// Run commands from standard input, interactively if it is a terminal.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if err := h.RunCommands(os.Stdin, os.Stdout, interactive); err != nil {
		exitOnError(err)
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
