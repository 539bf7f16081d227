// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host runs the commands of the nesgen table compiler.
//
// Commands are read from a script or typed interactively. They compile
// opcode tables into instruction decoders and timing rule tables into
// video schedulers, write the generated Go source files, and inspect the
// compiled tables.
//
// A script stops at the first failing command, and the failure is
// returned to the caller. An interactive session reports failures and
// keeps reading commands.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/nesgen/emit"
	"github.com/beevik/nesgen/opcodes"
	"github.com/beevik/nesgen/schedule"
	"github.com/beevik/nesgen/timing"
	"github.com/bradleyjkemp/memviz"
)

var errQuit = errors.New("quit")

// A Host executes table compiler commands.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	settings    *settings
}

// New creates a new host with default settings.
func New() *Host {
	return &Host{
		settings: newSettings(),
	}
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered, and failing commands
// are reported without stopping. Otherwise the first failing command
// stops execution and its error is returned.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) error {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	defer h.flush()

	row := 0
	for {
		h.prompt()

		line, err := h.getLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		row++

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		err = h.runCommand(line)
		switch {
		case err == errQuit:
			return nil
		case err == nil:
		case interactive:
			h.printf("ERROR: %v\n", err)
		default:
			return fmt.Errorf("line %d: %s: %w", row, line, err)
		}
	}
}

// Set changes the value of a configuration variable.
func (h *Host) Set(key, value string) error {
	var err error
	switch h.settings.Kind(key) {
	case reflect.Invalid:
		err = fmt.Errorf("setting '%s' not found", key)
	case reflect.String:
		err = h.settings.Set(key, value)
	case reflect.Bool:
		var v bool
		v, err = stringToBool(value)
		if err == nil {
			err = h.settings.Set(key, v)
		}
	default:
		var v int64
		v, err = parseNumber(value)
		if err == nil {
			err = h.settings.Set(key, v)
		}
	}
	return err
}

func (h *Host) runCommand(line string) error {
	c, args, err := cmds.LookupCommand(line)
	switch {
	case err == cmd.ErrNotFound:
		return errors.New("command not found")
	case err == cmd.ErrAmbiguous:
		return errors.New("command is ambiguous")
	case err != nil:
		return err
	}

	handler := c.Data.(func(*Host, *cmd.Command, []string) error)
	return handler(h, c, args)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) cmdHelp(c *cmd.Command, args []string) error {
	defer h.flush()
	if err := cmds.GetHelp(h.output, args); err != nil {
		return fmt.Errorf("no help for '%s'", strings.Join(args, " "))
	}
	return nil
}

func (h *Host) cmdDecoder(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	dec, err := loadDecoder(args[0])
	if err != nil {
		return err
	}

	if h.settings.Verbose {
		for _, cb := range dec.Callbacks() {
			h.printf("exec%-4d %3d opcodes  %s\n", cb.ID, len(cb.Opcodes), cb.Canonical)
		}
	}

	b := emit.NewBuilder()
	opts := emit.Options{Package: h.settings.DecoderPackage, Source: filepath.Base(args[0])}
	if err := emit.Decoder(b, dec, opts); err != nil {
		return err
	}
	if err := writeSource(args[1], b); err != nil {
		return err
	}

	h.printf("Generated '%s': %d opcodes, %d mnemonics, %d callbacks.\n",
		filepath.Base(args[1]), len(dec.Table().Instructions),
		len(dec.Mnemonics()), len(dec.Callbacks()))
	return nil
}

func (h *Host) cmdScheduler(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	sched, err := h.compileSchedule(args[0])
	if err != nil {
		return err
	}
	tables := schedule.Link(sched)

	b := emit.NewBuilder()
	opts := emit.Options{Package: h.settings.SchedulerPackage, Source: filepath.Base(args[0])}
	if err := emit.Scheduler(b, tables, opts); err != nil {
		return err
	}
	if err := writeSource(args[1], b); err != nil {
		return err
	}

	h.printf("Generated '%s': %d scanlines; %d chunks; %d unique actions.\n",
		filepath.Base(args[1]), len(tables.Scanlines), len(tables.Chunks), len(tables.Actions))
	return nil
}

func (h *Host) cmdDecode(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	dec, err := loadDecoder(args[0])
	if err != nil {
		return err
	}

	var b [3]byte
	for i, arg := range args[1:min(len(args), 4)] {
		if b[i], err = parseByte(arg); err != nil {
			return err
		}
	}

	d := dec.Decode(b[0], b[1], b[2])
	attr := dec.AttributesFor(b[0])

	callback := "execUnknown"
	if id := dec.Dispatch(b[0]); id != opcodes.UnknownCallback {
		callback = fmt.Sprintf("exec%d", id)
	}

	h.printf("$%02X  %-16s attr=$%02X (%v) %s\n", b[0], opcodes.Disassemble(d), uint8(attr), attr.Mode(), callback)
	return nil
}

func (h *Host) cmdDebug(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	sched, err := h.compileSchedule(args[0])
	if err != nil {
		return err
	}
	sched.Dump(h.output)
	h.printf("%d scanline runs; %d chunks; %d unique actions.\n",
		len(sched.Scanlines), sched.ChunkCount(), len(sched.Actions))
	return nil
}

func (h *Host) cmdGraph(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	sched, err := h.compileSchedule(args[0])
	if err != nil {
		return err
	}
	tables := schedule.Link(sched)

	file, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer file.Close()

	memviz.Map(file, tables)
	h.printf("Graphed %d scanlines and %d chunks to '%s'.\n",
		len(tables.Scanlines), len(tables.Chunks), filepath.Base(args[1]))
	return file.Close()
}

func (h *Host) cmdSet(c *cmd.Command, args []string) error {
	switch len(args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		key, value := args[0], strings.Join(args[1:], " ")
		if err := h.Set(key, value); err != nil {
			return err
		}
		h.printf("Setting %s updated.\n", h.settings.Name(key))
	}
	return nil
}

func (h *Host) cmdSettings(c *cmd.Command, args []string) error {
	h.settings.Display(h.output)
	h.flush()
	return nil
}

func (h *Host) cmdQuit(c *cmd.Command, args []string) error {
	return errQuit
}

// Parse a timing table file and compile it into a schedule using the
// current settings.
func (h *Host) compileSchedule(filename string) (*schedule.Schedule, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rules, err := timing.Parse(file, filepath.Base(filename))
	if err != nil {
		return nil, err
	}

	var options schedule.Option
	if h.settings.Verbose {
		options |= schedule.Verbose
	}

	m := timing.BuildMatrix(rules, h.settings.frame())
	sched := schedule.Compile(m, h.settings.ReduceLimit, h.output, options)
	h.flush()
	return sched, nil
}

// Parse an opcode table file and build its decoder.
func loadDecoder(filename string) (*opcodes.Decoder, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := opcodes.Parse(file, filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	return opcodes.Build(table)
}

// Format generated source and write it to a file. Nothing is written if
// formatting fails.
func writeSource(filename string, b *emit.Builder) error {
	src, err := emit.Source(b)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, src, 0644)
}

func (h *Host) displayUsage(c *cmd.Command) {
	c.DisplayUsage(h.output)
	h.flush()
}
