// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	opcodeFile = "../opcodes/testdata/mos6502_opcodes.dat"
	timingFile = "../timing/testdata/rp2c02_scheduling.dat"
)

func runScript(t *testing.T, h *Host, script string, interactive bool) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := h.RunCommands(strings.NewReader(script), &out, interactive)
	return out.String(), err
}

func expectOutput(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output does not contain %q:\n%s", w, out)
		}
	}
}

func checkGoFile(t *testing.T, filename, pkg string) {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), filename, nil, parser.PackageClauseOnly)
	if err != nil {
		t.Fatalf("generated file does not parse: %v", err)
	}
	if f.Name.Name != pkg {
		t.Errorf("generated package incorrect. exp: %s, got: %s", pkg, f.Name.Name)
	}
}

func TestDecoderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "decoder.go")
	text, err := runScript(t, New(), "set decoderpackage cpu\ndecoder "+opcodeFile+" "+out+"\n", false)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "Setting DecoderPackage updated.", "Generated 'decoder.go'")
	checkGoFile(t, out, "cpu")
}

func TestSchedulerCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scheduler.go")
	text, err := runScript(t, New(), "scheduler "+timingFile+" "+out+"\n", false)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "Generated 'scheduler.go'", "unique actions.")
	checkGoFile(t, out, "rp2c02")
}

func TestVerboseScheduler(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scheduler.go")
	text, err := runScript(t, New(), "set verbose true\nscheduler "+timingFile+" "+out+"\n", false)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "-- Compressing scanlines --", "-- Interning actions --")
}

func TestFailedGenerationWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.dat")
	out := filepath.Join(dir, "decoder.go")
	if err := os.WriteFile(in, []byte("0x69 R ADC imm8 a=a+m?;flags=nz?\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runScript(t, New(), "decoder "+in+" "+out+"\n", false)
	if err == nil {
		t.Fatal("expected the decoder command to fail")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file was written after a failure")
	}
}

func TestOversizedScheduleWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scheduler.go")
	_, err := runScript(t, New(), "set dots 70000\nscheduler "+timingFile+" "+out+"\n", false)
	if err == nil {
		t.Fatal("expected the scheduler command to fail")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file was written after a failure")
	}
}

func TestDecodeCommand(t *testing.T) {
	text, err := runScript(t, New(),
		"decode "+opcodeFile+" $69 $05\n"+
			"decode "+opcodeFile+" 0x02\n"+
			"decode "+opcodeFile+" 0xBD 0x34 0x12\n", false)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "ADC #$05", "UNK $02", "execUnknown", "LDA $1234,X")

	if _, err := runScript(t, New(), "decode "+opcodeFile+" 256\n", false); err == nil {
		t.Error("expected an out of range opcode to fail")
	}
}

func TestDebugAndGraphCommands(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tables.dot")
	text, err := runScript(t, New(), "debug "+timingFile+"\ngraph "+timingFile+" "+out+"\n", false)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "scanlines 0..239 (240x)", "odd_frame_skip()", "scanline runs;", "Graphed")

	dot, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(dot, []byte("digraph")) {
		t.Error("graph output is not a Graphviz digraph")
	}
}

func TestSettings(t *testing.T) {
	h := New()
	text, err := runScript(t, h, "set reduce 4\nset scan $10\nset verbose 1\nsettings\n", false)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "ReduceLimit      4", "Scanlines        16", "Verbose          true")

	for _, bad := range []string{"set reduce 0", "set nosuch 1", "set dots x", "set verbose maybe"} {
		if _, err := runScript(t, h, bad+"\n", false); err == nil {
			t.Errorf("expected '%s' to fail", bad)
		}
	}
}

func TestScriptStopsOnError(t *testing.T) {
	text, err := runScript(t, New(), "# comment\nbogus\nsettings\n", false)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected an error on line 2, got %v", err)
	}
	if strings.Contains(text, "ReduceLimit") {
		t.Error("commands after a failure were executed")
	}
}

func TestInteractiveContinues(t *testing.T) {
	text, err := runScript(t, New(), "bogus\nsettings\n", true)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "* ", "ERROR:", "ReduceLimit")
}

func TestQuit(t *testing.T) {
	text, err := runScript(t, New(), "quit\nbogus\n", false)
	if err != nil {
		t.Errorf("commands after quit were executed: %v", err)
	}
	if text != "" {
		t.Errorf("unexpected output: %q", text)
	}
}

func TestHelp(t *testing.T) {
	text, err := runScript(t, New(), "help\nhelp decoder\n", false)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "nesgen commands:", "scheduler",
		"Usage: decoder <opcode-file> <output-file>", "must be a method call")

	if _, err := runScript(t, New(), "help bogus\n", false); err == nil {
		t.Error("expected help for an unknown command to fail")
	}
}

func TestMissingArguments(t *testing.T) {
	text, err := runScript(t, New(), "decoder\nsched\n", false)
	if err != nil {
		t.Fatal(err)
	}
	expectOutput(t, text, "Usage: decoder <opcode-file> <output-file>",
		"Usage: scheduler <timing-file> <output-file>")
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		s   string
		exp int64
	}{
		{"42", 42},
		{"08", 8},
		{"$1F", 0x1f},
		{"0x1f", 0x1f},
		{"0b101", 5},
		{"0d12", 12},
		{"0", 0},
	}
	for _, test := range tests {
		v, err := parseNumber(test.s)
		if err != nil {
			t.Errorf("parseNumber(%q): %v", test.s, err)
			continue
		}
		if v != test.exp {
			t.Errorf("parseNumber(%q) incorrect. exp: %d, got: %d", test.s, test.exp, v)
		}
	}

	for _, bad := range []string{"", "$", "0xZZ", "-1", "12a", "0b2"} {
		if _, err := parseNumber(bad); err == nil {
			t.Errorf("parseNumber(%q) should fail", bad)
		}
	}
}
