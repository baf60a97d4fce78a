package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandlerSuccess(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.mc4c")
	output := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(input, []byte("byte x = 5;"), 0644); err != nil {
		t.Fatalf("writing input fixture: %v", err)
	}

	status := Handler(nil, map[string]string{"input": input, "output": output, "logLevel": "NONE"})
	if status != 0 {
		t.Fatalf("expected status 0, got %d", status)
	}

	contents, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		t.Errorf("expected non-empty output, got %q", contents)
	}
}

func TestHandlerMissingInput(t *testing.T) {
	status := Handler(nil, map[string]string{})
	if status != -1 {
		t.Fatalf("expected status -1 for missing -i/--input, got %d", status)
	}
}

func TestHandlerInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.mc4c")
	if err := os.WriteFile(input, []byte("byte x = 5;"), 0644); err != nil {
		t.Fatalf("writing input fixture: %v", err)
	}
	status := Handler(nil, map[string]string{"input": input, "logLevel": "bogus"})
	if status != -1 {
		t.Fatalf("expected status -1 for an invalid log level, got %d", status)
	}
}

func TestHandlerCompileFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.mc4c")
	if err := os.WriteFile(input, []byte("byte x = ;"), 0644); err != nil {
		t.Fatalf("writing input fixture: %v", err)
	}
	status := Handler(nil, map[string]string{"input": input, "logLevel": "NONE"})
	if status != -1 {
		t.Fatalf("expected status -1 for a compile failure, got %d", status)
	}
}

// TestHandlerEmitTacWritesDump covers internal/config.Config's
// Output.EmitTac knob: when set in mc4c.toml, Handler writes a second
// file alongside -o holding the intermediate TAC instruction listing.
func TestHandlerEmitTacWritesDump(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.mc4c")
	output := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(input, []byte("byte x = 5;"), 0644); err != nil {
		t.Fatalf("writing input fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mc4c.toml"), []byte("[output]\nemit_tac = true\n"), 0644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(cwd)

	status := Handler(nil, map[string]string{"input": input, "output": output, "logLevel": "NONE"})
	if status != 0 {
		t.Fatalf("expected status 0, got %d", status)
	}

	contents, err := os.ReadFile(output + ".tac")
	if err != nil {
		t.Fatalf("reading TAC dump: %v", err)
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		t.Errorf("expected a non-empty TAC dump, got %q", contents)
	}
}
