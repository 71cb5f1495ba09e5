package cli

import (
	"bytes"
	"strings"
	"testing"
)

// executeCommand runs a command with the given args and returns what it
// wrote to stdout. Progress and log lines go to a separate stderr buffer.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sub := range []string{"scan", "latest", "status", "serve", "config", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected %q in help output", sub)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("expected --format flag to exist")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("expected --format default 'text', got %q", formatFlag.DefValue)
	}

	verboseFlag := root.PersistentFlags().Lookup("verbose")
	if verboseFlag == nil {
		t.Fatal("expected --verbose flag to exist")
	}
	if verboseFlag.Shorthand != "v" {
		t.Errorf("expected -v shorthand, got %q", verboseFlag.Shorthand)
	}
}

func TestScanFlags(t *testing.T) {
	root := NewRootCmd()
	cmd, _, err := root.Find([]string{"scan"})
	if err != nil {
		t.Fatalf("find scan: %v", err)
	}
	for _, name := range []string{"remote", "no-comments"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "condour dev" {
		t.Errorf("version output = %q", out)
	}
}

func TestServeRejectsArgs(t *testing.T) {
	if _, err := executeCommand("serve", "extra"); err == nil {
		t.Fatal("expected error for positional argument")
	}
}
