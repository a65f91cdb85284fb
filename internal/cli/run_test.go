package cli

import (
	"strings"
	"testing"
)

func TestRun_NoArgs_PrintsUsageAndFails(t *testing.T) {
	c := NewCLI(t)

	stderr := c.MustFail()

	if !strings.Contains(stderr, "Usage: kvs") {
		t.Errorf("stderr should contain usage, got: %q", stderr)
	}
}

func TestRun_UnknownCommand_Fails(t *testing.T) {
	c := NewCLI(t)

	stderr := c.MustFail("bogus")

	if !strings.Contains(stderr, "unknown command") {
		t.Errorf("stderr should mention unknown command, got: %q", stderr)
	}
}

func TestRun_HelpFlag_PrintsUsageAndSucceeds(t *testing.T) {
	c := NewCLI(t)

	stdout := c.MustRun("--help")

	if !strings.Contains(stdout, "Commands:") {
		t.Errorf("stdout should list commands, got: %q", stdout)
	}
}

func TestRun_NoHelpSubcommand(t *testing.T) {
	c := NewCLI(t)

	c.MustFail("help")
}

func TestSetGetRm_RoundTrip(t *testing.T) {
	c := NewCLI(t)

	c.MustRun("set", "a", "1")

	got := c.MustRun("get", "a")
	if got != "1" {
		t.Errorf("get a = %q, want 1", got)
	}

	c.MustRun("rm", "a")

	got = c.MustRun("get", "a")
	if got != "Key not found" {
		t.Errorf("get a after rm = %q, want %q", got, "Key not found")
	}
}

func TestRm_MissingKey_PrintsKeyNotFoundAndFails(t *testing.T) {
	c := NewCLI(t)

	stderr := c.MustFail("rm", "missing")
	if stderr != "Key not found" {
		t.Errorf("stderr = %q, want %q", stderr, "Key not found")
	}
}

func TestSet_WrongArgCount_Fails(t *testing.T) {
	c := NewCLI(t)

	c.MustFail("set", "onlykey")
}

func TestCustomDataDir_IsolatesStore(t *testing.T) {
	c := NewCLI(t)

	c.MustRun("--dir", "other", "set", "a", "1")

	// The default store (c.Dir) should not see the key written under
	// --dir other.
	got := c.MustRun("get", "a")
	if got != "Key not found" {
		t.Errorf("get a in default dir = %q, want %q", got, "Key not found")
	}

	got = c.MustRun("--dir", "other", "get", "a")
	if got != "1" {
		t.Errorf("get a in --dir other = %q, want 1", got)
	}
}
