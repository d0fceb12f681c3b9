package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func parseRoot(t *testing.T, args ...string) (*cobra.Command, *rootFlags) {
	t.Helper()
	flags := &rootFlags{}
	cmd := &cobra.Command{Use: "cattywampus"}
	registerFlags(cmd, flags)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	return cmd, flags
}

func TestBuildOverridesOnlyChangedFlags(t *testing.T) {
	cmd, flags := parseRoot(t, "--set-default", "--language", "es", "--loglevel", "10")

	o := buildOverrides(cmd.Flags(), flags)
	if o.SetDefaultSubtitle == nil || !*o.SetDefaultSubtitle {
		t.Error("set-default must be carried")
	}
	if o.Language == nil || *o.Language != "es" {
		t.Error("language must be carried")
	}
	if o.LogLevel == nil || *o.LogLevel != 10 {
		t.Error("loglevel must be carried")
	}
	if o.SetDefaultAudio != nil || o.OnlyMkv != nil || o.DryRun != nil || o.CacheEnabled != nil {
		t.Error("unset flags must stay nil so the config file can take over")
	}
}

func TestBuildOverridesCarriesExplicitFalse(t *testing.T) {
	cmd, flags := parseRoot(t, "--use-system-locale=false")

	o := buildOverrides(cmd.Flags(), flags)
	if o.UseSystemLocale == nil || *o.UseSystemLocale {
		t.Error("an explicit false must be carried as a set value")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "cattywampus ") {
		t.Fatalf("unexpected version output: %q", out.String())
	}
}
