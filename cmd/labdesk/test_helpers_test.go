package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"labdesk/internal/config"
	"labdesk/internal/project"
	"labdesk/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	return &cliTestEnv{
		cfg:        cfg,
		configPath: testsupport.WriteConfig(t, cfg),
	}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, e.configPath, nil, args...)
}

func runCLI(t *testing.T, configPath string, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("labdesk %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (e *cliTestEnv) showJSON(t *testing.T, id string) project.Project {
	t.Helper()
	out := e.mustRun(t, "show", id, "--json")
	var p project.Project
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}
	return p
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
