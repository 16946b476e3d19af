package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/pkg/scenario"
)

const passing = `
name: cli
templates:
  row: {tag: li, text: row}
ports:
  - {name: list, template: row}
steps:
  - {op: hydrate, port: list}
  - {op: create, port: list}
  - {op: expect, expect: {len: {list: 1}}}
`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", passing)

	out, err := execute(t, "run", path)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	for _, want := range []string{"cli", "hydrate list", "create list", "html: <li>row</li><!--list-->", "list: 1 views, hydrated=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCommandJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", passing)

	out, err := execute(t, "run", path, "--json")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	var res scenario.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !res.Passed || len(res.Steps) != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestRunCommandFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", `
ports: [{name: p}]
steps:
  - {op: remove, port: p}
`)

	out, err := execute(t, "run", path)
	if got := errors.CodeOf(err); got != "E200" {
		t.Errorf("code = %q, want E200 (%v)", got, err)
	}
	if !strings.Contains(out, "remove p") {
		t.Errorf("failed step not reported:\n%s", out)
	}
}

func TestRunCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing scenario", []string{"run", filepath.Join(dir, "nope.yaml")}, "E141"},
		{"missing config", []string{"run", "--config", filepath.Join(dir, "nope.yaml"), "x.yaml"}, "E141"},
		{"bad log level", []string{"run", "--log-level", "loud", "x.yaml"}, "E122"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if got := errors.CodeOf(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}

	out, err = execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Go version:") {
		t.Errorf("output = %q", out)
	}
}

func TestErrorsCommand(t *testing.T) {
	out, err := execute(t, "errors")
	if err != nil {
		t.Fatalf("errors error = %v", err)
	}
	for _, want := range []string{"E200  hydration", "E202  structure  Empty collection", "E212"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "E120") > strings.Index(out, "E200") {
		t.Errorf("codes not sorted:\n%s", out)
	}

	out, err = execute(t, "errors", "e201")
	if err != nil {
		t.Fatalf("errors e201 error = %v", err)
	}
	for _, want := range []string{"E201 Index out of range (structure)", "See docs/errors.md#e201"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	_, err = execute(t, "errors", "E999")
	if got := errors.CodeOf(err); got != "E140" {
		t.Errorf("CodeOf(err) = %q, want E140", got)
	}
}
