// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// copyLogs copies testdata/remote_output into a fresh directory as
// remote_output-tag, or remote_output if tag is empty, and returns
// the fresh root.
func copyLogs(t *testing.T, tag string) string {
	t.Helper()
	root := t.TempDir()
	name := "remote_output"
	if tag != "" {
		name += "-" + tag
	}
	dst := filepath.Join(root, name)
	if err := os.Mkdir(dst, 0777); err != nil {
		t.Fatal(err)
	}
	ents, err := os.ReadDir(filepath.Join("testdata", "remote_output"))
	if err != nil {
		t.Fatal(err)
	}
	for _, ent := range ents {
		data, err := os.ReadFile(filepath.Join("testdata", "remote_output", ent.Name()))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dst, ent.Name()), data, 0666); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	t.Logf("fsgather %s", strings.Join(args, " "))
	code = fsgather(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestGather(t *testing.T) {
	for _, tag := range []string{"", "run-2"} {
		root := copyLogs(t, tag)
		args := []string{"-C", root}
		dir := filepath.Join(root, "remote_output")
		if tag != "" {
			args = append(args, "-t", tag)
			dir += "-" + tag
		}
		code, _, stderr := run(t, args...)
		if code != 0 {
			t.Fatalf("exit status %d, stderr:\n%s", code, stderr)
		}
		got, err := os.ReadFile(filepath.Join(dir, "stats.json"))
		if err != nil {
			t.Fatal(err)
		}
		compare(t, "stats", got)

		// A rerun skips the statistics file it wrote and gives
		// the same result.
		if code, _, stderr := run(t, args...); code != 0 {
			t.Fatalf("rerun exit status %d, stderr:\n%s", code, stderr)
		}
		again, err := os.ReadFile(filepath.Join(dir, "stats.json"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, again) {
			t.Errorf("rerun changed stats.json")
		}
	}
}

func TestVerbose(t *testing.T) {
	root := copyLogs(t, "")
	code, _, stderr := run(t, "-v", "-C", root)
	if code != 0 {
		t.Fatalf("exit status %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stderr, "level=debug") || !strings.Contains(stderr, "file=ext4.create.log") {
		t.Errorf("verbose output lacks per-file debug messages:\n%s", stderr)
	}
}

func TestErrors(t *testing.T) {
	check := func(msg string, args ...string) {
		t.Helper()
		code, _, stderr := run(t, args...)
		if code != 1 {
			t.Errorf("exit status %d, want 1", code)
		}
		if !strings.Contains(stderr, msg) {
			t.Errorf("stderr does not contain %q:\n%s", msg, stderr)
		}
	}
	root := copyLogs(t, "")
	check("does not match", "-C", root, "-t", "bad_tag")
	check("unknown flag", "-C", root, "--tag", "x")
	check("no such file or directory", "-C", root, "-t", "missing")

	if err := os.WriteFile(filepath.Join(root, "remote_output", "notes"), nil, 0666); err != nil {
		t.Fatal(err)
	}
	check("is not of the form", "-C", root)
}

// compare compares got against testdata/name.golden.
func compare(t *testing.T, name string, got []byte) {
	t.Helper()

	wantPath := filepath.Join("testdata", name+".golden")
	want, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}

	if !diff(t, want, got) {
		return
	}
	// diff printed the error.

	// Write a "got" file for reference.
	gotPath := filepath.Join("testdata", name+".got")
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}

func diff(t *testing.T, want, got []byte) bool {
	t.Helper()
	if bytes.Equal(want, got) {
		return false
	}

	d := t.TempDir()
	wantPath, gotPath := filepath.Join(d, "want"), filepath.Join(d, "got")
	if err := os.WriteFile(wantPath, want, 0666); err != nil {
		t.Fatalf("error writing %s: %s", wantPath, err)
	}
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}

	cmd := exec.Command("diff", "-Nu", "want", "got")
	cmd.Dir = d
	data, _ := cmd.CombinedOutput()
	if len(data) > 0 {
		t.Errorf("\n%s", data)
	} else {
		// Most likely, "diff not found" so print the bad
		// output so there is something.
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
	return true
}
