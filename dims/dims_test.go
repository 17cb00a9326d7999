// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dims

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	if diff := cmp.Diff([]string{Filesystem, Workload, Measurement}, Default.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	check := func(value, want string) {
		t.Helper()
		if got := Default.Owner(value); got != want {
			t.Errorf("Owner(%q) = %q, want %q", value, got, want)
		}
	}
	check("ext4", Filesystem)
	check("bytefs_cow", Filesystem)
	check("varmail", Workload)
	check("ops_throughput", "")

	if len(Default.Values(Measurement)) != 0 {
		t.Errorf("measurement dimension has values %v", Default.Values(Measurement))
	}
	if !Default.Has(Workload) || Default.Has("host") {
		t.Errorf("Has reports wrong dimensions")
	}
}

func TestNewCatalogErrors(t *testing.T) {
	if _, err := NewCatalog(Dim{"a", []string{"x"}}, Dim{"b", []string{"x"}}); err == nil {
		t.Errorf("repeated value: want error")
	}
	if _, err := NewCatalog(Dim{"a", nil}, Dim{"a", nil}); err == nil {
		t.Errorf("repeated dimension: want error")
	}
}

func TestValuesCopy(t *testing.T) {
	vs := Default.Values(Filesystem)
	vs[0] = "zfs"
	if Default.Values(Filesystem)[0] != "ext4" {
		t.Errorf("Values returned shared slice")
	}
}
