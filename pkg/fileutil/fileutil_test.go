// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "@echo")

	if err := ReplaceSymlink("/bin/a", link); err != nil {
		t.Fatalf("ReplaceSymlink error: %v", err)
	}
	if got := LinkTarget(link); got != "/bin/a" {
		t.Fatalf("LinkTarget = %q, want /bin/a", got)
	}
	if err := ReplaceSymlink("/bin/b", link); err != nil {
		t.Fatalf("ReplaceSymlink over existing link error: %v", err)
	}
	if got := LinkTarget(link); got != "/bin/b" {
		t.Fatalf("LinkTarget = %q, want /bin/b", got)
	}
	if _, err := os.Lstat(link + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary link left behind: %v", err)
	}
}

func TestReplaceSymlinkKeepsFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "echo")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := ReplaceSymlink("/bin/a", file); !errors.Is(err, ErrNotSymlink) {
		t.Fatalf("ReplaceSymlink over a file error = %v, want ErrNotSymlink", err)
	}
	if got := LinkTarget(file); got != "" {
		t.Fatalf("LinkTarget(file) = %q, want empty", got)
	}
}
