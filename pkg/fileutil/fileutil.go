// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotSymlink is returned when a path that should be replaced exists and
// is not a symbolic link.
var ErrNotSymlink = errors.New("fileutil: not a symlink")

// ReplaceSymlink points the symlink at path to target. It is able to
// replace an existing link atomically. It does this by creating a temporary
// link next to path and then moving it into place. Regular files and
// directories at path are left alone and reported with ErrNotSymlink.
func ReplaceSymlink(target, path string) (err error) {
	fi, err := os.Lstat(path)
	switch {
	case err == nil && fi.Mode()&fs.ModeSymlink == 0:
		return fmt.Errorf("%w: %s", ErrNotSymlink, path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return err
	}

	tmp := path + ".tmp"
	os.Remove(tmp)
	if err := os.Symlink(target, tmp); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()
	return os.Rename(tmp, path)
}

// LinkTarget returns where the symlink at path points, or "" when path is
// not a symlink.
func LinkTarget(path string) string {
	target, err := os.Readlink(path)
	if err != nil {
		return ""
	}
	return target
}

// Executable returns the absolute path of the running binary with symlinks
// resolved.
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}
