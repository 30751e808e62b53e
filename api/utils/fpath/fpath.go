// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fpath locates and measures node data directories.
package fpath

import (
	"os"
	"os/user"
	"path/filepath"
)

// HomeDir returns the home dir of the current user, falling back to the working dir.
func HomeDir() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return u.HomeDir, nil
	}
	return os.Getwd()
}

// DataDir returns <home>/<name>, or an empty string when no home can be resolved.
func DataDir(name string) string {
	home, err := HomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, name)
}

// SizeOfDir sums the sizes of regular files below path.
// A missing path has size zero.
func SizeOfDir(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			size += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, nil
	}
	return size, err
}
