// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalFilesystem writes static files under a directory, ignoring cache hints.
type LocalFilesystem struct {
	dir string
}

func NewLocalFilesystem(dir string) (*LocalFilesystem, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LocalFilesystem{dir: dir}, nil
}

func (local *LocalFilesystem) UploadStaticFile(filename string, _ int, data []byte) error {
	clean := filepath.Clean("/" + filename)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("invalid filename %q", filename)
	}

	path := filepath.Join(local.dir, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write then rename so readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
