// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package workspace manages the local staging directory where package
// artifacts are assembled before upload.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/apex/log"
)

// Dir resolves the base staging directory.
// Precedence:
//  1. LMDO_TMP_DIR, if set and non-empty
//  2. os.TempDir()/lmdo
func Dir() string {
	if d, ok := os.LookupEnv("LMDO_TMP_DIR"); ok && d != "" {
		return d
	}
	return filepath.Join(os.TempDir(), "lmdo")
}

// Ensure creates the staging directory if it does not exist and returns it.
func Ensure(dir string) (string, error) {
	if dir == "" {
		dir = Dir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dir, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, nil
}

// ArtifactPath returns where an artifact with the given name lives inside the
// staging directory.
func ArtifactPath(dir, name string) string {
	return filepath.Join(dir, name)
}

// PurgeHours reads the LMDO_PURGE_HOURS override. Zero disables purging.
func PurgeHours() int {
	hours, err := strconv.Atoi(os.Getenv("LMDO_PURGE_HOURS"))
	if err != nil || hours < 0 {
		return 0
	}
	return hours
}

// Purge removes staged artifacts older than the provided number of hours.
// Artifacts normally never outlive a deploy pass; anything old enough to be
// purged was left behind by an interrupted run. If hours <= 0 it is a no-op.
func Purge(dir string, hours int) error {
	if hours <= 0 {
		log.Debug("staging purge disabled")
		return nil
	}
	if dir == "" {
		dir = Dir()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			p := filepath.Join(dir, entry.Name())
			log.Debugf("purging stale artifact %s", p)
			if err := os.Remove(p); err != nil {
				return err
			}
		}
	}

	return nil
}
