// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_EnvOverride(t *testing.T) {
	t.Setenv("LMDO_TMP_DIR", "/custom/staging")
	assert.Equal(t, "/custom/staging", Dir())
}

func TestDir_Default(t *testing.T) {
	t.Setenv("LMDO_TMP_DIR", "")
	assert.Equal(t, filepath.Join(os.TempDir(), "lmdo"), Dir())
}

func TestEnsure(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "staging")

	got, err := Ensure(base)
	require.NoError(t, err)
	assert.Equal(t, base, got)
	assert.DirExists(t, base)

	// Second call is a no-op.
	_, err = Ensure(base)
	assert.NoError(t, err)
}

func TestPurgeHours(t *testing.T) {
	t.Setenv("LMDO_PURGE_HOURS", "")
	assert.Equal(t, 0, PurgeHours())

	t.Setenv("LMDO_PURGE_HOURS", "12")
	assert.Equal(t, 12, PurgeHours())

	t.Setenv("LMDO_PURGE_HOURS", "-3")
	assert.Equal(t, 0, PurgeHours())

	t.Setenv("LMDO_PURGE_HOURS", "bogus")
	assert.Equal(t, 0, PurgeHours())
}

func TestPurge(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "demo-old.zip")
	fresh := filepath.Join(dir, "demo-new.zip")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("new"), 0o644))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	require.NoError(t, Purge(dir, 24))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestPurge_Disabled(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "demo-old.zip")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))

	require.NoError(t, Purge(dir, 0))
	assert.FileExists(t, p)
}

func TestPurge_MissingDir(t *testing.T) {
	assert.NoError(t, Purge(filepath.Join(t.TempDir(), "absent"), 1))
}
