// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package packager

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chengjingfeng/lmdo/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestPackager(t *testing.T) *Packager {
	t.Helper()
	return &Packager{
		root:       t.TempDir(),
		stagingDir: t.TempDir(),
		projectID:  "demo",
		excludes:   config.DefaultExcludes,
	}
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func TestPackage(t *testing.T) {
	p := newTestPackager(t)
	writeFile(t, filepath.Join(p.root, "handler.py"), "def hello(event, context): pass\n")
	writeFile(t, filepath.Join(p.root, "vendor", "requests", "__init__.py"), "")
	writeFile(t, filepath.Join(p.root, "pkg", "util.py"), "VALUE = 42\n")
	writeFile(t, filepath.Join(p.root, "handler.pyc"), "bytecode")
	writeFile(t, filepath.Join(p.root, "tests", "test_handler.py"), "")
	writeFile(t, filepath.Join(p.root, ".git", "config"), "")

	target, err := p.Package("hello")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(p.stagingDir, "demo-hello.zip"), target)
	assert.Equal(t, []string{
		"handler.py",
		"pkg/util.py",
		"vendor/requests/__init__.py",
	}, archiveNames(t, target))
}

func TestPackage_RoundTripsContent(t *testing.T) {
	p := newTestPackager(t)
	writeFile(t, filepath.Join(p.root, "handler.py"), "def hello(event, context): pass\n")

	target, err := p.Package("hello")
	require.NoError(t, err)

	r, err := zip.OpenReader(target)
	require.NoError(t, err)
	defer r.Close()

	rc, err := r.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "def hello(event, context): pass\n", string(content))
}

func TestPackage_MissingSourceLeavesNoArtifact(t *testing.T) {
	p := newTestPackager(t)
	p.root = filepath.Join(p.root, "nonexistent")

	_, err := p.Package("hello")
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(p.stagingDir, "demo-hello.zip"))
}

func TestRemove(t *testing.T) {
	p := newTestPackager(t)

	artifact := filepath.Join(p.stagingDir, "demo-hello.zip")
	writeFile(t, artifact, "stale")

	p.Remove(artifact)
	assert.NoFileExists(t, artifact)

	// Neither a missing artifact nor an empty path should blow up.
	p.Remove(artifact)
	p.Remove("")
}

func TestExcluded(t *testing.T) {
	p := newTestPackager(t)

	tests := []struct {
		rel  string
		want bool
	}{
		{"handler.py", false},
		{"handler.pyc", true},
		{filepath.Join("pkg", "util.py"), false},
		{filepath.Join("pkg", "util.pyc"), true},
		{filepath.Join("tests", "test_handler.py"), true},
		{filepath.Join("pkg", "__pycache__", "util.cpython-312.pyc"), true},
		{filepath.Join(".git", "config"), true},
		{filepath.Join("vendor", "requests", "__init__.py"), false},
		{filepath.Join("vendor-test", "requests", "__init__.py"), true},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, p.excluded(tt.rel))
		})
	}
}

func TestInstallDependencies_NoManifest(t *testing.T) {
	p := newTestPackager(t)
	p.requirementsFile = "requirements.txt"

	// Nothing to install is not a failure.
	assert.NoError(t, p.InstallDependencies(context.Background()))
}
