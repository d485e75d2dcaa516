// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package packager builds the zip artifacts that get shipped to Lambda. It
// zips the project tree as-is, so anything vendored into it beforehand ships
// inside every artifact.
package packager

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/chengjingfeng/lmdo/internal/config"
	"github.com/chengjingfeng/lmdo/internal/naming"
	"github.com/chengjingfeng/lmdo/internal/workspace"
)

// Packager turns the project tree into deployable zip artifacts.
type Packager struct {
	root       string
	stagingDir string
	projectID  string
	excludes   []string

	vendorDir        string
	requirementsFile string
}

// New returns a Packager rooted at the current directory, configured from the
// project config.
func New(cfg *config.Config) *Packager {
	return &Packager{
		root:             ".",
		stagingDir:       cfg.TempDir,
		projectID:        cfg.ProjectID(),
		excludes:         cfg.Excludes,
		vendorDir:        cfg.VendorDir,
		requirementsFile: cfg.RequirementsFile,
	}
}

// Package zips the project tree into the staging area and returns the
// artifact path. A failed build never leaves a partial artifact behind.
func (p *Packager) Package(functionName string) (string, error) {
	dir, err := workspace.Ensure(p.stagingDir)
	if err != nil {
		return "", err
	}

	target := workspace.ArtifactPath(dir, naming.ZipKey(p.projectID, functionName))
	log.Debugf("packaging %s into %s", p.root, target)

	// Clear any stale artifact left behind by a previous run.
	p.Remove(target)

	if err := p.zipTree(target); err != nil {
		p.Remove(target)
		return "", fmt.Errorf("failed to package %s: %w", functionName, err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("failed to stat artifact %s: %w", target, err)
	}

	log.WithField("size", humanize.Bytes(uint64(info.Size()))).
		Infof("%s has been packaged", filepath.Base(target))
	return target, nil
}

// Remove deletes an artifact. Best effort: a missing file is fine and any
// other failure is only logged.
func (p *Packager) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warnf("failed to remove artifact %s", path)
		}
		return
	}
	log.Debugf("removed artifact %s", path)
}

func (p *Packager) zipTree(target string) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)

	walkErr := filepath.Walk(p.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if p.excluded(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		return addFile(zw, path, rel, info)
	})

	if err := zw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := out.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	return walkErr
}

// excluded reports whether any element of the relative path matches one of
// the exclude patterns.
func (p *Packager) excluded(rel string) bool {
	for _, element := range strings.Split(rel, string(filepath.Separator)) {
		for _, pattern := range p.excludes {
			if ok, _ := filepath.Match(pattern, element); ok {
				return true
			}
		}
	}
	return false
}

func addFile(zw *zip.Writer, path, rel string, info os.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
