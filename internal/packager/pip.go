// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package packager

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/apex/log"

	"github.com/chengjingfeng/lmdo/internal/spin"
)

// InstallDependencies vendors the pip requirements into the project tree so
// they end up inside every artifact. A missing requirements file means there
// is nothing to install.
func (p *Packager) InstallDependencies(ctx context.Context) error {
	manifest := filepath.Join(p.root, p.requirementsFile)
	if _, err := os.Stat(manifest); err != nil {
		log.Warnf("%s could not be found, no dependencies will be installed", p.requirementsFile)
		return nil
	}

	if _, err := exec.LookPath("pip"); err != nil {
		return fmt.Errorf("pip is required to install %s: %w", p.requirementsFile, err)
	}

	c := exec.CommandContext(ctx, "pip", "install", "-t", p.vendorDir, "-r", p.requirementsFile)
	c.Dir = p.root

	stop := spin.Start(fmt.Sprintf("installing dependencies from %s", p.requirementsFile))
	out, err := c.CombinedOutput()
	stop()
	if err != nil {
		return fmt.Errorf("pip install failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	log.Infof("dependencies from %s have been installed into %s", p.requirementsFile, p.vendorDir)
	return nil
}
