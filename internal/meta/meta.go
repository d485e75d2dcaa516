// Copyright © 2025 Cheng Jingfeng
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/chengjingfeng/lmdo/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args []string
	// Config is nil when the command was run outside an lmdo project.
	Config      *config.Config
	Context     context.Context
	StartingDir string
}
