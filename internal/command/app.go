// Copyright © 2025 Cheng Jingfeng
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/chengjingfeng/lmdo/internal/config"
	"github.com/chengjingfeng/lmdo/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// Save the CWD at startup so actions know where the user ran from.
	sd, _ := os.Getwd()

	// The project config is optional at startup. init and completion run
	// happily without one; commands that need it go through RequireConfig.
	// A present-but-broken file is still worth a warning up front.
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			log.WithError(err).Debug("no project config found")
		} else {
			log.WithError(err).Warn("project config is unusable")
		}
		cfg = nil
	}

	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "lmdo",
		Usage: "AWS Lambda deployment from a declarative config",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "lmdo version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		DeployCommandBuilder(app, m),
		DestroyCommandBuilder(app, m),
		InvokeCommandBuilder(app, m),
		ListCommandBuilder(app, m),
		PermissionCommandBuilder(app, m),
		InitCommandBuilder(app, m),
		CompletionCommandBuilder(app, m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
		for _, sub := range cmd.Commands {
			sort.Slice(sub.Flags, func(i, j int) bool {
				return sub.Flags[i].Names()[0] < sub.Flags[j].Names()[0]
			})
		}
	}

	return app, nil
}
