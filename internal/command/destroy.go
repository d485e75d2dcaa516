// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/chengjingfeng/lmdo/internal/deployer"
	"github.com/chengjingfeng/lmdo/internal/function"
	"github.com/chengjingfeng/lmdo/internal/meta"
	"github.com/chengjingfeng/lmdo/internal/packager"
	"github.com/chengjingfeng/lmdo/internal/role"
	"github.com/chengjingfeng/lmdo/internal/storage"
)

// DestroyCommandAction is the action handler for the "destroy" subcommand. It
// deletes the deployed functions along with the roles lmdo created for them.
// Explicitly configured roles are left alone.
func DestroyCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "destroy") {
		return nil
	}

	cfg, err := RequireConfig(m)
	if err != nil {
		return err
	}

	specs, err := selectSpecs(cfg, cmd.String("function"))
	if err != nil {
		return err
	}

	clients, err := InitAWSClients(ctx, cmd)
	if err != nil {
		return err
	}

	d := deployer.New(cfg,
		packager.New(cfg),
		storage.New(clients.S3),
		role.NewManager(clients.IAM),
		function.NewService(clients.Lambda),
	)

	return reportResults(d.Destroy(ctx, specs), "destroy")
}

// DestroyCommandBuilder constructs the cli.Command for "destroy", wiring
// metadata, flags, and action/validator handlers.
func DestroyCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "destroy",
		Usage:     "delete the deployed functions and their managed roles",
		UsageText: `lmdo destroy [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "function",
				Aliases: []string{"F"},
				Usage:   "destroy only the named function",
			},
		},
		Action: DestroyCommandAction,
		Meta:   meta,
	}).Build()
}
