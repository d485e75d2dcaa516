// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/chengjingfeng/lmdo/internal/function"
	"github.com/chengjingfeng/lmdo/internal/meta"
	"github.com/chengjingfeng/lmdo/internal/naming"
)

// ListCommandAction is the action handler for the "list" subcommand. It lists
// the project's deployed functions, supporting short-circuit behavior for
// --tldr, and emits results according to common output/attr flags.
func ListCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "list") {
		return nil
	}

	cfg, err := RequireConfig(m)
	if err != nil {
		return err
	}

	al := BuildAttrs(cmd, "name", "runtime", "memory", "timeout", "modified")
	log.Debugf("attrs: %v", al)

	clients, err := InitAWSClients(ctx, cmd)
	if err != nil {
		return err
	}

	// The project prefix scopes the listing to functions lmdo deployed.
	prefix := naming.FunctionName(cfg.ProjectID(), "")
	if cmd.Bool("all") {
		prefix = ""
	}

	summaries, err := function.NewService(clients.Lambda).List(ctx, prefix)
	if err != nil {
		return err
	}

	return EmitResults(summaries, al, cmd)
}

// ListCommandBuilder constructs the cli.Command for "list", wiring metadata,
// flags, and action/validator handlers.
func ListCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "list",
		Usage:     "list deployed functions",
		UsageText: `lmdo list [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "list every function in the account, not just this project's",
				Value: false,
			},
		},
		Listing: true,
		Action:  ListCommandAction,
		Meta:    meta,
	}).Build()
}
