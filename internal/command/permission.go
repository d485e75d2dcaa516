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

// PermissionAddCommandAction is the action handler for "permission add". It
// grants a principal permission to act on the deployed counterpart of
// --function.
func PermissionAddCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "permission") {
		return nil
	}

	cfg, err := RequireConfig(m)
	if err != nil {
		return err
	}

	clients, err := InitAWSClients(ctx, cmd)
	if err != nil {
		return err
	}

	deployedName := naming.FunctionName(cfg.ProjectID(), cmd.String("function"))
	err = function.NewService(clients.Lambda).AddPermission(
		ctx,
		deployedName,
		cmd.String("principal"),
		cmd.String("principal-id"),
		cmd.String("action"),
	)
	if err != nil {
		return err
	}

	// The full ARN is what the principal's side wants (topic subscriptions,
	// bucket notifications). Fall back to the bare name if STS is unusable.
	target := deployedName
	if accountID, err := clients.AccountID(ctx); err == nil {
		target = naming.FunctionARN(clients.Region(), accountID, deployedName)
	}

	log.Infof("%s granted %s on %s", cmd.String("principal"), cmd.String("action"), target)
	return nil
}

// PermissionRemoveCommandAction is the action handler for "permission
// remove". It revokes the statement previously added for --principal-id.
func PermissionRemoveCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "permission") {
		return nil
	}

	cfg, err := RequireConfig(m)
	if err != nil {
		return err
	}

	clients, err := InitAWSClients(ctx, cmd)
	if err != nil {
		return err
	}

	deployedName := naming.FunctionName(cfg.ProjectID(), cmd.String("function"))
	err = function.NewService(clients.Lambda).RemovePermission(ctx, deployedName, cmd.String("principal-id"))
	if err != nil {
		return err
	}

	log.Infof("statement %s removed from %s", naming.StatementID(deployedName, cmd.String("principal-id")), deployedName)
	return nil
}

// PermissionCommandBuilder constructs the "permission" parent command and
// its add/remove subcommands.
func PermissionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	add := (&CommandBuilder{
		Name:      "add",
		Usage:     "grant a principal permission to invoke a function",
		UsageText: `lmdo permission add --function NAME --principal SERVICE --principal-id ID [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "action",
				Usage: "Lambda action to grant",
				Value: "lambda:InvokeFunction",
			},
			&cli.StringFlag{
				Name:     "function",
				Aliases:  []string{"F"},
				Usage:    "configured function to grant permission on",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "principal",
				Usage:    "service or account receiving the grant, e.g. s3.amazonaws.com",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "principal-id",
				Usage:    "caller-chosen id distinguishing this grant",
				Required: true,
			},
		},
		Action: PermissionAddCommandAction,
		Meta:   meta,
	}).Build()

	remove := (&CommandBuilder{
		Name:      "remove",
		Usage:     "revoke a previously granted permission",
		UsageText: `lmdo permission remove --function NAME --principal-id ID [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "function",
				Aliases:  []string{"F"},
				Usage:    "configured function to revoke permission on",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "principal-id",
				Usage:    "id the grant was added with",
				Required: true,
			},
		},
		Action: PermissionRemoveCommandAction,
		Meta:   meta,
	}).Build()

	return &cli.Command{
		Name:      "permission",
		Usage:     "manage function invoke permissions",
		UsageText: `lmdo permission <add|remove> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{add, remove},
	}
}
