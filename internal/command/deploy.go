// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/chengjingfeng/lmdo/internal/config"
	"github.com/chengjingfeng/lmdo/internal/deployer"
	"github.com/chengjingfeng/lmdo/internal/function"
	"github.com/chengjingfeng/lmdo/internal/meta"
	"github.com/chengjingfeng/lmdo/internal/packager"
	"github.com/chengjingfeng/lmdo/internal/role"
	"github.com/chengjingfeng/lmdo/internal/storage"
)

// DeployCommandAction is the action handler for the "deploy" subcommand. It
// packages each configured function, uploads the artifact to S3, resolves the
// execution role, and creates or updates the Lambda function.
func DeployCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "deploy") {
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

	return reportResults(d.Deploy(ctx, specs), "deploy")
}

// selectSpecs returns the function specs a command run should operate on. An
// empty name selects every configured function; a non-empty name must match
// exactly one.
func selectSpecs(cfg *config.Config, name string) ([]config.FunctionSpec, error) {
	if name == "" {
		return cfg.Lambda, nil
	}
	for _, spec := range cfg.Lambda {
		if spec.FunctionName == name {
			return []config.FunctionSpec{spec}, nil
		}
	}
	return nil, fmt.Errorf("function %q is not defined in %s", name, cfg.Source)
}

// reportResults logs per-function outcomes and folds the pass into a single
// error. Failures were already logged where they happened, so they only get
// counted here.
func reportResults(results deployer.Results, verb string) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		log.Infof("%s %s", r.Name, r.Action)
	}

	if failed > 0 {
		return fmt.Errorf("%s failed for %d of %d functions", verb, failed, len(results))
	}
	return nil
}

// DeployCommandBuilder constructs the cli.Command definition for the "deploy"
// command, wiring flags, metadata, and the action/validator handlers.
func DeployCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "deploy",
		Usage:     "package and deploy the configured functions",
		UsageText: `lmdo deploy [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "function",
				Aliases: []string{"F"},
				Usage:   "deploy only the named function",
			},
		},
		Action: DeployCommandAction,
		Meta:   meta,
	}).Build()
}
