// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/chengjingfeng/lmdo/internal/config"
	"github.com/chengjingfeng/lmdo/internal/meta"
)

const initConfigTemplate = `# lmdo project configuration.
#
# Service prefixes every deployed resource, so functions from different
# projects can share one AWS account.
Service: %s

Lambda:
  - FunctionName: hello
    S3Bucket: %s-lambda-artifacts
    Handler: handler.handler
    RolePolicyDocument: policy.json
`

const initHandlerTemplate = `def handler(event, context):
    return {"statusCode": 200, "body": "hello from lmdo"}
`

const initPolicyTemplate = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": [
        "logs:CreateLogGroup",
        "logs:CreateLogStream",
        "logs:PutLogEvents"
      ],
      "Resource": "arn:aws:logs:*:*:*"
    }
  ]
}
`

const initRequirementsTemplate = `# Python packages vendored into the artifact at deploy time.
`

// InitCommandAction is the action handler for the "init" subcommand. It
// scaffolds a runnable project: the config file, a hello handler, an
// execution policy, and an empty requirements file. Existing files are left
// untouched.
func InitCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "init") {
		return nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	if name := cmd.Args().First(); name != "" {
		dir = filepath.Join(dir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	return scaffoldProject(dir, serviceNameFromDir(dir))
}

// scaffoldProject writes the starter files into dir, skipping any that
// already exist.
func scaffoldProject(dir, service string) error {
	files := []struct {
		name    string
		content string
	}{
		{config.DefaultFileName, fmt.Sprintf(initConfigTemplate, service, service)},
		{"handler.py", initHandlerTemplate},
		{"policy.json", initPolicyTemplate},
		{"requirements.txt", initRequirementsTemplate},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil {
			log.Warnf("%s already exists, skipping", f.name)
			continue
		}
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		log.Infof("created %s", f.name)
	}

	return nil
}

// serviceNameFromDir derives a Service value from the project directory name.
// Lambda resource names only allow letters, digits, hyphens and underscores.
func serviceNameFromDir(dir string) string {
	name := strings.ToLower(filepath.Base(dir))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "lmdo-project"
	}
	return name
}

// InitCommandBuilder constructs the cli.Command for "init". Init takes no
// AWS connection flags; scaffolding is purely local.
func InitCommandBuilder(cmd *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "scaffold a new lmdo project",
		UsageText: `lmdo init [NAME]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  []cli.Flag{tldrFlag},
		Action: InitCommandAction,
	}
}
