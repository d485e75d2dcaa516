// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/chengjingfeng/lmdo/internal/function"
	"github.com/chengjingfeng/lmdo/internal/meta"
	"github.com/chengjingfeng/lmdo/internal/naming"
)

// InvokeCommandAction is the action handler for the "invoke" subcommand. It
// invokes the deployed counterpart of FUNCTION and prints the response
// payload. With --async the invocation is queued and nothing is printed.
func InvokeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "invoke") {
		return nil
	}

	cfg, err := RequireConfig(m)
	if err != nil {
		return err
	}

	name := cmd.Args().First()
	if name == "" {
		return errors.New("a function name is required; see `lmdo invoke --help`")
	}

	payload, err := resolvePayload(cmd)
	if err != nil {
		return err
	}

	clients, err := InitAWSClients(ctx, cmd)
	if err != nil {
		return err
	}

	deployedName := naming.FunctionName(cfg.ProjectID(), name)
	result, err := function.NewService(clients.Lambda).Invoke(ctx, deployedName, payload, cmd.Bool("async"))
	if err != nil {
		return err
	}
	log.Debugf("status: %d version: %s", result.StatusCode, result.ExecutedVersion)

	if len(result.Payload) > 0 {
		fmt.Fprintln(os.Stdout, string(result.Payload))
	}

	if result.Failed() {
		return fmt.Errorf("%s raised %s", deployedName, result.FunctionError)
	}
	return nil
}

// resolvePayload returns the request payload from --payload or --payload-file.
// The two are mutually exclusive and the payload, when present, must be valid
// JSON. No payload at all is fine.
func resolvePayload(cmd *cli.Command) ([]byte, error) {
	payload := cmd.String("payload")
	payloadFile := cmd.String("payload-file")

	if payload != "" && payloadFile != "" {
		return nil, errors.New("--payload and --payload-file are mutually exclusive")
	}

	if payloadFile != "" {
		raw, err := os.ReadFile(payloadFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		payload = string(raw)
	}

	if payload == "" {
		return nil, nil
	}
	if !gjson.Valid(payload) {
		return nil, errors.New("payload is not valid JSON")
	}

	return []byte(payload), nil
}

// InvokeCommandBuilder constructs the cli.Command for "invoke", configuring
// metadata, flags, and the associated action/validator.
func InvokeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "invoke",
		Usage:     "invoke a deployed function",
		UsageText: `lmdo invoke FUNCTION [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "async",
				Usage: "queue the invocation instead of waiting for the response",
				Value: false,
			},
			&cli.StringFlag{
				Name:    "payload",
				Aliases: []string{"P"},
				Usage:   "JSON request payload",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
			&cli.StringFlag{
				Name:  "payload-file",
				Usage: "file containing the JSON request payload",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
		},
		Action: InvokeCommandAction,
		Meta:   meta,
	}).Build()
}
