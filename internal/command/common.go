// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/chengjingfeng/lmdo/internal/attrs"
	awsx "github.com/chengjingfeng/lmdo/internal/aws"
	"github.com/chengjingfeng/lmdo/internal/config"
	"github.com/chengjingfeng/lmdo/internal/meta"
	"github.com/chengjingfeng/lmdo/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr lmdo <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "lmdo", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitResults marshals a result slice as JSON and passes it to the common
// output routine.
func EmitResults(results any, al attrs.AttrList, cmd *cli.Command) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	output.Spit(*bytes.NewBuffer(raw), al, cmd, os.Stdout)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// RequireConfig returns the project configuration, or an actionable error
// when the command was run outside an lmdo project.
func RequireConfig(m meta.Meta) (*config.Config, error) {
	if m.Config == nil {
		return nil, fmt.Errorf(
			"no %s found in the current directory; run `lmdo init` to create one or point LMDO_CFG at it",
			config.DefaultFileName,
		)
	}
	return m.Config, nil
}

// InitAWSClients resolves the connection flags and constructs the AWS service
// clients. Flags win over the environment and the config file; anything left
// unset falls through to the SDK's own resolution.
func InitAWSClients(ctx context.Context, cmd *cli.Command) (*awsx.Clients, error) {
	var opts []awsx.Option
	if profile := cmd.String("profile"); profile != "" {
		opts = append(opts, awsx.WithProfile(profile))
	}
	if region := cmd.String("region"); region != "" {
		opts = append(opts, awsx.WithRegion(region))
	}

	clients, err := awsx.NewClients(ctx, opts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("clients: region=%s", clients.Region())

	return clients, nil
}

// CommandBuilder is a helper that constructs a cli.Command for lmdo
// subcommands using a consistent pattern. It accepts the command name, usage
// text, optional UsageText, custom flags, the action handler, and meta. The
// builder automatically wires metadata, adds the tldr flag, applies the AWS
// connection flags (plus the listing flags when Listing is set), and sets up
// validators.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Listing   bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := append(cb.Flags, []cli.Flag{
		tldrFlag,
		NewProfileFlag(cb.Name, cfgPath),
		NewRegionFlag(cb.Name, cfgPath),
	}...)
	if cb.Listing {
		flags = append(flags, NewListingFlags(cb.Name)...)
	}

	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: cb.Action,
	}
}
