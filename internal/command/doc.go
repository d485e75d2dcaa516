// Copyright © 2025 Cheng Jingfeng
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for lmdo. It wires flags,
// validators, actions, and shell completion for subcommands.
package command
