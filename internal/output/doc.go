// Copyright © 2025 Cheng Jingfeng
// SPDX-License-Identifier: MIT

// Package output provides sorting, filtering, and emission utilities used by
// commands to present listing results in various formats.
package output
