// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the binary version stamped at link time.
package version

// Version is replaced by the release build via
// -ldflags "-X github.com/chengjingfeng/lmdo/internal/version.Version=...".
var Version = "dev"
