// Copyright © 2025 Cheng Jingfeng
// SPDX-License-Identifier: Apache-2.0

// Package aws loads SDK configuration and bundles the per-service clients
// used by the deployment commands.
package aws
