// Copyright © 2025 Cheng Jingfeng
// SPDX-License-Identifier: MIT

// lmdo is the main package for the lmdo command line tool. It wires the
// CLI, delegates to internal packages, and serves as the entry point.
package main
