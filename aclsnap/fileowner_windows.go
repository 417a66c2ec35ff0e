// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

//go:build windows
// +build windows

package aclsnap

import "os"

// NOTE: on windows an owner can also be a group, so uid/gid based
// ownership does not map cleanly. We report unknown here.
func fileOwner(stat os.FileInfo) (int64, int64) {
	return -1, -1
}
