// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"github.com/hoffsec/adkit/apps/adkit/cmd"
)

func main() {
	cmd.Execute()
}
