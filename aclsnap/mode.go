// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package aclsnap

import (
	"fmt"
	"os"
)

// ModeDetails wraps a file mode with the access-control helpers the
// snapshot needs.
type ModeDetails struct {
	os.FileMode
}

func (mode ModeDetails) UserReadable() bool {
	return uint32(mode.FileMode)&0o0400 != 0
}

func (mode ModeDetails) UserWriteable() bool {
	return uint32(mode.FileMode)&0o0200 != 0
}

func (mode ModeDetails) UserExecutable() bool {
	return uint32(mode.FileMode)&0o0100 != 0
}

func (mode ModeDetails) GroupReadable() bool {
	return uint32(mode.FileMode)&0o0040 != 0
}

func (mode ModeDetails) GroupWriteable() bool {
	return uint32(mode.FileMode)&0o0020 != 0
}

func (mode ModeDetails) GroupExecutable() bool {
	return uint32(mode.FileMode)&0o0010 != 0
}

func (mode ModeDetails) OtherReadable() bool {
	return uint32(mode.FileMode)&0o0004 != 0
}

func (mode ModeDetails) OtherWriteable() bool {
	return uint32(mode.FileMode)&0o0002 != 0
}

func (mode ModeDetails) OtherExecutable() bool {
	return uint32(mode.FileMode)&0o0001 != 0
}

func (mode ModeDetails) Suid() bool {
	return mode.FileMode&os.ModeSetuid != 0
}

func (mode ModeDetails) Sgid() bool {
	return mode.FileMode&os.ModeSetgid != 0
}

func (mode ModeDetails) Sticky() bool {
	return mode.FileMode&os.ModeSticky != 0
}

// Octal renders the permission bits including setuid/setgid/sticky in the
// conventional four-digit form.
func (mode ModeDetails) Octal() string {
	m := uint32(mode.Perm())
	if mode.Suid() {
		m |= 0o4000
	}
	if mode.Sgid() {
		m |= 0o2000
	}
	if mode.Sticky() {
		m |= 0o1000
	}
	return fmt.Sprintf("%04o", m)
}
