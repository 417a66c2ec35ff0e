// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package adldap

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuidFromBytes(t *testing.T) {
	// objectGUID stores the first three groups little-endian
	raw := []byte{
		0x04, 0x03, 0x02, 0x01,
		0x06, 0x05,
		0x08, 0x07,
		0x09, 0x0a,
		0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	}
	assert.Equal(t, "01020304-0506-0708-090a-0b0c0d0e0f10", guidFromBytes(raw))
}

func TestEntryToUser(t *testing.T) {
	entry := ldap.NewEntry("CN=Jane Doe,OU=Users,DC=corp,DC=example,DC=com", map[string][]string{
		"sAMAccountName":     {"jdoe"},
		"userPrincipalName":  {"jdoe@corp.example.com"},
		"mail":               {"jane.doe@corp.example.com"},
		"proxyAddresses":     {"SMTP:jane.doe@corp.example.com", "smtp:jdoe@corp.example.com"},
		"displayName":        {"Jane Doe"},
		"userAccountControl": {"512"},
		"memberOf":           {"CN=Finance,OU=Groups,DC=corp,DC=example,DC=com"},
		"manager":            {"CN=Boss,OU=Users,DC=corp,DC=example,DC=com"},
		"whenCreated":        {"20240117093015.0Z"},
	})

	user := entryToUser(entry)
	assert.Equal(t, "CN=Jane Doe,OU=Users,DC=corp,DC=example,DC=com", user.DN)
	assert.Equal(t, "jdoe", user.SAMAccountName)
	assert.Equal(t, "jdoe@corp.example.com", user.UserPrincipalName)
	assert.True(t, user.Enabled)
	assert.Len(t, user.ProxyAddresses, 2)
	assert.Equal(t, "CN=Boss,OU=Users,DC=corp,DC=example,DC=com", user.Manager)

	require.False(t, user.WhenCreated.IsZero())
	assert.Equal(t, 2024, user.WhenCreated.Year())
	assert.True(t, user.WhenChanged.IsZero())
}

func TestEntryToUserDisabledAccount(t *testing.T) {
	// 514 = NORMAL_ACCOUNT | ACCOUNTDISABLE
	entry := ldap.NewEntry("CN=Gone,OU=Users,DC=corp,DC=example,DC=com", map[string][]string{
		"sAMAccountName":     {"gone"},
		"userAccountControl": {"514"},
	})
	assert.False(t, entryToUser(entry).Enabled)
}

func TestEntryToUserMissingUAC(t *testing.T) {
	entry := ldap.NewEntry("CN=Odd,OU=Users,DC=corp,DC=example,DC=com", map[string][]string{
		"sAMAccountName": {"odd"},
	})
	assert.False(t, entryToUser(entry).Enabled)
}
