// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package adldap

import (
	"github.com/cockroachdb/errors"
	"github.com/go-ldap/ldap/v3"
)

// ErrAlreadyMember is returned by AddGroupMember when the member is already
// present. Callers treat it as a skip, not a failure.
var ErrAlreadyMember = errors.New("already a member of the group")

// AddGroupMember adds memberDN to the member attribute of groupDN.
func (c *Client) AddGroupMember(groupDN, memberDN string) error {
	req := ldap.NewModifyRequest(groupDN, nil)
	req.Add("member", []string{memberDN})

	err := c.conn.Modify(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultAttributeOrValueExists) ||
			ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
			return ErrAlreadyMember
		}
		return errors.Wrapf(err, "could not add member to %s", groupDN)
	}
	return nil
}

// SetManager replaces the manager attribute of userDN with managerDN.
func (c *Client) SetManager(userDN, managerDN string) error {
	req := ldap.NewModifyRequest(userDN, nil)
	req.Replace("manager", []string{managerDN})

	if err := c.conn.Modify(req); err != nil {
		return errors.Wrapf(err, "could not set manager of %s", userDN)
	}
	return nil
}
