// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package adldap

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// userAccountControl bit for a disabled account (ACCOUNTDISABLE)
const uacAccountDisable = 0x2

// matching rule OID for bitwise AND filters
const matchingRuleBitAnd = "1.2.840.113556.1.4.803"

// adGeneralizedTime is the format of whenCreated/whenChanged
const adGeneralizedTime = "20060102150405.0Z"

var userAttributes = []string{
	"objectGUID", "distinguishedName", "sAMAccountName", "userPrincipalName",
	"mail", "proxyAddresses", "displayName", "userAccountControl",
	"memberOf", "directReports", "manager", "whenCreated", "whenChanged",
}

// User is an on-prem directory user account.
type User struct {
	DN                string    `json:"dn"`
	ObjectGUID        string    `json:"objectGUID,omitempty"`
	SAMAccountName    string    `json:"sAMAccountName"`
	UserPrincipalName string    `json:"userPrincipalName,omitempty"`
	Mail              string    `json:"mail,omitempty"`
	ProxyAddresses    []string  `json:"proxyAddresses,omitempty"`
	DisplayName       string    `json:"displayName,omitempty"`
	Enabled           bool      `json:"enabled"`
	MemberOf          []string  `json:"memberOf,omitempty"`
	DirectReports     []string  `json:"directReports,omitempty"`
	Manager           string    `json:"manager,omitempty"`
	WhenCreated       time.Time `json:"whenCreated,omitempty"`
	WhenChanged       time.Time `json:"whenChanged,omitempty"`
}

// SearchUsers returns all user accounts below the base DN. When enabledOnly
// is set, disabled accounts are filtered server-side via the bitwise
// userAccountControl matching rule.
func (c *Client) SearchUsers(enabledOnly bool) ([]User, error) {
	filter := "(&(objectCategory=person)(objectClass=user))"
	if enabledOnly {
		filter = fmt.Sprintf("(&(objectCategory=person)(objectClass=user)(!(userAccountControl:%s:=%d)))",
			matchingRuleBitAnd, uacAccountDisable)
	}

	res, err := c.search(&ldap.SearchRequest{
		BaseDN:       c.baseDN,
		Scope:        ldap.ScopeWholeSubtree,
		DerefAliases: ldap.NeverDerefAliases,
		Filter:       filter,
		Attributes:   userAttributes,
	})
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(res.Entries))
	for _, entry := range res.Entries {
		users = append(users, entryToUser(entry))
	}
	return users, nil
}

// FindUser looks up exactly one account by sAMAccountName or, when the name
// contains an '@', by userPrincipalName.
func (c *Client) FindUser(name string) (*User, error) {
	attr := "sAMAccountName"
	if strings.Contains(name, "@") {
		attr = "userPrincipalName"
	}
	filter := fmt.Sprintf("(&(objectCategory=person)(objectClass=user)(%s=%s))", attr, ldap.EscapeFilter(name))

	res, err := c.search(&ldap.SearchRequest{
		BaseDN:       c.baseDN,
		Scope:        ldap.ScopeWholeSubtree,
		DerefAliases: ldap.NeverDerefAliases,
		Filter:       filter,
		Attributes:   userAttributes,
	})
	if err != nil {
		return nil, err
	}

	switch len(res.Entries) {
	case 0:
		return nil, ErrNotFound
	case 1:
		user := entryToUser(res.Entries[0])
		return &user, nil
	default:
		return nil, ErrAmbiguous
	}
}

func entryToUser(entry *ldap.Entry) User {
	user := User{
		DN:                entry.DN,
		SAMAccountName:    entry.GetAttributeValue("sAMAccountName"),
		UserPrincipalName: entry.GetAttributeValue("userPrincipalName"),
		Mail:              entry.GetAttributeValue("mail"),
		ProxyAddresses:    entry.GetAttributeValues("proxyAddresses"),
		DisplayName:       entry.GetAttributeValue("displayName"),
		MemberOf:          entry.GetAttributeValues("memberOf"),
		DirectReports:     entry.GetAttributeValues("directReports"),
		Manager:           entry.GetAttributeValue("manager"),
	}

	if raw := entry.GetRawAttributeValue("objectGUID"); len(raw) == 16 {
		user.ObjectGUID = guidFromBytes(raw)
	}

	if uac, err := strconv.ParseInt(entry.GetAttributeValue("userAccountControl"), 10, 64); err == nil {
		user.Enabled = uac&uacAccountDisable == 0
	}

	if whenCreated := entry.GetAttributeValue("whenCreated"); whenCreated != "" {
		if t, err := time.Parse(adGeneralizedTime, whenCreated); err == nil {
			user.WhenCreated = t
		}
	}
	if whenChanged := entry.GetAttributeValue("whenChanged"); whenChanged != "" {
		if t, err := time.Parse(adGeneralizedTime, whenChanged); err == nil {
			user.WhenChanged = t
		}
	}

	return user
}

// guidFromBytes renders the 16 raw objectGUID bytes in the usual string
// form. The first three groups are stored little-endian.
func guidFromBytes(b []byte) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hex.EncodeToString([]byte{b[3], b[2], b[1], b[0]}),
		hex.EncodeToString([]byte{b[5], b[4]}),
		hex.EncodeToString([]byte{b[7], b[6]}),
		hex.EncodeToString(b[8:10]),
		hex.EncodeToString(b[10:16]),
	)
}
