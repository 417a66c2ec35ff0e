// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

// Package adldap talks to an on-prem Active Directory over LDAP. It covers
// the handful of directory operations the subcommands need: paged user
// searches, single account lookups and the two write operations used when
// cloning accounts (group member add, manager replace).
package adldap

import (
	"crypto/tls"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
	"github.com/hoffsec/adkit/cli/config"
)

// pagingSize is the page size used for every directory search. AD defaults
// to a 1000-entry server-side limit, so all searches must page.
const pagingSize = 500

// ErrNotFound is returned when a single account lookup matches nothing.
var ErrNotFound = errors.New("no matching directory entry")

// ErrAmbiguous is returned when a single account lookup matches more than
// one entry.
var ErrAmbiguous = errors.New("more than one matching directory entry")

type Client struct {
	conn   *ldap.Conn
	baseDN string
}

// Connect dials the directory, optionally upgrades to TLS and binds with
// the configured service account.
func Connect(opts config.LDAPOpts) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.New("no ldap url configured")
	}
	if opts.BaseDN == "" {
		return nil, errors.New("no ldap base dn configured")
	}

	var dialOpts []ldap.DialOpt
	if strings.HasPrefix(opts.URL, "ldaps://") {
		dialOpts = append(dialOpts, ldap.DialWithTLSConfig(&tls.Config{InsecureSkipVerify: opts.Insecure}))
	}

	conn, err := ldap.DialURL(opts.URL, dialOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to directory")
	}

	if opts.StartTLS {
		if err := conn.StartTLS(&tls.Config{InsecureSkipVerify: opts.Insecure}); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "starttls failed")
		}
	}

	if opts.BindDN != "" {
		if err := conn.Bind(opts.BindDN, opts.BindPassword); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "bind failed")
		}
	}

	log.Debug().Str("url", opts.URL).Str("base", opts.BaseDN).Msg("connected to directory")
	return &Client{conn: conn, baseDN: opts.BaseDN}, nil
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) BaseDN() string {
	return c.baseDN
}

func (c *Client) search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	res, err := c.conn.SearchWithPaging(req, pagingSize)
	if err != nil {
		return nil, errors.Wrap(err, "directory search failed")
	}
	return res, nil
}
