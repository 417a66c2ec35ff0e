// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

// Package reconcile compares on-prem directory accounts against cloud
// mailboxes and reports the accounts that drifted apart: AD users without
// a mailbox, mailboxes without an AD user, disabled accounts that still
// receive mail and matched pairs whose mail attributes disagree.
package reconcile

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hoffsec/adkit/connection/adldap"
	"github.com/hoffsec/adkit/connection/graph"
)

type Kind string

const (
	KindMissingMailbox      Kind = "missing-mailbox"
	KindOrphanedMailbox     Kind = "orphaned-mailbox"
	KindDisabledWithMailbox Kind = "disabled-with-mailbox"
	KindMailMismatch        Kind = "mail-mismatch"
	KindCloudOnly           Kind = "cloud-only"
)

type Finding struct {
	Kind        Kind   `json:"kind"`
	Key         string `json:"key"`
	DisplayName string `json:"displayName,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

type Result struct {
	Findings []Finding    `json:"findings"`
	Summary  map[Kind]int `json:"summary"`
	ADCount  int          `json:"adAccounts"`
	Mailbox  int          `json:"cloudMailboxes"`
}

type Options struct {
	// IncludeCloudOnly also reports cloud accounts that were never synced
	// from on-prem.
	IncludeCloudOnly bool
}

// Directory is the on-prem side of the reconciliation.
type Directory interface {
	SearchUsers(enabledOnly bool) ([]adldap.User, error)
}

// Cloud is the mailbox side of the reconciliation.
type Cloud interface {
	ListUsers(ctx context.Context) ([]graph.User, error)
}

// Run fetches both sides concurrently and compares them.
func Run(ctx context.Context, dir Directory, cloud Cloud, opts Options) (*Result, error) {
	var adUsers []adldap.User
	var cloudUsers []graph.User

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		// disabled accounts are needed to detect mailboxes they left behind
		adUsers, err = dir.SearchUsers(false)
		return err
	})
	g.Go(func() error {
		var err error
		cloudUsers, err = cloud.ListUsers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Compare(adUsers, cloudUsers, opts), nil
}

// Compare performs the pure set comparison between the two account lists.
func Compare(adUsers []adldap.User, cloudUsers []graph.User, opts Options) *Result {
	res := &Result{Summary: map[Kind]int{}}

	adByKey := map[string]adldap.User{}
	for _, u := range adUsers {
		key := adKey(u)
		if key == "" {
			log.Debug().Str("dn", u.DN).Msg("skipping account without upn or mail")
			continue
		}
		adByKey[key] = u
	}
	res.ADCount = len(adByKey)

	cloudByKey := map[string]graph.User{}
	for _, u := range cloudUsers {
		if !isMailbox(u) {
			continue
		}
		key := cloudKey(u)
		if key == "" {
			log.Debug().Str("id", u.ID).Msg("skipping cloud account without upn or mail")
			continue
		}
		cloudByKey[key] = u
	}
	res.Mailbox = len(cloudByKey)

	for key, adUser := range adByKey {
		cloudUser, ok := cloudByKey[key]
		if !ok {
			if adUser.Enabled {
				res.add(Finding{
					Kind:        KindMissingMailbox,
					Key:         key,
					DisplayName: adUser.DisplayName,
					Detail:      "enabled directory account has no cloud mailbox",
				})
			}
			continue
		}

		if !adUser.Enabled {
			res.add(Finding{
				Kind:        KindDisabledWithMailbox,
				Key:         key,
				DisplayName: adUser.DisplayName,
				Detail:      "directory account is disabled but the cloud mailbox is still present",
			})
		}

		if adUser.Mail != "" && cloudUser.Mail != "" && !strings.EqualFold(adUser.Mail, cloudUser.Mail) {
			res.add(Finding{
				Kind:        KindMailMismatch,
				Key:         key,
				DisplayName: adUser.DisplayName,
				Detail:      "mail attribute differs: ad=" + adUser.Mail + " cloud=" + cloudUser.Mail,
			})
		}
	}

	for key, cloudUser := range cloudByKey {
		if _, ok := adByKey[key]; ok {
			continue
		}
		if cloudUser.OnPremisesSyncEnabled {
			res.add(Finding{
				Kind:        KindOrphanedMailbox,
				Key:         key,
				DisplayName: cloudUser.DisplayName,
				Detail:      "synced cloud mailbox has no matching directory account",
			})
		} else if opts.IncludeCloudOnly {
			res.add(Finding{
				Kind:        KindCloudOnly,
				Key:         key,
				DisplayName: cloudUser.DisplayName,
				Detail:      "cloud-only account, never synced from on-prem",
			})
		}
	}

	sort.Slice(res.Findings, func(i, j int) bool {
		if res.Findings[i].Kind != res.Findings[j].Kind {
			return res.Findings[i].Kind < res.Findings[j].Kind
		}
		return res.Findings[i].Key < res.Findings[j].Key
	})

	return res
}

func (r *Result) add(f Finding) {
	r.Findings = append(r.Findings, f)
	r.Summary[f.Kind]++
}

func isMailbox(u graph.User) bool {
	if u.Mail == "" {
		return false
	}
	// guests may carry a mail attribute without owning a mailbox here
	return u.UserType == "" || strings.EqualFold(u.UserType, "Member")
}

func adKey(u adldap.User) string {
	if u.UserPrincipalName != "" {
		return strings.ToLower(u.UserPrincipalName)
	}
	return primarySMTP(u.ProxyAddresses, u.Mail)
}

func cloudKey(u graph.User) string {
	if u.UserPrincipalName != "" {
		return strings.ToLower(u.UserPrincipalName)
	}
	return primarySMTP(u.ProxyAddresses, u.Mail)
}

// primarySMTP picks the primary SMTP proxy address ('SMTP:' prefix is the
// primary, 'smtp:' the aliases) and falls back to the mail attribute.
func primarySMTP(proxyAddresses []string, mail string) string {
	for _, addr := range proxyAddresses {
		if strings.HasPrefix(addr, "SMTP:") {
			return strings.ToLower(strings.TrimPrefix(addr, "SMTP:"))
		}
	}
	return strings.ToLower(mail)
}
