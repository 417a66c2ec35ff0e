// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoffsec/adkit/connection/adldap"
	"github.com/hoffsec/adkit/connection/graph"
)

func adUser(upn string, enabled bool) adldap.User {
	return adldap.User{
		DN:                "CN=" + upn + ",OU=Users,DC=corp,DC=example,DC=com",
		UserPrincipalName: upn,
		DisplayName:       upn,
		Enabled:           enabled,
	}
}

func mailbox(upn string) graph.User {
	return graph.User{
		ID:                    "id-" + upn,
		UserPrincipalName:     upn,
		DisplayName:           upn,
		Mail:                  upn,
		UserType:              "Member",
		OnPremisesSyncEnabled: true,
	}
}

func TestCompareMatched(t *testing.T) {
	res := Compare(
		[]adldap.User{adUser("jdoe@corp.example.com", true)},
		[]graph.User{mailbox("jdoe@corp.example.com")},
		Options{},
	)
	assert.Empty(t, res.Findings)
	assert.Equal(t, 1, res.ADCount)
	assert.Equal(t, 1, res.Mailbox)
}

func TestCompareMissingMailbox(t *testing.T) {
	res := Compare(
		[]adldap.User{adUser("jdoe@corp.example.com", true)},
		nil,
		Options{},
	)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, KindMissingMailbox, res.Findings[0].Kind)
	assert.Equal(t, "jdoe@corp.example.com", res.Findings[0].Key)
}

func TestCompareDisabledAccountWithoutMailboxIsFine(t *testing.T) {
	res := Compare(
		[]adldap.User{adUser("jdoe@corp.example.com", false)},
		nil,
		Options{},
	)
	assert.Empty(t, res.Findings)
}

func TestCompareOrphanedMailbox(t *testing.T) {
	res := Compare(
		nil,
		[]graph.User{mailbox("gone@corp.example.com")},
		Options{},
	)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, KindOrphanedMailbox, res.Findings[0].Kind)
}

func TestCompareDisabledWithMailbox(t *testing.T) {
	res := Compare(
		[]adldap.User{adUser("left@corp.example.com", false)},
		[]graph.User{mailbox("left@corp.example.com")},
		Options{},
	)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, KindDisabledWithMailbox, res.Findings[0].Kind)
}

func TestCompareMailMismatch(t *testing.T) {
	ad := adUser("jdoe@corp.example.com", true)
	ad.Mail = "john.doe@corp.example.com"
	cloud := mailbox("jdoe@corp.example.com")
	cloud.Mail = "jdoe@corp.example.com"

	res := Compare([]adldap.User{ad}, []graph.User{cloud}, Options{})
	require.Len(t, res.Findings, 1)
	assert.Equal(t, KindMailMismatch, res.Findings[0].Kind)
	assert.Contains(t, res.Findings[0].Detail, "john.doe@corp.example.com")
}

func TestCompareMailCaseIsIgnored(t *testing.T) {
	ad := adUser("jdoe@corp.example.com", true)
	ad.Mail = "JDoe@corp.example.com"

	res := Compare([]adldap.User{ad}, []graph.User{mailbox("jdoe@corp.example.com")}, Options{})
	assert.Empty(t, res.Findings)
}

func TestCompareUPNCaseFolding(t *testing.T) {
	ad := adUser("JDoe@CORP.example.com", true)

	res := Compare([]adldap.User{ad}, []graph.User{mailbox("jdoe@corp.example.com")}, Options{})
	assert.Empty(t, res.Findings)
}

func TestCompareCloudOnly(t *testing.T) {
	cloud := mailbox("admin@corp.onmicrosoft.com")
	cloud.OnPremisesSyncEnabled = false

	res := Compare(nil, []graph.User{cloud}, Options{})
	assert.Empty(t, res.Findings)

	res = Compare(nil, []graph.User{cloud}, Options{IncludeCloudOnly: true})
	require.Len(t, res.Findings, 1)
	assert.Equal(t, KindCloudOnly, res.Findings[0].Kind)
}

func TestCompareGuestsAreNotMailboxes(t *testing.T) {
	guest := mailbox("partner_ext@corp.example.com")
	guest.UserType = "Guest"
	guest.OnPremisesSyncEnabled = false

	res := Compare(nil, []graph.User{guest}, Options{IncludeCloudOnly: true})
	assert.Empty(t, res.Findings)
	assert.Equal(t, 0, res.Mailbox)
}

func TestComparePrimarySMTPFallback(t *testing.T) {
	ad := adldap.User{
		DN:             "CN=shared,OU=Shared,DC=corp,DC=example,DC=com",
		Enabled:        true,
		ProxyAddresses: []string{"smtp:alias@corp.example.com", "SMTP:Shared@corp.example.com"},
	}
	cloud := graph.User{
		ID:                    "id-shared",
		Mail:                  "shared@corp.example.com",
		ProxyAddresses:        []string{"SMTP:shared@corp.example.com"},
		OnPremisesSyncEnabled: true,
	}

	res := Compare([]adldap.User{ad}, []graph.User{cloud}, Options{})
	assert.Empty(t, res.Findings)
}

func TestCompareSkipsAccountsWithoutUPNOrMail(t *testing.T) {
	ad := adldap.User{
		DN:          "CN=svc-legacy,OU=Service Accounts,DC=corp,DC=example,DC=com",
		DisplayName: "svc-legacy",
		Enabled:     true,
	}
	cloud := graph.User{
		ID:                    "id-unaddressable",
		DisplayName:           "Unaddressable",
		OnPremisesSyncEnabled: true,
	}

	res := Compare([]adldap.User{ad}, []graph.User{cloud}, Options{IncludeCloudOnly: true})
	assert.Empty(t, res.Findings)
	assert.Equal(t, 0, res.ADCount)
	assert.Equal(t, 0, res.Mailbox)
}

func TestCompareOrderingIsDeterministic(t *testing.T) {
	res := Compare(
		[]adldap.User{
			adUser("zeta@corp.example.com", true),
			adUser("alpha@corp.example.com", true),
		},
		[]graph.User{mailbox("gone@corp.example.com")},
		Options{},
	)
	require.Len(t, res.Findings, 3)
	assert.Equal(t, KindMissingMailbox, res.Findings[0].Kind)
	assert.Equal(t, "alpha@corp.example.com", res.Findings[0].Key)
	assert.Equal(t, "zeta@corp.example.com", res.Findings[1].Key)
	assert.Equal(t, KindOrphanedMailbox, res.Findings[2].Kind)
	assert.Equal(t, 2, res.Summary[KindMissingMailbox])
}
