// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoffsec/adkit/connection/graph"
)

const customerTenantID = "11111111-2222-3333-4444-555555555555"

func graphSP() graph.ServicePrincipal {
	return graph.ServicePrincipal{
		ID:                     "sp-graph",
		AppID:                  "00000003-0000-0000-c000-000000000000",
		DisplayName:            "Microsoft Graph",
		AppOwnerOrganizationID: MicrosoftEntraTenantID,
		Enabled:                true,
		AppRoles: []graph.AppRole{
			{ID: "role-mail-readwrite", Value: "Mail.ReadWrite", Enabled: true},
			{ID: "role-user-read-all", Value: "User.Read.All", Enabled: true},
		},
	}
}

func TestBuildResolvesAppRoleValues(t *testing.T) {
	app := graph.ServicePrincipal{
		ID:                     "sp-app",
		AppID:                  "app-1",
		DisplayName:            "Mailer",
		AppOwnerOrganizationID: customerTenantID,
		Enabled:                true,
		AppRoleAssignments: []graph.AppRoleAssignment{
			{AppRoleID: "role-mail-readwrite", ResourceID: "sp-graph"},
		},
	}

	res := Build([]graph.ServicePrincipal{graphSP(), app}, nil, Options{})
	require.Len(t, res.Apps, 1)
	require.Len(t, res.Apps[0].Permissions, 1)

	p := res.Apps[0].Permissions[0]
	assert.Equal(t, "Mail.ReadWrite", p.Value)
	assert.Equal(t, PermissionApplication, p.Type)
	assert.Equal(t, "Microsoft Graph", p.Resource)
	assert.Equal(t, SeverityHigh, p.Severity)
}

func TestBuildIncludesAppsWithoutPermissions(t *testing.T) {
	plain := graph.ServicePrincipal{
		ID:                     "sp-plain",
		AppID:                  "app-plain",
		DisplayName:            "Plain",
		AppOwnerOrganizationID: customerTenantID,
		Enabled:                true,
	}

	res := Build([]graph.ServicePrincipal{plain}, nil, Options{})
	require.Len(t, res.Apps, 1)
	assert.Equal(t, "Plain", res.Apps[0].DisplayName)
	assert.Empty(t, res.Apps[0].Permissions)
	assert.Equal(t, 1, res.BySeverity[SeverityLow])

	res = Build([]graph.ServicePrincipal{plain}, nil, Options{OnlyPrivileged: true})
	assert.Empty(t, res.Apps)
}

func TestBuildUnknownRoleKeepsRawID(t *testing.T) {
	app := graph.ServicePrincipal{
		ID:                     "sp-app",
		AppID:                  "app-1",
		DisplayName:            "Mystery",
		AppOwnerOrganizationID: customerTenantID,
		AppRoleAssignments: []graph.AppRoleAssignment{
			{AppRoleID: "deadbeef", ResourceID: "sp-unknown", ResourceDisplayName: "Legacy API"},
		},
	}

	res := Build([]graph.ServicePrincipal{app}, nil, Options{})
	require.Len(t, res.Apps, 1)
	require.Len(t, res.Apps[0].Permissions, 1)
	assert.Equal(t, "deadbeef", res.Apps[0].Permissions[0].Value)
	assert.Equal(t, "Legacy API", res.Apps[0].Permissions[0].Resource)
}

func TestBuildDelegatedGrants(t *testing.T) {
	app := graph.ServicePrincipal{
		ID:                     "sp-app",
		AppID:                  "app-1",
		DisplayName:            "Portal",
		AppOwnerOrganizationID: customerTenantID,
	}
	grants := []graph.PermissionGrant{
		{
			ClientID:    "sp-app",
			ResourceID:  "sp-graph",
			ConsentType: "AllPrincipals",
			Scope:       "User.Read Mail.Send",
		},
	}

	res := Build([]graph.ServicePrincipal{graphSP(), app}, grants, Options{})
	require.Len(t, res.Apps, 1)
	require.Len(t, res.Apps[0].Permissions, 2)

	// permissions sort by type then by value
	assert.Equal(t, "Mail.Send", res.Apps[0].Permissions[0].Value)
	assert.Equal(t, PermissionDelegated, res.Apps[0].Permissions[0].Type)
	assert.Equal(t, "AllPrincipals", res.Apps[0].Permissions[0].ConsentType)
	assert.Equal(t, "Microsoft Graph", res.Apps[0].Permissions[0].Resource)
	assert.Equal(t, "User.Read", res.Apps[0].Permissions[1].Value)
	assert.Equal(t, SeverityHigh, res.Apps[0].HighestSeverity())
}

func TestBuildDeletedClientGrant(t *testing.T) {
	grants := []graph.PermissionGrant{
		{ClientID: "sp-gone", ResourceID: "sp-graph", Scope: "User.Read"},
	}

	res := Build([]graph.ServicePrincipal{graphSP()}, grants, Options{})
	require.Len(t, res.Apps, 1)
	assert.Equal(t, "(deleted client)", res.Apps[0].DisplayName)
	assert.Equal(t, "sp-gone", res.Apps[0].ObjectID)
}

func TestBuildFirstPartyFilter(t *testing.T) {
	ms := graphSP()
	ms.AppRoleAssignments = []graph.AppRoleAssignment{
		{AppRoleID: "role-user-read-all", ResourceID: "sp-graph"},
	}

	res := Build([]graph.ServicePrincipal{ms}, nil, Options{})
	assert.Empty(t, res.Apps)

	res = Build([]graph.ServicePrincipal{ms}, nil, Options{IncludeFirstParty: true})
	require.Len(t, res.Apps, 1)
	assert.True(t, res.Apps[0].FirstParty)
}

func TestBuildOnlyPrivileged(t *testing.T) {
	reader := graph.ServicePrincipal{
		ID: "sp-reader", AppID: "app-r", DisplayName: "Reader",
		AppOwnerOrganizationID: customerTenantID,
		AppRoleAssignments: []graph.AppRoleAssignment{
			{AppRoleID: "role-user-read-all", ResourceID: "sp-graph"},
		},
	}
	writer := graph.ServicePrincipal{
		ID: "sp-writer", AppID: "app-w", DisplayName: "Writer",
		AppOwnerOrganizationID: customerTenantID,
		AppRoleAssignments: []graph.AppRoleAssignment{
			{AppRoleID: "role-mail-readwrite", ResourceID: "sp-graph"},
		},
	}

	res := Build([]graph.ServicePrincipal{graphSP(), reader, writer}, nil, Options{OnlyPrivileged: true})
	require.Len(t, res.Apps, 1)
	assert.Equal(t, "Writer", res.Apps[0].DisplayName)
	assert.Equal(t, 1, res.BySeverity[SeverityHigh])
}

func TestBuildAppsAreSorted(t *testing.T) {
	mk := func(id, name string) graph.ServicePrincipal {
		return graph.ServicePrincipal{
			ID: id, AppID: id, DisplayName: name,
			AppOwnerOrganizationID: customerTenantID,
			AppRoleAssignments: []graph.AppRoleAssignment{
				{AppRoleID: "x", ResourceID: "sp-unknown"},
			},
		}
	}

	res := Build([]graph.ServicePrincipal{mk("2", "Zulu"), mk("1", "Alpha")}, nil, Options{})
	require.Len(t, res.Apps, 2)
	assert.Equal(t, "Alpha", res.Apps[0].DisplayName)
	assert.Equal(t, "Zulu", res.Apps[1].DisplayName)
}

func TestIsFirstParty(t *testing.T) {
	assert.True(t, IsFirstParty(graph.ServicePrincipal{AppOwnerOrganizationID: MicrosoftEntraTenantID}))
	assert.True(t, IsFirstParty(graph.ServicePrincipal{AppOwnerOrganizationID: MicrosoftTenantID}))
	assert.True(t, IsFirstParty(graph.ServicePrincipal{}))
	assert.False(t, IsFirstParty(graph.ServicePrincipal{AppOwnerOrganizationID: customerTenantID}))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, SeverityHigh, Classify("RoleManagement.ReadWrite.Directory"))
	assert.Equal(t, SeverityHigh, Classify("Mail.Send"))
	assert.Equal(t, SeverityHigh, Classify("full_access_as_app"))
	assert.Equal(t, SeverityHigh, Classify("Directory.ReadWrite.All"))
	assert.Equal(t, SeverityHigh, Classify("Sites.FullControl.All"))
	assert.Equal(t, SeverityMedium, Classify("User.Read.All"))
	assert.Equal(t, SeverityMedium, Classify("User.ReadBasic.All"))
	assert.Equal(t, SeverityLow, Classify("User.Read"))
	assert.Equal(t, SeverityLow, Classify("offline_access"))
}
