// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

// Package audit reports the permissions held by the service principals of
// a tenant: delegated OAuth2 scopes and granted application roles, with a
// severity classification for the ones that matter.
package audit

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hoffsec/adkit/connection/graph"
)

// Microsoft Entra tenant IDs for first party apps as defined in
// https://learn.microsoft.com/en-us/troubleshoot/azure/entra/entra-id/governance/verify-first-party-apps-sign-in
const (
	MicrosoftEntraTenantID = "f8cdef31-a31e-4b4a-93e4-5f571e91255a"
	MicrosoftTenantID      = "72f988bf-86f1-41af-91ab-2d7cd011db47"
)

type PermissionType string

const (
	PermissionDelegated   PermissionType = "delegated"
	PermissionApplication PermissionType = "application"
)

type Permission struct {
	Value       string         `json:"value"`
	Type        PermissionType `json:"type"`
	Resource    string         `json:"resource,omitempty"`
	ConsentType string         `json:"consentType,omitempty"`
	Severity    Severity       `json:"severity"`
}

type AppReport struct {
	DisplayName        string       `json:"displayName"`
	AppID              string       `json:"appId"`
	ObjectID           string       `json:"objectId"`
	Publisher          string       `json:"publisher,omitempty"`
	Enabled            bool         `json:"enabled"`
	FirstParty         bool         `json:"firstParty"`
	AssignmentRequired bool         `json:"assignmentRequired"`
	Permissions        []Permission `json:"permissions,omitempty"`
}

// HighestSeverity returns the most severe permission classification of the
// app, or SeverityLow for an app without permissions.
func (a *AppReport) HighestSeverity() Severity {
	res := SeverityLow
	for _, p := range a.Permissions {
		if p.Severity.moreSevere(res) {
			res = p.Severity
		}
	}
	return res
}

type Result struct {
	Apps       []AppReport      `json:"apps"`
	BySeverity map[Severity]int `json:"bySeverity"`
}

type Options struct {
	// IncludeFirstParty also audits Microsoft first-party applications.
	IncludeFirstParty bool
	// OnlyPrivileged keeps only apps holding at least one high severity
	// permission.
	OnlyPrivileged bool
}

// Cloud is the Graph surface the audit needs.
type Cloud interface {
	ListServicePrincipals(ctx context.Context) ([]graph.ServicePrincipal, error)
	ListPermissionGrants(ctx context.Context) ([]graph.PermissionGrant, error)
}

// Run fetches service principals and permission grants concurrently and
// builds the report.
func Run(ctx context.Context, cloud Cloud, opts Options) (*Result, error) {
	var sps []graph.ServicePrincipal
	var grants []graph.PermissionGrant

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sps, err = cloud.ListServicePrincipals(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		grants, err = cloud.ListPermissionGrants(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Build(sps, grants, opts), nil
}

// Build performs the pure report construction over already-fetched data.
func Build(sps []graph.ServicePrincipal, grants []graph.PermissionGrant, opts Options) *Result {
	byObjectID := map[string]*graph.ServicePrincipal{}
	for i := range sps {
		byObjectID[sps[i].ID] = &sps[i]
	}

	reports := map[string]*AppReport{}
	reportFor := func(sp *graph.ServicePrincipal) *AppReport {
		if r, ok := reports[sp.ID]; ok {
			return r
		}
		r := &AppReport{
			DisplayName:        sp.DisplayName,
			AppID:              sp.AppID,
			ObjectID:           sp.ID,
			Publisher:          sp.PublisherName,
			Enabled:            sp.Enabled,
			FirstParty:         IsFirstParty(*sp),
			AssignmentRequired: sp.AssignmentRequired,
		}
		reports[sp.ID] = r
		return r
	}

	// every fetched service principal is reported, with or without
	// permissions
	for i := range sps {
		reportFor(&sps[i])
	}

	// application permissions: app roles granted to each service principal
	for i := range sps {
		sp := &sps[i]
		for _, assignment := range sp.AppRoleAssignments {
			value, resource := resolveAppRole(byObjectID, assignment)
			r := reportFor(sp)
			r.Permissions = append(r.Permissions, Permission{
				Value:    value,
				Type:     PermissionApplication,
				Resource: resource,
				Severity: Classify(value),
			})
		}
	}

	// delegated permissions: oauth2 grants keyed by client service principal
	for _, grant := range grants {
		client, ok := byObjectID[grant.ClientID]
		var r *AppReport
		if ok {
			r = reportFor(client)
		} else {
			// the client was deleted after consent; keep the raw object id
			r = reports[grant.ClientID]
			if r == nil {
				r = &AppReport{DisplayName: "(deleted client)", ObjectID: grant.ClientID}
				reports[grant.ClientID] = r
			}
		}

		resource := grant.ResourceID
		if resSP, ok := byObjectID[grant.ResourceID]; ok {
			resource = resSP.DisplayName
		}

		for _, scope := range strings.Fields(grant.Scope) {
			r.Permissions = append(r.Permissions, Permission{
				Value:       scope,
				Type:        PermissionDelegated,
				Resource:    resource,
				ConsentType: grant.ConsentType,
				Severity:    Classify(scope),
			})
		}
	}

	res := &Result{BySeverity: map[Severity]int{}}
	for _, r := range reports {
		if r.FirstParty && !opts.IncludeFirstParty {
			continue
		}
		if opts.OnlyPrivileged && r.HighestSeverity() != SeverityHigh {
			continue
		}
		sort.Slice(r.Permissions, func(i, j int) bool {
			if r.Permissions[i].Type != r.Permissions[j].Type {
				return r.Permissions[i].Type < r.Permissions[j].Type
			}
			return r.Permissions[i].Value < r.Permissions[j].Value
		})
		res.Apps = append(res.Apps, *r)
		res.BySeverity[r.HighestSeverity()]++
	}

	sort.Slice(res.Apps, func(i, j int) bool {
		if res.Apps[i].DisplayName != res.Apps[j].DisplayName {
			return res.Apps[i].DisplayName < res.Apps[j].DisplayName
		}
		return res.Apps[i].AppID < res.Apps[j].AppID
	})

	return res
}

// IsFirstParty reports whether the service principal belongs to Microsoft.
// e.g. O365 LinkedIn Connection and YammerOnOls do not have an owner
func IsFirstParty(sp graph.ServicePrincipal) bool {
	owner := sp.AppOwnerOrganizationID
	return owner == MicrosoftEntraTenantID || owner == MicrosoftTenantID || owner == ""
}

func resolveAppRole(byObjectID map[string]*graph.ServicePrincipal, assignment graph.AppRoleAssignment) (value, resource string) {
	value = assignment.AppRoleID
	resource = assignment.ResourceDisplayName
	if resource == "" {
		resource = assignment.ResourceID
	}

	resSP, ok := byObjectID[assignment.ResourceID]
	if !ok {
		return value, resource
	}
	if resSP.DisplayName != "" {
		resource = resSP.DisplayName
	}
	for _, role := range resSP.AppRoles {
		if role.ID == assignment.AppRoleID && role.Value != "" {
			return role.Value, resource
		}
	}
	return value, resource
}
