// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package graph

import "github.com/google/uuid"

// User is the projection of a directory user used for mailbox
// reconciliation.
type User struct {
	ID                           string   `json:"id"`
	DisplayName                  string   `json:"displayName"`
	UserPrincipalName            string   `json:"userPrincipalName"`
	Mail                         string   `json:"mail"`
	UserType                     string   `json:"userType"`
	ProxyAddresses               []string `json:"proxyAddresses,omitempty"`
	AccountEnabled               bool     `json:"accountEnabled"`
	OnPremisesSyncEnabled        bool     `json:"onPremisesSyncEnabled"`
	OnPremisesSecurityIdentifier string   `json:"onPremisesSecurityIdentifier,omitempty"`
}

// AppRole is a permission an application exposes (e.g. Directory.Read.All).
type AppRole struct {
	ID          string `json:"id"`
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// AppRoleAssignment grants an application permission to a principal.
type AppRoleAssignment struct {
	ID                   string `json:"id"`
	AppRoleID            string `json:"appRoleId"`
	PrincipalID          string `json:"principalId"`
	PrincipalDisplayName string `json:"principalDisplayName,omitempty"`
	ResourceID           string `json:"resourceId"`
	ResourceDisplayName  string `json:"resourceDisplayName,omitempty"`
}

// ServicePrincipal is the projection of an Entra service principal used
// by the permission audit.
type ServicePrincipal struct {
	ID                     string              `json:"id"`
	AppID                  string              `json:"appId"`
	DisplayName            string              `json:"displayName"`
	Type                   string              `json:"servicePrincipalType,omitempty"`
	AppOwnerOrganizationID string              `json:"appOwnerOrganizationId,omitempty"`
	PublisherName          string              `json:"publisherName,omitempty"`
	Tags                   []string            `json:"tags,omitempty"`
	Enabled                bool                `json:"enabled"`
	AssignmentRequired     bool                `json:"assignmentRequired"`
	AppRoles               []AppRole           `json:"appRoles,omitempty"`
	AppRoleAssignments     []AppRoleAssignment `json:"appRoleAssignments,omitempty"`
}

// PermissionGrant is a delegated OAuth2 permission grant.
type PermissionGrant struct {
	ID          string `json:"id"`
	ClientID    string `json:"clientId"`
	ConsentType string `json:"consentType"`
	PrincipalID string `json:"principalId,omitempty"`
	ResourceID  string `json:"resourceId"`
	Scope       string `json:"scope"`
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolDeref(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func uuidString(u *uuid.UUID) string {
	if u == nil {
		return ""
	}
	return u.String()
}
