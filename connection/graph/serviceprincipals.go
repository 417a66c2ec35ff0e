// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package graph

import (
	"context"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/serviceprincipals"
)

var servicePrincipalSelectFields = []string{
	"id", "servicePrincipalType", "displayName", "appId", "appOwnerOrganizationId",
	"tags", "accountEnabled", "appRoleAssignmentRequired", "verifiedPublisher", "appRoles",
}

// ListServicePrincipals fetches all service principals with their app role
// assignments expanded, following all result pages.
func (c *Client) ListServicePrincipals(ctx context.Context) ([]ServicePrincipal, error) {
	top := int32(999)
	resp, err := c.graph.ServicePrincipals().Get(ctx, &serviceprincipals.ServicePrincipalsRequestBuilderGetRequestConfiguration{
		QueryParameters: &serviceprincipals.ServicePrincipalsRequestBuilderGetQueryParameters{
			Select: servicePrincipalSelectFields,
			Top:    &top,
			Expand: []string{"appRoleAssignments"},
		},
	})
	if err != nil {
		return nil, transformError(err)
	}

	items, err := iterate[models.ServicePrincipalable](ctx, c, resp, models.CreateServicePrincipalCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, transformError(err)
	}

	res := make([]ServicePrincipal, 0, len(items))
	for _, sp := range items {
		res = append(res, newServicePrincipal(sp))
	}
	return res, nil
}

func newServicePrincipal(sp models.ServicePrincipalable) ServicePrincipal {
	out := ServicePrincipal{
		ID:                     strDeref(sp.GetId()),
		AppID:                  strDeref(sp.GetAppId()),
		DisplayName:            strDeref(sp.GetDisplayName()),
		Type:                   strDeref(sp.GetServicePrincipalType()),
		AppOwnerOrganizationID: uuidString(sp.GetAppOwnerOrganizationId()),
		Tags:                   sp.GetTags(),
		Enabled:                boolDeref(sp.GetAccountEnabled()),
		AssignmentRequired:     boolDeref(sp.GetAppRoleAssignmentRequired()),
	}

	if vp := sp.GetVerifiedPublisher(); vp != nil {
		out.PublisherName = strDeref(vp.GetDisplayName())
	}

	for _, role := range sp.GetAppRoles() {
		out.AppRoles = append(out.AppRoles, AppRole{
			ID:          uuidString(role.GetId()),
			Value:       strDeref(role.GetValue()),
			DisplayName: strDeref(role.GetDisplayName()),
			Description: strDeref(role.GetDescription()),
			Enabled:     boolDeref(role.GetIsEnabled()),
		})
	}

	for _, assignment := range sp.GetAppRoleAssignments() {
		out.AppRoleAssignments = append(out.AppRoleAssignments, AppRoleAssignment{
			ID:                   strDeref(assignment.GetId()),
			AppRoleID:            uuidString(assignment.GetAppRoleId()),
			PrincipalID:          uuidString(assignment.GetPrincipalId()),
			PrincipalDisplayName: strDeref(assignment.GetPrincipalDisplayName()),
			ResourceID:           uuidString(assignment.GetResourceId()),
			ResourceDisplayName:  strDeref(assignment.GetResourceDisplayName()),
		})
	}

	return out
}
