// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package graph

import (
	"context"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/oauth2permissiongrants"
)

// ListPermissionGrants fetches all delegated OAuth2 permission grants,
// following all result pages.
func (c *Client) ListPermissionGrants(ctx context.Context) ([]PermissionGrant, error) {
	top := int32(999)
	resp, err := c.graph.Oauth2PermissionGrants().Get(ctx, &oauth2permissiongrants.Oauth2PermissionGrantsRequestBuilderGetRequestConfiguration{
		QueryParameters: &oauth2permissiongrants.Oauth2PermissionGrantsRequestBuilderGetQueryParameters{
			Top: &top,
		},
	})
	if err != nil {
		return nil, transformError(err)
	}

	items, err := iterate[models.OAuth2PermissionGrantable](ctx, c, resp, models.CreateOAuth2PermissionGrantCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, transformError(err)
	}

	res := make([]PermissionGrant, 0, len(items))
	for _, g := range items {
		res = append(res, PermissionGrant{
			ID:          strDeref(g.GetId()),
			ClientID:    strDeref(g.GetClientId()),
			ConsentType: strDeref(g.GetConsentType()),
			PrincipalID: strDeref(g.GetPrincipalId()),
			ResourceID:  strDeref(g.GetResourceId()),
			Scope:       strDeref(g.GetScope()),
		})
	}
	return res, nil
}
