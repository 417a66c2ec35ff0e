// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package graph

import (
	"context"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"
)

var userSelectFields = []string{
	"id", "accountEnabled", "displayName", "mail", "userPrincipalName",
	"proxyAddresses", "onPremisesSyncEnabled", "onPremisesSecurityIdentifier", "userType",
}

// ListUsers fetches all directory users, following all result pages.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	top := int32(999)
	resp, err := c.graph.Users().Get(ctx, &users.UsersRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.UsersRequestBuilderGetQueryParameters{
			Select: userSelectFields,
			Top:    &top,
		},
	})
	if err != nil {
		return nil, transformError(err)
	}

	items, err := iterate[models.Userable](ctx, c, resp, models.CreateUserCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, transformError(err)
	}

	res := make([]User, 0, len(items))
	for _, u := range items {
		res = append(res, newUser(u))
	}
	return res, nil
}

// GetUserByUPN looks up a single user by userPrincipalName (or object ID).
func (c *Client) GetUserByUPN(ctx context.Context, upn string) (*User, error) {
	resp, err := c.graph.Users().ByUserId(upn).Get(ctx, &users.UserItemRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.UserItemRequestBuilderGetQueryParameters{
			Select: userSelectFields,
		},
	})
	if err != nil {
		return nil, transformError(err)
	}
	user := newUser(resp)
	return &user, nil
}

func newUser(u models.Userable) User {
	return User{
		ID:                           strDeref(u.GetId()),
		DisplayName:                  strDeref(u.GetDisplayName()),
		UserPrincipalName:            strDeref(u.GetUserPrincipalName()),
		Mail:                         strDeref(u.GetMail()),
		UserType:                     strDeref(u.GetUserType()),
		ProxyAddresses:               u.GetProxyAddresses(),
		AccountEnabled:               boolDeref(u.GetAccountEnabled()),
		OnPremisesSyncEnabled:        boolDeref(u.GetOnPremisesSyncEnabled()),
		OnPremisesSecurityIdentifier: strDeref(u.GetOnPremisesSecurityIdentifier()),
	}
}
