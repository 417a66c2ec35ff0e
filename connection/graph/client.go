// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package graph

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/microsoft/kiota-abstractions-go/serialization"
	a "github.com/microsoft/kiota-authentication-azure-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
)

const DefaultMSGraphScope = "https://graph.microsoft.com/.default"

var DefaultMSGraphScopes = []string{DefaultMSGraphScope}

// Client wraps the Graph service client with the directory read
// operations the subcommands need.
type Client struct {
	graph *msgraphsdk.GraphServiceClient
}

func NewClient(cred azcore.TokenCredential) (*Client, error) {
	authProvider, err := a.NewAzureIdentityAuthenticationProviderWithScopes(cred, DefaultMSGraphScopes)
	if err != nil {
		return nil, err
	}
	adapter, err := msgraphsdk.NewGraphRequestAdapter(authProvider)
	if err != nil {
		return nil, err
	}
	return &Client{graph: msgraphsdk.NewGraphServiceClient(adapter)}, nil
}

// iterate collects all pages of a Graph collection response.
func iterate[T any](ctx context.Context, c *Client, resp serialization.Parsable, ctor serialization.ParsableFactory) ([]T, error) {
	pageIterator, err := msgraphcore.NewPageIterator[T](resp, c.graph.GetAdapter(), ctor)
	if err != nil {
		return nil, err
	}
	out := []T{}
	err = pageIterator.Iterate(ctx, func(item T) bool {
		out = append(out, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
