// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package graph

import (
	"github.com/cockroachdb/errors"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
)

func transformError(err error) error {
	oDataErr, ok := err.(*odataerrors.ODataError)
	if ok && oDataErr != nil {
		if payload := oDataErr.GetErrorEscaped(); payload != nil {
			return errors.Newf("error while performing request. Code: %s, Message: %s",
				strDeref(payload.GetCode()), strDeref(payload.GetMessage()))
		}
		return errors.Newf("an API error occurred with HTTP status code %d", oDataErr.ResponseStatusCode)
	}
	return err
}
