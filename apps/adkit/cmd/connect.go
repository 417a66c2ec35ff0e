// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package cmd

import (
	"github.com/rs/zerolog/log"

	"github.com/hoffsec/adkit/cli/config"
	"github.com/hoffsec/adkit/connection/adldap"
	"github.com/hoffsec/adkit/connection/graph"
)

func loadConfig() *config.Config {
	cfg, err := config.Read()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	return cfg
}

func graphClient(cfg *config.Config) *graph.Client {
	cred, err := graph.BuildTokenCredential(cfg.Azure)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build Azure credentials")
	}
	client, err := graph.NewClient(cred)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize the Microsoft Graph client")
	}
	return client
}

func ldapClient(cfg *config.Config) *adldap.Client {
	client, err := adldap.Connect(cfg.LDAP)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to the directory")
	}
	return client
}
