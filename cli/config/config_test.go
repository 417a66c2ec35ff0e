// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("azure.tenant_id", "11111111-2222-3333-4444-555555555555")
	viper.Set("azure.client_id", "app-client")
	viper.Set("azure.client_secret", "hunter2")
	viper.Set("ldap.url", "ldaps://dc01.corp.example.com")
	viper.Set("ldap.base_dn", "DC=corp,DC=example,DC=com")
	viper.Set("ldap.start_tls", true)

	cfg, err := Read()
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", cfg.Azure.TenantID)
	assert.Equal(t, "hunter2", cfg.Azure.ClientSecret)
	assert.Equal(t, "ldaps://dc01.corp.example.com", cfg.LDAP.URL)
	assert.Equal(t, "DC=corp,DC=example,DC=com", cfg.LDAP.BaseDN)
	assert.True(t, cfg.LDAP.StartTLS)
}

func TestReadEmpty(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := Read()
	require.NoError(t, err)
	assert.Empty(t, cfg.Azure.TenantID)
	assert.Empty(t, cfg.LDAP.URL)
}
