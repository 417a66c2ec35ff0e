// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package audit

import "strings"

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) moreSevere(other Severity) bool {
	return severityRank(s) > severityRank(other)
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// highPrivilege are permissions that allow tenant takeover or broad write
// access regardless of their suffix.
var highPrivilege = map[string]struct{}{
	"RoleManagement.ReadWrite.Directory": {},
	"AppRoleAssignment.ReadWrite.All":    {},
	"Mail.ReadWrite":                     {},
	"Mail.Send":                          {},
	"MailboxSettings.ReadWrite":          {},
	"Exchange.ManageAsApp":               {},
	"full_access_as_app":                 {},
	"EWS.AccessAsUser.All":               {},
}

// Classify maps a permission value to a severity. Write-everything and
// full-control permissions are high, tenant-wide reads are medium,
// everything else is low.
func Classify(value string) Severity {
	if _, ok := highPrivilege[value]; ok {
		return SeverityHigh
	}
	if strings.HasSuffix(value, ".ReadWrite.All") ||
		strings.Contains(value, "FullControl") ||
		strings.HasSuffix(value, ".ReadWrite.Directory") {
		return SeverityHigh
	}
	if strings.HasSuffix(value, ".Read.All") || strings.HasSuffix(value, ".ReadBasic.All") {
		return SeverityMedium
	}
	return SeverityLow
}
