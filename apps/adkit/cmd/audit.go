// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hoffsec/adkit/audit"
	"github.com/hoffsec/adkit/cli/reporter"
)

func init() {
	auditCmd.Flags().Bool("include-first-party", false, "also audit Microsoft first-party applications")
	auditCmd.Flags().Bool("only-privileged", false, "only report apps holding at least one high severity permission")
	addOutputFlags(auditCmd)
	rootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit application permissions granted in the tenant",
	Long: `Audit collects every service principal together with its delegated OAuth2
grants and application role assignments, resolves role IDs to permission
names and classifies each permission by severity.`,
	Run: func(cmd *cobra.Command, args []string) {
		includeFirstParty, _ := cmd.Flags().GetBool("include-first-party")
		onlyPrivileged, _ := cmd.Flags().GetBool("only-privileged")

		cfg := loadConfig()
		cloud := graphClient(cfg)

		res, err := audit.Run(cmd.Context(), cloud, audit.Options{
			IncludeFirstParty: includeFirstParty,
			OnlyPrivileged:    onlyPrivileged,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("application audit failed")
		}

		report := &reporter.Report{
			Columns:  []string{"APPLICATION", "PERMISSION", "TYPE", "RESOURCE", "SEVERITY"},
			Document: res,
		}
		for _, app := range res.Apps {
			if len(app.Permissions) == 0 {
				report.Append(app.DisplayName, "", "", "", string(audit.SeverityLow))
				continue
			}
			for _, p := range app.Permissions {
				report.Append(app.DisplayName, p.Value, string(p.Type), p.Resource, string(p.Severity))
			}
		}
		writeReport(cmd, report)

		log.Info().
			Int("apps", len(res.Apps)).
			Int("high", res.BySeverity[audit.SeverityHigh]).
			Int("medium", res.BySeverity[audit.SeverityMedium]).
			Int("low", res.BySeverity[audit.SeverityLow]).
			Msg("application audit complete")
	},
}
