// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hoffsec/adkit/cli/reporter"
	"github.com/hoffsec/adkit/reconcile"
)

func init() {
	reconcileCmd.Flags().Bool("include-cloud-only", false, "also report cloud accounts without an on-prem counterpart")
	addOutputFlags(reconcileCmd)
	rootCmd.AddCommand(reconcileCmd)
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile on-prem accounts against cloud mailboxes",
	Long: `Reconcile fetches every user account from the on-prem directory and every
user from Microsoft Graph, matches them up and reports the differences:
enabled accounts without a mailbox, mailboxes whose account no longer
exists, mailboxes kept alive by disabled accounts and mismatched mail
attributes.`,
	Run: func(cmd *cobra.Command, args []string) {
		includeCloudOnly, _ := cmd.Flags().GetBool("include-cloud-only")

		cfg := loadConfig()
		dir := ldapClient(cfg)
		defer dir.Close()
		cloud := graphClient(cfg)

		res, err := reconcile.Run(cmd.Context(), dir, cloud, reconcile.Options{
			IncludeCloudOnly: includeCloudOnly,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("reconciliation failed")
		}

		report := &reporter.Report{
			Columns:  []string{"KIND", "ACCOUNT", "NAME", "DETAIL"},
			Document: res,
		}
		for _, f := range res.Findings {
			report.Append(string(f.Kind), f.Key, f.DisplayName, f.Detail)
		}
		writeReport(cmd, report)

		log.Info().
			Int("ad-accounts", res.ADCount).
			Int("cloud-mailboxes", res.Mailbox).
			Int("findings", len(res.Findings)).
			Msg("reconciliation complete")
	},
}
