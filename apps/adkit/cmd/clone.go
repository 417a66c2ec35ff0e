// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hoffsec/adkit/cli/reporter"
	"github.com/hoffsec/adkit/clone"
)

func init() {
	cloneCmd.Flags().Bool("dry-run", false, "show the planned changes without applying them")
	cloneCmd.Flags().Bool("direct-reports", false, "also re-point the source's direct reports at the target")
	addOutputFlags(cloneCmd)
	rootCmd.AddCommand(cloneCmd)
}

var cloneCmd = &cobra.Command{
	Use:   "clone <source> <target>",
	Short: "Copy group memberships from one account to another",
	Long: `Clone adds the target account to every group the source account is a
member of. Groups the target already belongs to are skipped. With
--direct-reports the source's direct reports are re-pointed at the
target as well.

Accounts are looked up by sAMAccountName, or by userPrincipalName when
the name contains an @.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		directReports, _ := cmd.Flags().GetBool("direct-reports")

		cfg := loadConfig()
		dir := ldapClient(cfg)
		defer dir.Close()

		plan, err := clone.Resolve(dir, args[0], args[1], clone.Options{
			DirectReports: directReports,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not plan the clone")
		}

		report := &reporter.Report{
			Columns:  []string{"ACTION", "OBJECT"},
			Document: plan,
		}
		for _, dn := range plan.GroupsToAdd {
			report.Append("add-group", dn)
		}
		for _, dn := range plan.AlreadyMember {
			report.Append("already-member", dn)
		}
		for _, dn := range plan.ReportsToMove {
			report.Append("move-report", dn)
		}

		if dryRun {
			writeReport(cmd, report)
			log.Info().
				Int("groups", len(plan.GroupsToAdd)).
				Int("reports", len(plan.ReportsToMove)).
				Msg("dry run, no changes applied")
			return
		}

		if plan.Empty() {
			writeReport(cmd, report)
			log.Info().Msg("nothing to do, target already matches the source")
			return
		}

		res := clone.Apply(dir, plan)
		report.Document = struct {
			Plan   *clone.Plan   `json:"plan"`
			Result *clone.Result `json:"result"`
		}{plan, res}
		writeReport(cmd, report)

		log.Info().
			Int("groups-added", res.GroupsAdded).
			Int("groups-skipped", res.GroupsSkipped).
			Int("reports-moved", res.ReportsMoved).
			Msg("clone complete")
		if res.GroupsFailed > 0 || res.ReportsFailed > 0 {
			log.Fatal().
				Int("groups-failed", res.GroupsFailed).
				Int("reports-failed", res.ReportsFailed).
				Msg("some changes could not be applied")
		}
	},
}
