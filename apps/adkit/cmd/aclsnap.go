// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package cmd

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hoffsec/adkit/aclsnap"
	"github.com/hoffsec/adkit/cli/reporter"
)

func init() {
	aclsnapCmd.Flags().Int("max-depth", 0, "bound the traversal depth, 0 means unlimited")
	aclsnapCmd.Flags().Bool("changed-only", false, "only keep entries whose mode or ownership differ from their parent")
	addOutputFlags(aclsnapCmd)
	rootCmd.AddCommand(aclsnapCmd)
}

var aclsnapCmd = &cobra.Command{
	Use:   "aclsnap <path>",
	Short: "Snapshot permissions and ownership of a directory tree",
	Long: `Aclsnap walks a directory tree breadth-first and records mode, owner and
group of every entry. Symlinks are recorded but never followed.
Unreadable entries become error records instead of aborting the walk.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		maxDepth, _ := cmd.Flags().GetInt("max-depth")
		changedOnly, _ := cmd.Flags().GetBool("changed-only")

		snap, err := aclsnap.New(afero.NewOsFs()).Walk(args[0], aclsnap.Options{
			MaxDepth:    maxDepth,
			ChangedOnly: changedOnly,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not snapshot the tree")
		}

		report := &reporter.Report{
			Columns:  []string{"PATH", "TYPE", "MODE", "USER", "GROUP", "SIZE", "ERROR"},
			Document: snap,
		}
		for _, rec := range snap.Records {
			user := rec.User
			if user == "" && rec.Error == "" {
				user = strconv.FormatInt(rec.UID, 10)
			}
			group := rec.Group
			if group == "" && rec.Error == "" {
				group = strconv.FormatInt(rec.GID, 10)
			}
			report.Append(rec.Path, string(rec.Type), rec.Mode, user, group,
				strconv.FormatInt(rec.Size, 10), rec.Error)
		}
		writeReport(cmd, report)

		log.Info().
			Int("entries", snap.Summary.Entries).
			Int("errors", snap.Summary.Errors).
			Int("world-writable", snap.Summary.WorldWritable).
			Int("setuid-setgid", snap.Summary.SetuidSetgid).
			Msg("snapshot complete")
	},
}
