package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gomantics/repotracker/domains/commits"
	"github.com/gomantics/repotracker/domains/history"
	"github.com/gomantics/repotracker/domains/repos"
	"github.com/spf13/cobra"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	faint   = color.New(color.Faint)
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Manage tracked GitHub repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newTrackCmd(a),
		newUntrackCmd(a),
		newListCmd(a),
		newCommitsCmd(a),
		newSyncCmd(a),
	)
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.migrate(cmd.Context()); err != nil {
				return err
			}
			success.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

func newTrackCmd(a *app) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "track <owner/name | url>",
		Short: "Start tracking a repository branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repos.Track(cmd.Context(), trackParams(args[0], branch))
			if err != nil {
				return err
			}
			success.Fprintf(cmd.OutOrStdout(), "tracking %s (%s) on %s\n", repo.Name, repo.ID, repo.TrackedBranchName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "main", "branch to track")
	return cmd
}

// trackParams accepts either owner/name or a repository URL. GitHub logins
// never contain a dot or a colon, URLs always do.
func trackParams(arg, branch string) repos.TrackParams {
	owner, name, ok := strings.Cut(arg, "/")
	if ok && !strings.ContainsAny(owner, ".:") && !strings.Contains(name, "/") {
		return repos.TrackParams{Owner: owner, Name: name, Branch: branch}
	}
	return repos.TrackParams{URL: arg, Branch: branch}
}

func newUntrackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "untrack <id>",
		Short: "Stop tracking a repository and drop its commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repos.Untrack(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			success.Fprintf(cmd.OutOrStdout(), "untracked %s (%s)\n", repo.Name, repo.ID)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.repos.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				faint.Fprintln(cmd.OutOrStdout(), "no repositories tracked")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREPOSITORY")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s/%s\n", r.ID, r.OwnerLogin, r.Name)
			}
			return w.Flush()
		},
	}
}

func newCommitsCmd(a *app) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "commits <repository id>",
		Short: "Show the collected commits of a repository, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.commits.List(cmd.Context(), args[0], commits.ListParams{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, c := range res.Commits {
				sha := c.SHA
				if len(sha) > 7 {
					sha = sha[:7]
				}
				fmt.Fprintf(w, "%s\t%s\t+%d -%d\n", sha, c.MessageHeadline, c.Additions, c.Deletions)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			faint.Fprintf(cmd.OutOrStdout(), "%d of %d commits\n", len(res.Commits), res.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", commits.DefaultLimit, "number of commits to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of commits to skip")
	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch one history page for every repository still being walked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := history.NewWorker(a.cfg, a.cn, a.gh, a.l)
			if err := w.SyncOnce(cmd.Context()); err != nil {
				return err
			}
			success.Fprintln(cmd.OutOrStdout(), "sync pass finished")
			return nil
		},
	}
}
