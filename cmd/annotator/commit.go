package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/pkg/config"
)

// annotator preview <owner> <repo> <sha>
func previewCmd(opts *options, cfg *config.Config) *cobra.Command {
	var branch string
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "preview <owner> <repo> <sha>",
		Short: "Show the comments that would be added for a commit",
		Long: `Show the comments that would be added for a commit without publishing.

With --local the repository is read from a local clone and only <sha> is given.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, sha, err := opts.target(args)
			if err != nil {
				return err
			}
			svc, err := opts.commentService(cfg)
			if err != nil {
				return err
			}

			preview, err := svc.Preview(cmd.Context(), opts.token, owner, repo, sha, branch)
			if err != nil {
				return err
			}
			printPreview(cmd.OutOrStdout(), preview, showDiff)
			return nil
		},
	}
	cmd.Flags().StringVarP(&branch, "branch", "b", "main", "Branch to read files from")
	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "Print the unified diff of every annotated file")
	return cmd
}

// annotator apply <owner> <repo> <sha>
func applyCmd(opts *options, cfg *config.Config) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "apply <owner> <repo> <sha>",
		Short: "Annotate a commit and publish the comments as a new commit",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, sha, err := opts.target(args)
			if err != nil {
				return err
			}
			svc, err := opts.commentService(cfg)
			if err != nil {
				return err
			}

			result, err := svc.PublishDirect(cmd.Context(), opts.token, owner, repo, sha, branch)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&branch, "branch", "b", "main", "Branch to publish to")
	return cmd
}

func printPreview(w writer, p *domain.Preview, showDiff bool) {
	fmt.Fprintf(w, "%s %s %s\n", header("Commit"), domain.ShortSHA(p.CommitSHA), firstLine(p.CommitMessage))

	names := make([]string, 0, len(p.Files))
	for name := range p.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := p.Files[name]
		if !f.Modified {
			fmt.Fprintf(w, "  %s %s\n", dim("·"), dim(name+" (no comments)"))
			continue
		}
		fmt.Fprintf(w, "  %s %s %s\n", ok("✓"), name, dim(fmt.Sprintf("(%d comment(s))", len(f.Annotations))))
		for _, a := range f.Annotations {
			fmt.Fprintf(w, "      %s %s\n", dim(fmt.Sprintf("%4d", a.LineNumber)), a.Comment)
		}
		if showDiff {
			writeDiff(w, f.Diff)
		}
	}
	for _, s := range p.Skipped {
		fmt.Fprintf(w, "  %s %s %s\n", warn("!"), s.Filename, dim(s.Reason))
	}
	fmt.Fprintf(w, "%s %d file(s) would be committed\n", header("Total"), len(p.StagedFiles()))
}

func printResult(w writer, r *domain.PublishResult) {
	if r.CommitSHA == "" {
		fmt.Fprintf(w, "%s %s\n", dim("·"), r.Message)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ok("✓"), r.Message)
}
