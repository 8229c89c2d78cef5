package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-commit-annotator/internal/adapter/diff"
	"github.com/arturoeanton/go-commit-annotator/internal/domain"
)

// annotator annotate-file <file>
func annotateFileCmd(opts *options) *cobra.Command {
	var patchPath, message string
	var write, showDiff bool

	cmd := &cobra.Command{
		Use:   "annotate-file <file>",
		Short: "Run the comment rules over a single local file",
		Long: `Run the comment rules over a single local file.

Lines listed as added in --patch are candidates. Without --patch every line is treated
as added. The annotated content goes to stdout unless --write is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			content := string(raw)

			patch := wholeFilePatch(content)
			if patchPath != "" {
				p, err := os.ReadFile(patchPath)
				if err != nil {
					return err
				}
				patch = string(p)
			}

			change := domain.FileChange{Filename: filepath.ToSlash(path), Status: domain.FileStatusModified, Patch: patch}
			annotated, records := opts.annotator().Annotate(content, change, domain.CommitDetail{Message: message})

			out := cmd.OutOrStdout()
			switch {
			case showDiff:
				d, err := diff.Unified(change.Filename, content, annotated)
				if err != nil {
					return err
				}
				writeDiff(out, d)
			case write:
				if len(records) > 0 {
					info, err := os.Stat(path)
					if err != nil {
						return err
					}
					if err := os.WriteFile(path, []byte(annotated), info.Mode().Perm()); err != nil {
						return err
					}
				}
			default:
				fmt.Fprint(out, annotated)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %d comment(s) for %s\n", ok("✓"), len(records), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&patchPath, "patch", "p", "", "Unified diff whose added lines are candidates")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message used to pick the comment tone")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the file in place")
	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "Print a unified diff instead of the content")
	return cmd
}

// wholeFilePatch builds a patch that adds every line of content.
func wholeFilePatch(content string) string {
	lines := strings.Split(strings.TrimRight(content, "\r\n"), "\n")
	var sb strings.Builder
	fmt.Fprintf(&sb, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, l := range lines {
		sb.WriteString("+" + strings.TrimRight(l, "\r") + "\n")
	}
	return sb.String()
}
