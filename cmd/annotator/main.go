// Package main provides the annotator CLI: preview and publish generated comments
// for a commit from the terminal, or run the rules offline over a single file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-commit-annotator/internal/adapter/annotation"
	"github.com/arturoeanton/go-commit-annotator/internal/adapter/store"
	"github.com/arturoeanton/go-commit-annotator/internal/adapter/vcs"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
	"github.com/arturoeanton/go-commit-annotator/internal/service"
	"github.com/arturoeanton/go-commit-annotator/pkg/config"
)

var version = "1.0.0"

// options are the persistent flags shared by every subcommand.
type options struct {
	token       string
	apiURL      string
	localRepo   string
	exclude     []string
	changedOnly bool
	noColor     bool
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, warn("error:"), err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "annotator",
		Short:         "Generate explanatory comments for the files changed by a commit",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(cfg.NewLogger())
			setColor(!opts.noColor)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.token, "token", os.Getenv("GITHUB_TOKEN"), "GitHub access token (default $GITHUB_TOKEN)")
	flags.StringVar(&opts.apiURL, "api-url", cfg.GitHubAPIURL, "GitHub REST API base URL")
	flags.StringVar(&opts.localRepo, "local", "", "Use a local git repository instead of GitHub")
	flags.StringSliceVar(&opts.exclude, "exclude", cfg.AnnotateExclude, "Glob patterns of files to skip")
	flags.BoolVar(&opts.changedOnly, "changed-only", cfg.AnnotateChangedOnly, "Only annotate lines added by the commit")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		previewCmd(opts, cfg),
		applyCmd(opts, cfg),
		annotateFileCmd(opts),
	)
	cmd.SetErr(os.Stderr)
	return cmd
}

// target resolves owner, repo and sha from positional arguments. In local mode
// only the sha is given.
func (o *options) target(args []string) (owner, repo, sha string, err error) {
	if o.localRepo != "" {
		if len(args) != 1 {
			return "", "", "", fmt.Errorf("expected <sha> with --local, got %d argument(s)", len(args))
		}
		return "local", "local", args[0], nil
	}
	if len(args) != 3 {
		return "", "", "", fmt.Errorf("expected <owner> <repo> <sha>, got %d argument(s)", len(args))
	}
	if o.token == "" {
		return "", "", "", fmt.Errorf("a GitHub token is required (--token or GITHUB_TOKEN)")
	}
	return args[0], args[1], args[2], nil
}

func (o *options) host(cfg *config.Config) port.RepositoryHost {
	if o.localRepo != "" {
		return vcs.NewLocalGitHost(o.localRepo)
	}
	return vcs.NewGitHubClient(o.apiURL, cfg.GitHubTimeout)
}

func (o *options) annotator() *service.Annotator {
	return service.NewAnnotator(annotation.NewEngine(), service.WithChangedLinesOnly(o.changedOnly))
}

func (o *options) commentService(cfg *config.Config) (*service.CommentService, error) {
	filter, err := annotation.NewFilter(o.exclude...)
	if err != nil {
		return nil, err
	}
	return service.NewCommentService(o.host(cfg), o.annotator(), filter, store.NewSessionStore()), nil
}
