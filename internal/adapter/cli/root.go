package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/akarpov87/patchnote/internal/usecase/review"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// PullRequestReviewer defines the dependency required to run the pr command.
type PullRequestReviewer interface {
	ReviewPullRequest(ctx context.Context, req review.Request) (review.Result, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
//
// The reviewer is built per invocation because the platform client is
// scoped to a single pull request, which is only known once flags and
// the event payload have been resolved.
type Dependencies struct {
	NewReviewer       func(owner, repo string, pullNumber int) (PullRequestReviewer, error)
	ResolveHeadSHA    func() (string, error)
	Args              Arguments
	DefaultOwner      string
	DefaultRepo       string
	DefaultPullNumber int
	DefaultCommitSHA  string
	Version           string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "pn",
		Short: "LLM pull request review bot",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Run a pull request review",
	}
	reviewCmd.AddCommand(prCommand(deps))
	root.AddCommand(reviewCmd)

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func prCommand(deps Dependencies) *cobra.Command {
	var owner string
	var repo string
	var pullNumber int
	var commitSHA string

	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Review a pull request and post the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if owner == "" || repo == "" {
				return fmt.Errorf("--owner and --repo are required; set them or run inside a workflow with GITHUB_REPOSITORY")
			}
			if pullNumber <= 0 {
				return fmt.Errorf("--pr-number must be a positive integer; set it or run on a pull_request event")
			}

			if commitSHA == "" && deps.ResolveHeadSHA != nil {
				resolved, err := deps.ResolveHeadSHA()
				if err != nil {
					return fmt.Errorf("resolve head commit: %w", err)
				}
				commitSHA = resolved
			}
			if commitSHA == "" {
				return fmt.Errorf("--commit-sha is required when no checkout is available")
			}

			reviewer, err := deps.NewReviewer(owner, repo, pullNumber)
			if err != nil {
				return fmt.Errorf("build reviewer: %w", err)
			}

			result, err := reviewer.ReviewPullRequest(ctx, review.Request{
				Owner:      owner,
				Repo:       repo,
				PullNumber: pullNumber,
				CommitSHA:  commitSHA,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"reviewed %s/%s#%d: %d comments posted (%d degraded, %d dropped, %d failed), cost $%.4f\n",
				owner, repo, pullNumber,
				result.CommentsPosted, result.CommentsDegraded, result.CommentsDropped, result.CommentsFailed,
				result.Cost)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", deps.DefaultOwner, "Repository owner")
	cmd.Flags().StringVar(&repo, "repo", deps.DefaultRepo, "Repository name")
	cmd.Flags().IntVar(&pullNumber, "pr-number", deps.DefaultPullNumber, "Pull request number")
	cmd.Flags().StringVar(&commitSHA, "commit-sha", deps.DefaultCommitSHA, "Head commit SHA to anchor review comments (defaults to the checked out HEAD)")

	return cmd
}
