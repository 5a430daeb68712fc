// Package git resolves checkout metadata the bot needs when flags and
// the event payload do not supply it, backed by go-git.
package git

import (
	"fmt"

	goGit "github.com/go-git/go-git/v5"
)

// Engine reads the local repository checkout.
type Engine struct {
	repoDir string
}

// NewEngine constructs an engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// HeadSHA returns the commit hash of HEAD. Review comments must be
// anchored to the PR head commit; in Actions the checkout is that
// commit, so HEAD is the right fallback when no SHA was supplied.
func (e *Engine) HeadSHA() (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// CurrentBranch returns the name of the checked-out branch, or an
// error when HEAD is detached.
func (e *Engine) CurrentBranch() (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not a branch")
	}
	return head.Name().Short(), nil
}
