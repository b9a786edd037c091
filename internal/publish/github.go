package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"github.com/everstacklabs/pricescope/internal/config"
	"github.com/everstacklabs/pricescope/internal/dataset"
)

// Options controls what gets published.
type Options struct {
	// Paths to stage, relative to the repo root.
	Paths []string
	// OpenPR controls whether a pull request is opened after pushing.
	OpenPR bool
	// Manifest, when set, is summarized in the PR body.
	Manifest *dataset.Manifest
}

// Publish commits the analysis outputs on a timestamped branch, pushes, and
// optionally opens a PR. Returns the PR number (0 when no PR was requested).
func Publish(ctx context.Context, cfg *config.GitHubConfig, opts Options) (int, error) {
	if cfg.Token == "" {
		return 0, fmt.Errorf("publishing requires github.token (or GITHUB_TOKEN)")
	}

	branchName := fmt.Sprintf("pricescope/analysis-%s", time.Now().Format("20060102-150405"))
	commitMsg := "chore(analysis): refresh model pricing analysis"

	gitOps, err := OpenRepo(cfg.RepoPath, cfg.Token)
	if err != nil {
		return 0, err
	}

	if err := gitOps.CreateBranch(branchName); err != nil {
		return 0, fmt.Errorf("creating branch: %w", err)
	}
	if err := gitOps.AddPaths(opts.Paths); err != nil {
		return 0, err
	}
	if err := gitOps.Commit(commitMsg); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	if err := gitOps.Push(); err != nil {
		return 0, fmt.Errorf("pushing: %w", err)
	}

	slog.Info("analysis pushed", "branch", branchName)

	if !opts.OpenPR {
		return 0, nil
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	title := "chore(analysis): refresh model pricing analysis"
	body := renderPRBody(opts.Manifest)

	pr, _, err := client.PullRequests.Create(ctx, cfg.Owner, cfg.Repo, &github.NewPullRequest{
		Title: &title,
		Body:  &body,
		Head:  &branchName,
		Base:  &cfg.BaseBranch,
	})
	if err != nil {
		return 0, fmt.Errorf("creating PR: %w", err)
	}

	slog.Info("PR created",
		"number", pr.GetNumber(),
		"url", pr.GetHTMLURL())

	return pr.GetNumber(), nil
}

func renderPRBody(m *dataset.Manifest) string {
	if m == nil {
		return "Automated refresh of the model pricing analysis outputs."
	}
	return fmt.Sprintf(
		"Automated refresh of the model pricing analysis outputs.\n\n"+
			"- Source: %s\n- Generated: %s\n- Models: %d (%d paid, %d free)\n",
		m.SourceURL, m.GeneratedAt,
		m.Stats.TotalModels, m.Stats.PaidModels, m.Stats.FreeModels)
}
