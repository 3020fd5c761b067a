// Package ghstore stores the worklog document as a file in a GitHub
// repository through the contents API. The file's blob SHA doubles as the
// optimistic-concurrency version token: reads return it, writes require it,
// and a stale token surfaces as a conflict instead of a silent overwrite.
package ghstore

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	apperrors "github.com/jereslo/worklog-sync/internal/errors"
)

const commitMessage = "Update worklog with Toggl time entries"

// Store reads and writes one worklog file in one repository.
type Store struct {
	client *gh.Client
	owner  string
	repo   string
	path   string
	branch string
	logger zerolog.Logger
}

// New creates a Store authenticated with a personal access token.
func New(ctx context.Context, token, owner, repo, path, branch string, logger zerolog.Logger) *Store {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewWithClient(gh.NewClient(oauth2.NewClient(ctx, ts)), owner, repo, path, branch, logger)
}

// NewWithClient creates a Store around an existing GitHub client. Used by
// tests to point at a fake API.
func NewWithClient(client *gh.Client, owner, repo, path, branch string, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		owner:  owner,
		repo:   repo,
		path:   path,
		branch: branch,
		logger: logger.With().Str("component", "ghstore").Logger(),
	}
}

// Read fetches the worklog content and its version token. A missing file is
// not an error: it returns empty content and an empty token, and the next
// Write creates the file.
func (s *Store) Read(ctx context.Context) (content, token string, err error) {
	s.logger.Debug().Str("path", s.location()).Msg("fetching worklog")

	var opts *gh.RepositoryContentGetOptions
	if s.branch != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: s.branch}
	}

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, s.path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			s.logger.Info().Str("path", s.location()).Msg("worklog does not exist yet")
			return "", "", nil
		}
		return "", "", s.classify("reading worklog", resp, err)
	}
	if file == nil {
		return "", "", fmt.Errorf("%s is a directory, expected a file", s.location())
	}

	content, err = file.GetContent()
	if err != nil {
		return "", "", fmt.Errorf("decoding worklog content: %w", err)
	}
	return content, file.GetSHA(), nil
}

// Write commits new content, gated by the version token from Read. An empty
// token means the file did not exist and is created instead. A stale token
// yields ErrConflict; the caller re-runs rather than retrying blindly.
func (s *Store) Write(ctx context.Context, content, token string) error {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(commitMessage),
		Content: []byte(content),
	}
	if s.branch != "" {
		opts.Branch = gh.String(s.branch)
	}

	var resp *gh.Response
	var err error
	if token == "" {
		s.logger.Info().Str("path", s.location()).Msg("creating worklog")
		_, resp, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, s.path, opts)
	} else {
		s.logger.Info().Str("path", s.location()).Msg("updating worklog")
		opts.SHA = gh.String(token)
		_, resp, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, s.path, opts)
	}
	if err != nil {
		return s.classify("writing worklog", resp, err)
	}
	return nil
}

// classify maps GitHub API failures onto the shared error taxonomy.
func (s *Store) classify(op string, resp *gh.Response, err error) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrAuthFailure, err)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrConflict, err)
	}
	return &apperrors.APIError{Service: "github", StatusCode: status, Message: op, Err: err}
}

func (s *Store) location() string {
	return s.owner + "/" + s.repo + "/" + s.path
}
