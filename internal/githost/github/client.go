// Package github implements githost.Host against the GitHub REST v3 API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/httpclient"
)

const (
	// DefaultAPIBase is the GitHub REST API endpoint.
	DefaultAPIBase = "https://api.github.com"

	// acceptHeader pins the REST v3 media type.
	acceptHeader = "application/vnd.github.v3+json"

	// defaultTimeout bounds each API request.
	defaultTimeout = 30 * time.Second
)

// Client talks to the GitHub REST API. It implements githost.Host.
type Client struct {
	apiBase    string
	httpClient *http.Client
}

var _ githost.Host = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithAPIBase points the client at a different API endpoint, e.g. a test
// server or a GitHub Enterprise instance.
func WithAPIBase(base string) Option {
	return func(c *Client) {
		c.apiBase = base
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a GitHub API client authenticating with token.
func NewClient(token string, opts ...Option) *Client {
	// GitHub expects "Authorization: token <token>"; the non-standard
	// token type carries through oauth2 verbatim.
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "token",
	})
	hc := oauth2.NewClient(context.Background(), source)
	hc.Timeout = defaultTimeout

	c := &Client{
		apiBase:    DefaultAPIBase,
		httpClient: hc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body any) (gjson.Result, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.apiBase + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", httpclient.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := httpclient.ReadBody(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return gjson.Result{}, fmt.Errorf("%w: please check your GitHub token", githost.ErrUnauthorized)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := gjson.GetBytes(data, "message").String()
		if message == "" {
			message = resp.Status
		}
		return gjson.Result{}, httpclient.NewHTTPError(resp.StatusCode, url, message)
	}

	return gjson.ParseBytes(data), nil
}

// GetRepository fetches repository attributes.
func (c *Client) GetRepository(ctx context.Context, repo githost.Repository) (githost.RepositoryInfo, error) {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", repo.Owner, repo.Name), nil)
	if err != nil {
		return githost.RepositoryInfo{}, err
	}
	return githost.RepositoryInfo{
		DefaultBranch: res.Get("default_branch").String(),
	}, nil
}

// DefaultBranch returns the repository's default branch. A non-nil memo is
// consulted and filled, letting callers batch repeated lookups.
func (c *Client) DefaultBranch(ctx context.Context, repo githost.Repository, memo map[string]string) (string, error) {
	if memo != nil {
		if branch, ok := memo[repo.String()]; ok {
			return branch, nil
		}
	}
	info, err := c.GetRepository(ctx, repo)
	if err != nil {
		return "", err
	}
	if memo != nil {
		memo[repo.String()] = info.DefaultBranch
	}
	return info.DefaultBranch, nil
}

// LatestCommitSha returns the newest commit sha on branch. A non-nil memo
// is consulted and filled, keyed by owner/name/branch.
func (c *Client) LatestCommitSha(ctx context.Context, repo githost.Repository, branch string, memo map[string]string) (string, error) {
	key := repo.String() + "/" + branch
	if memo != nil {
		if sha, ok := memo[key]; ok {
			return sha, nil
		}
	}
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/branches/%s", repo.Owner, repo.Name, branch), nil)
	if err != nil {
		return "", err
	}
	sha := res.Get("commit.sha").String()
	if memo != nil {
		memo[key] = sha
	}
	return sha, nil
}

// BranchExists reports whether the branch exists.
func (c *Client) BranchExists(ctx context.Context, repo githost.Repository, branch string) (bool, error) {
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/branches/%s", repo.Owner, repo.Name, branch), nil)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetBranchTipCommitSha returns the commit sha the branch ref points at.
func (c *Client) GetBranchTipCommitSha(ctx context.Context, repo githost.Repository, branch string) (string, error) {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", repo.Owner, repo.Name, branch), nil)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusNotFound) {
			return "", fmt.Errorf("%w: %s on %s", githost.ErrBranchNotFound, branch, repo)
		}
		return "", err
	}
	return res.Get("object.sha").String(), nil
}

// GetTreeShaOfCommit returns the tree sha of a commit.
func (c *Client) GetTreeShaOfCommit(ctx context.Context, repo githost.Repository, commitSha string) (string, error) {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/git/commits/%s", repo.Owner, repo.Name, commitSha), nil)
	if err != nil {
		return "", err
	}
	return res.Get("tree.sha").String(), nil
}

type treeEntry struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type createTreeRequest struct {
	BaseTree string      `json:"base_tree,omitempty"`
	Tree     []treeEntry `json:"tree"`
}

// CreateTree writes a tree with one regular-file blob per contents entry,
// layered on top of baseTreeSha when given. Entries are submitted in sorted
// path order so identical publishes produce identical requests.
func (c *Client) CreateTree(ctx context.Context, repo githost.Repository, baseTreeSha string, contents map[string]string) (string, error) {
	paths := make([]string, 0, len(contents))
	for path := range contents {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]treeEntry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, treeEntry{
			Path:    path,
			Mode:    "100644",
			Type:    "blob",
			Content: contents[path],
		})
	}

	res, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/git/trees", repo.Owner, repo.Name), createTreeRequest{
		BaseTree: baseTreeSha,
		Tree:     entries,
	})
	if err != nil {
		return "", err
	}
	return res.Get("sha").String(), nil
}

type createCommitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents,omitempty"`
}

// CreateCommit creates a commit pointing at treeSha. An empty parentSha
// creates a root commit.
func (c *Client) CreateCommit(ctx context.Context, repo githost.Repository, parentSha, treeSha, message string) (string, error) {
	body := createCommitRequest{
		Message: message,
		Tree:    treeSha,
	}
	if parentSha != "" {
		body.Parents = []string{parentSha}
	}

	res, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/git/commits", repo.Owner, repo.Name), body)
	if err != nil {
		return "", err
	}
	return res.Get("sha").String(), nil
}

type createRefRequest struct {
	Ref string `json:"ref"`
	Sha string `json:"sha"`
}

type updateRefRequest struct {
	Sha string `json:"sha"`
}

// UpdateRef points the branch at commitSha. The update is unconditional;
// the registry branch is owned by yevis and last write wins.
func (c *Client) UpdateRef(ctx context.Context, repo githost.Repository, branch, commitSha string) error {
	_, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/repos/%s/%s/git/refs/heads/%s", repo.Owner, repo.Name, branch), updateRefRequest{
		Sha: commitSha,
	})
	return err
}

// CreateEmptyBranch creates branch from scratch: a README-only tree, a root
// commit, and a new ref.
func (c *Client) CreateEmptyBranch(ctx context.Context, repo githost.Repository, branch string) error {
	treeSha, err := c.CreateTree(ctx, repo, "", map[string]string{
		"README.md": githost.InitialReadme,
	})
	if err != nil {
		return fmt.Errorf("failed to create seed tree: %w", err)
	}

	commitSha, err := c.CreateCommit(ctx, repo, "", treeSha, githost.InitialCommitMessage)
	if err != nil {
		return fmt.Errorf("failed to create seed commit: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/git/refs", repo.Owner, repo.Name), createRefRequest{
		Ref: "refs/heads/" + branch,
		Sha: commitSha,
	})
	if err != nil {
		return fmt.Errorf("failed to create ref for branch %s: %w", branch, err)
	}
	return nil
}

// PagesBranch returns the branch the repository's pages site is served
// from, falling back to the conventional default when pages is not
// configured yet.
func (c *Client) PagesBranch(ctx context.Context, repo githost.Repository) (string, error) {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/pages", repo.Owner, repo.Name), nil)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusNotFound) {
			return githost.DefaultPagesBranch, nil
		}
		return "", err
	}

	branch := res.Get("source.branch").String()
	if branch == "" {
		return githost.DefaultPagesBranch, nil
	}
	return branch, nil
}
