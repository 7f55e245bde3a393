// Package local implements githost.Host on top of a repository on the
// local filesystem, using go-git's plumbing directly. It exists for
// air-gapped registries and for exercising the publish pipeline without
// touching the GitHub API.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
)

const (
	defaultSignatureName  = "yevis"
	defaultSignatureEmail = "yevis@users.noreply.github.com"
)

// Host stores registry documents in a local git repository. All writes go
// through the object store, so it works with bare repositories and never
// needs a worktree.
type Host struct {
	repo        *git.Repository
	pagesBranch string
	sigName     string
	sigEmail    string
	now         func() time.Time
}

var _ githost.Host = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithPagesBranch overrides the branch reported by PagesBranch.
func WithPagesBranch(branch string) Option {
	return func(h *Host) {
		h.pagesBranch = branch
	}
}

// WithSignature sets the author and committer identity for created commits.
func WithSignature(name, email string) Option {
	return func(h *Host) {
		h.sigName = name
		h.sigEmail = email
	}
}

func newHost(repo *git.Repository, opts []Option) *Host {
	h := &Host{
		repo:        repo,
		pagesBranch: githost.DefaultPagesBranch,
		sigName:     defaultSignatureName,
		sigEmail:    defaultSignatureEmail,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Open opens an existing repository at dir.
func Open(dir string, opts ...Option) (*Host, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}
	return newHost(repo, opts), nil
}

// Init creates a bare repository at dir.
func Init(dir string, opts ...Option) (*Host, error) {
	repo, err := git.PlainInit(dir, true)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository at %s: %w", dir, err)
	}
	return newHost(repo, opts), nil
}

// OpenOrInit opens the repository at dir, initializing a bare one when the
// directory does not hold a repository yet.
func OpenOrInit(dir string, opts ...Option) (*Host, error) {
	host, err := Open(dir, opts...)
	if err == nil {
		return host, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, err
	}
	return Init(dir, opts...)
}

// GetRepository reports the branch HEAD points at as the default branch.
func (h *Host) GetRepository(_ context.Context, _ githost.Repository) (githost.RepositoryInfo, error) {
	head, err := h.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return githost.RepositoryInfo{}, fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return githost.RepositoryInfo{}, fmt.Errorf("HEAD is not a symbolic reference")
	}
	return githost.RepositoryInfo{
		DefaultBranch: head.Target().Short(),
	}, nil
}

// BranchExists reports whether the branch exists.
func (h *Host) BranchExists(_ context.Context, _ githost.Repository, branch string) (bool, error) {
	_, err := h.repo.Reference(plumbing.NewBranchReferenceName(branch), false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve branch %s: %w", branch, err)
	}
	return true, nil
}

// GetBranchTipCommitSha returns the commit sha the branch points at.
func (h *Host) GetBranchTipCommitSha(_ context.Context, _ githost.Repository, branch string) (string, error) {
	ref, err := h.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("%w: %s", githost.ErrBranchNotFound, branch)
		}
		return "", fmt.Errorf("failed to resolve branch %s: %w", branch, err)
	}
	return ref.Hash().String(), nil
}

// GetTreeShaOfCommit returns the tree sha of a commit.
func (h *Host) GetTreeShaOfCommit(_ context.Context, _ githost.Repository, commitSha string) (string, error) {
	commit, err := object.GetCommit(h.repo.Storer, plumbing.NewHash(commitSha))
	if err != nil {
		return "", fmt.Errorf("failed to get commit object %s: %w", commitSha, err)
	}
	return commit.TreeHash.String(), nil
}

// treeNode is an in-memory tree under construction. Paths with slashes
// become nested nodes.
type treeNode struct {
	blobs map[string]plumbing.Hash
	dirs  map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{
		blobs: map[string]plumbing.Hash{},
		dirs:  map[string]*treeNode{},
	}
}

func (n *treeNode) put(path string, hash plumbing.Hash) {
	name, rest, nested := strings.Cut(path, "/")
	if !nested {
		n.blobs[name] = hash
		delete(n.dirs, name)
		return
	}
	child, ok := n.dirs[name]
	if !ok {
		child = newTreeNode()
		n.dirs[name] = child
	}
	child.put(rest, hash)
}

func (h *Host) storeBlob(content string) (plumbing.Hash, error) {
	obj := h.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to open blob writer: %w", err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to close blob writer: %w", err)
	}
	return h.repo.Storer.SetEncodedObject(obj)
}

// treeEntrySortKey implements canonical git tree ordering, where directory
// names compare as if they had a trailing slash.
func treeEntrySortKey(e object.TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

// writeTree persists node merged over base: new blobs override base entries
// of the same name, directories merge recursively, everything else in base
// is carried over untouched.
func (h *Host) writeTree(node *treeNode, base *object.Tree) (plumbing.Hash, error) {
	entries := map[string]object.TreeEntry{}
	if base != nil {
		for _, e := range base.Entries {
			entries[e.Name] = e
		}
	}

	for name, hash := range node.blobs {
		entries[name] = object.TreeEntry{Name: name, Mode: filemode.Regular, Hash: hash}
	}

	for name, child := range node.dirs {
		var childBase *object.Tree
		if e, ok := entries[name]; ok && e.Mode == filemode.Dir {
			t, err := object.GetTree(h.repo.Storer, e.Hash)
			if err != nil {
				return plumbing.ZeroHash, fmt.Errorf("failed to read subtree %s: %w", name, err)
			}
			childBase = t
		}
		hash, err := h.writeTree(child, childBase)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries[name] = object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: hash}
	}

	list := make([]object.TreeEntry, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		return treeEntrySortKey(list[i]) < treeEntrySortKey(list[j])
	})

	tree := &object.Tree{Entries: list}
	obj := h.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}
	return h.repo.Storer.SetEncodedObject(obj)
}

// CreateTree writes one blob per contents entry and assembles the nested
// trees, layered on top of baseTreeSha when given.
func (h *Host) CreateTree(_ context.Context, _ githost.Repository, baseTreeSha string, contents map[string]string) (string, error) {
	root := newTreeNode()

	paths := make([]string, 0, len(contents))
	for path := range contents {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		hash, err := h.storeBlob(contents[path])
		if err != nil {
			return "", err
		}
		root.put(path, hash)
	}

	var base *object.Tree
	if baseTreeSha != "" {
		t, err := object.GetTree(h.repo.Storer, plumbing.NewHash(baseTreeSha))
		if err != nil {
			return "", fmt.Errorf("failed to read base tree %s: %w", baseTreeSha, err)
		}
		base = t
	}

	hash, err := h.writeTree(root, base)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// CreateCommit creates a commit pointing at treeSha. An empty parentSha
// creates a root commit.
func (h *Host) CreateCommit(_ context.Context, _ githost.Repository, parentSha, treeSha, message string) (string, error) {
	sig := object.Signature{
		Name:  h.sigName,
		Email: h.sigEmail,
		When:  h.now(),
	}
	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   message,
		TreeHash:  plumbing.NewHash(treeSha),
	}
	if parentSha != "" {
		commit.ParentHashes = []plumbing.Hash{plumbing.NewHash(parentSha)}
	}

	obj := h.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return "", fmt.Errorf("failed to encode commit: %w", err)
	}
	hash, err := h.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return "", fmt.Errorf("failed to store commit: %w", err)
	}
	return hash.String(), nil
}

// UpdateRef points the branch at commitSha, creating the ref when missing.
func (h *Host) UpdateRef(_ context.Context, _ githost.Repository, branch, commitSha string) error {
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), plumbing.NewHash(commitSha))
	if err := h.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("failed to update ref %s: %w", ref.Name(), err)
	}
	return nil
}

// CreateEmptyBranch creates branch from scratch: a README-only tree, a root
// commit, and a new ref.
func (h *Host) CreateEmptyBranch(ctx context.Context, repo githost.Repository, branch string) error {
	treeSha, err := h.CreateTree(ctx, repo, "", map[string]string{
		"README.md": githost.InitialReadme,
	})
	if err != nil {
		return fmt.Errorf("failed to create seed tree: %w", err)
	}

	commitSha, err := h.CreateCommit(ctx, repo, "", treeSha, githost.InitialCommitMessage)
	if err != nil {
		return fmt.Errorf("failed to create seed commit: %w", err)
	}

	return h.UpdateRef(ctx, repo, branch, commitSha)
}

// PagesBranch returns the configured registry branch.
func (h *Host) PagesBranch(_ context.Context, _ githost.Repository) (string, error) {
	return h.pagesBranch, nil
}

// FileContent reads a file from the tip of branch.
func (h *Host) FileContent(branch, path string) ([]byte, error) {
	ref, err := h.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%w: %s", githost.ErrBranchNotFound, branch)
		}
		return nil, fmt.Errorf("failed to resolve branch %s: %w", branch, err)
	}

	commit, err := object.GetCommit(h.repo.Storer, ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}
	file, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", path, err)
	}
	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	return []byte(content), nil
}

// SnapshotReader exposes the registry documents on a branch of a local
// repository in the same shape a remote TRS endpoint would.
type SnapshotReader struct {
	host   *Host
	branch string
}

// NewSnapshotReader reads registry documents from branch of host.
func NewSnapshotReader(host *Host, branch string) *SnapshotReader {
	return &SnapshotReader{host: host, branch: branch}
}

func (r *SnapshotReader) read(path string, v any) error {
	data, err := r.host.FileContent(r.branch, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// ServiceInfo returns the stored service-info document.
func (r *SnapshotReader) ServiceInfo(_ context.Context) (*trs.ServiceInfo, error) {
	var info trs.ServiceInfo
	if err := r.read("service-info/index.json", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ToolClasses returns the stored tool class list.
func (r *SnapshotReader) ToolClasses(_ context.Context) ([]trs.ToolClass, error) {
	var classes []trs.ToolClass
	if err := r.read("toolClasses/index.json", &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// Tools returns the stored tool list.
func (r *SnapshotReader) Tools(_ context.Context) ([]trs.Tool, error) {
	var tools []trs.Tool
	if err := r.read("tools/index.json", &tools); err != nil {
		return nil, err
	}
	return tools, nil
}
