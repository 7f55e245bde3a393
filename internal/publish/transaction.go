package publish

import (
	"context"
	"fmt"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/registry"
)

// Step names one host interaction of the publish transaction. A failed
// publish carries the step it died in, so a branch bootstrap problem reads
// differently from a rejected ref update.
type Step string

// Transaction steps, in execution order.
const (
	StepEnsureBranch Step = "ensure-branch"
	StepReadTip      Step = "read-branch-tip"
	StepCreateTree   Step = "create-tree"
	StepCreateCommit Step = "create-commit"
	StepUpdateRef    Step = "update-ref"
)

// Error is a publish failure annotated with the transaction step that
// produced it.
type Error struct {
	Step Step
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish failed at step %s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stepErr(step Step, err error) error {
	return &Error{Step: step, Err: err}
}

// State is the progress of a publish transaction.
type State int

// Transaction states. A transaction only ever moves forward; RefUpdated is
// terminal.
const (
	StateNoBranch State = iota
	StateBranchReady
	StateTreeBuilt
	StateCommitCreated
	StateRefUpdated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNoBranch:
		return "NoBranch"
	case StateBranchReady:
		return "BranchReady"
	case StateTreeBuilt:
		return "TreeBuilt"
	case StateCommitCreated:
		return "CommitCreated"
	case StateRefUpdated:
		return "RefUpdated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Transaction commits one document tree to a branch as a single commit. It
// advances NoBranch -> BranchReady -> TreeBuilt -> CommitCreated ->
// RefUpdated, stopping at the first host failure. Nothing is rolled back on
// failure: every object written along the way is content-addressed, so
// re-running the whole transaction converges to the same state, and a
// half-created branch is simply reused by the retry.
type Transaction struct {
	host   githost.Host
	repo   githost.Repository
	branch string

	state     State
	tipCommit string
	treeSha   string
	commitSha string
}

// NewTransaction prepares a transaction targeting branch of repo.
func NewTransaction(host githost.Host, repo githost.Repository, branch string) *Transaction {
	return &Transaction{
		host:   host,
		repo:   repo,
		branch: branch,
		state:  StateNoBranch,
	}
}

// State returns the last state the transaction reached.
func (t *Transaction) State() State {
	return t.state
}

// CommitSha returns the sha of the created commit. It is empty until the
// transaction has passed CommitCreated.
func (t *Transaction) CommitSha() string {
	return t.commitSha
}

// Run executes the transaction: make sure the branch exists, layer the
// document tree over its tip, commit, and move the ref. It returns the sha
// of the new commit.
func (t *Transaction) Run(ctx context.Context, tree registry.DocumentTree, message string) (string, error) {
	if err := t.ensureBranch(ctx); err != nil {
		return "", err
	}
	if err := t.buildTree(ctx, tree); err != nil {
		return "", err
	}
	if err := t.createCommit(ctx, message); err != nil {
		return "", err
	}
	if err := t.updateRef(ctx); err != nil {
		return "", err
	}
	return t.commitSha, nil
}

// ensureBranch moves NoBranch -> BranchReady, creating the branch from a
// seed commit when it does not exist yet.
func (t *Transaction) ensureBranch(ctx context.Context) error {
	exists, err := t.host.BranchExists(ctx, t.repo, t.branch)
	if err != nil {
		return stepErr(StepEnsureBranch, err)
	}
	if !exists {
		logger.Infof("Branch %s does not exist on %s, creating it", t.branch, t.repo)
		if err := t.host.CreateEmptyBranch(ctx, t.repo, t.branch); err != nil {
			return stepErr(StepEnsureBranch, err)
		}
	}
	t.state = StateBranchReady
	return nil
}

// buildTree moves BranchReady -> TreeBuilt. The new tree is layered on the
// tip tree, so files the publish does not touch survive on the branch.
func (t *Transaction) buildTree(ctx context.Context, tree registry.DocumentTree) error {
	tipCommit, err := t.host.GetBranchTipCommitSha(ctx, t.repo, t.branch)
	if err != nil {
		return stepErr(StepReadTip, err)
	}
	tipTree, err := t.host.GetTreeShaOfCommit(ctx, t.repo, tipCommit)
	if err != nil {
		return stepErr(StepReadTip, err)
	}
	t.tipCommit = tipCommit

	treeSha, err := t.host.CreateTree(ctx, t.repo, tipTree, tree)
	if err != nil {
		return stepErr(StepCreateTree, err)
	}
	t.treeSha = treeSha
	t.state = StateTreeBuilt
	return nil
}

// createCommit moves TreeBuilt -> CommitCreated.
func (t *Transaction) createCommit(ctx context.Context, message string) error {
	sha, err := t.host.CreateCommit(ctx, t.repo, t.tipCommit, t.treeSha, message)
	if err != nil {
		return stepErr(StepCreateCommit, err)
	}
	t.commitSha = sha
	t.state = StateCommitCreated
	return nil
}

// updateRef moves CommitCreated -> RefUpdated. The update is unconditional;
// concurrent publishes to the same branch are not detected, so callers
// serialize publishes externally.
func (t *Transaction) updateRef(ctx context.Context) error {
	if err := t.host.UpdateRef(ctx, t.repo, t.branch, t.commitSha); err != nil {
		return stepErr(StepUpdateRef, err)
	}
	t.state = StateRefUpdated
	return nil
}
