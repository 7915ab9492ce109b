package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// Delta resolves which files changed relative to a baseline branch, so
// the changed scan level can skip files the current work never touched.
type Delta struct {
	RootDir      string
	TargetBranch string
	Verbose      bool
}

func (d *Delta) logf(format string, args ...any) {
	if d.Verbose {
		fmt.Fprintf(os.Stderr, "delta: "+format+"\n", args...)
	}
}

// ChangedFiles returns the set of paths that differ from the baseline:
// uncommitted edits (staged or not) plus commits not yet on the target
// branch. A nil set means no baseline could be established and the
// caller should scan everything.
func (d *Delta) ChangedFiles(ctx context.Context) (map[string]bool, error) {
	repo, err := git.PlainOpen(d.RootDir)
	if err != nil {
		d.logf("not a git repo, scanning all files")
		return nil, nil
	}

	changed := map[string]bool{}

	if err := d.uncommitted(repo, changed); err != nil {
		d.logf("worktree status failed: %v, scanning all files", err)
		return nil, nil
	}

	if branch := d.baseline(repo); branch != "" {
		if err := d.committedSince(ctx, repo, branch, changed); err != nil {
			d.logf("diff against %s failed: %v, scanning all files", branch, err)
			return nil, nil
		}
	}

	if len(changed) == 0 {
		d.logf("no changes detected")
	}
	return changed, nil
}

// uncommitted adds every path the worktree status reports as modified,
// whether staged or not.
func (d *Delta) uncommitted(repo *git.Repository, into map[string]bool) error {
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	status, err := wt.Status()
	if err != nil {
		return err
	}
	for path, s := range status {
		if s.Worktree != git.Unmodified || s.Staging != git.Unmodified {
			into[path] = true
		}
	}
	return nil
}

// committedSince adds paths touched by commits that are on HEAD but not
// on the named branch. When HEAD is the branch tip itself (a push to the
// default branch), the last commit is compared to its parent instead, so
// that commit's files still get audited.
func (d *Delta) committedSince(ctx context.Context, repo *git.Repository, branch string, into map[string]bool) error {
	headRef, err := repo.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}
	head, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return fmt.Errorf("loading HEAD commit: %w", err)
	}

	base, err := branchCommit(repo, branch)
	if err != nil {
		// Unknown branch is not an error worth failing the scan over.
		return nil
	}
	if base.Hash == head.Hash {
		if head.NumParents() == 0 {
			return nil
		}
		if base, err = head.Parent(0); err != nil {
			return nil
		}
	}

	baseTree, err := base.Tree()
	if err != nil {
		return err
	}
	headTree, err := head.Tree()
	if err != nil {
		return err
	}
	changes, err := object.DiffTreeWithOptions(ctx, baseTree, headTree, &object.DiffTreeOptions{})
	if err != nil {
		return fmt.Errorf("diffing trees: %w", err)
	}

	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			continue
		}
		switch action {
		case merkletrie.Insert, merkletrie.Modify:
			into[change.To.Name] = true
		case merkletrie.Delete:
			into[change.From.Name] = true
		}
	}
	return nil
}

// branchCommit resolves a branch name to its tip commit, trying the
// local ref first and origin second.
func branchCommit(repo *git.Repository, branch string) (*object.Commit, error) {
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		ref, err = repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
		if err != nil {
			return nil, err
		}
	}
	return repo.CommitObject(ref.Hash())
}

// baseline picks the branch to diff against: explicit env var, then the
// configured branch, then what the CI environment advertises, then the
// remote's default branch, then main.
func (d *Delta) baseline(repo *git.Repository) string {
	if branch := os.Getenv("SOUNDCHECK_TARGET_BRANCH"); branch != "" {
		return branch
	}
	if d.TargetBranch != "" {
		return d.TargetBranch
	}
	for _, v := range []string{
		"CI_MERGE_REQUEST_TARGET_BRANCH_NAME", // GitLab CI merge request
		"GITHUB_BASE_REF",                     // GitHub Actions pull request
		"BITBUCKET_PR_DESTINATION_BRANCH",     // Bitbucket
		"CHANGE_TARGET",                       // Jenkins
		"CI_DEFAULT_BRANCH",                   // GitLab CI, outside merge requests
	} {
		if branch := os.Getenv(v); branch != "" {
			return branch
		}
	}

	// origin/HEAD is a symbolic ref to the remote's default branch, so
	// resolve must be off to see the target name instead of a hash.
	if ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", "HEAD"), false); err == nil {
		if name, ok := strings.CutPrefix(ref.Target().String(), "refs/remotes/origin/"); ok {
			return name
		}
	}
	return "main"
}

// FilterByDelta keeps only the files present in the changed set. A nil
// set disables filtering. Paths are compared slash-normalized and with
// any leading ./ stripped, matching how git reports them.
func FilterByDelta(files []FileInfo, changedSet map[string]bool) []FileInfo {
	if changedSet == nil {
		return files
	}
	kept := make([]FileInfo, 0, len(changedSet))
	for _, f := range files {
		p := strings.TrimPrefix(filepath.ToSlash(f.Path), "./")
		if changedSet[p] {
			kept = append(kept, f)
		}
	}
	return kept
}
