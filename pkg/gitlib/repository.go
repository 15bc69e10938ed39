package gitlib

import (
	"errors"
	"fmt"
	"unicode/utf8"

	git2go "github.com/libgit2/git2go/v34"
)

// UserEmailKey is the git configuration key holding the committer's email.
const UserEmailKey = "user.email"

// Sentinel errors for repository access.
var (
	ErrRepositoryNotFound  = errors.New("no git repository found")
	ErrConfigKeyNotFound   = errors.New("git config key not set")
	ErrInvalidConfigString = errors.New("git config value is not valid UTF-8")
)

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Discover opens the repository containing start, searching parent
// directories the way git itself does.
func Discover(start string) (*Repository, error) {
	path, err := git2go.Discover(start, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w from %s: %w", ErrRepositoryNotFound, start, err)
	}

	return OpenRepository(path)
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// ConfigString reads a string value from the repository's layered
// configuration (repository, global and system files).
func (r *Repository) ConfigString(key string) (string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	defer cfg.Free()

	value, err := cfg.LookupString(key)
	if err != nil {
		if git2go.IsErrorCode(err, git2go.ErrorCodeNotFound) {
			return "", fmt.Errorf("%w: %s", ErrConfigKeyNotFound, key)
		}

		return "", fmt.Errorf("lookup %s: %w", key, err)
	}

	if !utf8.ValidString(value) {
		return "", fmt.Errorf("%w: %s", ErrInvalidConfigString, key)
	}

	return value, nil
}

// UserEmail returns the configured user.email.
func (r *Repository) UserEmail() (string, error) {
	return r.ConfigString(UserEmailKey)
}

// Log returns a commit iterator starting from HEAD, newest commit time first.
func (r *Repository) Log() (*CommitIter, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	headRef, err := r.repo.Head()
	if err != nil {
		walk.Free()

		return nil, fmt.Errorf("get HEAD: %w", err)
	}
	defer headRef.Free()

	err = walk.Push(headRef.Target())
	if err != nil {
		walk.Free()

		return nil, fmt.Errorf("push HEAD to revwalk: %w", err)
	}

	// Time order only: the calendar stops at the first commit older than its
	// window, so the walk must never surface an older commit early.
	walk.Sorting(git2go.SortTime)

	return &CommitIter{walk: walk, repo: r}, nil
}
