package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"
)

// fixtureRepo is a throwaway libgit2 repository for end-to-end runs.
type fixtureRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
}

func newFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &fixtureRepo{t: t, path: dir, native: repo}
}

func (fr *fixtureRepo) setConfig(key, value string) {
	fr.t.Helper()

	cfg, err := fr.native.Config()
	require.NoError(fr.t, err)

	defer cfg.Free()

	require.NoError(fr.t, cfg.SetString(key, value))
}

func (fr *fixtureRepo) commit(email string, when time.Time) {
	fr.t.Helper()

	require.NoError(fr.t, os.WriteFile(filepath.Join(fr.path, "log.txt"), []byte(when.String()), 0o644))

	index, err := fr.native.Index()
	require.NoError(fr.t, err)

	defer index.Free()

	require.NoError(fr.t, index.AddByPath("log.txt"))
	require.NoError(fr.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(fr.t, err)

	tree, err := fr.native.LookupTree(treeID)
	require.NoError(fr.t, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: "Test User", Email: email, When: when}

	var parents []*git2go.Commit

	if head, headErr := fr.native.Head(); headErr == nil {
		parent, lookupErr := fr.native.LookupCommit(head.Target())
		require.NoError(fr.t, lookupErr)

		parents = append(parents, parent)

		head.Free()
	}

	_, err = fr.native.CreateCommit("HEAD", sig, sig, "change", tree, parents...)
	require.NoError(fr.t, err)

	for _, parent := range parents {
		parent.Free()
	}
}

// writeConfig writes a gitcal config file so runs never pick up the
// developer's own ~/.gitcal.yaml.
func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gitcal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}
