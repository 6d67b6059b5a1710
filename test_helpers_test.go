package datever

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

// testDay returns the instant the given number of days after the day-count epoch.
func testDay(days int64) time.Time {
	return time.Unix(EpochOffsetSeconds+days*SecondsPerDay, 0).UTC()
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testRepoFSCreate creates a new filesystem-based git repository for testing
func testRepoFSCreate(path string) (*git.Repository, error) {
	dotGit := osfs.New(filepath.Join(path, git.GitDirName))
	storage := filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault())
	return git.Init(storage, osfs.New(path))
}

// testRepoCommit writes a uniquely named file and commits it
func testRepoCommit(repo *git.Repository, name string) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	filename := name + ".txt"
	if err := writeFile(workTree.Filesystem, filename, "Content for "+name); err != nil {
		return plumbing.ZeroHash, err
	}

	if _, err := workTree.Add(filename); err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit("Commit "+name, &git.CommitOptions{Author: testSignature})
}

// testRepoAnnotatedTag creates an annotated tag whose tagger time is when
func testRepoAnnotatedTag(repo *git.Repository, name string, hash plumbing.Hash, when time.Time) error {
	_, err := repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "tagger",
			Email: "tagger@example.com",
			When:  when,
		},
		Message: "Release " + name,
	})
	return err
}

// testRepoTagged creates a repository with one annotated tag and the given
// number of commits on top of it
func testRepoTagged(tag string, when time.Time, commitsAfter int) (*git.Repository, error) {
	repo, err := testRepoCreate()
	if err != nil {
		return nil, err
	}

	hash, err := testRepoCommit(repo, "release")
	if err != nil {
		return nil, err
	}

	if err := testRepoAnnotatedTag(repo, tag, hash, when); err != nil {
		return nil, err
	}

	for i := 0; i < commitsAfter; i++ {
		if _, err := testRepoCommit(repo, fmt.Sprintf("post-release-%d", i)); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

// testRepoLightweight creates a repository whose only tag is lightweight
func testRepoLightweight(tag string) (*git.Repository, error) {
	repo, err := testRepoCreate()
	if err != nil {
		return nil, err
	}

	hash, err := testRepoCommit(repo, "release")
	if err != nil {
		return nil, err
	}

	if _, err := repo.CreateTag(tag, hash, nil); err != nil {
		return nil, err
	}

	return repo, nil
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}
