// Package datever derives bounded, numeric version strings from git tags.
//
// This file contains code adapted from pulumictl (https://github.com/pulumi/pulumictl)
// which is licensed under the Apache License 2.0. See NOTICE file for full attribution.
package datever

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// MissingTaggerMessage is reported when the nearest tag carries no tagger.
const MissingTaggerMessage = "No author information in last tag. Cannot pull date."

// OpenRepository opens a Git repository at the specified path
func OpenRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, Wrap(ErrCodeRepositoryOpenFailed, "failed to open git repo", err)
	}
	return repo, nil
}

type tagCandidate struct {
	name      string
	annotated bool
	when      time.Time
}

// Describe locates HEAD relative to the closest reachable annotated tag. Only
// when no annotated tag is reachable does it fall back to the closest
// lightweight tag, which TagTimestamp then rejects because it carries no date.
func Describe(repo *git.Repository) (*DescribeOutput, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, Wrap(ErrCodeDescribeFailed, "failed to describe git repo", err)
	}

	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, Wrap(ErrCodeDescribeFailed, "failed to describe git repo", err)
	}

	tags, err := tagsByCommit(repo)
	if err != nil {
		return nil, Wrap(ErrCodeDescribeFailed, "listing tags", err)
	}

	tagged, tag, err := nearestTag(repo, headCommit, tags, true)
	if err == nil && tagged == nil {
		tagged, tag, err = nearestTag(repo, headCommit, tags, false)
	}
	if err != nil {
		return nil, Wrap(ErrCodeDescribeFailed, "walking history", err)
	}
	if tagged == nil {
		return nil, New(ErrCodeDescribeFailed, "failed to describe git repo: no tags can describe "+head.Hash().String())
	}

	revisions, err := revisionsSince(headCommit, tagged)
	if err != nil {
		return nil, Wrap(ErrCodeDescribeFailed, "counting revisions", err)
	}

	text := tag
	if revisions > 0 {
		text = fmt.Sprintf("%s-%d-g%s", tag, revisions, head.Hash().String()[:7])
	}

	slog.Debug("described repository", "describe", text, "tag", tag, "revisions", revisions)

	return &DescribeOutput{
		Text:      text,
		Tag:       tag,
		Revisions: revisions,
		Hash:      head.Hash(),
	}, nil
}

// tagsByCommit maps each tagged commit to the tags that point at it.
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash][]tagCandidate, error) {
	refs, err := repo.Tags()
	if err != nil {
		return nil, err
	}

	tags := make(map[plumbing.Hash][]tagCandidate)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()

		obj, err := repo.TagObject(ref.Hash())
		switch {
		case err == nil:
			commit, err := obj.Commit()
			if err != nil {
				// tags of trees or blobs cannot describe a commit
				return nil
			}
			tags[commit.Hash] = append(tags[commit.Hash], tagCandidate{
				name:      name,
				annotated: true,
				when:      obj.Tagger.When,
			})
		case errors.Is(err, plumbing.ErrObjectNotFound):
			tags[ref.Hash()] = append(tags[ref.Hash()], tagCandidate{name: name})
		default:
			return err
		}
		return nil
	})
	return tags, err
}

// nearestTag walks breadth-first from start and returns the first tagged
// commit together with its preferred tag name. With annotatedOnly set,
// lightweight tags are ignored.
func nearestTag(repo *git.Repository, start *object.Commit,
	tags map[plumbing.Hash][]tagCandidate, annotatedOnly bool) (*object.Commit, string, error) {

	seen := map[plumbing.Hash]bool{start.Hash: true}
	queue := []*object.Commit{start}

	for len(queue) > 0 {
		commit := queue[0]
		queue = queue[1:]

		if candidates := eligible(tags[commit.Hash], annotatedOnly); len(candidates) > 0 {
			return commit, preferredTag(candidates), nil
		}

		for _, parent := range commit.ParentHashes {
			if seen[parent] {
				continue
			}
			seen[parent] = true

			p, err := repo.CommitObject(parent)
			if err != nil {
				return nil, "", fmt.Errorf("getting commit object: %w", err)
			}
			queue = append(queue, p)
		}
	}

	return nil, "", nil
}

func eligible(candidates []tagCandidate, annotatedOnly bool) []tagCandidate {
	if !annotatedOnly {
		return candidates
	}
	var annotated []tagCandidate
	for _, c := range candidates {
		if c.annotated {
			annotated = append(annotated, c)
		}
	}
	return annotated
}

// preferredTag picks annotated over lightweight, then the newest tagger date,
// then the greatest name.
func preferredTag(candidates []tagCandidate) string {
	sorted := append([]tagCandidate(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].annotated != sorted[j].annotated {
			return sorted[i].annotated
		}
		if !sorted[i].when.Equal(sorted[j].when) {
			return sorted[i].when.After(sorted[j].when)
		}
		return sorted[i].name > sorted[j].name
	})
	return sorted[0].name
}

// revisionsSince counts commits reachable from head but not from tagged.
func revisionsSince(head, tagged *object.Commit) (uint64, error) {
	reachable := make(map[plumbing.Hash]bool)
	err := object.NewCommitPreorderIter(tagged, nil, nil).ForEach(func(c *object.Commit) error {
		reachable[c.Hash] = true
		return nil
	})
	if err != nil {
		return 0, err
	}

	var count uint64
	err = object.NewCommitPreorderIter(head, reachable, nil).ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	return count, err
}

// TagTimestamp resolves refs/tags/{major}.{minor}.{patch} to its tag object
// and returns the tagger's timestamp in seconds since the Unix epoch.
func TagTimestamp(repo *git.Repository, triple Triple) (int64, error) {
	name := plumbing.NewTagReferenceName(fmt.Sprintf("%d.%d.%d", triple.Major, triple.Minor, triple.Patch))

	ref, err := repo.Reference(name, true)
	if err != nil {
		return 0, Wrap(ErrCodeReferenceNotFound, fmt.Sprintf("failed to find reference %s", name), err)
	}

	tag, err := repo.TagObject(ref.Hash())
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return 0, NewWithContext(ErrCodeMissingTaggerIdentity, MissingTaggerMessage,
			map[string]any{"ref": name.String()})
	}
	if err != nil {
		return 0, Wrap(ErrCodeReferenceNotFound, fmt.Sprintf("failed to find tag %s", name), err)
	}

	if tag.Tagger.Name == "" && tag.Tagger.Email == "" && tag.Tagger.When.IsZero() {
		return 0, NewWithContext(ErrCodeMissingTaggerIdentity, MissingTaggerMessage,
			map[string]any{"ref": name.String()})
	}

	slog.Debug("resolved tag", "ref", name.String(), "tagger", tag.Tagger.Name, "when", tag.Tagger.When.UTC())

	return tag.Tagger.When.Unix(), nil
}
