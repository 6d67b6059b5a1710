// Package datever derives bounded, numeric version strings from the most
// recent annotated tag of a git repository, optionally re-encoding components
// with a calendar-day count and a commit-revision count.
package datever

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Triple is the numeric major.minor.patch parsed from a tag name.
type Triple struct {
	Major uint64 `json:"major" yaml:"major"`
	Minor uint64 `json:"minor" yaml:"minor"`
	Patch uint64 `json:"patch" yaml:"patch"`
}

// DescribeOutput is what Describe finds when walking back from HEAD.
type DescribeOutput struct {
	// Text is formatted like `git describe --tags`: TAG or TAG-REV-gHASH.
	Text string

	// Tag is the short name of the nearest tag
	Tag string

	// Revisions is the number of commits since Tag
	Revisions uint64

	// Hash is the commit HEAD resolves to
	Hash plumbing.Hash
}

// DescribeResult is everything the composer needs from the repository.
type DescribeResult struct {
	Triple    Triple
	Revisions uint64

	// TagEpochSeconds is the tagger timestamp of the tag object, not of the
	// commit it points to.
	TagEpochSeconds int64
}

// Options selects the output modes. All switches compose, except Date and
// DateSplit which both rewrite minor and patch.
type Options struct {
	// Repository is the Git repository to analyze; only Calculate needs it
	Repository *git.Repository

	// Date sets minor to days since the epoch and patch to 0
	Date bool

	// DateSplit packs days since the epoch into minor (high byte) and patch (low byte)
	DateSplit bool

	// Revisions appends .<revisions>
	Revisions bool

	// RevisionsPrerelease appends -<revisions>; Revisions wins if both are set
	RevisionsPrerelease bool

	DropMajor bool
	DropMinor bool
	DropPatch bool

	// EnforceU8 additionally requires every component to fit in 8 bits
	EnforceU8 bool
}

// Version is a composed version ready for rendering.
type Version struct {
	Major     uint64 `json:"major" yaml:"major"`
	Minor     uint64 `json:"minor" yaml:"minor"`
	Patch     uint64 `json:"patch" yaml:"patch"`
	Revisions uint64 `json:"revisions" yaml:"revisions"`
	Days      int64  `json:"days" yaml:"days"`

	opts Options
}
