package datever

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const (
	// EpochOffsetSeconds is subtracted from a tag's Unix timestamp before
	// counting days. Day numbering starts on 2000-01-01.
	EpochOffsetSeconds int64 = 946713600

	// SecondsPerDay is the length of one counted day.
	SecondsPerDay int64 = 86400
)

const (
	max16 = 1 << 16
	max8  = 1 << 8
)

// Calculate describes the repository, resolves the nearest tag's creation
// date and composes the version selected by opts.
func Calculate(opts Options) (*Version, error) {
	if opts.Repository == nil {
		return nil, New(ErrCodeInvalidOptions, "repository is required")
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	described, err := Describe(opts.Repository)
	if err != nil {
		return nil, err
	}

	triple, revisions, err := ParseDescribe(described.Text)
	if err != nil {
		return nil, err
	}

	epoch, err := TagTimestamp(opts.Repository, triple)
	if err != nil {
		return nil, err
	}

	return Compose(DescribeResult{
		Triple:          triple,
		Revisions:       revisions,
		TagEpochSeconds: epoch,
	}, opts)
}

// Validate rejects option combinations without a defined meaning.
func (o Options) Validate() error {
	if o.Date && o.DateSplit {
		return New(ErrCodeInvalidOptions, "--date and --date-split cannot be used together")
	}
	return nil
}

// DaysSinceEpoch returns whole days between EpochOffsetSeconds and the given
// Unix timestamp, truncated toward zero.
func DaysSinceEpoch(epochSeconds int64) int64 {
	return (epochSeconds - EpochOffsetSeconds) / SecondsPerDay
}

// Compose applies the output modes in opts to a describe result and checks
// that every component fits the active width.
func Compose(res DescribeResult, opts Options) (*Version, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	days := DaysSinceEpoch(res.TagEpochSeconds)
	if days <= 0 {
		return nil, NewWithContext(ErrCodeDateUnderflow,
			fmt.Sprintf("tag was created before 2000.01.01, cannot count days: %d", days),
			map[string]any{"days": days, "epoch": res.TagEpochSeconds})
	}

	v := &Version{
		Major:     res.Triple.Major,
		Minor:     res.Triple.Minor,
		Patch:     res.Triple.Patch,
		Revisions: res.Revisions,
		Days:      days,
		opts:      opts,
	}

	switch {
	case opts.Date:
		v.Minor = uint64(days)
		v.Patch = 0
	case opts.DateSplit:
		if days >= max16 {
			return nil, NewWithContext(ErrCodeDateOverflow,
				fmt.Sprintf("number of days since 2000.01.01 cannot fit in u16. It's been a long time!: %d", days),
				map[string]any{"days": days})
		}
		v.Minor = (uint64(days) >> 8) & 0xff
		v.Patch = uint64(days) & 0xff
	}

	if !v.fits(max16) {
		return nil, NewWithContext(ErrCodeComponentOverflow16,
			fmt.Sprintf("cannot version component into a u16: %s", v.components()),
			map[string]any{"version": v.components()})
	}

	if opts.EnforceU8 && !v.fits(max8) {
		return nil, NewWithContext(ErrCodeComponentOverflow8,
			fmt.Sprintf("cannot version component into a u8: %s", v.components()),
			map[string]any{"version": v.components()})
	}

	slog.Debug("composed version", "days", days, "version", v.String())

	return v, nil
}

// fits reports whether the components stay within limit. Revisions may equal
// limit while the others must stay below it.
func (v *Version) fits(limit uint64) bool {
	if v.Major >= limit || v.Minor >= limit || v.Patch >= limit {
		return false
	}
	return !(v.showingRevisions() && v.Revisions > limit)
}

func (v *Version) showingRevisions() bool {
	return v.opts.Revisions || v.opts.RevisionsPrerelease
}

func (v *Version) components() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Revisions)
}

// String renders the version, leaving out dropped components.
func (v *Version) String() string {
	var b strings.Builder

	printed := false
	emit := func(n uint64) {
		if printed {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(n, 10))
		printed = true
	}

	if !v.opts.DropMajor {
		emit(v.Major)
	}
	if !v.opts.DropMinor {
		emit(v.Minor)
	}
	if !v.opts.DropPatch {
		emit(v.Patch)
	}

	if v.showingRevisions() {
		if v.opts.Revisions {
			b.WriteByte('.')
		} else {
			b.WriteByte('-')
		}
		b.WriteString(strconv.FormatUint(v.Revisions, 10))
	}

	return b.String()
}
