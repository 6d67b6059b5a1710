package datever

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/blang/semver"
)

// ParseDescribe interprets describe text of the form TAG[-REV-gHASH]. The tag
// must be a strict major.minor.patch. The revision count is taken from the
// second dash-separated segment whenever the text carries a prerelease part.
//
// An unparsable revision segment yields zero revisions rather than an error.
// Tags such as 1.2.3-rc1 therefore describe as zero revisions and are later
// rejected when refs/tags/1.2.3 cannot be found.
func ParseDescribe(text string) (Triple, uint64, error) {
	version, err := semver.Parse(text)
	if err != nil {
		return Triple{}, 0, NewWithContext(ErrCodeMalformedVersion,
			fmt.Sprintf("tag is not a major.minor.patch version: %q: %v", text, err),
			map[string]any{"describe": text})
	}

	triple := Triple{
		Major: version.Major,
		Minor: version.Minor,
		Patch: version.Patch,
	}

	var revisions uint64
	if len(version.Pre) > 0 {
		chunks := strings.Split(text, "-")
		if len(chunks) > 1 {
			n, err := strconv.ParseUint(chunks[1], 10, 64)
			if err != nil {
				slog.Debug("ignoring unparsable revision count", "describe", text, "segment", chunks[1])
			} else {
				revisions = n
			}
		}
	}

	return triple, revisions, nil
}
