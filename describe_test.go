package datever

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDescribe(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		triple    Triple
		revisions uint64
	}{
		{"exact tag", "1.2.3", Triple{1, 2, 3}, 0},
		{"commits since tag", "1.0.0-5-gabc1234", Triple{1, 0, 0}, 5},
		{"large revision count", "0.9.12-1200-g0123abc", Triple{0, 9, 12}, 1200},
		{"unparsable revision segment", "1.2.3-rc1", Triple{1, 2, 3}, 0},
		{"prerelease tag with commits", "1.2.3-rc1-4-gabc1234", Triple{1, 2, 3}, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			triple, revisions, err := ParseDescribe(test.text)
			require.NoError(t, err)
			require.Equal(t, test.triple, triple)
			require.Equal(t, test.revisions, revisions)
		})
	}
}

func TestParseDescribeMalformed(t *testing.T) {
	for _, text := range []string{"v1.2.3", "1.2", "release-1", "", "01.2.3"} {
		t.Run(text, func(t *testing.T) {
			_, _, err := ParseDescribe(text)
			require.Error(t, err)
			require.Equal(t, ErrCodeMalformedVersion, CodeOf(err))
		})
	}
}
