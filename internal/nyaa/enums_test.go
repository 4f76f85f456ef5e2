package nyaa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTorrentTypeFromColor(t *testing.T) {
	for color, want := range map[string]TorrentType{
		"default": TorrentNormal,
		"success": TorrentTrusted,
		"danger":  TorrentRemake,
	} {
		got, err := TorrentTypeFromColor(color)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, color := range []string{"warning", "", "Success"} {
		_, err := TorrentTypeFromColor(color)
		assert.ErrorIs(t, err, ErrUnrecognizedTorrentType, color)
	}
}

func TestParseUserLevel(t *testing.T) {
	for word, want := range map[string]UserLevel{
		"User":          UserRegular,
		"trusted":       UserTrusted,
		"MODERATOR":     UserModerator,
		"Administrator": UserAdministrator,
	} {
		got, err := ParseUserLevel(word)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseUserLevel("Uploader")
	assert.ErrorIs(t, err, ErrUnrecognizedUserLevel)
}

func TestParseUserBadge(t *testing.T) {
	tests := []struct {
		title  string
		level  UserLevel
		banned bool
	}{
		{"", "", false},
		{"Trusted", UserTrusted, false},
		{"User BANNED", UserRegular, true},
		{"BANNED Moderator", UserModerator, true},
		{"BANNED", "", true},
	}
	for _, tc := range tests {
		level, banned, err := parseUserBadge(tc.title)
		require.NoError(t, err, tc.title)
		assert.Equal(t, tc.level, level, tc.title)
		assert.Equal(t, tc.banned, banned, tc.title)
	}

	_, _, err := parseUserBadge("Wizard")
	assert.ErrorIs(t, err, ErrUnrecognizedUserLevel)
}

func TestParseQueryEnums(t *testing.T) {
	f, err := ParseQualityFilter("trusted-only")
	require.NoError(t, err)
	assert.Equal(t, TrustedOnly, f)
	f, err = ParseQualityFilter("1")
	require.NoError(t, err)
	assert.Equal(t, NoRemakes, f)
	_, err = ParseQualityFilter("best")
	assert.Error(t, err)

	s, err := ParseSortBy("date")
	require.NoError(t, err)
	assert.Equal(t, SortByDate, s)
	s, err = ParseSortBy("Seeders")
	require.NoError(t, err)
	assert.Equal(t, SortBySeeders, s)
	_, err = ParseSortBy("name")
	assert.Error(t, err)

	o, err := ParseSortOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, o)
	_, err = ParseSortOrder("up")
	assert.Error(t, err)
}
