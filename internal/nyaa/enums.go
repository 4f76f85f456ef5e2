package nyaa

import (
	"fmt"
	"strings"
)

// TorrentType is the moderation colour a torrent is listed with.
type TorrentType string

const (
	TorrentNormal  TorrentType = "normal"
	TorrentTrusted TorrentType = "trusted"
	TorrentRemake  TorrentType = "remake"
)

// TorrentTypeFromColor maps the bootstrap colour class of a listing row or
// detail panel to a TorrentType.
func TorrentTypeFromColor(color string) (TorrentType, error) {
	switch color {
	case "default":
		return TorrentNormal, nil
	case "success":
		return TorrentTrusted, nil
	case "danger":
		return TorrentRemake, nil
	}
	return "", fmt.Errorf("%w: color %q", ErrUnrecognizedTorrentType, color)
}

// UserLevel is the role shown in a user link's tooltip. The zero value
// means the page did not say.
type UserLevel string

const (
	UserRegular       UserLevel = "User"
	UserTrusted       UserLevel = "Trusted"
	UserModerator     UserLevel = "Moderator"
	UserAdministrator UserLevel = "Administrator"
)

// ParseUserLevel matches a single level keyword, ignoring case.
func ParseUserLevel(word string) (UserLevel, error) {
	switch strings.ToLower(word) {
	case "user":
		return UserRegular, nil
	case "trusted":
		return UserTrusted, nil
	case "moderator":
		return UserModerator, nil
	case "administrator":
		return UserAdministrator, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedUserLevel, word)
}

// QualityFilter is the upstream "f" parameter.
type QualityFilter int

const (
	NoFilter QualityFilter = iota
	NoRemakes
	TrustedOnly
)

func (f QualityFilter) String() string {
	switch f {
	case NoFilter:
		return "no-filter"
	case NoRemakes:
		return "no-remakes"
	case TrustedOnly:
		return "trusted-only"
	}
	return fmt.Sprintf("filter(%d)", int(f))
}

// ParseQualityFilter accepts the names returned by String or the numeric
// upstream value.
func ParseQualityFilter(s string) (QualityFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "none", "no-filter":
		return NoFilter, nil
	case "1", "no-remakes":
		return NoRemakes, nil
	case "2", "trusted", "trusted-only":
		return TrustedOnly, nil
	}
	return NoFilter, fmt.Errorf("unknown quality filter %q", s)
}

// SortBy is the upstream "s" parameter.
type SortBy string

const (
	SortByComments  SortBy = "comments"
	SortBySize      SortBy = "size"
	SortByDate      SortBy = "id"
	SortBySeeders   SortBy = "seeders"
	SortByLeechers  SortBy = "leechers"
	SortByDownloads SortBy = "downloads"
)

// ParseSortBy accepts the upstream key or "date".
func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return "", nil
	case "date":
		return SortByDate, nil
	case SortByComments, SortBySize, SortByDate, SortBySeeders, SortByLeechers, SortByDownloads:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// SortOrder is the upstream "o" parameter.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder accepts "asc" or "desc"; empty means upstream default.
func ParseSortOrder(s string) (SortOrder, error) {
	switch v := SortOrder(strings.ToLower(strings.TrimSpace(s))); v {
	case "", Ascending, Descending:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}
