package version

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// GitHubAPI is the default API root for release lookups.
const GitHubAPI = "https://api.github.com"

// UpdateInfo contains information about available updates.
type UpdateInfo struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

type githubTag struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
}

// CheckForUpdate asks GitHub for the latest release, falling back to the
// newest tag for repositories without releases. apiBase is normally
// GitHubAPI.
func CheckForUpdate(ctx context.Context, apiBase string) (UpdateInfo, error) {
	info := UpdateInfo{CurrentVersion: Version, LatestVersion: Version}
	client := resty.New().
		SetBaseURL(strings.TrimRight(apiBase, "/")).
		SetTimeout(5*time.Second).
		SetHeader("Accept", "application/vnd.github+json")

	var release githubTag
	resp, err := client.R().
		SetContext(ctx).
		SetResult(&release).
		Get("/repos/" + Repository + "/releases/latest")
	if err != nil {
		return info, fmt.Errorf("failed to check for updates: %w", err)
	}

	latest := release.TagName
	if resp.StatusCode() == http.StatusNotFound {
		var tags []githubTag
		resp, err = client.R().
			SetContext(ctx).
			SetResult(&tags).
			Get("/repos/" + Repository + "/tags")
		if err != nil {
			return info, fmt.Errorf("failed to check for updates: %w", err)
		}
		if !resp.IsSuccess() {
			return info, fmt.Errorf("failed to check for updates: status %d", resp.StatusCode())
		}
		// Tags are returned newest first
		if len(tags) > 0 {
			latest = tags[0].Name
		}
	} else if !resp.IsSuccess() {
		return info, fmt.Errorf("failed to check for updates: status %d", resp.StatusCode())
	}

	if latest != "" {
		info.LatestVersion = strings.TrimPrefix(latest, "v")
	}
	info.UpdateAvailable = isNewerVersion(info.LatestVersion, info.CurrentVersion)
	return info, nil
}

// isNewerVersion compares dotted numeric versions part by part.
func isNewerVersion(latest, current string) bool {
	lp := strings.Split(latest, ".")
	cp := strings.Split(current, ".")

	for i := 0; i < len(lp) && i < len(cp); i++ {
		l, _ := strconv.Atoi(lp[i])
		c, _ := strconv.Atoi(cp[i])
		if l != c {
			return l > c
		}
	}
	return len(lp) > len(cp)
}

// InstallCommand returns the command to update the application.
func InstallCommand() string {
	return "go install github.com/" + Repository + "/cmd/nyaa@latest"
}
