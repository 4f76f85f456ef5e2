package nyaa

import (
	"fmt"
	"strings"
)

// AllCategoriesID selects every category on either site.
const AllCategoriesID = "0_0"

// Category is one entry of a site's category table. ID has the form
// "<major>_<minor>"; the same ID means different things on each site.
type Category struct {
	Site  Site   `json:"site"`
	ID    string `json:"id"`
	Key   string `json:"key"`
	Title string `json:"title"`
}

func (c Category) String() string {
	return c.Title
}

// IsZero reports whether c is the zero Category.
func (c Category) IsZero() bool {
	return c.ID == ""
}

var funCategories = []Category{
	{SiteFun, "0_0", "all", "All Categories"},

	{SiteFun, "1_0", "anime", "Anime"},
	{SiteFun, "1_1", "anime-amv", "Anime - Anime Music Video"},
	{SiteFun, "1_2", "anime-english", "Anime - English-Translated"},
	{SiteFun, "1_3", "anime-non-english", "Anime - Non-English-Translated"},
	{SiteFun, "1_4", "anime-raw", "Anime - Raw"},

	{SiteFun, "2_0", "audio", "Audio"},
	{SiteFun, "2_1", "audio-lossless", "Audio - Lossless"},
	{SiteFun, "2_2", "audio-lossy", "Audio - Lossy"},

	{SiteFun, "3_0", "literature", "Literature"},
	{SiteFun, "3_1", "literature-english", "Literature - English-Translated"},
	{SiteFun, "3_2", "literature-non-english", "Literature - Non-English-Translated"},
	{SiteFun, "3_3", "literature-raw", "Literature - Raw"},

	{SiteFun, "4_0", "live-action", "Live Action"},
	{SiteFun, "4_1", "live-action-english", "Live Action - English-Translated"},
	{SiteFun, "4_2", "live-action-idol", "Live Action - Idol/Promotional Video"},
	{SiteFun, "4_3", "live-action-non-english", "Live Action - Non-English-Translated"},
	{SiteFun, "4_4", "live-action-raw", "Live Action - Raw"},

	{SiteFun, "5_0", "pictures", "Pictures"},
	{SiteFun, "5_1", "pictures-graphics", "Pictures - Graphics"},
	{SiteFun, "5_2", "pictures-photos", "Pictures - Photos"},

	{SiteFun, "6_0", "software", "Software"},
	{SiteFun, "6_1", "software-apps", "Software - Applications"},
	{SiteFun, "6_2", "software-games", "Software - Games"},
}

var fapCategories = []Category{
	{SiteFap, "0_0", "all", "All Categories"},

	{SiteFap, "1_0", "art", "Art"},
	{SiteFap, "1_1", "art-anime", "Art - Anime"},
	{SiteFap, "1_2", "art-doujinshi", "Art - Doujinshi"},
	{SiteFap, "1_3", "art-games", "Art - Games"},
	{SiteFap, "1_4", "art-manga", "Art - Manga"},
	{SiteFap, "1_5", "art-pictures", "Art - Pictures"},

	{SiteFap, "2_0", "real-life", "Real Life"},
	{SiteFap, "2_1", "real-life-pictures", "Real Life - Photobooks And Pictures"},
	{SiteFap, "2_2", "real-life-videos", "Real Life - Videos"},
}

func categoryTable(site Site) ([]Category, error) {
	switch site {
	case SiteFun:
		return funCategories, nil
	case SiteFap:
		return fapCategories, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSite, site)
}

// LookupCategory returns the category with the given "<major>_<minor>" id.
func LookupCategory(site Site, id string) (Category, error) {
	table, err := categoryTable(site)
	if err != nil {
		return Category{}, err
	}
	for _, c := range table {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q on %s", ErrCategoryNotFound, id, site)
}

// LookupCategoryTitle returns the display title for id.
func LookupCategoryTitle(site Site, id string) (string, error) {
	c, err := LookupCategory(site, id)
	if err != nil {
		return "", err
	}
	return c.Title, nil
}

// LookupCategoryByKey resolves a short key such as "anime-raw". A raw
// "<major>_<minor>" id is accepted too.
func LookupCategoryByKey(site Site, key string) (Category, error) {
	table, err := categoryTable(site)
	if err != nil {
		return Category{}, err
	}
	key = strings.ToLower(strings.TrimSpace(key))
	for _, c := range table {
		if c.Key == key || c.ID == key {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q on %s", ErrCategoryNotFound, key, site)
}

// Categories returns a copy of the site's table in upstream order.
func Categories(site Site) []Category {
	table, err := categoryTable(site)
	if err != nil {
		return nil
	}
	out := make([]Category, len(table))
	copy(out, table)
	return out
}

// AllCategories returns the "0_0" entry of site.
func AllCategories(site Site) (Category, error) {
	return LookupCategory(site, AllCategoriesID)
}
