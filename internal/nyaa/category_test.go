package nyaa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCategoryEveryTableEntry(t *testing.T) {
	for _, site := range []Site{SiteFun, SiteFap} {
		for _, want := range Categories(site) {
			got, err := LookupCategory(site, want.ID)
			require.NoError(t, err, "%s %s", site, want.ID)
			assert.Equal(t, want, got)
			assert.Equal(t, site, got.Site)

			title, err := LookupCategoryTitle(site, want.ID)
			require.NoError(t, err)
			assert.Equal(t, want.Title, title)
		}
	}
}

func TestLookupCategoryTablesAreIndependent(t *testing.T) {
	fun, err := LookupCategory(SiteFun, "1_0")
	require.NoError(t, err)
	assert.Equal(t, "Anime", fun.Title)

	fap, err := LookupCategory(SiteFap, "1_0")
	require.NoError(t, err)
	assert.Equal(t, "Art", fap.Title)

	_, err = LookupCategory(SiteFap, "6_2")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = LookupCategory(SiteFun, "1_5")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestLookupCategoryFailures(t *testing.T) {
	tests := []struct {
		name string
		site Site
		id   string
		want error
	}{
		{"empty id", SiteFun, "", ErrCategoryNotFound},
		{"unknown major", SiteFun, "9_0", ErrCategoryNotFound},
		{"malformed", SiteFun, "1-2", ErrCategoryNotFound},
		{"unsupported site", Site(7), "0_0", ErrUnsupportedSite},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LookupCategory(tc.site, tc.id)
			assert.ErrorIs(t, err, tc.want)

			_, err = LookupCategoryTitle(tc.site, tc.id)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAllCategoriesOnBothSites(t *testing.T) {
	for _, site := range []Site{SiteFun, SiteFap} {
		c, err := AllCategories(site)
		require.NoError(t, err)
		assert.Equal(t, AllCategoriesID, c.ID)
		assert.Equal(t, "All Categories", c.Title)
	}
}

func TestLookupCategoryByKey(t *testing.T) {
	c, err := LookupCategoryByKey(SiteFun, "Anime-Raw")
	require.NoError(t, err)
	assert.Equal(t, "1_4", c.ID)

	c, err = LookupCategoryByKey(SiteFap, "2_2")
	require.NoError(t, err)
	assert.Equal(t, "real-life-videos", c.Key)

	_, err = LookupCategoryByKey(SiteFap, "anime-raw")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories(SiteFun)
	require.Len(t, cats, 24)
	cats[0].Title = "changed"

	again := Categories(SiteFun)
	assert.Equal(t, "All Categories", again[0].Title)
	assert.Len(t, Categories(SiteFap), 10)
	assert.Nil(t, Categories(Site(9)))
}

func TestParseSite(t *testing.T) {
	for in, want := range map[string]Site{
		"fun":             SiteFun,
		"NYAA":            SiteFun,
		"sukebei.nyaa.si": SiteFap,
		" fap ":           SiteFap,
	} {
		got, err := ParseSite(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSite("example.org")
	assert.ErrorIs(t, err, ErrUnsupportedSite)

	assert.Equal(t, "https://sukebei.nyaa.si", SiteFap.BaseURL())
	assert.False(t, Site(3).Valid())
}

func TestSiteTextRoundTrip(t *testing.T) {
	text, err := SiteFap.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "fap", string(text))

	var s Site
	require.NoError(t, s.UnmarshalText([]byte("fun")))
	assert.Equal(t, SiteFun, s)
	assert.ErrorIs(t, s.UnmarshalText([]byte("tpb")), ErrUnsupportedSite)
}
