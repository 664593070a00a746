package fuzzysearch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Decode_FurAffinity(t *testing.T) {
	data := `{
		"site_id": 12345,
		"url": "https://d.furaffinity.net/art/artist/1234567890/1234567890.artist_image.png",
		"filename": "1234567890.artist_image.png",
		"artists": ["artist"],
		"rating": "general",
		"hash": 8402327462323790926,
		"distance": 3,
		"site": "FurAffinity",
		"site_info": {"file_id": 1234567890}
	}`

	var file File
	require.NoError(t, json.Unmarshal([]byte(data), &file))

	assert.Equal(t, int64(12345), file.SiteID)
	assert.Equal(t, "1234567890.artist_image.png", file.Filename)
	assert.Equal(t, []string{"artist"}, file.Artists)

	require.NotNil(t, file.Rating)
	assert.Equal(t, RatingGeneral, *file.Rating)

	require.NotNil(t, file.Hash)
	assert.Equal(t, int64(8402327462323790926), *file.Hash)

	require.NotNil(t, file.Distance)
	assert.Equal(t, uint64(3), *file.Distance)

	info, ok := file.SiteInfo.(FurAffinityFile)
	require.True(t, ok, "expected FurAffinityFile site info")
	assert.Equal(t, int32(1234567890), info.FileID)

	assert.Nil(t, file.SearchedHash)
}

func TestFile_Decode_E621(t *testing.T) {
	t.Run("with sources", func(t *testing.T) {
		data := `{"site_id": 42, "url": "u", "filename": "f", "site": "e621", "site_info": {"sources": ["https://example.com/a"]}}`

		var file File
		require.NoError(t, json.Unmarshal([]byte(data), &file))

		info, ok := file.SiteInfo.(E621File)
		require.True(t, ok, "expected E621File site info")
		assert.Equal(t, []string{"https://example.com/a"}, info.Sources)
	})

	t.Run("without sources", func(t *testing.T) {
		data := `{"site_id": 42, "url": "u", "filename": "f", "site": "e621", "site_info": {}}`

		var file File
		require.NoError(t, json.Unmarshal([]byte(data), &file))

		info, ok := file.SiteInfo.(E621File)
		require.True(t, ok, "expected E621File site info")
		assert.Nil(t, info.Sources)
	})
}

func TestFile_Decode_NoPayloadVariants(t *testing.T) {
	t.Run("twitter", func(t *testing.T) {
		data := `{"site_id": 999, "url": "u", "filename": "f", "artists": ["alice"], "site": "Twitter"}`

		var file File
		require.NoError(t, json.Unmarshal([]byte(data), &file))

		_, ok := file.SiteInfo.(Twitter)
		assert.True(t, ok, "expected Twitter site info")
	})

	t.Run("weasyl", func(t *testing.T) {
		data := `{"site_id": 7, "url": "u", "filename": "f", "site": "Weasyl"}`

		var file File
		require.NoError(t, json.Unmarshal([]byte(data), &file))

		_, ok := file.SiteInfo.(Weasyl)
		assert.True(t, ok, "expected Weasyl site info")
	})
}

func TestFile_Decode_UnknownSite(t *testing.T) {
	// The empty string is not a recognized discriminator either; only a
	// fully absent site key maps to absent site info.
	for _, site := range []string{"Tumblr", "furaffinity", "E621", "twitter", ""} {
		data := `{"site_id": 1, "url": "u", "filename": "f", "site": "` + site + `"}`

		var file File
		err := json.Unmarshal([]byte(data), &file)
		require.Error(t, err, "site %q should not decode", site)
		assert.True(t, IsDecodeError(err))
	}
}

func TestFile_Decode_MissingPayload(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		for _, site := range []string{"FurAffinity", "e621"} {
			data := `{"site_id": 1, "url": "u", "filename": "f", "site": "` + site + `"}`

			var file File
			err := json.Unmarshal([]byte(data), &file)
			require.Error(t, err, "site %q requires a payload", site)
			assert.True(t, IsDecodeError(err))
		}
	})

	// A null payload must not decode into a zero-valued variant; a
	// FurAffinity match with file_id 0 would be fabricated data.
	t.Run("null", func(t *testing.T) {
		for _, site := range []string{"FurAffinity", "e621"} {
			data := `{"site_id": 1, "url": "u", "filename": "f", "site": "` + site + `", "site_info": null}`

			var file File
			err := json.Unmarshal([]byte(data), &file)
			require.Error(t, err, "site %q rejects a null payload", site)
			assert.True(t, IsDecodeError(err))
		}
	})
}

func TestFile_Decode_MissingSiteInfo(t *testing.T) {
	data := `{"site_id": 1, "url": "u", "filename": "f"}`

	var file File
	require.NoError(t, json.Unmarshal([]byte(data), &file))
	assert.Nil(t, file.SiteInfo)
}

func TestFile_Decode_InvalidRating(t *testing.T) {
	data := `{"site_id": 1, "url": "u", "filename": "f", "rating": "explicit"}`

	var file File
	err := json.Unmarshal([]byte(data), &file)
	require.Error(t, err)
}

func TestFile_Decode_SearchedHash(t *testing.T) {
	data := `{"site_id": 1, "url": "u", "filename": "f", "searched_hash": -12345}`

	var file File
	require.NoError(t, json.Unmarshal([]byte(data), &file))
	require.NotNil(t, file.SearchedHash)
	assert.Equal(t, int64(-12345), *file.SearchedHash)
}

func TestFile_SiteName(t *testing.T) {
	tests := []struct {
		name string
		info SiteInfo
		want string
	}{
		{"furaffinity", FurAffinityFile{FileID: 1}, "FurAffinity"},
		{"e621", E621File{}, "e621"},
		{"twitter", Twitter{}, "Twitter"},
		{"weasyl", Weasyl{}, "Weasyl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := File{SiteInfo: tt.info}

			name, err := file.SiteName()
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestFile_SiteName_MissingSiteInfo(t *testing.T) {
	file := File{SiteID: 1}

	_, err := file.SiteName()
	require.Error(t, err)
	assert.Equal(t, ErrMissingSiteInfo, err)
	assert.True(t, IsPreconditionError(err))
}

func TestFile_SourceURL(t *testing.T) {
	tests := []struct {
		name string
		file File
		want string
	}{
		{
			"furaffinity",
			File{SiteID: 12345, SiteInfo: FurAffinityFile{FileID: 98765}},
			"https://www.furaffinity.net/view/12345/",
		},
		{
			"e621",
			File{SiteID: 42, SiteInfo: E621File{}},
			"https://e621.net/posts/42",
		},
		{
			"twitter",
			File{SiteID: 999, Artists: []string{"alice"}, SiteInfo: Twitter{}},
			"https://twitter.com/alice/status/999",
		},
		{
			"weasyl",
			File{SiteID: 7, SiteInfo: Weasyl{}},
			"https://www.weasyl.com/view/7/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := tt.file.SourceURL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, url)
		})
	}
}

func TestFile_SourceURL_TwitterWithoutArtists(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		file := File{SiteID: 999, SiteInfo: Twitter{}}

		_, err := file.SourceURL()
		assert.Equal(t, ErrMissingArtists, err)
	})

	t.Run("empty", func(t *testing.T) {
		file := File{SiteID: 999, Artists: []string{}, SiteInfo: Twitter{}}

		_, err := file.SourceURL()
		assert.Equal(t, ErrMissingArtists, err)
	})
}

func TestFile_SourceURL_MissingSiteInfo(t *testing.T) {
	file := File{SiteID: 1}

	_, err := file.SourceURL()
	assert.Equal(t, ErrMissingSiteInfo, err)
}

func TestFile_Encode_FlattensSiteInfo(t *testing.T) {
	rating := RatingAdult
	file := File{
		SiteID:   12345,
		URL:      "https://example.com/image.png",
		Filename: "image.png",
		Rating:   &rating,
		SiteInfo: FurAffinityFile{FileID: 98765},
	}

	data, err := json.Marshal(file)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "FurAffinity", raw["site"])

	info, ok := raw["site_info"].(map[string]interface{})
	require.True(t, ok, "site_info should be an object")
	assert.Equal(t, float64(98765), info["file_id"])
}

func TestFile_Encode_OmitsEmptyPayload(t *testing.T) {
	file := File{SiteID: 999, Artists: []string{"alice"}, SiteInfo: Twitter{}}

	data, err := json.Marshal(file)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "Twitter", raw["site"])
	assert.NotContains(t, raw, "site_info")
}

func TestFile_Encode_OmitsAbsentSiteInfo(t *testing.T) {
	file := File{SiteID: 1, URL: "u", Filename: "f"}

	data, err := json.Marshal(file)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw, "site")
	assert.NotContains(t, raw, "site_info")
}

func TestFile_RoundTrip(t *testing.T) {
	payloads := []string{
		`{"site_id": 12345, "url": "u", "filename": "f", "artists": ["a", "b"], "rating": "mature", "hash": -1, "distance": 0, "site": "FurAffinity", "site_info": {"file_id": 7}, "searched_hash": 3}`,
		`{"site_id": 42, "url": "u", "filename": "f", "site": "e621", "site_info": {"sources": ["s"]}}`,
		`{"site_id": 999, "url": "u", "filename": "f", "artists": ["alice"], "site": "Twitter"}`,
		`{"site_id": 7, "url": "u", "filename": "f", "site": "Weasyl"}`,
		`{"site_id": 1, "url": "u", "filename": "f"}`,
	}

	for _, payload := range payloads {
		var first File
		require.NoError(t, json.Unmarshal([]byte(payload), &first))

		encoded, err := json.Marshal(first)
		require.NoError(t, err)

		var second File
		require.NoError(t, json.Unmarshal(encoded, &second))

		assert.Equal(t, first, second, "round trip changed %s", payload)
	}
}

func TestMatches_Decode(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		data := `{"hash": 12345, "matches": []}`

		var matches Matches
		require.NoError(t, json.Unmarshal([]byte(data), &matches))

		assert.Equal(t, int64(12345), matches.Hash)
		assert.Len(t, matches.Matches, 0)
	})

	t.Run("with matches", func(t *testing.T) {
		data := `{"hash": -98765, "matches": [
			{"site_id": 1, "url": "u1", "filename": "f1", "site": "Weasyl"},
			{"site_id": 2, "url": "u2", "filename": "f2", "site": "e621", "site_info": {}}
		]}`

		var matches Matches
		require.NoError(t, json.Unmarshal([]byte(data), &matches))

		require.Len(t, matches.Matches, 2)
		assert.Equal(t, int64(-98765), matches.Hash)
		assert.IsType(t, Weasyl{}, matches.Matches[0].SiteInfo)
		assert.IsType(t, E621File{}, matches.Matches[1].SiteInfo)
	})
}
