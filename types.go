// ABOUTME: Result types returned by the FuzzySearch API
// ABOUTME: Handles the site/site_info tagged union and derived accessors

package fuzzysearch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Rating is the content rating assigned to a submission.
type Rating string

const (
	// RatingGeneral indicates content suitable for all audiences
	RatingGeneral Rating = "general"

	// RatingMature indicates content with mature themes
	RatingMature Rating = "mature"

	// RatingAdult indicates adult-only content
	RatingAdult Rating = "adult"
)

// UnmarshalJSON validates the rating against the known set of values.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewError(ErrorTypeDecode, "rating must be a string").WithCause(err)
	}

	switch Rating(s) {
	case RatingGeneral, RatingMature, RatingAdult:
		*r = Rating(s)
		return nil
	default:
		return NewError(ErrorTypeDecode, fmt.Sprintf("unknown rating %q", s))
	}
}

// SiteInfo identifies which site a result came from, along with any
// site-specific payload. It is a closed set: FurAffinityFile, E621File,
// Twitter, and Weasyl are the only implementations.
type SiteInfo interface {
	// siteTag returns the wire discriminator for the variant.
	siteTag() string
}

// FurAffinityFile is the site-specific information for a FurAffinity match.
type FurAffinityFile struct {
	// FileID is the ID embedded in the image URL. This is not the same
	// as the submission ID.
	FileID int32 `json:"file_id"`
}

// E621File is the site-specific information for an e621 match.
type E621File struct {
	// Sources lists the upstream source URLs known to e621, if any.
	Sources []string `json:"sources,omitempty"`
}

// Twitter is the site marker for a Twitter match. It carries no payload.
type Twitter struct{}

// Weasyl is the site marker for a Weasyl match. It carries no payload.
type Weasyl struct{}

func (FurAffinityFile) siteTag() string { return "FurAffinity" }
func (E621File) siteTag() string        { return "e621" }
func (Twitter) siteTag() string         { return "Twitter" }
func (Weasyl) siteTag() string          { return "Weasyl" }

// File represents a single matched submission.
type File struct {
	// SiteID is the origin site's ID for the submission.
	SiteID int64

	// URL is a direct link to the media asset.
	URL string

	// Filename of the submission.
	Filename string

	// Artists who may have created the image, if known.
	Artists []string

	// Rating of the submission, if known.
	Rating *Rating

	// Hash of the image. Only returned by some endpoints.
	Hash *int64

	// Distance is the Hamming distance from the queried hash. Only
	// returned by distance-aware endpoints.
	Distance *uint64

	// SiteInfo identifies the origin site. The service has been observed
	// to omit this field, so accessors that depend on it return an error
	// rather than assuming it is set.
	SiteInfo SiteInfo

	// SearchedHash is the query hash that produced this result. Only
	// returned by multi-hash lookups.
	SearchedHash *int64
}

// fileWire is the raw JSON shape of a File. The site/site_info pair is
// resolved into the SiteInfo union separately.
type fileWire struct {
	SiteID       int64           `json:"site_id"`
	URL          string          `json:"url"`
	Filename     string          `json:"filename"`
	Artists      []string        `json:"artists"`
	Rating       *Rating         `json:"rating"`
	Hash         *int64          `json:"hash"`
	Distance     *uint64         `json:"distance"`
	Site         *string         `json:"site,omitempty"`
	SiteInfo     json.RawMessage `json:"site_info,omitempty"`
	SearchedHash *int64          `json:"searched_hash"`
}

// UnmarshalJSON decodes a File, resolving the site discriminator into the
// matching SiteInfo variant. An unrecognized discriminator is an error;
// an absent site/site_info pair leaves SiteInfo nil.
func (f *File) UnmarshalJSON(data []byte) error {
	var w fileWire
	if err := json.Unmarshal(data, &w); err != nil {
		return NewError(ErrorTypeDecode, "malformed file object").WithCause(err)
	}

	f.SiteID = w.SiteID
	f.URL = w.URL
	f.Filename = w.Filename
	f.Artists = w.Artists
	f.Rating = w.Rating
	f.Hash = w.Hash
	f.Distance = w.Distance
	f.SearchedHash = w.SearchedHash

	if w.Site == nil {
		f.SiteInfo = nil
		return nil
	}

	info, err := decodeSiteInfo(*w.Site, w.SiteInfo)
	if err != nil {
		return err
	}
	f.SiteInfo = info

	return nil
}

// MarshalJSON encodes a File, flattening the SiteInfo variant back into
// the site/site_info pair. Variants without a payload omit site_info.
func (f File) MarshalJSON() ([]byte, error) {
	w := fileWire{
		SiteID:       f.SiteID,
		URL:          f.URL,
		Filename:     f.Filename,
		Artists:      f.Artists,
		Rating:       f.Rating,
		Hash:         f.Hash,
		Distance:     f.Distance,
		SearchedHash: f.SearchedHash,
	}

	if f.SiteInfo != nil {
		tag := f.SiteInfo.siteTag()
		w.Site = &tag

		switch info := f.SiteInfo.(type) {
		case FurAffinityFile:
			payload, err := json.Marshal(info)
			if err != nil {
				return nil, err
			}
			w.SiteInfo = payload
		case E621File:
			payload, err := json.Marshal(info)
			if err != nil {
				return nil, err
			}
			w.SiteInfo = payload
		}
	}

	return json.Marshal(w)
}

// decodeSiteInfo resolves the discriminator and payload into a variant.
// Payload-less variants tolerate a payload being present, but variants
// that carry one require it. A null payload counts as missing, so a
// FurAffinity record can never decode with a fabricated zero file ID.
func decodeSiteInfo(site string, payload json.RawMessage) (SiteInfo, error) {
	if isJSONNull(payload) {
		payload = nil
	}

	switch site {
	case "FurAffinity":
		if len(payload) == 0 {
			return nil, NewError(ErrorTypeDecode, "missing site_info payload for FurAffinity")
		}
		var info FurAffinityFile
		if err := json.Unmarshal(payload, &info); err != nil {
			return nil, NewError(ErrorTypeDecode, "malformed FurAffinity site_info").WithCause(err)
		}
		return info, nil
	case "e621":
		if len(payload) == 0 {
			return nil, NewError(ErrorTypeDecode, "missing site_info payload for e621")
		}
		var info E621File
		if err := json.Unmarshal(payload, &info); err != nil {
			return nil, NewError(ErrorTypeDecode, "malformed e621 site_info").WithCause(err)
		}
		return info, nil
	case "Twitter":
		return Twitter{}, nil
	case "Weasyl":
		return Weasyl{}, nil
	default:
		return nil, NewError(ErrorTypeDecode, fmt.Sprintf("unknown site %q", site))
	}
}

// isJSONNull reports whether a raw message is the JSON null literal.
func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// SiteName returns the human readable name of the site this match came
// from. It returns ErrMissingSiteInfo when the service omitted the site
// information.
func (f *File) SiteName() (string, error) {
	if f.SiteInfo == nil {
		return "", ErrMissingSiteInfo
	}
	return f.SiteInfo.siteTag(), nil
}

// SourceURL returns a link to the submission page for this match. For
// Twitter results the first artist forms part of the URL, so at least
// one artist must be present.
func (f *File) SourceURL() (string, error) {
	switch f.SiteInfo.(type) {
	case FurAffinityFile:
		return fmt.Sprintf("https://www.furaffinity.net/view/%d/", f.SiteID), nil
	case E621File:
		return fmt.Sprintf("https://e621.net/posts/%d", f.SiteID), nil
	case Twitter:
		if len(f.Artists) == 0 {
			return "", ErrMissingArtists
		}
		return fmt.Sprintf("https://twitter.com/%s/status/%d", f.Artists[0], f.SiteID), nil
	case Weasyl:
		return fmt.Sprintf("https://www.weasyl.com/view/%d/", f.SiteID), nil
	default:
		return "", ErrMissingSiteInfo
	}
}

// Matches is the response to an image search: the hash of the submitted
// image plus every potential match.
type Matches struct {
	// Hash of the image that was sent.
	Hash int64 `json:"hash"`

	// Matches lists the potential matches for the image.
	Matches []File `json:"matches"`
}
