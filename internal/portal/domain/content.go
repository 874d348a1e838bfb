package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Family names a group of content records of which at most one is active.
type Family string

const (
	FamilyHomepage     Family = "homepage"
	FamilyFindUsPoster Family = "find_us_poster"
)

const maxTitleLen = 200

// Families lists every known family.
var Families = []Family{FamilyHomepage, FamilyFindUsPoster}

func ParseFamily(s string) (Family, bool) {
	switch f := Family(s); f {
	case FamilyHomepage, FamilyFindUsPoster:
		return f, true
	}
	return "", false
}

// ContentPayload is the editable body of a content record. Which fields
// matter depends on the family.
type ContentPayload struct {
	Title            string            `json:"title,omitempty"`
	Subtitle         string            `json:"subtitle,omitempty"`
	Body             string            `json:"body,omitempty"`
	Announcement     string            `json:"announcement,omitempty"`
	ImageURL         string            `json:"image_url,omitempty"`
	VideoURL         string            `json:"video_url,omitempty"`
	ExternalVideoURL string            `json:"external_video_url,omitempty"`
	Extra            map[string]string `json:"extra,omitempty"`
}

type ContentRecord struct {
	ID        string
	Family    Family
	Payload   ContentPayload
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks p against the rules of family f.
func (f Family) Validate(p ContentPayload) error {
	var v ValidationError

	title := strings.TrimSpace(p.Title)
	if len(title) > maxTitleLen {
		v.Add("title", "must be at most 200 characters")
	}

	switch f {
	case FamilyHomepage:
		if title == "" {
			v.Add("title", "is required")
		}

	case FamilyFindUsPoster:
		if title == "" {
			v.Add("title", "is required")
		}
		image := strings.TrimSpace(p.ImageURL)
		video := strings.TrimSpace(p.VideoURL)
		external := strings.TrimSpace(p.ExternalVideoURL)

		if image == "" && video == "" && external == "" {
			v.Add("media", "provide at least one of an image, a video file or a YouTube link")
		}
		if video != "" && external != "" {
			v.Add("media", "provide either a video file or a YouTube link, not both")
		}
		if external != "" {
			if _, ok := YouTubeEmbedID(external); !ok {
				v.Add("external_video_url", "must be a YouTube link such as https://www.youtube.com/watch?v=VIDEO_ID")
			}
		}
		for field, raw := range map[string]string{"image_url": image, "video_url": video} {
			if raw != "" && !isHTTPURL(raw) && !strings.HasPrefix(raw, "/") {
				v.Add(field, "must be an http(s) URL or an absolute path")
			}
		}

	default:
		v.Add("family", "unknown content family")
	}

	return v.Err()
}

var youTubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]+)`),
}

// YouTubeEmbedID extracts the video ID from watch, short and embed links.
func YouTubeEmbedID(link string) (string, bool) {
	for _, re := range youTubePatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
