// Package classifier labels a page by platform and content type.
package classifier

import (
	"regexp"
	"strings"
)

// Content type labels returned when no platform matches.
const (
	AdultContent  = "adult_content"
	PotentialLeak = "potential_leak"
	General       = "general"

	UnknownPlatform = "unknown"
)

type platformRule struct {
	name    string
	pattern *regexp.Regexp
}

// platformRules is evaluated in order; the first match wins.
var platformRules = []platformRule{
	{"onlyfans", regexp.MustCompile(`(?i)onlyfans\.com`)},
	{"fansly", regexp.MustCompile(`(?i)fansly\.com`)},
	{"justforfans", regexp.MustCompile(`(?i)justfor\.fans|justforfans`)},
	{"manyvids", regexp.MustCompile(`(?i)manyvids\.com`)},
	{"chaturbate", regexp.MustCompile(`(?i)chaturbate\.com`)},
	{"pornhub", regexp.MustCompile(`(?i)pornhub\.com`)},
	{"reddit", regexp.MustCompile(`(?i)reddit\.com`)},
	{"twitter", regexp.MustCompile(`(?i)twitter\.com|(?:^|[/.])x\.com`)},
	{"instagram", regexp.MustCompile(`(?i)instagram\.com`)},
	{"telegram", regexp.MustCompile(`(?i)(?:^|[/.])t\.me/|telegram\.(?:org|me)`)},
	{"discord", regexp.MustCompile(`(?i)discord\.(?:com|gg)`)},
}

var (
	adultKeywords = regexp.MustCompile(`\b(?:nsfw|adult|xxx|porn|nude|naked|sex)\b`)
	leakKeywords  = regexp.MustCompile(`\b(?:leak|leaked|onlyfans|of|premium|exclusive)\b`)
)

// Page is the input to DetectContentType.
type Page struct {
	URL      string
	Title    string
	BodyText string
}

// DetectContentType returns the first matching label: a known platform
// (tested against URL and title only), then adult keywords, then leak
// keywords in the body text, then General. It has no side effects.
func DetectContentType(p Page) string {
	if name, ok := matchPlatform(p.URL + " " + p.Title); ok {
		return name
	}

	body := strings.ToLower(p.BodyText)
	switch {
	case adultKeywords.MatchString(body):
		return AdultContent
	case leakKeywords.MatchString(body):
		return PotentialLeak
	default:
		return General
	}
}

func matchPlatform(s string) (string, bool) {
	for _, rule := range platformRules {
		if rule.pattern.MatchString(s) {
			return rule.name, true
		}
	}
	return "", false
}

var hostPlatforms = []struct {
	suffix string
	name   string
}{
	{"onlyfans.com", "onlyfans"},
	{"fansly.com", "fansly"},
	{"justfor.fans", "justforfans"},
	{"manyvids.com", "manyvids"},
	{"chaturbate.com", "chaturbate"},
	{"pornhub.com", "pornhub"},
	{"reddit.com", "reddit"},
	{"twitter.com", "twitter"},
	{"x.com", "twitter"},
	{"instagram.com", "instagram"},
	{"t.me", "telegram"},
	{"telegram.org", "telegram"},
	{"discord.com", "discord"},
	{"discord.gg", "discord"},
}

// DetectPlatform tags a page by hostname alone. It is cheaper than
// DetectContentType and may disagree with it, e.g. for a reddit post
// whose title links an onlyfans profile.
func DetectPlatform(hostname string) string {
	host := strings.TrimSuffix(strings.ToLower(hostname), ".")
	for _, p := range hostPlatforms {
		if host == p.suffix || strings.HasSuffix(host, "."+p.suffix) {
			return p.name
		}
	}
	return UnknownPlatform
}
