package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		page Page
		want string
	}{
		{
			name: "platform from url",
			page: Page{URL: "https://instagram.com/p/xyz", BodyText: "nude leaked exclusive"},
			want: "instagram",
		},
		{
			name: "platform from title",
			page: Page{URL: "https://mirror.example.net/abc", Title: "Leaks from onlyfans.com creators"},
			want: "onlyfans",
		},
		{
			name: "first platform in order wins",
			page: Page{URL: "https://www.reddit.com/r/x", Title: "fansly.com mirror"},
			want: "fansly",
		},
		{
			name: "x.com is twitter",
			page: Page{URL: "https://x.com/someone/status/1"},
			want: "twitter",
		},
		{
			name: "telegram invite",
			page: Page{URL: "https://t.me/joinchat/abc"},
			want: "telegram",
		},
		{
			name: "adult keyword",
			page: Page{URL: "https://example.com", BodyText: "This gallery is NSFW."},
			want: AdultContent,
		},
		{
			name: "adult beats leak",
			page: Page{URL: "https://example.com", BodyText: "leaked porn archive"},
			want: AdultContent,
		},
		{
			name: "adult keywords are whole words",
			page: Page{URL: "https://example.com", BodyText: "Sussex pornography essex"},
			want: General,
		},
		{
			name: "leak keyword",
			page: Page{URL: "https://example.com/files", BodyText: "Everything got leaked yesterday"},
			want: PotentialLeak,
		},
		{
			name: "general",
			page: Page{URL: "https://example.com/recipes", Title: "Soup", BodyText: "Boil water and add salt."},
			want: General,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.page))
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := map[string]string{
		"onlyfans.com":      "onlyfans",
		"www.OnlyFans.com":  "onlyfans",
		"old.reddit.com":    "reddit",
		"x.com":             "twitter",
		"box.com":           UnknownPlatform,
		"discord.gg":        "discord",
		"notinstagram.com":  UnknownPlatform,
		"cdn.instagram.com": "instagram",
		"":                  UnknownPlatform,
	}
	for host, want := range tests {
		assert.Equal(t, want, DetectPlatform(host), host)
	}
}

func TestPlatformSignalsMayDisagree(t *testing.T) {
	page := Page{URL: "https://www.reddit.com/r/creators", Title: "onlyfans.com promo thread"}
	assert.Equal(t, "onlyfans", DetectContentType(page))
	assert.Equal(t, "reddit", DetectPlatform("www.reddit.com"))
}
