package urlutils

import "testing"

func TestNormalizeLink(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		base     string
		expected string
	}{
		{
			name:     "relative path",
			href:     "/blog/post",
			base:     "https://example.com/blog/",
			expected: "https://example.com/blog/post",
		},
		{
			name:     "already absolute",
			href:     "https://other.com/a",
			base:     "https://example.com",
			expected: "https://other.com/a",
		},
		{
			name:     "fragment only",
			href:     "#section",
			base:     "https://example.com",
			expected: "",
		},
		{
			name:     "mailto",
			href:     "mailto:hi@example.com",
			base:     "https://example.com",
			expected: "",
		},
		{
			name:     "javascript",
			href:     "javascript:void(0)",
			base:     "https://example.com",
			expected: "",
		},
		{
			name:     "fragment stripped from article link",
			href:     "/blog/post#comments",
			base:     "https://example.com",
			expected: "https://example.com/blog/post",
		},
		{
			name:     "non-http scheme",
			href:     "ftp://files.example.com/a",
			base:     "https://example.com",
			expected: "",
		},
		{
			name:     "empty href",
			href:     "   ",
			base:     "https://example.com",
			expected: "",
		},
		{
			name:     "relative without leading slash",
			href:     "my-post",
			base:     "https://example.com/blog/",
			expected: "https://example.com/blog/my-post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLink(tt.href, tt.base); got != tt.expected {
				t.Errorf("NormalizeLink(%q, %q) = %q, expected %q", tt.href, tt.base, got, tt.expected)
			}
		})
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{
			name:     "trailing slash stripped",
			link:     "https://x.com/a/",
			expected: "https://x.com/a",
		},
		{
			name:     "scheme and host lowercased",
			link:     "HTTPS://X.com/A",
			expected: "https://x.com/A",
		},
		{
			name:     "root path kept",
			link:     "https://x.com/",
			expected: "https://x.com/",
		},
		{
			name:     "query preserved",
			link:     "https://x.com/a?id=7",
			expected: "https://x.com/a?id=7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalKey(tt.link); got != tt.expected {
				t.Errorf("CanonicalKey(%q) = %q, expected %q", tt.link, got, tt.expected)
			}
		})
	}

	if !SameURL("https://x.com/a", "https://x.com/a/") {
		t.Error("SameURL should treat trailing slash variants as equal")
	}
}

func TestSlugToTitle(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{
			name:     "hyphenated slug",
			link:     "https://x.com/blog/my-great-post",
			expected: "My Great Post",
		},
		{
			name:     "underscores and trailing slash",
			link:     "https://x.com/posts/hello_world/",
			expected: "Hello World",
		},
		{
			name:     "extension dropped",
			link:     "https://x.com/posts/hello-world.html",
			expected: "Hello World",
		},
		{
			name:     "root path",
			link:     "https://x.com/",
			expected: "",
		},
		{
			name:     "mixed separators",
			link:     "https://x.com/a/going--deep_dive",
			expected: "Going Deep Dive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlugToTitle(tt.link); got != tt.expected {
				t.Errorf("SlugToTitle(%q) = %q, expected %q", tt.link, got, tt.expected)
			}
		})
	}
}

func TestHostAndPath(t *testing.T) {
	if got := HostAndPath("https://x.com/blog/a/"); got != "x.com/blog/a" {
		t.Errorf("HostAndPath() = %q, expected %q", got, "x.com/blog/a")
	}
	if got := HostAndPath("not a url at all ::"); got == "" {
		t.Error("HostAndPath() should fall back to the input, got empty string")
	}
}
