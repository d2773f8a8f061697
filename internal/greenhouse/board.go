package greenhouse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Board page hosts, oldest first.
const (
	LegacyHost = "boards.greenhouse.io"
	ModernHost = "job-boards.greenhouse.io"
	APIHost    = "boards-api.greenhouse.io"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ParseBoard accepts a board slug or any Greenhouse board URL and returns the
// normalized slug.
func ParseBoard(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("board is empty")
	}

	if !strings.Contains(input, "/") && !strings.Contains(input, ".") {
		return checkSlug(input)
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}
	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid board URL %q: %w", input, err)
	}

	host := strings.ToLower(parsed.Host)
	if !strings.HasSuffix(host, "greenhouse.io") {
		return "", fmt.Errorf("not a Greenhouse board: %s", host)
	}

	if slug := parsed.Query().Get("for"); slug != "" {
		return checkSlug(slug)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	switch {
	case host == APIHost && len(segments) >= 3 && segments[0] == "v1" && segments[1] == "boards":
		return checkSlug(segments[2])
	case host != APIHost && len(segments) >= 1 && segments[0] != "":
		return checkSlug(segments[0])
	}
	return "", fmt.Errorf("no board slug in %s", input)
}

func checkSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("invalid board slug %q", slug)
	}
	return slug, nil
}

// BoardPages returns the public board page locations (without scheme) that
// a board has lived at, oldest era first.
func BoardPages(slug string) []string {
	return []string{LegacyHost + "/" + slug, ModernHost + "/" + slug}
}
