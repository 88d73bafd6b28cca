package source

import (
	"regexp"
	"strings"
)

// Repository identifies a GitHub repository, optionally with a branch and path
// taken from a /tree/<branch>/<path> URL.
type Repository struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch,omitempty"`
	Path   string `json:"path,omitempty"`
}

// String returns the owner/repo shorthand.
func (r Repository) String() string {
	return r.Owner + "/" + r.Repo
}

var (
	repoURLPattern   = regexp.MustCompile(`^(?:https?://)?(?:www\.)?github\.com/([^/\s]+)/([^/\s?#]+)(?:/tree/([^/\s?#]+)(?:/([^\s?#]*))?)?`)
	repoShortPattern = regexp.MustCompile(`^([A-Za-z0-9-]+)/([^/\s]+)$`)
)

// ParseRepositoryReference accepts https://github.com/<owner>/<repo>[.git] or
// the <owner>/<repo> shorthand. Any other shape returns false.
func ParseRepositoryReference(input string) (Repository, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Repository{}, false
	}

	if m := repoURLPattern.FindStringSubmatch(input); m != nil {
		repo := Repository{
			Owner:  m[1],
			Repo:   strings.TrimSuffix(m[2], ".git"),
			Branch: m[3],
			Path:   strings.Trim(m[4], "/"),
		}
		if repo.Repo == "" {
			return Repository{}, false
		}
		return repo, true
	}

	if strings.Contains(input, "://") {
		return Repository{}, false
	}
	if m := repoShortPattern.FindStringSubmatch(input); m != nil {
		repo := strings.TrimSuffix(m[2], ".git")
		if repo == "" {
			return Repository{}, false
		}
		return Repository{Owner: m[1], Repo: repo}, true
	}

	return Repository{}, false
}
