package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "wordy" {
		t.Errorf("Expected Name to be %q, got %q", "wordy", Name)
	}

	if !strings.HasPrefix(Extension, ".") {
		t.Errorf("Extension %q must start with a dot", Extension)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if strings.ContainsAny(Version, " \n") {
		t.Errorf("Version %q contains whitespace", Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/wordy", "wordy"},
		{`C:\bin\wordy.exe`, "wordy"},
		{"/tmp/__debug_bin3241", Name},
		{"/home/me/.wordy", "wordy"},
		{"/home/me/...", Name},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if filepath.Separator == '/' && strings.Contains(tt.path, `\`) {
				t.Skip("windows path")
			}

			if got := prefixOf(tt.path); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	if got := ConfigPath("config"); got != filepath.Join(ConfigDir(), "config") {
		t.Errorf("ConfigPath = %q", got)
	}

	if got := CachePath("history"); filepath.Dir(got) != CacheDir() {
		t.Errorf("CachePath = %q", got)
	}

	if filepath.Base(ConfigDir()) != Prefix() || filepath.Base(CacheDir()) != Prefix() {
		t.Errorf("directories %q %q not named %q", ConfigDir(), CacheDir(), Prefix())
	}
}
