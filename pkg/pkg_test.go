package pkg

import (
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "ecoscript"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	if Description == "" {
		t.Error("Expected a non-empty Description")
	}
}

func TestVersion(t *testing.T) {
	// Tests run in the package directory, next to the embedded file.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	content := strings.TrimSpace(string(buf))
	if strings.TrimSpace(Version) != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(content) {
		t.Errorf("Version %q is not semantic", content)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	expectedName := "ardnew"
	expectedEmail := "andrew@ardnew.com"

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == expectedName && a.Email == expectedEmail
	}) {
		t.Errorf("Expected Author to contain %q, %q", expectedName, expectedEmail)
	}
}

func TestAuthorStruct(t *testing.T) {
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}
