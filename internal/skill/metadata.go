// Package skill loads the metadata document of a skill bundle: a
// directory containing a SKILL.md with YAML frontmatter and optional
// guidance sections in the Markdown body.
package skill

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFile = "SKILL.md"

// ErrInvalidBundle classifies a missing or malformed skill bundle.
var ErrInvalidBundle = errors.New("invalid skill bundle")

// Metadata is extracted once from the bundle and never mutated.
type Metadata struct {
	Name           string
	Description    string
	WhenToUse      string
	CommonMistakes string
	CorePatterns   string
	Dir            string
}

// Load parses SKILL.md from dir. The body sections are read as plain
// sectioned text, not a strict schema: a missing section yields an
// empty string, never an error.
func Load(dir string) (*Metadata, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidBundle, "skill directory %s not found", dir)
	}
	path := filepath.Join(dir, skillFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidBundle, "reading %s: %v", path, err)
	}

	front, err := frontmatter(data)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidBundle, "parsing %s: %v", path, err)
	}
	name := stringField(front, "name")
	if name == "" {
		return nil, errors.Wrapf(ErrInvalidBundle, "%s has no name in frontmatter", path)
	}
	description := stringField(front, "description")
	if description == "" {
		description = stringField(front, "trigger")
	}

	body := stripFrontmatter(string(data))
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	return &Metadata{
		Name:           name,
		Description:    description,
		WhenToUse:      section(body, "When to Use"),
		CommonMistakes: section(body, "Common Mistakes"),
		CorePatterns:   section(body, "Core Patterns"),
		Dir:            absDir,
	}, nil
}

func frontmatter(data []byte) (map[string]interface{}, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	ctx := parser.NewContext()
	var buf bytes.Buffer
	if err := md.Convert(data, &buf, parser.WithContext(ctx)); err != nil {
		return nil, err
	}
	return meta.Get(ctx), nil
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func stripFrontmatter(s string) string {
	if !strings.HasPrefix(s, "---") {
		return s
	}
	rest := s[3:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return s
	}
	after := rest[end+4:]
	if nl := strings.IndexByte(after, '\n'); nl >= 0 {
		return after[nl+1:]
	}
	return ""
}

// section returns the text under a "## <heading>" line, up to the next
// heading of the same or higher level. Matching is case-insensitive.
func section(body, heading string) string {
	lines := strings.Split(body, "\n")
	want := strings.ToLower(heading)
	var out []string
	collecting := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "##") {
			title := strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
			if collecting {
				break
			}
			if title == want {
				collecting = true
			}
			continue
		}
		if collecting && strings.HasPrefix(trimmed, "# ") {
			break
		}
		if collecting {
			out = append(out, line)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
