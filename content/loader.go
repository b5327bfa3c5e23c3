package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoFrontMatter is returned for a file that does not open with a "---"
// front matter block.
var ErrNoFrontMatter = errors.New("missing front matter")

// LoadError reports a malformed post file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("content: %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source supplies the post corpus.
type Source interface {
	Load(ctx context.Context) ([]Post, error)
}

// Loader reads Markdown and MDX posts from a file system.
// Files and directories whose name starts with "_" or "." are ignored.
type Loader struct {
	FS fs.FS

	// DefaultAuthor is used for posts without an author field.
	DefaultAuthor string
}

// NewLoader returns a Loader reading from fsys.
func NewLoader(fsys fs.FS, defaultAuthor string) *Loader {
	return &Loader{FS: fsys, DefaultAuthor: defaultAuthor}
}

// Load reads every post in lexical path order and assigns slugs. The first
// malformed file aborts the load with a *LoadError.
func (l *Loader) Load(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if p != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isPostFile(name) {
			return nil
		}
		data, err := fs.ReadFile(l.FS, p)
		if err != nil {
			return err
		}
		post, err := ParsePost(p, data)
		if err != nil {
			return err
		}
		if post.Author == "" {
			post.Author = l.DefaultAuthor
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return AssignSlugs(posts)
}

func isPostFile(name string) bool {
	switch path.Ext(name) {
	case ".md", ".mdx":
		return true
	}
	return false
}

type frontMatter struct {
	Title         string     `yaml:"title"`
	Slug          string     `yaml:"slug"`
	Description   string     `yaml:"description"`
	Author        string     `yaml:"author"`
	Datetime      string     `yaml:"datetime"`
	PubDatetime   string     `yaml:"pubDatetime"`
	ModDatetime   string     `yaml:"modDatetime"`
	ScheduledDate string     `yaml:"scheduledDate"`
	Draft         bool       `yaml:"draft"`
	Featured      bool       `yaml:"featured"`
	Categories    stringList `yaml:"categories"`
	Tags          stringList `yaml:"tags"`
	OGImage       string     `yaml:"ogImage"`
}

// stringList accepts either a YAML sequence or a single scalar.
type stringList []string

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if v := strings.TrimSpace(value.Value); v != "" {
			*s = stringList{v}
		}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*s = items
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
}

// ParsePost parses one post file. id is recorded as the post ID and used in
// errors.
func ParsePost(id string, data []byte) (Post, error) {
	head, body, err := splitFrontMatter(data)
	if err != nil {
		return Post{}, &LoadError{Path: id, Err: err}
	}
	var fm frontMatter
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return Post{}, &LoadError{Path: id, Err: fmt.Errorf("front matter: %w", err)}
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Post{}, &LoadError{Path: id, Err: errors.New("title is required")}
	}

	post := Post{
		ID:           id,
		Title:        strings.TrimSpace(fm.Title),
		SlugOverride: strings.TrimSpace(fm.Slug),
		Description:  strings.TrimSpace(fm.Description),
		Author:       strings.TrimSpace(fm.Author),
		Draft:        fm.Draft,
		Featured:     fm.Featured,
		Categories:   trimAll(fm.Categories),
		Tags:         trimAll(fm.Tags),
		OGImage:      strings.TrimSpace(fm.OGImage),
		Excerpt:      Excerpt(body, excerptLength),
	}

	datetime := fm.Datetime
	if datetime == "" {
		datetime = fm.PubDatetime
	}
	if datetime == "" {
		return Post{}, &LoadError{Path: id, Err: errors.New("datetime is required")}
	}
	fields := []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"datetime", datetime, &post.Datetime},
		{"modDatetime", fm.ModDatetime, &post.ModDatetime},
		{"scheduledDate", fm.ScheduledDate, &post.ScheduledDate},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		t, err := ParseTime(f.raw)
		if err != nil {
			return Post{}, &LoadError{Path: id, Err: fmt.Errorf("%s: %w", f.name, err)}
		}
		*f.dst = t
	}
	return post, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses a front matter timestamp. Values without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

var delimiter = []byte("---")

func splitFrontMatter(data []byte) (head, body []byte, err error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	first, rest, ok := bytes.Cut(data, []byte("\n"))
	if !ok || !bytes.Equal(bytes.TrimSpace(first), delimiter) {
		return nil, nil, ErrNoFrontMatter
	}
	if bytes.HasPrefix(rest, delimiter) && (len(rest) == 3 || rest[3] == '\n') {
		return nil, rest[min(len(rest), 4):], nil
	}
	end := bytes.Index(rest, []byte("\n---"))
	for end >= 0 {
		after := rest[end+4:]
		if len(after) == 0 || after[0] == '\n' {
			return rest[:end], bytes.TrimPrefix(after, []byte("\n")), nil
		}
		next := bytes.Index(after, []byte("\n---"))
		if next < 0 {
			break
		}
		end += 4 + next
	}
	return nil, nil, errors.New("unterminated front matter")
}

func trimAll(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
