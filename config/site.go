package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"golang.org/x/text/language"
)

// SiteEnvPrefix prefixes site overrides in the environment. "__" separates
// nested keys: SITE_EDIT_POST__URL sets edit_post.url.
const SiteEnvPrefix = "SITE_"

// Site is the blog's own configuration.
type Site struct {
	Website string `koanf:"website" validate:"required,url"`
	Author  string `koanf:"author" validate:"required"`
	Profile string `koanf:"profile" validate:"omitempty,url"`
	Desc    string `koanf:"desc"`
	Title   string `koanf:"title" validate:"required"`
	OGImage string `koanf:"og_image"` // author-supplied site card, served instead of the generated one

	LightAndDarkMode    bool          `koanf:"light_and_dark_mode"`
	PostPerIndex        int           `koanf:"post_per_index" validate:"gte=1"`
	PostPerPage         int           `koanf:"post_per_page" validate:"gte=1"`
	ScheduledPostMargin time.Duration `koanf:"scheduled_post_margin" validate:"gte=0"`
	ShowArchives        bool          `koanf:"show_archives"`
	ShowBackButton      bool          `koanf:"show_back_button"`

	EditPost EditPost `koanf:"edit_post"`
	Locale   Locale   `koanf:"locale"`
	Socials  []Social `koanf:"socials" validate:"dive"`
	OG       OG       `koanf:"og"`

	// ContentDir holds the Markdown posts, relative to the working directory.
	ContentDir string `koanf:"content_dir" validate:"required"`
}

// EditPost configures the "edit this post" link.
type EditPost struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url" validate:"omitempty,url"`
	Text           string `koanf:"text"`
	AppendFilePath bool   `koanf:"append_file_path"`
}

// Locale selects the language used for collation and dates.
type Locale struct {
	Lang    string   `koanf:"lang"`
	LangTag []string `koanf:"lang_tag"`
}

// Social is one profile link.
type Social struct {
	Name      string `koanf:"name" json:"name" validate:"required"`
	Href      string `koanf:"href" json:"href" validate:"required,url"`
	LinkTitle string `koanf:"link_title" json:"linkTitle"`
	Active    bool   `koanf:"active" json:"-"`
}

// OG styles the generated preview cards.
type OG struct {
	LogoPath   string `koanf:"logo_path"`
	Background string `koanf:"background" validate:"omitempty,hexcolor"`
	Foreground string `koanf:"foreground" validate:"omitempty,hexcolor"`
	Shadow     string `koanf:"shadow" validate:"omitempty,hexcolor"`
}

// DefaultSite returns the settings used for keys absent from the file.
func DefaultSite() Site {
	return Site{
		Website:             "http://localhost:3000/",
		Title:               "Blog",
		PostPerIndex:        4,
		PostPerPage:         4,
		ScheduledPostMargin: 15 * time.Minute,
		ShowArchives:        true,
		ShowBackButton:      true,
		EditPost: EditPost{
			Text:           "Edit page",
			AppendFilePath: true,
		},
		Locale:     Locale{Lang: "en"},
		ContentDir: "content/posts",
	}
}

func (s *Site) setDefaults() {
	if s.Locale.Lang == "" && len(s.Locale.LangTag) == 0 {
		s.Locale.Lang = "en"
	}
	if s.EditPost.Text == "" {
		s.EditPost.Text = "Edit page"
	}
	for i := range s.Socials {
		if s.Socials[i].LinkTitle == "" {
			s.Socials[i].LinkTitle = s.Title + " on " + s.Socials[i].Name
		}
	}
}

// Language returns the collation language: the first lang_tag, else lang,
// else English.
func (s Site) Language() language.Tag {
	candidates := append([]string{}, s.Locale.LangTag...)
	candidates = append(candidates, s.Locale.Lang)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if tag, err := language.Parse(c); err == nil {
			return tag
		}
	}
	return language.English
}

// Host returns the host part of Website.
func (s Site) Host() string {
	u, err := url.Parse(s.Website)
	if err != nil {
		return ""
	}
	return u.Host
}

// ActiveSocials returns the socials marked active.
func (s Site) ActiveSocials() []Social {
	var out []Social
	for _, so := range s.Socials {
		if so.Active {
			out = append(out, so)
		}
	}
	return out
}

// EditURL returns the edit link for a post file, or "" when disabled.
func (s Site) EditURL(postPath string) string {
	if !s.EditPost.Enabled || s.EditPost.URL == "" {
		return ""
	}
	if !s.EditPost.AppendFilePath {
		return s.EditPost.URL
	}
	return strings.TrimRight(s.EditPost.URL, "/") + "/" + strings.TrimLeft(postPath, "/")
}

// LoadSite reads the YAML file at path, overlays SITE_* variables and
// validates the result. An empty path skips the file.
func LoadSite(path string) (*Site, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading site config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(SiteEnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, SiteEnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading site env overrides: %w", err)
	}

	cfg := DefaultSite()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding site config: %w", err)
	}
	cfg.setDefaults()

	if err := validateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}
	if cfg.EditPost.Enabled && cfg.EditPost.URL == "" {
		return nil, errors.New("invalid site config: edit_post.url is required when edit_post.enabled is set")
	}
	return &cfg, nil
}
