package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeSite(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSite(t *testing.T) {
	path := writeSite(t, `
website: https://notes.example.com/
author: Sat Naing
title: Field Notes
desc: Writing about Go.
post_per_page: 6
scheduled_post_margin: 30m
show_archives: false
locale:
  lang: de
  lang_tag: [de-DE]
edit_post:
  enabled: true
  url: https://github.com/example/notes/edit/main/content/posts
socials:
  - name: Github
    href: https://github.com/example
    active: true
  - name: Mastodon
    href: https://example.social/@me
og:
  background: "#ffffff"
`)
	cfg, err := LoadSite(path)
	require.NoError(t, err)

	assert.Equal(t, "Field Notes", cfg.Title)
	assert.Equal(t, 6, cfg.PostPerPage)
	assert.Equal(t, 4, cfg.PostPerIndex, "default kept")
	assert.Equal(t, 30*time.Minute, cfg.ScheduledPostMargin)
	assert.False(t, cfg.ShowArchives)
	assert.True(t, cfg.ShowBackButton, "default kept")
	assert.Equal(t, "content/posts", cfg.ContentDir)
	assert.Equal(t, "Edit page", cfg.EditPost.Text)
	assert.True(t, cfg.EditPost.AppendFilePath)
	assert.Equal(t, language.MustParse("de-DE"), cfg.Language())
	assert.Equal(t, "notes.example.com", cfg.Host())
	assert.Equal(t, "#ffffff", cfg.OG.Background)

	require.Len(t, cfg.Socials, 2)
	assert.Equal(t, "Field Notes on Github", cfg.Socials[0].LinkTitle)
	active := cfg.ActiveSocials()
	require.Len(t, active, 1)
	assert.Equal(t, "Github", active[0].Name)

	assert.Equal(t,
		"https://github.com/example/notes/edit/main/content/posts/hello.md",
		cfg.EditURL("hello.md"))
}

func TestLoadSiteEnvOverlay(t *testing.T) {
	path := writeSite(t, "website: https://a.example/\nauthor: A\ntitle: A\npost_per_page: 6\n")
	t.Setenv("SITE_POST_PER_PAGE", "10")
	t.Setenv("SITE_EDIT_POST__TEXT", "Suggest changes")

	cfg, err := LoadSite(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PostPerPage)
	assert.Equal(t, "Suggest changes", cfg.EditPost.Text)
}

func TestLoadSiteInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing author", "website: https://a.example/\ntitle: A\n"},
		{"bad website", "website: not a url\nauthor: A\ntitle: A\n"},
		{"zero page size", "website: https://a.example/\nauthor: A\ntitle: A\npost_per_page: 0\n"},
		{"negative margin", "website: https://a.example/\nauthor: A\ntitle: A\nscheduled_post_margin: -1m\n"},
		{"bad color", "website: https://a.example/\nauthor: A\ntitle: A\nog:\n  background: red\n"},
		{"edit without url", "website: https://a.example/\nauthor: A\ntitle: A\nedit_post:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSite(writeSite(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadSiteMissingFile(t *testing.T) {
	_, err := LoadSite(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSiteLanguageFallback(t *testing.T) {
	assert.Equal(t, language.English, Site{}.Language())
	assert.Equal(t, language.MustParse("fr"), Site{Locale: Locale{Lang: "fr"}}.Language())
	assert.Equal(t, language.English, Site{Locale: Locale{Lang: "!!"}}.Language())
}

func TestEditURLDisabled(t *testing.T) {
	s := DefaultSite()
	assert.Empty(t, s.EditURL("a.md"))
	s.EditPost = EditPost{Enabled: true, URL: "https://x.example/edit", AppendFilePath: false}
	assert.Equal(t, "https://x.example/edit", s.EditURL("a.md"))
}

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServerFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.Cache)
	assert.Equal(t, 30, cfg.RenderLimit)
	assert.Equal(t, time.Minute, cfg.RenderWindow)
	assert.Equal(t, "@every 5m", cfg.ReloadSchedule)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadServerFromEnv(t *testing.T) {
	cfg, err := LoadServerFrom(map[string]string{
		"PUBINDEX_ADDR":          ":8080",
		"PUBINDEX_ENV":           "production",
		"PUBINDEX_CACHE":         "redis",
		"PUBINDEX_REDIS_URL":     "redis://localhost:6379/0",
		"PUBINDEX_RENDER_WINDOW": "30s",
	})
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "redis", cfg.Cache)
	assert.Equal(t, 30*time.Second, cfg.RenderWindow)
}

func TestLoadServerInvalid(t *testing.T) {
	for name, vars := range map[string]map[string]string{
		"unknown cache":     {"PUBINDEX_CACHE": "memcached"},
		"redis without url": {"PUBINDEX_CACHE": "redis"},
		"bad duration":      {"PUBINDEX_RENDER_WINDOW": "soon"},
		"bad level":         {"PUBINDEX_LOG_LEVEL": "loud"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadServerFrom(vars)
			assert.Error(t, err)
		})
	}
}
