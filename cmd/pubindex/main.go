package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/eringen/pubindex/config"
	"github.com/eringen/pubindex/logging"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(args)
	case "build":
		err = runBuild(args)
	case "categories":
		err = runTerms(args, "categories")
	case "tags":
		err = runTerms(args, "tags")
	case "slugs":
		err = runSlugs(args)
	case "new":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Usage: pubindex new <project-name>")
			os.Exit(1)
		}
		err = runNew(args[0])
	case "version":
		fmt.Printf("pubindex %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pubindex - Indexes a Markdown blog and serves its listings and preview images

Usage:
  pubindex <command> [arguments]

Commands:
  serve                 Serve the index over HTTP
  build [-out dir]      Write preview images for every post to disk
  categories            List categories of the visible posts
  tags                  List tags of the visible posts
  slugs [text ...]      Print the slug of every post, or of the given texts
  new <name>            Create a new site
  version               Print the pubindex version
  help                  Show this help message

Server settings come from PUBINDEX_* variables (a .env file is read when
present); site settings from the file named by PUBINDEX_SITE_CONFIG.

Examples:
  pubindex new myblog
  pubindex serve
  pubindex build -out dist -workers 8
  pubindex slugs "Hello, World!"`)
}

// loadConfig reads .env, the server and site settings, and sets up the
// global logger.
func loadConfig() (*config.Server, *config.Site, *zap.SugaredLogger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil, fmt.Errorf("reading .env: %w", err)
	}
	srv, err := config.LoadServer()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logging.New(logging.Options{
		Level:       srv.LogLevel,
		File:        srv.LogFile,
		Development: srv.IsDevelopment(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	site, err := config.LoadSite(srv.SiteConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	return srv, site, log, nil
}
