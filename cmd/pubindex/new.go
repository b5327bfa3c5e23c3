package main

import (
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/eringen/pubindex/scaffold"
)

func runNew(name string) error {
	// Derive project directory name from the last path segment.
	dirName := name
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		dirName = name[idx+1:]
	}

	author := "Anonymous"
	if u, err := user.Current(); err == nil {
		if u.Name != "" {
			author = u.Name
		} else if u.Username != "" {
			author = u.Username
		}
	}
	data := scaffold.Data{
		ProjectName: dirName,
		SiteName:    scaffold.ToTitle(dirName),
		Author:      author,
		Website:     "http://localhost:3000/",
		Date:        time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
	}

	fmt.Printf("Creating new pubindex site: %s\n\n", dirName)
	created, err := scaffold.Create(dirName, data)
	for _, p := range created {
		fmt.Printf("  created %s\n", p)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dirName)
	fmt.Println("  cp .env.example .env")
	fmt.Println("  pubindex serve")
	fmt.Println()
	fmt.Println("Add posts under content/posts and edit site.yaml to set your URL and author.")
	return nil
}
