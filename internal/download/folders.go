package download

import (
	"fmt"
	"os"
	"path/filepath"
)

// Folder is a download destination candidate offered to the user.
type Folder struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "default", "system", or "project"
}

// Candidates lists download destinations: the configured default, the
// user's standard system folders, and project-relative directories.
func Candidates(defaultFolder string) []Folder {
	folders := []Folder{
		{Name: "Default download folder", Path: defaultFolder, Type: "default"},
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{"Desktop", "Downloads", "Documents"} {
			folders = append(folders, Folder{
				Name: name,
				Path: filepath.Join(home, name),
				Type: "system",
			})
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return folders
	}
	for _, name := range []string{"downloads", "videos", "youtube_downloads", "media"} {
		folders = append(folders, Folder{
			Name: "project/" + name,
			Path: filepath.Join(cwd, name),
			Type: "project",
		})
	}
	return folders
}

// EnsureFolder resolves path against the working directory when relative,
// creates it if missing, and returns the absolute path.
func EnsureFolder(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("folder path required")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		path = filepath.Join(cwd, path)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return path, nil
}
