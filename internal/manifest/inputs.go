package manifest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// HeadCommit returns the HEAD commit of the repository containing dir. A
// directory outside any repository, or a repository without commits, yields "".
func HeadCommit(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", nil //nolint:nilerr // unborn HEAD
	}
	return ref.Hash().String(), nil
}

// HashOutputs hashes files, keyed by their slash path relative to folder.
func HashOutputs(folder string, files []string) (Outputs, error) {
	out := Outputs{Folder: folder, Files: make(map[string]string, len(files))}
	for _, f := range files {
		rel, err := filepath.Rel(folder, f)
		if err != nil {
			return Outputs{}, err
		}
		sum, err := hashFile(f)
		if err != nil {
			return Outputs{}, err
		}
		out.Files[filepath.ToSlash(rel)] = sum
	}
	return out, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- file produced by this run
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
