package download

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
)

// staleSuffix is appended to leftover artifacts; a counter follows it when
// the plain name is taken (.old, .old1, .old2, ...).
const staleSuffix = ".old"

// Rename records one artifact moved aside.
type Rename struct {
	From string
	To   string
}

// Resolver moves leftover in-progress files aside so a watcher never
// mistakes them for a new download.
type Resolver struct {
	dir    string
	suffix string
	log    *logrus.Entry
}

// NewResolver returns a Resolver for dir.
func NewResolver(dir, suffix string, log *logrus.Entry) *Resolver {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Resolver{dir: dir, suffix: suffix, log: log}
}

// Resolve renames every artifact in the directory to a free stale name. A
// directory with no artifacts is left untouched.
func (r *Resolver) Resolve() ([]Rename, error) {
	artifacts, err := FindArtifacts(r.dir, r.suffix)
	if err != nil {
		return nil, err
	}

	var renames []Rename
	for _, a := range artifacts {
		target, err := staleName(a.Path)
		if err != nil {
			return renames, err
		}
		if err := os.Rename(a.Path, target); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// finished between listing and rename
				continue
			}
			return renames, fmt.Errorf("rename %s: %w", a.Name(), err)
		}
		r.log.Infof("Renaming %s → %s", a.Name(), Artifact{Path: target}.Name())
		renames = append(renames, Rename{From: a.Path, To: target})
	}
	return renames, nil
}

// staleName returns the first of path.old, path.old1, path.old2, ... that
// does not exist.
func staleName(path string) (string, error) {
	target := path + staleSuffix
	for i := 1; ; i++ {
		_, err := os.Lstat(target)
		if errors.Is(err, fs.ErrNotExist) {
			return target, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", target, err)
		}
		target = fmt.Sprintf("%s%s%d", path, staleSuffix, i)
	}
}
