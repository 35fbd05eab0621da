package artifact

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvnpub/mvnpub/util/common/errors"
)

const (
	// DescriptorExt is the extension of the metadata file that declares an
	// artifact's coordinates and anchors a family.
	DescriptorExt = ".pom"

	// BinaryType is the packaging of a family's main artifact.
	BinaryType = "jar"

	// separator sits between a family's base name and a classifier in a
	// sibling's file name, e.g. my-lib-1.0.0-sources.jar.
	separator = "-"
)

// ignoredExts are never published: the descriptor itself (passed to the
// deploy tool separately) and checksum companions, which the deploy tool
// regenerates on upload.
var ignoredExts = map[string]struct{}{
	DescriptorExt: {},
	".md5":        {},
	".sha1":       {},
	".sha256":     {},
	".sha512":     {},
}

// Family is one logical publishable unit: every file in Dir sharing BaseName.
type Family struct {
	Dir      string
	BaseName string
}

// Descriptor returns the path of the family's POM file.
func (f Family) Descriptor() string {
	return filepath.Join(f.Dir, f.BaseName+DescriptorExt)
}

// MainBinary returns the path where the family's main artifact must live.
func (f Family) MainBinary() string {
	return filepath.Join(f.Dir, f.BaseName+"."+BinaryType)
}

// HasMainBinary reports whether the main artifact exists on disk. A family
// without it cannot be published and is skipped by the caller.
func (f Family) HasMainBinary() bool {
	info, err := os.Stat(f.MainBinary())
	return err == nil && !info.IsDir()
}

// ExtraArtifact is a classified companion of a family's main artifact, such
// as a sources jar or a signature file. Classifier may be empty for a
// same-name artifact of a different type (e.g. my-lib-1.0.0.asc).
type ExtraArtifact struct {
	File       string
	Type       string
	Classifier string
}

// Discover walks root recursively and returns one Family per descriptor file
// found, in walk order. A nil filter matches everything.
func Discover(root string, filter *Filter) ([]Family, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewFileError(root, "access", err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("path", "root path is not a directory")
	}

	var families []Family
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), DescriptorExt) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !filter.Match(filepath.ToSlash(rel)) {
			return nil
		}
		families = append(families, Family{
			Dir:      filepath.Dir(path),
			BaseName: strings.TrimSuffix(d.Name(), DescriptorExt),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking "+root)
	}
	return families, nil
}

// Extras classifies every sibling file in the family's folder and returns
// the ones to publish alongside the main artifact, sorted by file name.
//
// The decision sequence is ordered; the first matching rule wins:
//  1. stem does not start with the base name: different family, skip
//  2. reserved extension (descriptor, checksums): skip
//  3. no extension: unsupported, skip
//  4. stem continues past the base name without the separator: prefix
//     collision with another family (foobar.jar vs foo), skip
//  5. type equals the binary type with no classifier: that is the main
//     artifact itself, skip to avoid publishing it twice
func (f Family) Extras() ([]ExtraArtifact, error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, errors.NewFileError(f.Dir, "read", err)
	}

	var extras []ExtraArtifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)

		if !strings.HasPrefix(stem, f.BaseName) {
			continue
		}
		if _, reserved := ignoredExts[strings.ToLower(ext)]; reserved {
			continue
		}
		if ext == "" {
			continue
		}

		classifier := stem[len(f.BaseName):]
		if classifier != "" && !strings.HasPrefix(classifier, separator) {
			continue
		}
		classifier = strings.TrimPrefix(classifier, separator)
		typ := strings.TrimPrefix(ext, ".")

		if typ == BinaryType && classifier == "" {
			continue
		}

		extras = append(extras, ExtraArtifact{
			File:       filepath.Join(f.Dir, name),
			Type:       typ,
			Classifier: classifier,
		})
	}

	sort.Slice(extras, func(i, j int) bool { return extras[i].File < extras[j].File })
	return extras, nil
}
