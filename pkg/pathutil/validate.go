package pathutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/rc-project/rc/pkg/errclass"
)

var slugRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateSlug checks that a chapter or chunk slug is a single safe path
// component.
func ValidateSlug(slug string) error {
	if slug == "" {
		return errclass.ErrNameInvalid.WithMessage("slug must not be empty")
	}

	slug = norm.NFC.String(slug)

	if strings.Contains(slug, "..") {
		return errclass.ErrNameInvalid.WithMessagef("slug must not contain '..': %s", slug)
	}

	if strings.ContainsAny(slug, "/\\") {
		return errclass.ErrNameInvalid.WithMessagef("slug must not contain separators: %s", slug)
	}

	for _, r := range slug {
		if unicode.IsControl(r) {
			return errclass.ErrNameInvalid.WithMessagef("slug must not contain control characters: %q", slug)
		}
	}

	if !slugRegex.MatchString(slug) {
		return errclass.ErrNameInvalid.WithMessagef("slug must match [a-zA-Z0-9._-]+: %s", slug)
	}

	return nil
}

// ValidatePathSafety verifies target path does not escape the container root,
// following symlinks.
func ValidatePathSafety(root, targetPath string) error {
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return errclass.ErrPathEscape.WithMessagef("cannot resolve container root: %v", err)
	}

	// Try resolving target; if it doesn't exist, resolve closest ancestor
	resolvedTarget, err := filepath.EvalSymlinks(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			resolvedTarget = resolveClosestAncestor(targetPath)
		} else {
			return errclass.ErrPathEscape.WithMessagef("cannot resolve target: %v", err)
		}
	}

	sep := string(filepath.Separator)
	if !strings.HasPrefix(resolvedTarget+sep, resolvedRoot+sep) &&
		resolvedTarget != resolvedRoot {
		return errclass.ErrPathEscape.WithMessagef("path escapes container root: %s", targetPath)
	}

	return nil
}

// resolveClosestAncestor walks up from path to find the closest existing
// ancestor, resolves it, then appends the remaining components.
func resolveClosestAncestor(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == path {
		return filepath.Clean(path)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = resolveClosestAncestor(dir)
		} else {
			return filepath.Clean(path)
		}
	}
	return filepath.Join(resolved, base)
}
