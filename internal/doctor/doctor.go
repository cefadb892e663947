// Package doctor runs health checks against a resource container.
package doctor

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rc-project/rc/internal/integrity"
	"github.com/rc-project/rc/pkg/accessor"
	"github.com/rc-project/rc/pkg/fsutil"
	"github.com/rc-project/rc/pkg/model"
	"github.com/rc-project/rc/pkg/pathutil"
	"github.com/rc-project/rc/pkg/rc"
	"github.com/rc-project/rc/pkg/semver"
)

// Severity levels, most severe first.
const (
	SeverityCritical = "critical"
	SeverityError    = "error"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Finding represents a detected issue.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
}

// Result contains doctor check results.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

func (r *Result) add(f Finding) {
	r.Findings = append(r.Findings, f)
	if f.Severity == SeverityCritical || f.Severity == SeverityError {
		r.Healthy = false
	}
}

// Doctor performs container health checks.
type Doctor struct {
	path string
	opts rc.Options
}

// NewDoctor creates a doctor for the container at path. opts supplies the
// logger and codecs; the container is always opened leniently.
func NewDoctor(path string, opts rc.Options) *Doctor {
	opts.Lenient = true
	return &Doctor{path: path, opts: opts}
}

// Check runs all diagnostic checks. Strict also reads every file to catch
// corrupt archive entries.
func (d *Doctor) Check(strict bool) (*Result, error) {
	result := &Result{Healthy: true, Findings: []Finding{}}

	// 1. Check for orphan temp files, even when the container won't open
	d.checkOrphanTmp(result)

	c, err := rc.Open(d.path, d.opts)
	if err != nil {
		result.add(Finding{
			Category:    "container",
			Description: fmt.Sprintf("cannot open container: %v", err),
			Severity:    SeverityCritical,
			Path:        d.path,
		})
		return result, nil
	}
	defer c.Close()

	acc, err := c.Accessor()
	if err != nil {
		return nil, err
	}
	m, err := c.Manifest()
	if err != nil {
		return nil, err
	}

	// 2. Check manifest presence and format version
	if !acc.FileExists(model.ManifestFile) {
		result.add(Finding{
			Category:    "manifest",
			Description: "manifest.yaml missing",
			Severity:    SeverityCritical,
			Path:        model.ManifestFile,
		})
		return result, nil
	}
	d.checkFormatVersion(result, m)

	// 3. Check projects
	d.checkProjects(result, acc, m)

	// 4. Check media sidecar
	media, err := c.Media()
	if err != nil {
		return nil, err
	}
	d.checkMedia(result, m, media)

	// 5. Read everything (if strict)
	if strict {
		d.checkReadable(result, acc)
	}

	return result, nil
}

func (d *Doctor) checkFormatVersion(result *Result, m *model.Manifest) {
	found := strings.TrimPrefix(m.DublinCore.ConformsTo, "rc")
	if found == "" {
		result.add(Finding{
			Category:    "format",
			Description: "dublin_core.conformsto is empty",
			Severity:    SeverityCritical,
			Path:        model.ManifestFile,
		})
		return
	}
	switch cmp := semver.Compare(found, rc.ConformsTo); {
	case cmp < 0:
		result.add(Finding{
			Category:    "format",
			Description: fmt.Sprintf("outdated format: found %s but expected %s", found, rc.ConformsTo),
			Severity:    SeverityCritical,
			Path:        model.ManifestFile,
		})
	case cmp > 0:
		result.add(Finding{
			Category:    "format",
			Description: fmt.Sprintf("unsupported format: found %s but expected %s", found, rc.ConformsTo),
			Severity:    SeverityCritical,
			Path:        model.ManifestFile,
		})
	}
}

func (d *Doctor) checkProjects(result *Result, acc accessor.Accessor, m *model.Manifest) {
	seen := make(map[string]bool)
	for _, p := range m.Projects {
		if seen[p.Identifier] {
			result.add(Finding{
				Category:    "project",
				Description: fmt.Sprintf("duplicate project identifier '%s'", p.Identifier),
				Severity:    SeverityWarning,
			})
		}
		seen[p.Identifier] = true

		if pathutil.Escapes(p.Path) {
			result.add(Finding{
				Category:    "project",
				Description: fmt.Sprintf("project '%s' path escapes the container", p.Identifier),
				Severity:    SeverityError,
				Path:        p.Path,
			})
			continue
		}
		dir := pathutil.Normalize(p.Path)
		if acc.FileExists(dir) {
			continue
		}
		files, err := acc.List(dir)
		if err != nil || len(files) == 0 {
			result.add(Finding{
				Category:    "project",
				Description: fmt.Sprintf("project '%s' has no content", p.Identifier),
				Severity:    SeverityWarning,
				Path:        dir,
			})
		}
	}
}

func (d *Doctor) checkMedia(result *Result, m *model.Manifest, media *model.MediaManifest) {
	if media == nil {
		return
	}
	for _, mp := range media.Projects {
		if m.FindProject(mp.Identifier) == nil {
			result.add(Finding{
				Category:    "media",
				Description: fmt.Sprintf("media project '%s' not in manifest", mp.Identifier),
				Severity:    SeverityWarning,
				Path:        model.MediaFile,
			})
		}
	}
}

func (d *Doctor) checkReadable(result *Result, acc accessor.Accessor) {
	if _, err := integrity.DigestTree(acc, ""); err != nil {
		result.add(Finding{
			Category:    "integrity",
			Description: fmt.Sprintf("content unreadable: %v", err),
			Severity:    SeverityCritical,
		})
	}
}

// checkOrphanTmp reports temp files left behind by interrupted writes: next
// to an archive, or anywhere inside a directory container.
func (d *Doctor) checkOrphanTmp(result *Result) {
	report := func(path string) {
		result.add(Finding{
			Category:    "tmp",
			Description: fmt.Sprintf("orphan temp file: %s", filepath.Base(path)),
			Severity:    SeverityInfo,
			Path:        path,
		})
	}

	if pathutil.IsArchive(d.path) {
		matches, _ := filepath.Glob(filepath.Join(filepath.Dir(d.path), fsutil.TempPattern(d.path)))
		for _, m := range matches {
			report(m)
		}
		return
	}

	filepath.WalkDir(d.path, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return nil
		}
		if !e.IsDir() && strings.HasPrefix(e.Name(), ".") && strings.Contains(e.Name(), ".rc-tmp-") {
			report(path)
		}
		return nil
	})
}
