package model

// Manifest is the root document of a resource container.
type Manifest struct {
	DublinCore DublinCore `yaml:"dublin_core"`
	Checking   Checking   `yaml:"checking"`
	Projects   []Project  `yaml:"projects"`
}

// DublinCore carries the identification metadata of a container.
type DublinCore struct {
	Type        string   `yaml:"type"`
	ConformsTo  string   `yaml:"conformsto"`
	Format      string   `yaml:"format"`
	Identifier  string   `yaml:"identifier"`
	Title       string   `yaml:"title"`
	Subject     string   `yaml:"subject,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Language    Language `yaml:"language"`
	Source      []Source `yaml:"source,omitempty"`
	Rights      string   `yaml:"rights,omitempty"`
	Creator     string   `yaml:"creator,omitempty"`
	Contributor []string `yaml:"contributor,omitempty"`
	Relation    []string `yaml:"relation,omitempty"`
	Publisher   string   `yaml:"publisher,omitempty"`
	Issued      string   `yaml:"issued,omitempty"`
	Modified    string   `yaml:"modified,omitempty"`
	Version     string   `yaml:"version,omitempty"`
}

// Language identifies the language of a container.
type Language struct {
	Direction  string `yaml:"direction,omitempty"`
	Identifier string `yaml:"identifier"`
	Title      string `yaml:"title,omitempty"`
}

// Source references a container this one was derived from.
type Source struct {
	Identifier string `yaml:"identifier"`
	Language   string `yaml:"language"`
	Version    string `yaml:"version"`
}

// Checking records the review state of the content.
type Checking struct {
	CheckingEntity []string `yaml:"checking_entity,omitempty"`
	CheckingLevel  string   `yaml:"checking_level,omitempty"`
}

// Project describes one content tree inside the container. Path is relative
// to the container root.
type Project struct {
	Title         string         `yaml:"title"`
	Versification string         `yaml:"versification,omitempty"`
	Identifier    string         `yaml:"identifier"`
	Sort          int            `yaml:"sort"`
	Path          string         `yaml:"path"`
	Categories    []string       `yaml:"categories,omitempty"`
	Config        map[string]any `yaml:"config,omitempty"`
}

// Resource is a flat summary of the manifest.
type Resource struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Type          string `json:"type"`
	CheckingLevel string `json:"checking_level"`
	Version       string `json:"version"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Projects: []Project{}}
}

// Resource summarizes the manifest.
func (m *Manifest) Resource() Resource {
	return Resource{
		Slug:          m.DublinCore.Identifier,
		Title:         m.DublinCore.Title,
		Type:          m.DublinCore.Type,
		CheckingLevel: m.Checking.CheckingLevel,
		Version:       m.DublinCore.Version,
	}
}

// FindProject returns the first project with the given identifier.
func (m *Manifest) FindProject(identifier string) *Project {
	for i := range m.Projects {
		if m.Projects[i].Identifier == identifier {
			return &m.Projects[i]
		}
	}
	return nil
}

// ProjectIDs returns project identifiers in manifest order.
func (m *Manifest) ProjectIDs() []string {
	ids := make([]string, 0, len(m.Projects))
	for _, p := range m.Projects {
		ids = append(ids, p.Identifier)
	}
	return ids
}
