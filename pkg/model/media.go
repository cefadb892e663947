package model

// MediaManifest is the optional media.yaml sidecar listing downloadable
// media for the container and its projects.
type MediaManifest struct {
	Resource *MediaResource `yaml:"resource,omitempty"`
	Projects []MediaProject `yaml:"projects"`
}

// MediaResource lists media for the container as a whole.
type MediaResource struct {
	Version string  `yaml:"version"`
	Media   []Media `yaml:"media"`
}

// MediaProject lists media for one project.
type MediaProject struct {
	Identifier string  `yaml:"identifier"`
	Version    string  `yaml:"version"`
	Media      []Media `yaml:"media"`
}

// Media is one downloadable rendition.
type Media struct {
	Identifier string   `yaml:"identifier"`
	Version    string   `yaml:"version"`
	URL        string   `yaml:"url"`
	Quality    []string `yaml:"quality,omitempty"`
	ChapterURL string   `yaml:"chapter_url,omitempty"`
}

// FindProject returns the media entry for a project identifier.
func (m *MediaManifest) FindProject(identifier string) *MediaProject {
	for i := range m.Projects {
		if m.Projects[i].Identifier == identifier {
			return &m.Projects[i]
		}
	}
	return nil
}

// TableOfContents is a recursive toc.yaml node.
type TableOfContents struct {
	Title    string            `yaml:"title,omitempty"`
	Subtitle string            `yaml:"subtitle,omitempty"`
	Link     string            `yaml:"link,omitempty"`
	Sections []TableOfContents `yaml:"sections,omitempty"`
}
