package model

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Decode reads one YAML document into a new T. An empty document yields the
// zero value.
func Decode[T any](r io.Reader) (*T, error) {
	v := new(T)
	if err := yaml.NewDecoder(r).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return v, nil
}

// Encode writes v as a YAML document with two space indentation.
func Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// DecodeManifest reads manifest.yaml. A nil project list becomes empty.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	m, err := Decode[Manifest](r)
	if err != nil {
		return nil, err
	}
	if m.Projects == nil {
		m.Projects = []Project{}
	}
	return m, nil
}

// DecodeMedia reads media.yaml.
func DecodeMedia(r io.Reader) (*MediaManifest, error) {
	return Decode[MediaManifest](r)
}

// DecodeTOC reads a project's toc.yaml. Both a bare list of sections and a
// single root node are accepted.
func DecodeTOC(r io.Reader) (*TableOfContents, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return &TableOfContents{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	toc := &TableOfContents{}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&toc.Sections); err != nil {
			return nil, fmt.Errorf("decode toc sections: %w", err)
		}
		return toc, nil
	}
	if err := node.Decode(toc); err != nil {
		return nil, fmt.Errorf("decode toc: %w", err)
	}
	return toc, nil
}
