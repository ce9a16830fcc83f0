package graph

import (
	"path/filepath"
	"sort"
	"strings"

	"wagonrag/internal/domain"
)

// Node types. File nodes carry the catalog payload; attribute nodes are
// bare keyword labels.
const (
	TypeFile  = "file"
	TypeColor = "color"
	TypeCargo = "cargo"
)

// Edge relations. Every file→attribute edge is mirrored by its inverse so
// lookup from either side is O(degree).
const (
	RelHasAttribute  = "has_attribute"
	RelIsAttributeOf = "is_attribute_of"
)

// Node is a graph vertex. Path and Description are set on file nodes only.
type Node struct {
	Label       string `json:"label"`
	Type        string `json:"type"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
}

// Edge is a directed labeled edge.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// Graph is the keyword-to-file knowledge index. It is built once at
// ingestion time and read-only at query time.
type Graph struct {
	Nodes map[string]Node   `json:"nodes"`
	Out   map[string][]Edge `json:"out"`
}

func New() *Graph {
	return &Graph{
		Nodes: make(map[string]Node),
		Out:   make(map[string][]Edge),
	}
}

// Vocabulary is the closed set of recognized attribute keywords.
type Vocabulary struct {
	Colors []string
	Cargo  []string
}

// Build indexes the catalog: one file node per item, one attribute node per
// vocabulary keyword that occurs as a substring of the item's lowercased
// description, with a mirrored edge pair between the two.
func Build(items []domain.CatalogItem, imageDir string, vocab Vocabulary) *Graph {
	g := New()
	for _, item := range items {
		g.Nodes[item.Filename] = Node{
			Label:       item.Filename,
			Type:        TypeFile,
			Path:        filepath.Join(imageDir, item.Filename),
			Description: item.Description,
		}
		desc := strings.ToLower(item.Description)
		for _, color := range vocab.Colors {
			if strings.Contains(desc, color) {
				g.link(item.Filename, color, TypeColor)
			}
		}
		for _, cargo := range vocab.Cargo {
			if strings.Contains(desc, cargo) {
				g.link(item.Filename, cargo, TypeCargo)
			}
		}
	}
	return g
}

func (g *Graph) link(filename, attribute, attrType string) {
	if _, ok := g.Nodes[attribute]; !ok {
		g.Nodes[attribute] = Node{Label: attribute, Type: attrType}
	}
	g.Out[filename] = append(g.Out[filename], Edge{From: filename, To: attribute, Relation: RelHasAttribute})
	g.Out[attribute] = append(g.Out[attribute], Edge{From: attribute, To: filename, Relation: RelIsAttributeOf})
}

// Files returns the filenames of all file nodes one outgoing hop away from
// the attribute node, sorted for a stable order. Attribute lookup never
// follows a second hop.
func (g *Graph) Files(attribute string) []string {
	var files []string
	for _, e := range g.Out[attribute] {
		if n, ok := g.Nodes[e.To]; ok && n.Type == TypeFile {
			files = append(files, n.Label)
		}
	}
	sort.Strings(files)
	return files
}

// MatchAttributes returns the attribute nodes whose labels occur as
// substrings of the lowercased question.
func (g *Graph) MatchAttributes(question string) []string {
	q := strings.ToLower(question)
	var matched []string
	for label, n := range g.Nodes {
		if n.Type == TypeFile {
			continue
		}
		if strings.Contains(q, label) {
			matched = append(matched, label)
		}
	}
	sort.Strings(matched)
	return matched
}
