// Package content holds the fixed site content served by the read-only
// endpoints: ministry profile, sermon list, blog posts and the event catalog.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
)

//go:embed content.yaml
var raw []byte

type Person struct {
	Name    string `json:"name" yaml:"name"`
	Title   string `json:"title" yaml:"title"`
	Country string `json:"country" yaml:"country"`
}

type MinistryInfo struct {
	Name            string   `json:"name" yaml:"name"`
	FullName        string   `json:"fullName" yaml:"fullName"`
	Mandate         string   `json:"mandate" yaml:"mandate"`
	Vision          []string `json:"vision" yaml:"vision"`
	Mission         string   `json:"mission" yaml:"mission"`
	Leadership      []Person `json:"leadership" yaml:"leadership"`
	Representatives []Person `json:"representatives" yaml:"representatives"`
	Countries       []string `json:"countries" yaml:"countries"`
}

type SermonSummary struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Speaker   string `json:"speaker" yaml:"speaker"`
	Date      string `json:"date" yaml:"date"`
	Duration  string `json:"duration" yaml:"duration"`
	Scripture string `json:"scripture" yaml:"scripture"`
}

type BlogPost struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Excerpt  string `json:"excerpt" yaml:"excerpt"`
	Author   string `json:"author" yaml:"author"`
	Date     string `json:"date" yaml:"date"`
	ReadTime string `json:"readTime" yaml:"readTime"`
}

// Catalog is the complete static content set.
type Catalog struct {
	Ministry  MinistryInfo    `yaml:"ministry"`
	Sermons   []SermonSummary `yaml:"sermons"`
	BlogPosts []BlogPost      `yaml:"blogPosts"`
	Events    []models.Event  `yaml:"events"`
}

// Load decodes the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(raw)
}

// Parse decodes a catalog from YAML.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode content catalog: %w", err)
	}
	if len(c.Events) == 0 {
		return nil, fmt.Errorf("content catalog has no events")
	}
	return &c, nil
}

// Event looks up a catalog event by id.
func (c *Catalog) Event(id string) (models.Event, bool) {
	for _, e := range c.Events {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}
