package content

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Section ids in document order. The navigation bar and the page both
// follow this order.
const (
	SectionHome       = "home"
	SectionAbout      = "about"
	SectionSkills     = "skills"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionContact    = "contact"
)

var sectionOrder = []string{
	SectionHome,
	SectionAbout,
	SectionSkills,
	SectionExperience,
	SectionEducation,
	SectionContact,
}

type Portfolio struct {
	Profile    Profile      `yaml:"profile"`
	Links      []Link       `yaml:"links"`
	Sections   []Section    `yaml:"sections"`
	About      []string     `yaml:"about"`
	Skills     []SkillGroup `yaml:"skills"`
	Experience []Experience `yaml:"experience"`
	Education  []Education  `yaml:"education"`
	Footer     Footer       `yaml:"footer"`
}

type Profile struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Avatar  string `yaml:"avatar"`
}

// Link is an outbound profile link (code hosting, professional network,
// mail, messaging).
type Link struct {
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Section is a titled block addressable by its anchor id.
type Section struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

func (s Section) Anchor() string { return "#" + s.ID }

type SkillGroup struct {
	Title  string  `yaml:"title"`
	Skills []Skill `yaml:"skills"`
}

type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

type Experience struct {
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
}

type Education struct {
	Institution string `yaml:"institution"`
	Program     string `yaml:"program"`
	Years       string `yaml:"years"`
}

type Footer struct {
	Copyright string `yaml:"copyright"`
	Credits   string `yaml:"credits"`
}

// Default returns the portfolio bundled with the binary.
func Default() (*Portfolio, error) {
	return Parse(defaultContent)
}

// Parse decodes and validates a portfolio document.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every section is present exactly once and in
// document order, and that skill levels are percentages.
func (p *Portfolio) Validate() error {
	var errs []error

	if p.Profile.Name == "" {
		errs = append(errs, errors.New("profile name is empty"))
	}

	if len(p.Sections) != len(sectionOrder) {
		errs = append(errs, fmt.Errorf("want %d sections, got %d", len(sectionOrder), len(p.Sections)))
	} else {
		for i, s := range p.Sections {
			if s.ID != sectionOrder[i] {
				errs = append(errs, fmt.Errorf("section %d: want %q, got %q", i, sectionOrder[i], s.ID))
			}
		}
	}

	for _, g := range p.Skills {
		seen := make(map[string]bool, len(g.Skills))
		for _, s := range g.Skills {
			if s.Level < 0 || s.Level > 100 {
				errs = append(errs, fmt.Errorf("skill %q: level %d out of range", s.Name, s.Level))
			}
			if seen[s.Name] {
				errs = append(errs, fmt.Errorf("skill %q listed twice in %q", s.Name, g.Title))
			}
			seen[s.Name] = true
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}
