package nav

// DefaultThreshold is how far, in pixels, above a section's top edge the
// viewport may be while that section already counts as scrolled into view.
const DefaultThreshold = 60

// Offset is the position of a rendered section in the document.
type Offset struct {
	ID  string
	Top int
}

// ActiveSection returns the id of the last section, in document order,
// whose top minus threshold has been scrolled past. Above the first
// section the first one stays active, so exactly one id is returned for
// any non-empty layout.
func ActiveSection(sections []Offset, scrollY, threshold int) string {
	if len(sections) == 0 {
		return ""
	}

	active := sections[0].ID
	for _, s := range sections {
		if scrollY >= s.Top-threshold {
			active = s.ID
		}
	}
	return active
}

// Link is one entry of the navigation bar.
type Link struct {
	ID     string
	Href   string
	Active bool
}

// Menu returns a copy of links with only the active one flagged.
func Menu(links []Link, active string) []Link {
	menu := make([]Link, 0, len(links))
	for _, l := range links {
		l.Active = l.ID == active
		menu = append(menu, l)
	}
	return menu
}
