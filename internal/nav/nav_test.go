package nav

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var layout = []Offset{
	{ID: "home", Top: 0},
	{ID: "about", Top: 800},
	{ID: "skills", Top: 1400},
	{ID: "experience", Top: 2200},
	{ID: "education", Top: 3000},
	{ID: "contact", Top: 3500},
}

func TestActiveSection(t *testing.T) {
	tests := []struct {
		scrollY int
		want    string
	}{
		{0, "home"},
		{739, "home"},
		{740, "about"},
		{800, "about"},
		{1339, "about"},
		{1340, "skills"},
		{3440, "contact"},
		{100000, "contact"},
		{-50, "home"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ActiveSection(layout, tt.scrollY, DefaultThreshold), "scrollY=%d", tt.scrollY)
	}
}

func TestActiveSectionLowestPassedWins(t *testing.T) {
	// Scan from the bottom: the first section whose top minus the threshold
	// is at or above the scroll position is the expected answer.
	for y := -100; y <= 4000; y += 7 {
		got := ActiveSection(layout, y, DefaultThreshold)

		want := layout[0].ID
		for i := len(layout) - 1; i >= 0; i-- {
			if layout[i].Top-DefaultThreshold <= y {
				want = layout[i].ID
				break
			}
		}
		if got != want {
			t.Fatalf("scrollY=%d: got %q, want %q", y, got, want)
		}
	}
}

func TestActiveSectionOverlapping(t *testing.T) {
	// Collapsed sections share a top; the later one in document order wins.
	sections := []Offset{{ID: "a", Top: 0}, {ID: "b", Top: 500}, {ID: "c", Top: 500}}
	assert.Equal(t, "c", ActiveSection(sections, 500, 0))
}

func TestActiveSectionEmpty(t *testing.T) {
	assert.Equal(t, "", ActiveSection(nil, 100, DefaultThreshold))
}

func TestMenu(t *testing.T) {
	links := []Link{
		{ID: "home", Href: "#home", Active: true},
		{ID: "about", Href: "#about"},
		{ID: "contact", Href: "#contact"},
	}
	got := Menu(links, "about")
	want := []Link{
		{ID: "home", Href: "#home"},
		{ID: "about", Href: "#about", Active: true},
		{ID: "contact", Href: "#contact"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Menu mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, links[0].Active, "input links are left untouched")
}
