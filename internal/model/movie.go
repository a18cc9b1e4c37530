package model

import (
	"encoding/json"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// MovieStatus distinguishes titles that can be booked today from those
// that are only announced.
type MovieStatus string

const (
	StatusNowShowing MovieStatus = "Now Showing"
	StatusComingSoon MovieStatus = "Coming Soon"
)

// ShowTime is a single screening slot of a movie.  Unavailable slots are
// listed but cannot be chosen during booking.
type ShowTime struct {
	Time      string `json:"time" yaml:"time"`           // display label, e.g. "7:30 PM"
	Available bool   `json:"available" yaml:"available"` // false when the slot is sold out or closed
}

// Movie describes a title shown in the storefront.  Records come either
// from the embedded fixtures or from a remote keyed collection; in the
// latter case the collection key is copied into ID when the stored
// document has no id of its own.
//
// Fields:
//  ID          – catalog key.
//  Title       – display title.
//  Image       – poster URL.
//  Rating      – average rating out of 5.
//  Duration    – free text such as "166 min".
//  Genre       – one or more genres; stored documents use a string or a list.
//  Status      – Now Showing or Coming Soon.
//  ReleaseDate – free text release date.
//  Director    – director name.
//  Cast        – main cast.
//  Synopsis    – plot summary.
//  ShowTimes   – screening slots offered on the booking screen.
type Movie struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Image       string      `json:"image,omitempty" yaml:"image"`
	Rating      float64     `json:"rating,omitempty" yaml:"rating"`
	Duration    string      `json:"duration,omitempty" yaml:"duration"`
	Genre       Genre       `json:"genre,omitempty" yaml:"genre"`
	Status      MovieStatus `json:"status,omitempty" yaml:"status"`
	ReleaseDate string      `json:"releaseDate,omitempty" yaml:"releaseDate"`
	Director    string      `json:"director,omitempty" yaml:"director"`
	Cast        []string    `json:"cast,omitempty" yaml:"cast"`
	Synopsis    string      `json:"synopsis,omitempty" yaml:"synopsis"`
	ShowTimes   []ShowTime  `json:"showTimes,omitempty" yaml:"showTimes"`
}

// Genre holds the genres of a movie.  Documents in the remote store carry
// either a single string ("Sci-Fi") or a list (["Action", "Drama"]); both
// decode into the same slice.  A single genre is encoded back as a plain
// string.
type Genre []string

// String joins the genres for display.
func (g Genre) String() string { return strings.Join(g, ", ") }

func (g Genre) MarshalJSON() ([]byte, error) {
	if len(g) == 1 {
		return json.Marshal(g[0])
	}
	return json.Marshal([]string(g))
}

func (g *Genre) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*g = splitGenre(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return errors.New("genre must be a string or a list of strings")
	}
	*g = Genre(many)
	return nil
}

func (g *Genre) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*g = splitGenre(node.Value)
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*g = Genre(many)
		return nil
	}
	return errors.New("genre must be a string or a list of strings")
}

func splitGenre(s string) Genre {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return Genre{s}
}

// IsNowShowing reports whether the movie can be booked.  Records without a
// status are treated as now showing, matching the storefront's home tab.
func (m Movie) IsNowShowing() bool {
	return m.Status == StatusNowShowing || m.Status == ""
}
