package domain

import "strings"

// Car represents a single vehicle listing as returned by the remote
// listings gateway. Every field is optional on the wire; JSON names
// mirror the gateway exactly.
type Car struct {
	UniqueID       int64      `json:"unique_id,omitempty"`
	Images         *CarImages `json:"images,omitempty"`
	MarkID         string     `json:"mark_id,omitempty"`
	FolderID       string     `json:"folder_id,omitempty"`
	Price          int64      `json:"price,omitempty"`
	ModificationID string     `json:"modification_id,omitempty"`
	Run            int64      `json:"run,omitempty"`
	Gearbox        string     `json:"gearbox,omitempty"`
	EngineType     string     `json:"engine_type,omitempty"`
	Color          string     `json:"color,omitempty"`
	Year           int        `json:"year,omitempty"`
}

// CarImages holds the gateway's image URL list for one car.
type CarImages struct {
	Image []string `json:"image"`
}

// Title returns the display name of the car: mark and model folder,
// e.g. "BMW 3 серия".
func (c Car) Title() string {
	title := strings.TrimSpace(c.MarkID + " " + c.FolderID)
	if title == "" {
		return "Без названия"
	}
	return title
}

// Thumbnail returns the first image URL, or the empty string when the
// gateway supplied no images. Callers substitute a local placeholder
// for the empty string.
func (c Car) Thumbnail() string {
	if c.Images == nil || len(c.Images.Image) == 0 {
		return ""
	}
	return c.Images.Image[0]
}
