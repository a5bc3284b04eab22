package book

import "fmt"

// SurfaceID names a leaf surface known to the asset collaborator.
type SurfaceID string

// Page is the static description of one leaf: the surfaces on its two sides.
type Page struct {
	Front SurfaceID `yaml:"front"`
	Back  SurfaceID `yaml:"back"`
}

// BuildPages lays out pictures across leaves. The cover's back shows the
// first picture, inner leaves take consecutive pairs, and the last picture
// backs onto the back cover.
func BuildPages(cover, backCover SurfaceID, pictures []SurfaceID) []Page {
	if len(pictures) == 0 {
		return []Page{{Front: cover, Back: backCover}}
	}
	pages := []Page{{Front: cover, Back: pictures[0]}}
	for i := 1; i < len(pictures)-1; i += 2 {
		pages = append(pages, Page{Front: pictures[i], Back: pictures[i+1]})
	}
	return append(pages, Page{Front: pictures[len(pictures)-1], Back: backCover})
}

// PageName returns names[page], or a generic label when names is short.
func PageName(names []string, page int) string {
	if page >= 0 && page < len(names) {
		return names[page]
	}
	return fmt.Sprintf("Page %d", page)
}

// Surfaces lists every surface printed on pages, without duplicates, in
// the order the pages show them.
func Surfaces(pages []Page) []SurfaceID {
	seen := make(map[SurfaceID]bool, 2*len(pages))
	var ids []SurfaceID
	for _, p := range pages {
		for _, id := range []SurfaceID{p.Front, p.Back} {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
