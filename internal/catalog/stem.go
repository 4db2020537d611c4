package catalog

// StemFile is one encoding of a stem's audio.
type StemFile struct {
	Format string `json:"format"`
	URL    string `json:"url"`
}

// Stem is a single instrument layer of a track's stem view.
type Stem struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Color string     `json:"color"`
	Order int        `json:"order"`
	Files []StemFile `json:"files"`
	Peaks string     `json:"peaks,omitempty"`
	Muted bool       `json:"muted,omitempty"`
	Solo  bool       `json:"solo,omitempty"`
}

// PickFile returns the variant matching the preferred format, falling back
// to the first available variant.
func (s Stem) PickFile(preferred string) (StemFile, bool) {
	for _, f := range s.Files {
		if f.Format == preferred {
			return f, true
		}
	}
	if len(s.Files) > 0 {
		return s.Files[0], true
	}
	return StemFile{}, false
}
