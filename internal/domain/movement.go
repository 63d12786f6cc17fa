package domain

// VideoInfo describes the stored video object backing a movement.
type VideoInfo struct {
	Object       string `json:"object"`        // Storage object name (random, extension preserved)
	OriginalName string `json:"original_name"` // Filename as uploaded
	Size         int64  `json:"size"`          // Bytes
	ContentType  string `json:"content_type,omitempty"`
}

// Movement represents a single exercise demonstration in the catalog.
// The primary name plus any alternate names all resolve to the same record;
// tags are stored by name and validated against the tag table on write.
type Movement struct {
	Record
	Name       string    `json:"name"`
	AltNames   []string  `json:"alt_names,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Comments   string    `json:"comments,omitempty"`
	Video      VideoInfo `json:"video"`
	UploadedBy string    `json:"uploaded_by,omitempty"` // User ID of the uploader
}

// DisplayNames returns the primary name followed by all alternate names.
func (m *Movement) DisplayNames() []string {
	names := make([]string, 0, len(m.AltNames)+1)
	names = append(names, m.Name)
	names = append(names, m.AltNames...)
	return names
}

// HasTag reports whether the movement carries the given tag name exactly.
func (m *Movement) HasTag(name string) bool {
	for _, t := range m.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// RenameTag replaces every occurrence of oldName with newName in the tag
// list, preserving order. Returns true if the list changed.
func (m *Movement) RenameTag(oldName, newName string) bool {
	changed := false
	for i, t := range m.Tags {
		if t == oldName {
			m.Tags[i] = newName
			changed = true
		}
	}
	return changed
}
