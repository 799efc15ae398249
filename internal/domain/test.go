package domain

// Koan represents a single koan: one test function in a topic file
type Koan struct {
	Name         string `json:"name"`         // Test function name
	Topic        string `json:"topic"`        // Topic the koan belongs to, e.g. "about_strings"
	FilePath     string `json:"file_path"`    // Path to the file declaring the koan
	Line         int    `json:"line"`         // Line of the func declaration
	Order        int    `json:"order"`        // Position on the path, starting at 1
	Placeholders int    `json:"placeholders"` // FillMeIn calls left in the koan body
}

// Topic represents a koan file and the koans it holds, in source order
type Topic struct {
	Name     string // File name without the _test.go suffix
	FilePath string // Full path to the file
	Order    int    // Position of the topic on the path, starting at 1
	Koans    []Koan
}

// KoanNames returns the names of the topic's koans
func (t Topic) KoanNames() []string {
	names := make([]string, 0, len(t.Koans))
	for _, k := range t.Koans {
		names = append(names, k.Name)
	}
	return names
}

// Unfilled reports whether the koan still holds placeholders
func (k Koan) Unfilled() bool {
	return k.Placeholders > 0
}
