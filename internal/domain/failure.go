package domain

// KoanFailure represents a koan that damaged your karma
type KoanFailure struct {
	KoanName string   `json:"koan_name"`
	Topic    string   `json:"topic"`
	Order    int      `json:"order"`
	Status   Status   `json:"status"`
	FilePath string   `json:"file_path"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Error    string   `json:"error"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Message  string   `json:"message"`
	Output   []string `json:"output"`
	Resolved bool     `json:"resolved,omitempty"` // Track if the koan is marked as resolved in the viewer
}

// CompileFailure is reported when the koan package does not build
type CompileFailure struct {
	Package string   `json:"package"`
	Output  []string `json:"output"`
}
