package api

type Extraction struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`

	Canceled bool `json:"canceled,omitempty"`
}

type Row struct {
	Name string `json:"name"`

	ShellThickness string `json:"shell_thickness"`
	ShellQuality   string `json:"shell_quality"`

	HeadThickness string `json:"head_thickness"`
	HeadQuality   string `json:"head_quality"`
}
