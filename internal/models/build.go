package models

// BuildInformation is set at build time through ldflags.
type BuildInformation struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"buildDate"`
}

func (b BuildInformation) VersionString() string {
	return b.Version + " (commit " + b.Commit + ", built on " + b.Date + ")"
}
