package model

// FileCoverageSummary condenses the line report of one physical file.
type FileCoverageSummary struct {
	Path     Path   `yaml:"path"`
	Report   string `yaml:"report"`
	Digest   string `yaml:"digest,omitempty"`
	Lines    int    `yaml:"lines"`
	Executed int    `yaml:"executed"`
	Signals  int    `yaml:"signals"`
	Hit      int    `yaml:"hit"`
}

// Percent returns the executed line ratio in percent.
func (s FileCoverageSummary) Percent() float64 {
	if s.Lines == 0 {
		return 0
	}

	return float64(s.Executed) * 100 / float64(s.Lines)
}

// CoverageSummary aggregates the reports produced by one report run.
type CoverageSummary struct {
	Files  []FileCoverageSummary `yaml:"files"`
	Totals FileCoverageSummary   `yaml:"totals"`
}

// Add appends a file summary and updates the totals.
func (c *CoverageSummary) Add(s FileCoverageSummary) {
	c.Files = append(c.Files, s)
	c.Totals.Lines += s.Lines
	c.Totals.Executed += s.Executed
	c.Totals.Signals += s.Signals
	c.Totals.Hit += s.Hit
}

// InstrumentedFile describes one compiled file instance written by an
// instrumentation run.
type InstrumentedFile struct {
	Source   Path
	Output   Path
	Map      Path
	File     FileID
	Signals  int
	Implicit int
	Declined int
	Parent   FileID
	Err      error
}
