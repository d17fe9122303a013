package converter

import "fmt"

// Chapter is one titled unit of book text, produced by the parser.
type Chapter struct {
	Title string
	Text  string
}

// AudioTags is per-artifact metadata handed to the TTS provider.
type AudioTags struct {
	Title  string
	Author string
	Album  string
	Track  int
}

// RunConfig is the immutable input of one conversion run.
// Build it through NewRunConfig: zero values for the range are normalized
// (start=1, end=-1), everything invalid fails right away.
type RunConfig struct {
	OutputFolder string
	Preview      bool
	OutputText   bool
	ChapterStart int
	ChapterEnd   int // -1 = до последней главы

	// forwarded to the TTS provider, opaque for the run itself
	Provider      string
	Language      string
	VoiceName     string
	ModelName     string
	OutputFormat  string
	BreakDuration string
}

func NewRunConfig(cfg RunConfig) (RunConfig, error) {
	if cfg.OutputFolder == "" {
		return RunConfig{}, fmt.Errorf("run config: output folder is required")
	}
	if cfg.ChapterStart == 0 {
		cfg.ChapterStart = 1
	}
	if cfg.ChapterStart < 1 {
		return RunConfig{}, fmt.Errorf("run config: chapter start %d must be >= 1", cfg.ChapterStart)
	}
	if cfg.ChapterEnd == 0 {
		cfg.ChapterEnd = -1
	}
	if cfg.ChapterEnd < -1 {
		return RunConfig{}, fmt.Errorf("run config: chapter end %d must be >= -1", cfg.ChapterEnd)
	}
	return cfg, nil
}
