package language

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strings"
)

//go:embed text-to-speech-languages.csv
var catalogCSV []byte

// Option is one supported locale with its default voices.
type Option struct {
	Locale      string
	Language    string
	FemaleVoice string
	MaleVoice   string
}

// Catalog holds the supported text-to-speech locales.
type Catalog struct {
	options []Option
	byLoc   map[string]Option
}

func LoadCatalog() (*Catalog, error) {
	r := csv.NewReader(bytes.NewReader(catalogCSV))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read language catalog: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("language catalog is empty")
	}

	c := &Catalog{byLoc: make(map[string]Option)}
	for _, row := range rows[1:] { // header
		if len(row) != 4 {
			return nil, fmt.Errorf("bad catalog row: %v", row)
		}
		opt := Option{Locale: row[0], Language: row[1], FemaleVoice: row[2], MaleVoice: row[3]}
		c.options = append(c.options, opt)
		c.byLoc[opt.Locale] = opt
	}
	return c, nil
}

// Languages lists the human-readable language names in catalog order.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.options))
	for _, opt := range c.options {
		out = append(out, opt.Language)
	}
	return out
}

// Matching returns the locales whose code starts with the detected
// language code ("en" matches en-US, en-GB, ...; "zh" matches exactly).
func (c *Catalog) Matching(code string) []Option {
	code = strings.ToLower(code)
	var out []Option
	for _, opt := range c.options {
		loc := strings.ToLower(opt.Locale)
		if loc == code || strings.HasPrefix(loc, code+"-") {
			out = append(out, opt)
		}
	}
	return out
}

// VoiceFor resolves the voice name for a locale and a gender ("male" or
// anything else, treated as female — the bot default).
func (c *Catalog) VoiceFor(locale, gender string) (string, error) {
	opt, ok := c.byLoc[locale]
	if !ok {
		return "", fmt.Errorf("locale %q is not supported", locale)
	}
	if strings.EqualFold(gender, "male") {
		return opt.MaleVoice, nil
	}
	return opt.FemaleVoice, nil
}
