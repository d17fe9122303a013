package book

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/simp-lee/epub"

	"github.com/ny423/epub-to-audiobook/internal/converter"
)

var blankLines = regexp.MustCompile(`\n\s*\n+`)

// invalid in file names, since chapter titles end up in artifact paths
var unsafeTitleChars = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\x00", "",
)

// EpubParser reads spine-ordered chapters and Dublin Core metadata from
// an .epub file.
type EpubParser struct {
	book *epub.Book
}

func NewEpubParser(path string) (*EpubParser, error) {
	bk, err := epub.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open epub %s: %w", path, err)
	}
	return &EpubParser{book: bk}, nil
}

func (p *EpubParser) Close() error {
	return p.book.Close()
}

// GetChapters returns (title, text) pairs in spine order. Text blocks
// inside a chapter are joined with breakString so the TTS provider can
// render pauses between them. Whitespace-only chapters are returned
// as-is, filtering them is the orchestrator's job.
func (p *EpubParser) GetChapters(breakString string) ([]converter.Chapter, error) {
	chapters := p.book.Chapters()
	out := make([]converter.Chapter, 0, len(chapters))

	for i, ch := range chapters {
		text, err := ch.TextContent()
		if err != nil {
			return nil, fmt.Errorf("chapter %d content: %w", i+1, err)
		}

		out = append(out, converter.Chapter{
			Title: normalizeTitle(ch.Title, i+1),
			Text:  joinBlocks(text, breakString),
		})
	}
	return out, nil
}

func normalizeTitle(title string, idx int) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("Chapter %d", idx)
	}
	return unsafeTitleChars.Replace(title)
}

func joinBlocks(text, breakString string) string {
	return strings.Join(blankLines.Split(strings.TrimSpace(text), -1), breakString)
}

func (p *EpubParser) GetBookAuthor() string {
	md := p.book.Metadata()
	if len(md.Authors) > 0 {
		return md.Authors[0].Name
	}
	return ""
}

func (p *EpubParser) GetBookTitle() string {
	md := p.book.Metadata()
	if len(md.Titles) > 0 {
		return md.Titles[0]
	}
	return ""
}
