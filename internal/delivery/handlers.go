package delivery

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ny423/epub-to-audiobook/internal/book"
	"github.com/ny423/epub-to-audiobook/internal/converter"
	"github.com/ny423/epub-to-audiobook/internal/tts"
)

// ConversionHandler starts and inspects server-side conversion runs over
// local epub files. Artifacts stay under the output folder: the HTTP
// surface has no chat to deliver into.
type ConversionHandler struct {
	jobs *Jobs
}

func NewConversionHandler(jobs *Jobs) *ConversionHandler {
	return &ConversionHandler{jobs: jobs}
}

type conversionRequest struct {
	InputFile    string `json:"input_file"`
	OutputFolder string `json:"output_folder"`
	Provider     string `json:"provider"`
	Language     string `json:"language"`
	VoiceName    string `json:"voice_name"`
	Preview      bool   `json:"preview"`
	OutputText   bool   `json:"output_text"`
	ChapterStart int    `json:"chapter_start"`
	// pointer so an omitted end (convert to the last chapter) is told
	// apart from an explicit zero, which is rejected
	ChapterEnd *int `json:"chapter_end"`
}

func (h *ConversionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req conversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.InputFile == "" {
		http.Error(w, "input_file is required", http.StatusBadRequest)
		return
	}

	chapterEnd := -1
	if req.ChapterEnd != nil {
		if *req.ChapterEnd == 0 {
			http.Error(w, "chapter_end must be positive or -1", http.StatusBadRequest)
			return
		}
		chapterEnd = *req.ChapterEnd
	}

	cfg, err := converter.NewRunConfig(converter.RunConfig{
		OutputFolder: req.OutputFolder,
		Preview:      req.Preview,
		OutputText:   req.OutputText,
		ChapterStart: req.ChapterStart,
		ChapterEnd:   chapterEnd,
		Provider:     req.Provider,
		Language:     req.Language,
		VoiceName:    req.VoiceName,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	provider, err := tts.NewProvider(cfg.Provider, tts.Config{
		Language:  cfg.Language,
		VoiceName: cfg.VoiceName,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	parser, err := book.NewEpubParser(req.InputFile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := h.jobs.Create()

	go func() {
		defer parser.Close()
		svc := converter.NewService(cfg, parser, provider, nil, nil)
		err := svc.Run(context.Background())
		if err != nil {
			log.Printf("[http] job %s failed: %v", job.ID, err)
		}
		h.jobs.Finish(job.ID, err)
	}()

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(job)
}

func (h *ConversionHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, ok := h.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(job)
}
