// Package pipeline runs the job recommendation flow end to end: resume
// extraction, posting fetch, text normalization, embedding, ranking,
// filtering and reporting. Stages run strictly in order and the first
// failure aborts the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/job-ranker/internal/adzuna"
	"github.com/spigell/job-ranker/internal/filtering"
	"github.com/spigell/job-ranker/internal/ranking"
	"github.com/spigell/job-ranker/internal/results"
	"github.com/spigell/job-ranker/internal/resume"
	"github.com/spigell/job-ranker/internal/textproc"
	"github.com/spigell/job-ranker/internal/utils"
	"go.uber.org/zap"
)

// resumePreviewLen caps the resume excerpt included in debug logs.
const resumePreviewLen = 160

// TextExtractor pulls plain text out of a resume file.
type TextExtractor interface {
	ExtractFile(path string) (string, error)
}

// JobSource fetches postings matching the search parameters.
type JobSource interface {
	Search(params *adzuna.SearchParams) (*adzuna.Postings, error)
}

// Embedder produces embedding vectors for prepared text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Model() string
}

// ArtifactStore persists stage artifacts for inspection after the run.
type ArtifactStore interface {
	SaveJSON(name string, v any) (string, error)
	SaveText(name, text string) (string, error)
	SaveCSV(name string, rows []results.Recommendation) (string, error)
}

// Params bundles one run's inputs.
type Params struct {
	ResumePath string               `json:"resume_path"`
	Search     *adzuna.SearchParams `json:"search,omitempty"`
	Criteria   *filtering.Criteria  `json:"filters,omitempty"`

	// TopN limits the emitted recommendations. Non-positive keeps none, so
	// callers wanting output must set it.
	TopN int `json:"top_n"`
}

// Outcome carries the run's ranked results. Early clean exits (no postings
// fetched, everything filtered out) leave the later fields empty.
type Outcome struct {
	Postings *adzuna.Postings
	Scored   []ranking.ScoredPosting
	Filtered []ranking.ScoredPosting
	Top      []ranking.ScoredPosting
	Stats    ranking.Stats
}

type cleanedJobText struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type embeddingArtifact struct {
	Embedding []float64 `json:"embedding"`
	Dimension int       `json:"dimension"`
}

type embeddingsArtifact struct {
	Embeddings [][]float64 `json:"embeddings"`
	Count      int         `json:"count"`
	Dimension  int         `json:"dimension"`
}

// Pipeline wires the run's collaborators together.
type Pipeline struct {
	extractor  TextExtractor
	source     JobSource
	embedder   Embedder
	store      ArtifactStore
	normalizer *textproc.Normalizer
	logger     *zap.Logger
}

func New(extractor TextExtractor, source JobSource, embedder Embedder, store ArtifactStore, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		extractor:  extractor,
		source:     source,
		embedder:   embedder,
		store:      store,
		normalizer: textproc.NewNormalizer(),
		logger:     logger,
	}
}

// Run executes all stages in order and returns the ranked outcome. An empty
// posting list after fetching or filtering ends the run cleanly with a
// partial outcome and no error.
func (p *Pipeline) Run(ctx context.Context, params *Params) (*Outcome, error) {
	if params == nil || strings.TrimSpace(params.ResumePath) == "" {
		return nil, newStageError(StageResume, errors.New("resume path is required"))
	}

	manifest := results.NewManifest(params)
	if _, err := p.store.SaveJSON("run_manifest.json", manifest); err != nil {
		return nil, newStageError(StageSetup, err)
	}

	p.logger.Info("starting run", zap.String("run_id", manifest.RunID))

	resumeText, err := p.extractResume(params.ResumePath)
	if err != nil {
		return nil, err
	}

	postings, err := p.fetchPostings(params.Search)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Postings: postings}

	if postings.Len() == 0 {
		p.logger.Info("no postings found, nothing to rank")
		return outcome, nil
	}

	resumeClean, jobTexts, err := p.normalize(resumeText, postings)
	if err != nil {
		return nil, err
	}

	resumeVec, jobVecs, err := p.embed(ctx, resumeClean, jobTexts, postings.Len())
	if err != nil {
		return nil, err
	}

	scored, err := p.rank(resumeVec, jobVecs, postings)
	if err != nil {
		return nil, err
	}

	outcome.Scored = scored
	outcome.Stats = ranking.Summarize(scored)

	if _, err := p.store.SaveJSON("score_statistics.json", outcome.Stats); err != nil {
		return nil, newStageError(StageRank, err)
	}

	p.logger.Info("ranked postings",
		zap.Int("count", len(scored)),
		zap.Float64("mean_score", outcome.Stats.Mean),
		zap.Float64("max_score", outcome.Stats.Max),
	)

	chain := filtering.New(filtering.Steps(params.Criteria), p.logger)

	filtered, err := chain.RunFilters(ctx, scored)
	if err != nil {
		return nil, newStageError(StageFilter, err)
	}

	outcome.Filtered = filtered

	if len(filtered) == 0 {
		p.logger.Info("all postings dropped by filters")
		return outcome, nil
	}

	top := ranking.TopN(filtered, params.TopN)
	outcome.Top = top

	rows := results.Recommendations(top)

	if _, err := p.store.SaveJSON("top_recommendations.json", rows); err != nil {
		return nil, newStageError(StageReport, err)
	}

	if _, err := p.store.SaveCSV("top_recommendations.csv", rows); err != nil {
		return nil, newStageError(StageReport, err)
	}

	p.logger.Info("run complete",
		zap.Int("ranked", len(scored)),
		zap.Int("after_filters", len(filtered)),
		zap.Int("top", len(top)),
	)

	return outcome, nil
}

func (p *Pipeline) extractResume(path string) (string, error) {
	p.logger.Info("extracting resume", zap.String("path", path))

	text, err := p.extractor.ExtractFile(path)
	if err != nil {
		return "", newStageError(StageResume, err)
	}

	p.logger.Debug("extracted resume text",
		zap.Int("chars", len(text)),
		zap.String("preview", utils.TruncateForLog(text, resumePreviewLen)),
	)

	if !resume.Validate(text) {
		p.logger.Warn("extracted text does not look like a resume, continuing anyway")
	}

	contacts := resume.ExtractContacts(text)
	p.logger.Debug("resume contacts detected",
		zap.Int("emails", len(contacts.Emails)),
		zap.Int("phones", len(contacts.Phones)),
		zap.String("linkedin", contacts.LinkedIn),
		zap.String("github", contacts.GitHub),
	)

	return text, nil
}

func (p *Pipeline) fetchPostings(params *adzuna.SearchParams) (*adzuna.Postings, error) {
	search := adzuna.SearchParams{}
	if params != nil {
		search = *params
	}

	search.Location = textproc.NormalizeLocation(search.Location)

	p.logger.Info("fetching job postings",
		zap.String("keywords", search.Keywords),
		zap.String("location", search.Location),
	)

	postings, err := p.source.Search(&search)
	if err != nil {
		return nil, newStageError(StageFetch, err)
	}

	p.logger.Info("fetched postings", zap.Int("count", postings.Len()))

	if _, err := p.store.SaveJSON("job_postings_raw.json", postings); err != nil {
		return nil, newStageError(StageFetch, err)
	}

	return postings, nil
}

func (p *Pipeline) normalize(resumeText string, postings *adzuna.Postings) (string, []string, error) {
	p.logger.Info("normalizing text")

	resumeClean := p.normalizer.PrepareResumeText(resumeText, nil)
	if _, err := p.store.SaveText("resume_cleaned.txt", resumeClean); err != nil {
		return "", nil, newStageError(StageNormalize, err)
	}

	jobTexts := make([]string, 0, postings.Len())
	cleaned := make([]cleanedJobText, 0, postings.Len())

	for _, posting := range postings.Items {
		text := p.normalizer.PrepareJobText(posting)
		jobTexts = append(jobTexts, text)
		cleaned = append(cleaned, cleanedJobText{ID: posting.ID, Text: text})
	}

	if _, err := p.store.SaveJSON("job_texts_cleaned.json", cleaned); err != nil {
		return "", nil, newStageError(StageNormalize, err)
	}

	return resumeClean, jobTexts, nil
}

func (p *Pipeline) embed(ctx context.Context, resumeClean string, jobTexts []string, want int) ([]float64, [][]float64, error) {
	p.logger.Info("generating embeddings",
		zap.String("model", p.embedder.Model()),
		zap.Int("texts", len(jobTexts)+1),
	)

	resumeVec, err := p.embedder.Embed(ctx, resumeClean)
	if err != nil {
		return nil, nil, newStageError(StageEmbed, err)
	}

	if _, err := p.store.SaveJSON("resume_embedding.json", embeddingArtifact{
		Embedding: resumeVec,
		Dimension: len(resumeVec),
	}); err != nil {
		return nil, nil, newStageError(StageEmbed, err)
	}

	jobVecs, err := p.embedder.EmbedBatch(ctx, jobTexts)
	if err != nil {
		return nil, nil, newStageError(StageEmbed, err)
	}

	if len(jobVecs) != want {
		return nil, nil, newStageError(StageEmbed, fmt.Errorf("expected %d job vectors, got %d", want, len(jobVecs)))
	}

	dimension := 0
	if len(jobVecs) > 0 {
		dimension = len(jobVecs[0])
	}

	if _, err := p.store.SaveJSON("job_embeddings.json", embeddingsArtifact{
		Embeddings: jobVecs,
		Count:      len(jobVecs),
		Dimension:  dimension,
	}); err != nil {
		return nil, nil, newStageError(StageEmbed, err)
	}

	return resumeVec, jobVecs, nil
}

func (p *Pipeline) rank(resumeVec []float64, jobVecs [][]float64, postings *adzuna.Postings) ([]ranking.ScoredPosting, error) {
	candidates := make([]ranking.Candidate, postings.Len())
	for i, posting := range postings.Items {
		candidates[i] = ranking.Candidate{Posting: posting, Vector: jobVecs[i]}
	}

	scored, err := ranking.Rank(resumeVec, candidates)
	if err != nil {
		return nil, newStageError(StageRank, err)
	}

	if _, err := p.store.SaveJSON("similarity_scores.json", results.ScoreRecords(scored)); err != nil {
		return nil, newStageError(StageRank, err)
	}

	return scored, nil
}
