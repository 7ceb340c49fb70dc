package count

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dtnitsch/book-wordfreq/internal/common"
	"github.com/dtnitsch/book-wordfreq/models"
	"github.com/dtnitsch/book-wordfreq/pkg/caching"
	"github.com/dtnitsch/book-wordfreq/pkg/corpus"
	"github.com/dtnitsch/book-wordfreq/pkg/language"
	"github.com/dtnitsch/book-wordfreq/pkg/manifest"
	"github.com/dtnitsch/book-wordfreq/pkg/mapreduce"
	"gopkg.in/yaml.v3"
)

// Job defines a task for a worker to perform.
type Job struct {
	Index  int
	Source string
}

// Result holds the outcome of a processed job.
type Result struct {
	Index      int
	Source     string
	Title      string
	Language   string
	Status     string
	Error      error
	ErrorType  string
	Stats      *mapreduce.MapStats
	WordCounts []mapreduce.WordCount // ranked per-document counts
	Files      []string              // intermediate record file per partition, "" when empty
}

// Outcome is everything a finished run produced.
type Outcome struct {
	Results []Result
	Counts  []mapreduce.WordCount // ranked totals
	Blocks  []mapreduce.WordYears // dimensional mode only
	Reduce  mapreduce.ReduceStats
}

// Mapped is how many documents contributed records.
func (o *Outcome) Mapped() int {
	n := 0
	for _, r := range o.Results {
		if r.Status == manifest.StatusMapped || r.Status == manifest.StatusCached {
			n++
		}
	}
	return n
}

// cachedDocument is what the cache stores for one mapped document.
type cachedDocument struct {
	Title   string              `yaml:"title"`
	Stats   *mapreduce.MapStats `yaml:"stats"`
	Sample  string              `yaml:"sample,omitempty"`
	Records string              `yaml:"records"`
}

// Pipeline runs the map, shuffle and reduce phases over a set of sources.
type Pipeline struct {
	cfg      *models.Config
	logger   *slog.Logger
	loader   *corpus.Loader
	mapper   *mapreduce.Mapper
	guard    *language.Guard
	cache    *caching.Cache
	cacheTag string
	workDir  string
}

// NewPipeline builds a pipeline from cfg. Dimensional mode loads the
// vocabulary here so a missing file fails before any work starts. Close
// removes the pipeline's intermediate files.
func NewPipeline(cfg *models.Config, logger *slog.Logger) (*Pipeline, error) {
	mode, err := mapreduce.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	opts := mapreduce.MapperOptions{
		Mode:       mode,
		Boundaries: cfg.Boundaries,
		Tokenizer:  newTokenizer(cfg),
	}
	vocabTag := ""
	if mode == mapreduce.ModeDimensional {
		vocab, err := corpus.LoadVocabulary(cfg.VocabularyFile)
		if err != nil {
			return nil, err
		}
		opts.Vocabulary = vocab
		vocabTag = vocabularyHash(vocab)
		logger.Info("Loaded vocabulary", "path", cfg.VocabularyFile, "words", vocab.Len())
	}

	mapper, err := mapreduce.NewMapper(opts)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
		loader: corpus.NewLoader(),
		mapper: mapper,
		cacheTag: caching.Key(string(mode),
			"stem="+strconv.FormatBool(cfg.Stem),
			"boundaries="+strconv.FormatBool(cfg.Boundaries),
			"vocab="+vocabTag),
	}
	if cfg.EnglishOnly {
		p.guard = language.NewGuard()
	}
	if cfg.CacheDir != "" {
		p.cache, err = caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
	}

	p.workDir, err = os.MkdirTemp(cfg.TempDir, "book-wordfreq-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	return p, nil
}

// Close removes intermediate files.
func (p *Pipeline) Close() error {
	return os.RemoveAll(p.workDir)
}

func vocabularyHash(v corpus.Vocabulary) string {
	words := make([]string, 0, v.Len())
	for w := range v {
		words = append(words, w)
	}
	sort.Strings(words)
	return common.ContentHash([]byte(strings.Join(words, "\n")))
}

// Run maps every source with a pool of workers, then sorts and reduces
// each partition in its own goroutine and merges the partitions.
func (p *Pipeline) Run(ctx context.Context, sources []string) (*Outcome, error) {
	workers := max(p.cfg.Workers, 1)

	p.logger.Info("Starting map phase", "sources", len(sources), "workers", workers, "partitions", p.partitions(), "mode", p.mapper.Mode())
	var wg sync.WaitGroup
	jobs := make(chan Job, len(sources))
	results := make(chan Result, len(sources))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go p.worker(ctx, w, &wg, jobs, results)
	}

	for i, src := range sources {
		jobs <- Job{Index: i, Source: src}
	}
	close(jobs)

	// Every document must be mapped before any partition is reduced
	wg.Wait()
	close(results)
	p.logger.Info("All map workers finished")

	outcome := &Outcome{Results: make([]Result, 0, len(sources))}
	for result := range results {
		outcome.Results = append(outcome.Results, result)
	}
	sort.Slice(outcome.Results, func(i, j int) bool {
		return outcome.Results[i].Index < outcome.Results[j].Index
	})

	if err := p.reduce(ctx, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (p *Pipeline) partitions() int {
	return max(p.cfg.Partitions, 1)
}

func (p *Pipeline) worker(ctx context.Context, id int, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		p.logger.Info("Worker started job", "worker_id", id, "source", job.Source)
		result := p.process(ctx, job)
		if result.Error != nil {
			p.logger.Error("Worker failed job", "worker_id", id, "source", job.Source, "error_type", result.ErrorType, "error", result.Error)
		} else {
			p.logger.Info("Worker finished job", "worker_id", id, "source", job.Source, "status", result.Status)
		}
		results <- result
	}
}

// process maps one document into per-partition record files.
func (p *Pipeline) process(ctx context.Context, job Job) Result {
	result := Result{Index: job.Index, Source: job.Source, Title: filepath.Base(job.Source)}

	fail := func(errorType string, err error) Result {
		result.Status = manifest.StatusFailed
		result.ErrorType = errorType
		result.Error = err
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail("canceled", err)
	}

	doc, err := p.loader.Load(ctx, job.Source)
	if err != nil {
		return fail("load_error", err)
	}
	result.Title = doc.Title

	key := caching.Key(doc.Source, common.ContentHash(doc.Body), p.cacheTag)
	entry, cached := p.lookup(key)
	if cached {
		result.Status = manifest.StatusCached
	} else {
		entry, err = p.mapDocument(doc)
		if err != nil {
			return fail("map_error", err)
		}
		result.Status = manifest.StatusMapped
		p.store(key, entry)
	}
	result.Stats = entry.Stats

	if p.guard != nil {
		english, lang := p.guard.IsEnglish(entry.Sample)
		result.Language = lang
		if !english {
			p.logger.Info("Skipping non-English document", "source", job.Source, "language", lang)
			result.Status = manifest.StatusSkipped
			return result
		}
	}

	files, counts, err := p.distribute(job.Index, []byte(entry.Records))
	if err != nil {
		return fail("write_error", err)
	}
	result.Files = files
	result.WordCounts = counts
	return result
}

func (p *Pipeline) mapDocument(doc *corpus.Document) (*cachedDocument, error) {
	var records bytes.Buffer
	w := bufio.NewWriter(&records)
	stats, err := p.mapper.MapDocument(bytes.NewReader(doc.Body), mapreduce.LineEmitter(w))
	if err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return &cachedDocument{
		Title:   doc.Title,
		Stats:   stats,
		Sample:  stats.Sample,
		Records: records.String(),
	}, nil
}

func (p *Pipeline) lookup(key string) (*cachedDocument, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var entry cachedDocument
	if err := yaml.Unmarshal(data, &entry); err != nil || entry.Stats == nil {
		p.logger.Warn("Ignoring unreadable cache entry", "error", err)
		return nil, false
	}
	return &entry, true
}

func (p *Pipeline) store(key string, entry *cachedDocument) {
	if p.cache == nil {
		return
	}
	data, err := yaml.Marshal(entry)
	if err != nil {
		p.logger.Warn("Failed to encode cache entry", "error", err)
		return
	}
	if err := p.cache.Set(key, data); err != nil {
		p.logger.Warn("Failed to write cache entry", "error", err)
	}
}

// distribute splits a document's records by partition, writes one file per
// non-empty partition and returns the document's own ranked counts.
func (p *Pipeline) distribute(index int, records []byte) ([]string, []mapreduce.WordCount, error) {
	n := p.partitions()
	parts := make([]bytes.Buffer, n)
	tally := make(map[string]int)
	mode := p.mapper.Mode()

	err := corpus.ScanLines(bytes.NewReader(records), func(l corpus.LineRecord) error {
		rec, err := mapreduce.ParseRecord(l.Text, mode)
		if err != nil {
			return nil
		}
		tally[rec.Word] += rec.Count
		part := &parts[mapreduce.Partition(rec.Word, n)]
		part.WriteString(l.Text)
		part.WriteByte('\n')
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	files := make([]string, n)
	for i := range parts {
		if parts[i].Len() == 0 {
			continue
		}
		path := filepath.Join(p.workDir, fmt.Sprintf("p%03d-d%06d.rec", i, index))
		if err := os.WriteFile(path, parts[i].Bytes(), 0644); err != nil {
			return nil, nil, fmt.Errorf("failed to write intermediate records: %w", err)
		}
		files[i] = path
	}

	counts := make([]mapreduce.WordCount, 0, len(tally))
	for w, c := range tally {
		counts = append(counts, mapreduce.WordCount{Word: w, Count: c})
	}
	mapreduce.Rank(counts)
	return files, counts, nil
}

// partitionResult is the reduced output of one partition.
type partitionResult struct {
	counts []mapreduce.WordCount
	blocks []mapreduce.WordYears
	stats  mapreduce.ReduceStats
	err    error
}

// reduce sorts and reduces every partition concurrently and merges them.
func (p *Pipeline) reduce(ctx context.Context, outcome *Outcome) error {
	n := p.partitions()
	p.logger.Info("Starting reduce phase", "partitions", n)

	out := make([]partitionResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		var files []string
		for _, r := range outcome.Results {
			if r.Files != nil && r.Files[i] != "" {
				files = append(files, r.Files[i])
			}
		}

		wg.Add(1)
		go func(i int, files []string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				out[i].err = err
				return
			}
			out[i] = p.reducePartition(files)
		}(i, files)
	}
	wg.Wait()

	var (
		counts [][]mapreduce.WordCount
		blocks [][]mapreduce.WordYears
	)
	for i, r := range out {
		if r.err != nil {
			return fmt.Errorf("failed to reduce partition %d: %w", i, r.err)
		}
		counts = append(counts, r.counts)
		blocks = append(blocks, r.blocks)
		outcome.Reduce.Records += r.stats.Records
		outcome.Reduce.Skipped += r.stats.Skipped
		outcome.Reduce.Keys += r.stats.Keys
	}

	if p.mapper.Mode() == mapreduce.ModeDimensional {
		outcome.Blocks = mapreduce.CombineYears(blocks...)
		for _, b := range outcome.Blocks {
			outcome.Counts = append(outcome.Counts, mapreduce.WordCount{Word: b.Word, Count: b.Total})
		}
		mapreduce.Rank(outcome.Counts)
	} else {
		outcome.Counts = mapreduce.Combine(counts...)
	}

	p.logger.Info("Reduce phase finished", "records", outcome.Reduce.Records, "skipped", outcome.Reduce.Skipped, "words", len(outcome.Counts))
	return nil
}

// reducePartition streams the partition's files through the sorter into
// the reducer.
func (p *Pipeline) reducePartition(files []string) partitionResult {
	var readers []io.Reader
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return partitionResult{err: fmt.Errorf("failed to open intermediate records: %w", err)}
		}
		defer f.Close()
		readers = append(readers, f)
	}

	sorter := &mapreduce.Sorter{ChunkLines: p.cfg.ChunkLines, TempDir: p.workDir}
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(sorter.Sort(io.MultiReader(readers...), pw))
	}()

	var res partitionResult
	if p.mapper.Mode() == mapreduce.ModeDimensional {
		res.blocks, res.stats, res.err = mapreduce.CollectDimensional(pr)
	} else {
		res.counts, res.stats, res.err = mapreduce.CollectUnigram(pr)
	}
	pr.CloseWithError(res.err)
	return res
}
