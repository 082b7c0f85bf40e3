package ingestion

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"imagenet-browser/application/ports"
	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
)

// Default batch bounds; peak memory tracks these, not the dataset.
const (
	DefaultSynsetBatchSize = 500
	DefaultImageBatchSize  = 1000
)

// Sources holds the four raw input streams. The orchestrator only ever
// reads forward through them.
type Sources struct {
	Words     io.Reader
	Glosses   io.Reader
	Relations io.Reader
	Images    io.Reader
}

// Report is the explicit result of one ingestion run. It is a plain value
// threaded out of the pipeline, never ambient state.
type Report struct {
	RunID             string
	SynsetsCreated    int
	WordsAttached     int
	ImagesAttached    int
	ImagesDropped     int
	LinesSkipped      int
	RelationConflicts int
	CyclesRemoved     int
}

// Orchestrator drives parsers through the builder and into the store in
// bounded transactional batches. It is a single-writer pipeline: one run at
// a time; concurrent read traffic is fine since each batch commits atomically.
type Orchestrator struct {
	uow    ports.UnitOfWork
	logger *zap.Logger

	SynsetBatchSize int
	ImageBatchSize  int
	ConflictPolicy  RelationConflictPolicy
}

// NewOrchestrator creates an orchestrator with default batch sizes
func NewOrchestrator(uow ports.UnitOfWork, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		uow:             uow,
		logger:          logger,
		SynsetBatchSize: DefaultSynsetBatchSize,
		ImageBatchSize:  DefaultImageBatchSize,
		ConflictPolicy:  LastWriteWins,
	}
}

// Run executes one full ingestion over a fixed snapshot of source files.
// Re-running over the same sources is idempotent: existence checks on the
// synset id and the (synset, url) natural keys skip anything already stored.
func (o *Orchestrator) Run(ctx context.Context, src Sources) (Report, error) {
	report := Report{RunID: uuid.New().String()}

	builder := NewBuilder()
	builder.ConflictPolicy = o.ConflictPolicy

	if err := o.fold(src, builder, &report); err != nil {
		return report, err
	}

	forest, cyclesRemoved := builder.Finalize()
	report.CyclesRemoved = cyclesRemoved
	report.RelationConflicts = builder.Conflicts()

	if err := o.writeSynsets(ctx, forest, &report); err != nil {
		return report, err
	}

	if src.Images != nil {
		if err := o.writeImages(ctx, src.Images, builder, &report); err != nil {
			return report, err
		}
	}

	o.logger.Info("Ingestion complete",
		zap.String("runID", report.RunID),
		zap.Int("synsetsCreated", report.SynsetsCreated),
		zap.Int("wordsAttached", report.WordsAttached),
		zap.Int("imagesAttached", report.ImagesAttached),
		zap.Int("imagesDropped", report.ImagesDropped),
		zap.Int("linesSkipped", report.LinesSkipped),
		zap.Int("relationConflicts", report.RelationConflicts),
		zap.Int("cyclesRemoved", report.CyclesRemoved),
	)

	return report, nil
}

// fold consumes the words, gloss and relation streams into the builder.
func (o *Orchestrator) fold(src Sources, builder *Builder, report *Report) error {
	if src.Words != nil {
		words := NewWordScanner(src.Words)
		for words.Scan() {
			builder.AddWords(words.Record())
		}
		if err := words.Err(); err != nil {
			return fmt.Errorf("read words source: %w", err)
		}
		report.LinesSkipped += words.Skipped()
	}

	if src.Glosses != nil {
		glosses := NewGlossScanner(src.Glosses)
		for glosses.Scan() {
			builder.AddGloss(glosses.Record())
		}
		if err := glosses.Err(); err != nil {
			return fmt.Errorf("read gloss source: %w", err)
		}
		report.LinesSkipped += glosses.Skipped()
	}

	if src.Relations != nil {
		relations := NewRelationScanner(src.Relations)
		for relations.Scan() {
			builder.AddRelation(relations.Record())
		}
		if err := relations.Err(); err != nil {
			return fmt.Errorf("read relations source: %w", err)
		}
		report.LinesSkipped += relations.Skipped()
	}

	return nil
}

// writeSynsets persists the forest in topological batches so a parent row
// always exists before any child row referencing it.
func (o *Orchestrator) writeSynsets(ctx context.Context, forest []BuiltSynset, report *Report) error {
	ordered := topoOrder(forest)

	for start := 0; start < len(ordered); start += o.SynsetBatchSize {
		end := start + o.SynsetBatchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		batch := ordered[start:end]

		var created, words int
		fn := func(repos ports.Repositories) error {
			created, words = 0, 0
			for _, built := range batch {
				id, err := valueobjects.NewWNID(built.ID)
				if err != nil {
					continue
				}
				exists, err := repos.Synsets.Exists(ctx, id)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				synset, err := entities.NewSynset(id, built.Labels, built.Gloss)
				if err != nil {
					return err
				}
				if built.Parent != "" {
					parentID, err := valueobjects.NewWNID(built.Parent)
					if err != nil {
						continue
					}
					if err := synset.SetParent(parentID); err != nil {
						return err
					}
				}

				if err := repos.Synsets.Save(ctx, synset); err != nil {
					return err
				}
				created++
				words += len(synset.Words())
			}
			return nil
		}

		if err := o.commitBatch(ctx, "synsets", fn); err != nil {
			return err
		}
		report.SynsetsCreated += created
		report.WordsAttached += words
	}

	return nil
}

// writeImages streams the URL dump, attaching images to known synsets in
// bounded batches. Records naming an unknown synset are dropped and counted.
func (o *Orchestrator) writeImages(ctx context.Context, r io.Reader, builder *Builder, report *Report) error {
	scanner := NewImageScanner(r)
	batch := make([]ImageRecord, 0, o.ImageBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		records := batch

		var attached int
		fn := func(repos ports.Repositories) error {
			attached = 0
			for _, rec := range records {
				synsetID, err := valueobjects.NewWNID(rec.SynsetID)
				if err != nil {
					continue
				}
				exists, err := repos.Images.ExistsURL(ctx, synsetID, rec.URL)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				image, err := entities.NewImage(synsetID, rec.URL, "")
				if err != nil {
					continue
				}
				if _, err := repos.Images.Save(ctx, image); err != nil {
					return err
				}
				attached++
			}
			return nil
		}

		if err := o.commitBatch(ctx, "images", fn); err != nil {
			return err
		}
		report.ImagesAttached += attached
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		rec := scanner.Record()
		if !builder.Has(rec.SynsetID) {
			report.ImagesDropped++
			continue
		}
		batch = append(batch, rec)
		if len(batch) >= o.ImageBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read image source: %w", err)
	}
	report.LinesSkipped += scanner.Skipped()

	return flush()
}

// commitBatch commits one transactional batch, retrying once on failure.
// A second failure aborts the whole run; earlier batches stay committed.
func (o *Orchestrator) commitBatch(ctx context.Context, kind string, fn func(ports.Repositories) error) error {
	err := o.uow.Execute(ctx, fn)
	if err == nil {
		return nil
	}

	o.logger.Warn("Ingestion batch failed, retrying",
		zap.String("kind", kind),
		zap.Error(err),
	)

	if err := o.uow.Execute(ctx, fn); err != nil {
		return fmt.Errorf("ingestion batch (%s) failed after retry: %w", kind, err)
	}
	return nil
}

// topoOrder arranges the forest parents-first: roots, then each successive
// level of children. The builder guarantees acyclicity, so every node is
// reachable from a root.
func topoOrder(forest []BuiltSynset) []BuiltSynset {
	children := make(map[string][]int, len(forest))
	var queue []int
	for i, s := range forest {
		if s.Parent == "" {
			queue = append(queue, i)
		} else {
			children[s.Parent] = append(children[s.Parent], i)
		}
	}

	ordered := make([]BuiltSynset, 0, len(forest))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		ordered = append(ordered, forest[i])
		queue = append(queue, children[forest[i].ID]...)
	}
	return ordered
}
