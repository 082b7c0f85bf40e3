// Command ingest performs a bulk load of the taxonomy from the four
// WordNet/ImageNet source files into the configured store. It is safe to
// re-run over the same files; rows already present are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"imagenet-browser/application/ingestion"
	"imagenet-browser/infrastructure/di"
)

func main() {
	var (
		wordsPath     = flag.String("words", "", "path to the words file (wnid<TAB>comma-separated labels)")
		glossesPath   = flag.String("glosses", "", "path to the glosses file (wnid<TAB>gloss)")
		relationsPath = flag.String("relations", "", "path to the is-a relations file (parent child)")
		imagesPath    = flag.String("images", "", "path to the image URLs file (wnid_imid<TAB>url)")
		firstWins     = flag.Bool("first-wins", false, "keep the first parent seen for a synset instead of the last")
	)
	flag.Parse()

	if *wordsPath == "" && *glossesPath == "" && *relationsPath == "" && *imagesPath == "" {
		fmt.Fprintln(os.Stderr, "at least one source file is required")
		flag.Usage()
		os.Exit(2)
	}

	container, err := di.InitializeContainer()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	logger := container.Logger
	defer logger.Sync()

	src, closeAll, err := openSources(*wordsPath, *glossesPath, *relationsPath, *imagesPath)
	if err != nil {
		logger.Fatal("failed to open source files", zap.Error(err))
	}
	defer closeAll()

	orchestrator := ingestion.NewOrchestrator(container.UnitOfWork, logger)
	orchestrator.SynsetBatchSize = container.Config.SynsetBatchSize
	orchestrator.ImageBatchSize = container.Config.ImageBatchSize
	if *firstWins {
		orchestrator.ConflictPolicy = ingestion.FirstWriteWins
	}

	report, err := orchestrator.Run(context.Background(), src)
	if err != nil {
		logger.Error("ingestion aborted",
			zap.String("run_id", report.RunID),
			zap.Error(err),
		)
		os.Exit(1)
	}

	logger.Info("ingestion finished",
		zap.String("run_id", report.RunID),
		zap.Int("synsets_created", report.SynsetsCreated),
		zap.Int("words_attached", report.WordsAttached),
		zap.Int("images_attached", report.ImagesAttached),
		zap.Int("images_dropped", report.ImagesDropped),
		zap.Int("lines_skipped", report.LinesSkipped),
		zap.Int("relation_conflicts", report.RelationConflicts),
		zap.Int("cycles_removed", report.CyclesRemoved),
	)
}

// openSources opens whichever source paths were given. Absent sources stay
// nil and their ingestion stage is skipped.
func openSources(words, glosses, relations, images string) (ingestion.Sources, func(), error) {
	var src ingestion.Sources
	var files []*os.File

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	open := func(path string) (*os.File, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		return f, nil
	}

	var err error
	if words != "" {
		if src.Words, err = open(words); err != nil {
			closeAll()
			return ingestion.Sources{}, nil, err
		}
	}
	if glosses != "" {
		if src.Glosses, err = open(glosses); err != nil {
			closeAll()
			return ingestion.Sources{}, nil, err
		}
	}
	if relations != "" {
		if src.Relations, err = open(relations); err != nil {
			closeAll()
			return ingestion.Sources{}, nil, err
		}
	}
	if images != "" {
		if src.Images, err = open(images); err != nil {
			closeAll()
			return ingestion.Sources{}, nil, err
		}
	}

	return src, closeAll, nil
}
