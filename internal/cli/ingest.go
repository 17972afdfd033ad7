package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/renjie/prism-qudt/pkg/adapters/ingest"
	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// readFile ingests every reading in path. An empty format is inferred from
// the file extension.
func readFile(ctx context.Context, rt *runtime, path, format string) ([]domain.Reading, *domain.IngestionResult, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	var readings []domain.Reading
	collect := func(_ context.Context, batch []domain.Reading) error {
		readings = append(readings, batch...)
		return nil
	}

	var ingestor ports.UniversalIngestor
	switch strings.ToLower(format) {
	case "csv":
		ingestor = ingest.NewCsvUniversalIngestor(rt.units, collect)
	case "json":
		ingestor = ingest.NewJsonUniversalIngestor(rt.units, collect)
	default:
		return nil, nil, fmt.Errorf("unsupported input format %q (use --format csv|json)", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	result, err := ingestor.IngestBatch(ctx, f, format)
	if err != nil {
		return nil, result, fmt.Errorf("ingest %s: %w", path, err)
	}
	for _, msg := range result.Errors {
		rt.logger.Warn("skipped input row", "file", path, "error", msg)
	}
	rt.logger.Debug("ingested", "file", path, "total", result.Total, "success", result.Success, "failed", result.Failed)
	return readings, result, nil
}
