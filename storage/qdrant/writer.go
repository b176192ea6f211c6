// Package qdrant writes result records to a Qdrant collection.
//
// Each record becomes one point: the point ID is the record's content ID,
// the vector is its embedding and the payload carries the post metadata and
// labels. The collection is created on first use with cosine distance.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/qaembed/core"
	"github.com/poiesic/qaembed/storage"
	"github.com/qdrant/go-client/qdrant"
)

const (
	DefaultHost       = "localhost"
	DefaultPort       = 6334
	DefaultCollection = "qa_embeddings"
	defaultBatchSize  = 256
)

// Config holds Qdrant connection settings.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	Collection string
	Dimension  int
}

// pointsAPI is the subset of *qdrant.Client used by Writer.
type pointsAPI interface {
	ListCollections(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error
	Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Close() error
}

// Writer implements storage.ResultWriter on a Qdrant collection.
type Writer struct {
	api        pointsAPI
	collection string
	dimension  uint64
	logger     *slog.Logger
}

var _ storage.ResultWriter = (*Writer)(nil)

// NewWriter connects to Qdrant.
func NewWriter(cfg Config, logger *slog.Logger) (*Writer, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return newWriter(client, cfg, logger)
}

func newWriter(api pointsAPI, cfg Config, logger *slog.Logger) (*Writer, error) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("qdrant: dimension must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		api:        api,
		collection: cfg.Collection,
		dimension:  uint64(cfg.Dimension),
		logger:     logger.With("component", "qdrant", "collection", cfg.Collection),
	}, nil
}

// EnsureCollection creates the collection if it does not exist.
func (w *Writer) EnsureCollection(ctx context.Context) error {
	collections, err := w.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: list collections: %w", err)
	}
	if slices.Contains(collections, w.collection) {
		return nil
	}

	err = w.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: w.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     w.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %q: %w", w.collection, err)
	}
	w.logger.Info("created collection", "dimension", w.dimension)
	return nil
}

// Write upserts every record and waits for the upserts to be applied.
func (w *Writer) Write(ctx context.Context, records []*core.ResultRecord) error {
	if err := w.EnsureCollection(ctx); err != nil {
		return err
	}

	if dups := storage.Duplicates(records); len(dups) > 0 {
		w.logger.Warn("duplicate records overwrite an earlier point", "count", len(dups), "ordinals", dups)
	}

	points := Points(records)
	wait := true
	for start := 0; start < len(points); start += defaultBatchSize {
		end := min(start+defaultBatchSize, len(points))
		_, err := w.api.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: w.collection,
			Points:         points[start:end],
			Wait:           &wait,
		})
		if err != nil {
			return fmt.Errorf("qdrant: upsert [%d:%d]: %w", start, end, err)
		}
	}

	w.logger.Debug("points upserted", "count", len(points))
	return nil
}

// Close closes the client connection.
func (w *Writer) Close() error {
	return w.api.Close()
}

// Points converts records to Qdrant points.
func Points(records []*core.ResultRecord) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, r := range records {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(r.Id)),
			Vectors: qdrant.NewVectors(r.Embedding...),
			Payload: qdrant.NewValueMap(Payload(r)),
		})
	}
	return points
}

// Payload returns the point payload for a record.
func Payload(r *core.ResultRecord) map[string]any {
	return map[string]any{
		"postURL":    r.PostURL,
		"title":      r.Title,
		"question":   r.Question,
		"answer":     r.Answer,
		"mlApiName":  r.MLAPIName,
		"usedLength": r.UsedLength,
		"label": map[string]any{
			"level1":                    r.Label.Level1,
			"level2":                    r.Label.Level2,
			"level3":                    r.Label.Level3,
			"leafContractCategory":      r.Label.LeafContractCategory,
			"rootCause":                 r.Label.RootCause,
			"effect":                    r.Label.Effect,
			"mlLibrary":                 r.Label.MLLibrary,
			"contractViolationLocation": r.Label.ContractViolationLocation,
			"detectionTechnique":        r.Label.DetectionTechnique,
			"reasonsForNotLabeling":     r.Label.ReasonsForNotLabeling,
			"reasonsForLabeling":        r.Label.ReasonsForLabeling,
		},
	}
}
