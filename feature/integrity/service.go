package integrity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"spellbook/core/reconcile"
	"spellbook/core/storage"
	"spellbook/feature/integrity/checks"
	"spellbook/feature/spellcount"
	"spellbook/feature/spellcount/models"
	spellreconcile "spellbook/feature/spellcount/reconcile"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by report operations when no storage client is configured.
var ErrStorageDisabled = errors.New("report storage is not configured")

// ReportObject describes an exported report in the bucket.
type ReportObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	spec   *reconcile.Spec
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new integrity service. client may be nil when storage is disabled.
func NewService(db *gorm.DB, store *spellcount.Store, client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	prefix := cfg.ReportPrefix
	if prefix == "" {
		prefix = "reports"
	}
	return &Service{
		db:     db,
		spec:   &reconcile.Spec{Adapter: spellreconcile.NewAdapter(store)},
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// CheckSchema compares the roles, spells and role_spells tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.All()...)
}

// CheckCounters reports num_spells drift and repairs it when opts allow.
func (s *Service) CheckCounters(ctx context.Context, opts reconcile.ReconcileOptions) (*checks.CounterReport, error) {
	report, err := checks.CheckCounters(ctx, s.spec, opts)
	if err != nil {
		return report, err
	}
	s.logger.Info("Counter check completed",
		zap.Int("roles", report.Summary.TotalItems),
		zap.Int("drifted", report.Summary.Drifted),
		zap.Int("repaired", report.Repaired))
	return report, nil
}

// ExportReport uploads report as JSON and returns its object key.
func (s *Service) ExportReport(ctx context.Context, report *checks.CounterReport) (string, error) {
	if s.client == nil {
		return "", ErrStorageDisabled
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := path.Join(s.prefix, fmt.Sprintf("counters-%d.json", s.now().Unix()))
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}

	s.logger.Info("Exported counter report", zap.String("bucket", s.bucket), zap.String("key", key))
	return key, nil
}

// ListReports lists exported reports, newest first.
func (s *Service) ListReports(ctx context.Context) ([]ReportObject, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}

	reports := []ReportObject{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		reports = append(reports, ReportObject{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Key > reports[j].Key
	})
	return reports, nil
}
