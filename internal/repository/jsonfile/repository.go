package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/mamadbah2/labtrack/internal/domain/models"
)

// DefaultBackupSuffix is appended to the data file path to name the backup copy.
const DefaultBackupSuffix = ".bak"

// Repository defines the storage operations the inventory needs.
type Repository interface {
	Load(ctx context.Context) ([]*models.Equipment, error)
	Save(ctx context.Context, records []*models.Equipment) error
}

// FileRepository keeps the whole collection in a single JSON document.
type FileRepository struct {
	path         string
	backupSuffix string
	logger       *zap.Logger
}

// equipmentDocument is the on-disk shape of one record.
type equipmentDocument struct {
	ID                string                `json:"id" mapstructure:"id"`
	Name              string                `json:"name" mapstructure:"name"`
	Category          string                `json:"category" mapstructure:"category"`
	TotalQuantity     int                   `json:"totalQuantity" mapstructure:"totalQuantity"`
	AvailableQuantity int                   `json:"availableQuantity" mapstructure:"availableQuantity"`
	DamagedQuantity   int                   `json:"damagedQuantity" mapstructure:"damagedQuantity"`
	Status            models.Status         `json:"status" mapstructure:"status"`
	Borrowers         map[string]int        `json:"borrowers" mapstructure:"borrowers"`
	History           []models.HistoryEntry `json:"history" mapstructure:"history"`
}

// NewFileRepository builds a repository for the document at path.
func NewFileRepository(path, backupSuffix string, logger *zap.Logger) (*FileRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("data file path must not be empty")
	}
	if backupSuffix == "" {
		backupSuffix = DefaultBackupSuffix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileRepository{path: path, backupSuffix: backupSuffix, logger: logger}, nil
}

// Path returns the data file location.
func (r *FileRepository) Path() string { return r.path }

// BackupPath returns where the previous content is kept on save.
func (r *FileRepository) BackupPath() string { return r.path + r.backupSuffix }

// Load reads the collection. A missing file yields an empty collection and no
// error. An empty or corrupt file yields an empty collection together with an
// error wrapping models.ErrPersistence, which callers treat as a warning.
func (r *FileRepository) Load(ctx context.Context) ([]*models.Equipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("no data file, starting fresh", zap.String("path", r.path))
		return []*models.Equipment{}, nil
	}
	if err != nil {
		return []*models.Equipment{}, fmt.Errorf("%w: read %s: %w", models.ErrPersistence, r.path, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return []*models.Equipment{}, fmt.Errorf("%w: %s is empty", models.ErrPersistence, r.path)
	}

	records, err := decode(raw)
	if err != nil {
		return []*models.Equipment{}, fmt.Errorf("%w: %s is corrupt: %w", models.ErrPersistence, r.path, err)
	}

	r.logger.Debug("data file loaded", zap.String("path", r.path), zap.Int("records", len(records)))
	return records, nil
}

// Save overwrites the document with records. The previous document, if any,
// is copied to the backup path first, and the new content is written through
// a temporary file renamed into place.
func (r *FileRepository) Save(ctx context.Context, records []*models.Equipment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := encode(records)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", models.ErrPersistence, err)
	}

	if err := r.backup(); err != nil {
		return fmt.Errorf("%w: backup %s: %w", models.ErrPersistence, r.BackupPath(), err)
	}

	if err := writeAtomic(r.path, payload); err != nil {
		return fmt.Errorf("%w: write %s: %w", models.ErrPersistence, r.path, err)
	}

	r.logger.Debug("data file saved", zap.String("path", r.path), zap.Int("records", len(records)))
	return nil
}

func (r *FileRepository) backup() error {
	previous, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(r.BackupPath(), previous, 0o644)
}

func writeAtomic(path string, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func encode(records []*models.Equipment) ([]byte, error) {
	docs := make([]equipmentDocument, 0, len(records))
	for _, rec := range records {
		state := rec.State()
		docs = append(docs, equipmentDocument{
			ID:                state.ID,
			Name:              state.Name,
			Category:          state.Category,
			TotalQuantity:     state.Total,
			AvailableQuantity: state.Available,
			DamagedQuantity:   state.Damaged,
			Status:            rec.Status(),
			Borrowers:         state.Borrowers,
			History:           state.History,
		})
	}
	return json.MarshalIndent(docs, "", "  ")
}

func decode(raw []byte) ([]*models.Equipment, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	items, ok := generic.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %T", generic)
	}
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("record %d is not an object", i)
		}
		// older data files name the id field equipmentId
		if _, hasID := obj["id"]; !hasID {
			if legacy, ok := obj["equipmentId"]; ok {
				obj["id"] = legacy
			}
		}
	}

	var docs []equipmentDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: historyLineHook,
		Result:     &docs,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, err
	}

	records := make([]*models.Equipment, 0, len(docs))
	seenIDs := make(map[string]struct{}, len(docs))
	seenNames := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		rec, err := models.RestoreEquipment(models.EquipmentState{
			ID:        doc.ID,
			Name:      doc.Name,
			Category:  doc.Category,
			Total:     doc.TotalQuantity,
			Available: doc.AvailableQuantity,
			Damaged:   doc.DamagedQuantity,
			Borrowers: doc.Borrowers,
			History:   doc.History,
		})
		if err != nil {
			return nil, err
		}

		idKey := strings.ToLower(rec.ID())
		nameKey := strings.ToLower(rec.Name())
		if _, dup := seenIDs[idKey]; dup {
			return nil, fmt.Errorf("%w: id %s appears twice", models.ErrDuplicate, rec.ID())
		}
		if _, dup := seenNames[nameKey]; dup {
			return nil, fmt.Errorf("%w: name %s appears twice", models.ErrDuplicate, rec.Name())
		}
		seenIDs[idKey] = struct{}{}
		seenNames[nameKey] = struct{}{}
		records = append(records, rec)
	}
	return records, nil
}

var historyEntryType = reflect.TypeOf(models.HistoryEntry{})

// historyLineHook accepts history entries stored as rendered text lines.
func historyLineHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != historyEntryType {
		return data, nil
	}
	line, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("history entry %v is neither an object nor a line", data)
	}
	return models.ParseHistoryEntry(line)
}
