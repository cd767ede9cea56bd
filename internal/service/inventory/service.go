package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/labtrack/internal/domain/models"
	"github.com/mamadbah2/labtrack/internal/repository/jsonfile"
)

// Store is the inventory surface used by the command layer.
type Store interface {
	AddOrUpdate(ctx context.Context, name, category string, quantity int) (AddResult, error)
	Borrow(ctx context.Context, name, user string, quantity int, date string) (*models.Equipment, error)
	GiveBack(ctx context.Context, name, user string, quantity int, date string) (*models.Equipment, error)
	ReportDamaged(ctx context.Context, name, user string, quantity int, date string) (*models.Equipment, error)
	Find(name string) (*models.Equipment, error)
	Search(keyword string) ([]*models.Equipment, error)
	FilterByStatus(status string) ([]*models.Equipment, error)
	FilterByCategory(category string) ([]*models.Equipment, error)
	ListAll() []*models.Equipment
	AvailableFor() []*models.Equipment
	HeldBy(user string) []Holding
}

// AddResult describes the outcome of AddOrUpdate.
type AddResult struct {
	Equipment *models.Equipment
	Created   bool
	// CategoryIgnored is set when an existing item was restocked under a
	// different category than the one it was created with.
	CategoryIgnored bool
}

// Holding is one open balance of a user.
type Holding struct {
	Equipment *models.Equipment
	Quantity  int
}

// Service is the in-memory equipment collection backed by a repository.
type Service struct {
	repo    jsonfile.Repository
	records []*models.Equipment
	byID    map[string]*models.Equipment
	newID   func() string
	logger  *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService builds an empty store. Call Load to populate it.
func NewService(repository jsonfile.Repository, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:   repository,
		byID:   make(map[string]*models.Equipment),
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the persisted one. When the data file is
// empty or corrupt the store stays empty and the returned error wraps
// models.ErrPersistence; the store remains usable.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.repo.Load(ctx)
	s.records = s.records[:0]
	s.byID = make(map[string]*models.Equipment, len(records))
	for _, rec := range records {
		s.records = append(s.records, rec)
		s.byID[rec.ID()] = rec
	}

	if err != nil {
		if errors.Is(err, models.ErrPersistence) {
			s.logger.Warn("data file unusable, starting with empty inventory", zap.Error(err))
		}
		return err
	}

	s.logger.Info("inventory loaded", zap.Int("records", len(s.records)))
	return nil
}

// AddOrUpdate restocks an existing item (matched by name, ignoring case) or
// creates a new one.
func (s *Service) AddOrUpdate(ctx context.Context, name, category string, quantity int) (AddResult, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return AddResult{}, fmt.Errorf("%w: equipment name cannot be empty", models.ErrValidation)
	case strings.TrimSpace(category) == "":
		return AddResult{}, fmt.Errorf("%w: category cannot be empty", models.ErrValidation)
	case quantity <= 0:
		return AddResult{}, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	if existing := s.lookup(name); existing != nil {
		if err := existing.IncreaseStock(quantity); err != nil {
			return AddResult{}, err
		}
		result := AddResult{Equipment: existing}
		if !strings.EqualFold(strings.TrimSpace(category), existing.Category()) {
			result.CategoryIgnored = true
			s.logger.Warn("category differs from existing item, keeping original",
				zap.String("name", existing.Name()),
				zap.String("category", existing.Category()),
				zap.String("requested", category))
		}
		s.logger.Info("equipment restocked", zap.String("name", existing.Name()), zap.Int("quantity", quantity))
		return result, s.persist(ctx)
	}

	rec, err := models.NewEquipment(s.newID(), name, category, quantity)
	if err != nil {
		return AddResult{}, err
	}
	if err := s.insert(rec); err != nil {
		return AddResult{}, err
	}

	s.logger.Info("equipment added", zap.String("id", rec.ID()), zap.String("name", rec.Name()), zap.Int("quantity", quantity))
	return AddResult{Equipment: rec, Created: true}, s.persist(ctx)
}

func (s *Service) insert(rec *models.Equipment) error {
	for id := range s.byID {
		if strings.EqualFold(id, rec.ID()) {
			return fmt.Errorf("%w: equipment with id %s already exists", models.ErrDuplicate, rec.ID())
		}
	}
	s.records = append(s.records, rec)
	s.byID[rec.ID()] = rec
	return nil
}

// Borrow lends units of the named item to user.
func (s *Service) Borrow(ctx context.Context, name, user string, quantity int, date string) (*models.Equipment, error) {
	return s.transact(ctx, "borrow", name, user, quantity, date, (*models.Equipment).Borrow)
}

// GiveBack returns units of the named item from user.
func (s *Service) GiveBack(ctx context.Context, name, user string, quantity int, date string) (*models.Equipment, error) {
	return s.transact(ctx, "return", name, user, quantity, date, (*models.Equipment).GiveBack)
}

// ReportDamaged records units held by user as damaged.
func (s *Service) ReportDamaged(ctx context.Context, name, user string, quantity int, date string) (*models.Equipment, error) {
	return s.transact(ctx, "damage", name, user, quantity, date, (*models.Equipment).ReportDamaged)
}

type ledgerOp func(e *models.Equipment, user string, quantity int, date string) error

func (s *Service) transact(ctx context.Context, op, name, user string, quantity int, date string, apply ledgerOp) (*models.Equipment, error) {
	rec, err := s.Find(name)
	if err != nil {
		return nil, err
	}

	if err := apply(rec, user, quantity, date); err != nil {
		s.logger.Debug("transaction rejected", zap.String("op", op), zap.String("name", rec.Name()),
			zap.String("user", user), zap.Int("quantity", quantity), zap.Error(err))
		return nil, err
	}

	s.logger.Info("transaction recorded", zap.String("op", op), zap.String("name", rec.Name()),
		zap.String("user", user), zap.Int("quantity", quantity), zap.String("date", date))
	return rec, s.persist(ctx)
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.records); err != nil {
		s.logger.Error("failed to persist inventory", zap.Error(err))
		if !errors.Is(err, models.ErrPersistence) {
			err = fmt.Errorf("%w: %w", models.ErrPersistence, err)
		}
		return err
	}
	return nil
}

func (s *Service) lookup(name string) *models.Equipment {
	name = strings.TrimSpace(name)
	for _, rec := range s.records {
		if strings.EqualFold(rec.Name(), name) {
			return rec
		}
	}
	return nil
}

// Find returns the item with the given name, ignoring case.
func (s *Service) Find(name string) (*models.Equipment, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: equipment name cannot be empty", models.ErrValidation)
	}
	rec := s.lookup(name)
	if rec == nil {
		return nil, fmt.Errorf("%w: equipment %q", models.ErrNotFound, strings.TrimSpace(name))
	}
	return rec, nil
}

// Search returns items whose name or id equals keyword, ignoring case.
func (s *Service) Search(keyword string) ([]*models.Equipment, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: search keyword cannot be empty", models.ErrValidation)
	}
	return s.filter(fmt.Sprintf("equipment matching %q", keyword), func(e *models.Equipment) bool {
		return strings.EqualFold(e.Name(), keyword) || strings.EqualFold(e.ID(), keyword)
	})
}

// FilterByStatus returns items whose derived status matches.
func (s *Service) FilterByStatus(status string) ([]*models.Equipment, error) {
	if strings.TrimSpace(status) == "" {
		return nil, fmt.Errorf("%w: status cannot be empty", models.ErrValidation)
	}
	want, ok := models.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: no equipment with status %q", models.ErrNotFound, status)
	}
	return s.filter(fmt.Sprintf("equipment with status %s", want), func(e *models.Equipment) bool {
		return e.Status() == want
	})
}

// FilterByCategory returns items in category, ignoring case.
func (s *Service) FilterByCategory(category string) ([]*models.Equipment, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", models.ErrValidation)
	}
	return s.filter(fmt.Sprintf("equipment in category %q", category), func(e *models.Equipment) bool {
		return strings.EqualFold(e.Category(), category)
	})
}

func (s *Service) filter(what string, keep func(*models.Equipment) bool) ([]*models.Equipment, error) {
	var out []*models.Equipment
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no %s", models.ErrNotFound, what)
	}
	return out, nil
}

// ListAll returns every item in insertion order.
func (s *Service) ListAll() []*models.Equipment {
	out := make([]*models.Equipment, len(s.records))
	copy(out, s.records)
	return out
}

// AvailableFor returns items with at least one available unit.
func (s *Service) AvailableFor() []*models.Equipment {
	var out []*models.Equipment
	for _, rec := range s.records {
		if rec.Available() > 0 {
			out = append(out, rec)
		}
	}
	return out
}

// HeldBy returns the open balances of user across all items.
func (s *Service) HeldBy(user string) []Holding {
	var out []Holding
	for _, rec := range s.records {
		if qty := rec.BorrowedBy(user); qty > 0 {
			out = append(out, Holding{Equipment: rec, Quantity: qty})
		}
	}
	return out
}
