package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/labtrack/internal/domain/models"
	"github.com/mamadbah2/labtrack/internal/service/auth"
	"github.com/mamadbah2/labtrack/internal/service/inventory"
	"github.com/mamadbah2/labtrack/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates the role does not offer the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// CommandSpec describes one menu entry of a role.
type CommandSpec struct {
	Key     string
	Type    models.CommandType
	Label   string
	Prompts []string
}

// Role is the capability handle returned by Login. Each role decides which
// commands it offers and how it handles them.
type Role interface {
	Name() models.RoleName
	Username() string
	AvailableCommands() []CommandSpec
	Handle(ctx context.Context, cmd models.Command) (string, error)
}

// Authenticator verifies credentials.
type Authenticator interface {
	Authenticate(username, password string) (models.User, error)
}

// Reporter renders query results.
type Reporter interface {
	Details(records []*models.Equipment) string
	Available(records []*models.Equipment) string
	Holdings(holdings []inventory.Holding) string
	Summary(records []*models.Equipment) string
	ExportWorkbook(records []*models.Equipment, path string) error
}

var (
	_ Authenticator = (*auth.Directory)(nil)
	_ Reporter      = (*reporting.Service)(nil)
)

// Service builds roles and executes the operations they share.
type Service struct {
	auth      Authenticator
	store     inventory.Store
	reporting Reporter
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(authenticator Authenticator, store inventory.Store, reporter Reporter, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	return &Service{
		auth:      authenticator,
		store:     store,
		reporting: reporter,
		validate:  v,
		logger:    logger,
	}, nil
}

// Login checks credentials and returns the role handle for the user.
func (s *Service) Login(username, password string) (Role, error) {
	user, err := s.auth.Authenticate(username, password)
	if err != nil {
		return nil, err
	}

	base := session{svc: s, user: user}
	switch user.Role {
	case models.RoleStaff:
		return newStaffRole(base), nil
	case models.RoleStudent:
		return newStudentRole(base), nil
	default:
		return nil, fmt.Errorf("user %s has unknown role %q", user.Username, user.Role)
	}
}

// session carries what every role shares: the logged-in user and the service.
type session struct {
	svc  *Service
	user models.User
}

type handlerFunc func(ctx context.Context, args []string) (string, error)

// dispatch runs cmd against a role's command table.
func (s session) dispatch(ctx context.Context, specs []CommandSpec, handlers map[models.CommandType]handlerFunc, cmd models.Command) (string, error) {
	handler, ok := handlers[cmd.Type]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd.Type)
	}

	for _, spec := range specs {
		if spec.Type == cmd.Type && len(cmd.Args) < len(spec.Prompts) {
			return "", fmt.Errorf("%w: %s needs %s", ErrInvalidArguments, cmd.Type, strings.Join(spec.Prompts, ", "))
		}
	}

	s.svc.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)),
		zap.String("user", s.user.Username), zap.Strings("args", cmd.Args))

	reply, err := handler(ctx, cmd.Args)
	if err != nil {
		s.svc.logger.Debug("command failed", zap.String("command", string(cmd.Type)), zap.Error(err))
	}
	return reply, err
}

func (s session) add(ctx context.Context, args []string) (string, error) {
	qty, err := parseQuantity(args[2])
	if err != nil {
		return "", err
	}
	req := stockRequest{Name: args[0], Category: args[1], Quantity: qty}
	if err := s.svc.validate.Struct(req); err != nil {
		return "", validationError(err)
	}

	res, err := s.svc.store.AddOrUpdate(ctx, req.Name, req.Category, req.Quantity)
	if err != nil {
		return "", err
	}
	if res.Created {
		return "Equipment added successfully!", nil
	}
	message := "Updated existing equipment."
	if res.CategoryIgnored {
		message += fmt.Sprintf(" Category kept as %s.", res.Equipment.Category())
	}
	return message, nil
}

type transactionFunc func(ctx context.Context, name, user string, quantity int, date string) (*models.Equipment, error)

func (s session) transaction(apply transactionFunc, success string) handlerFunc {
	return func(ctx context.Context, args []string) (string, error) {
		qty, err := parseQuantity(args[1])
		if err != nil {
			return "", err
		}
		req := transactionRequest{Name: args[0], User: s.user.Username, Quantity: qty, Date: strings.TrimSpace(args[2])}
		if err := s.svc.validate.Struct(req); err != nil {
			return "", validationError(err)
		}
		if _, err := apply(ctx, req.Name, req.User, req.Quantity, req.Date); err != nil {
			return "", err
		}
		return success, nil
	}
}

func (s session) borrow() handlerFunc {
	return s.transaction(s.svc.store.Borrow, "Borrowed successfully!")
}

func (s session) giveBack() handlerFunc {
	return s.transaction(s.svc.store.GiveBack, "Returned successfully!")
}

func (s session) damage() handlerFunc {
	return s.transaction(s.svc.store.ReportDamaged, "Marked as damaged.")
}

func (s session) list(context.Context, []string) (string, error) {
	records := s.svc.store.ListAll()
	if len(records) == 0 {
		return s.svc.reporting.Details(nil), nil
	}
	return s.svc.reporting.Details(records) + "\n" + s.svc.reporting.Summary(records), nil
}

func (s session) search(_ context.Context, args []string) (string, error) {
	records, err := s.svc.store.Search(args[0])
	if err != nil {
		return "", err
	}
	return s.svc.reporting.Details(records), nil
}

func (s session) byCategory(_ context.Context, args []string) (string, error) {
	records, err := s.svc.store.FilterByCategory(args[0])
	if err != nil {
		return "", err
	}
	return s.svc.reporting.Details(records), nil
}

func (s session) byStatus(_ context.Context, args []string) (string, error) {
	records, err := s.svc.store.FilterByStatus(args[0])
	if err != nil {
		return "", err
	}
	return s.svc.reporting.Details(records), nil
}

func (s session) history(_ context.Context, args []string) (string, error) {
	rec, err := s.svc.store.Find(args[0])
	if err != nil {
		return "", err
	}
	return s.svc.reporting.Details([]*models.Equipment{rec}), nil
}

func (s session) export(_ context.Context, args []string) (string, error) {
	path := strings.TrimSpace(args[0])
	if path == "" {
		return "", fmt.Errorf("%w: export path cannot be empty", models.ErrValidation)
	}
	if err := s.svc.reporting.ExportWorkbook(s.svc.store.ListAll(), path); err != nil {
		return "", err
	}
	return fmt.Sprintf("Inventory exported to %s.", path), nil
}

func (s session) available(context.Context, []string) (string, error) {
	return s.svc.reporting.Available(s.svc.store.AvailableFor()), nil
}

func (s session) mine(context.Context, []string) (string, error) {
	return s.svc.reporting.Holdings(s.svc.store.HeldBy(s.user.Username)), nil
}

func (s session) logout(context.Context, []string) (string, error) {
	return fmt.Sprintf("Goodbye, %s!", s.user.Username), nil
}

func parseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q is not a whole number", ErrInvalidArguments, raw)
	}
	return qty, nil
}
