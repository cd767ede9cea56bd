package commands

import (
	"context"

	"github.com/mamadbah2/labtrack/internal/domain/models"
)

var transactionPrompts = []string{"equipment name", "quantity", "date (YYYY-MM-DD)"}

// menuRole is a role defined entirely by its command table.
type menuRole struct {
	session
	name     models.RoleName
	specs    []CommandSpec
	handlers map[models.CommandType]handlerFunc
}

func (r *menuRole) Name() models.RoleName { return r.name }

func (r *menuRole) Username() string { return r.user.Username }

func (r *menuRole) AvailableCommands() []CommandSpec {
	out := make([]CommandSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

func (r *menuRole) Handle(ctx context.Context, cmd models.Command) (string, error) {
	return r.dispatch(ctx, r.specs, r.handlers, cmd)
}

func newStaffRole(s session) Role {
	return &menuRole{
		session: s,
		name:    models.RoleStaff,
		specs: []CommandSpec{
			{Key: "1", Type: models.CommandAdd, Label: "Add Equipment", Prompts: []string{"equipment name", "category", "quantity"}},
			{Key: "2", Type: models.CommandBorrow, Label: "Borrow Equipment", Prompts: transactionPrompts},
			{Key: "3", Type: models.CommandReturn, Label: "Return Equipment", Prompts: transactionPrompts},
			{Key: "4", Type: models.CommandDamage, Label: "Mark Equipment as Damaged", Prompts: transactionPrompts},
			{Key: "5", Type: models.CommandList, Label: "View All Equipment (Full Details)"},
			{Key: "6", Type: models.CommandSearch, Label: "Search Equipment", Prompts: []string{"equipment name or ID"}},
			{Key: "7", Type: models.CommandCategory, Label: "Filter by Category", Prompts: []string{"category"}},
			{Key: "8", Type: models.CommandStatus, Label: "Filter by Status", Prompts: []string{"status"}},
			{Key: "9", Type: models.CommandHistory, Label: "View Borrow History", Prompts: []string{"equipment name"}},
			{Key: "10", Type: models.CommandExport, Label: "Export Inventory Spreadsheet", Prompts: []string{"output file (.xlsx)"}},
			{Key: "0", Type: models.CommandLogout, Label: "Logout"},
		},
		handlers: map[models.CommandType]handlerFunc{
			models.CommandAdd:      s.add,
			models.CommandBorrow:   s.borrow(),
			models.CommandReturn:   s.giveBack(),
			models.CommandDamage:   s.damage(),
			models.CommandList:     s.list,
			models.CommandSearch:   s.search,
			models.CommandCategory: s.byCategory,
			models.CommandStatus:   s.byStatus,
			models.CommandHistory:  s.history,
			models.CommandExport:   s.export,
			models.CommandLogout:   s.logout,
		},
	}
}

func newStudentRole(s session) Role {
	return &menuRole{
		session: s,
		name:    models.RoleStudent,
		specs: []CommandSpec{
			{Key: "1", Type: models.CommandAvailable, Label: "View Available Equipment"},
			{Key: "2", Type: models.CommandBorrow, Label: "Borrow Equipment", Prompts: transactionPrompts},
			{Key: "3", Type: models.CommandReturn, Label: "Return Equipment", Prompts: transactionPrompts},
			{Key: "4", Type: models.CommandDamage, Label: "Mark Equipment as Damaged", Prompts: transactionPrompts},
			{Key: "5", Type: models.CommandMine, Label: "View My Borrowed Equipment"},
			{Key: "0", Type: models.CommandLogout, Label: "Logout"},
		},
		handlers: map[models.CommandType]handlerFunc{
			models.CommandAvailable: s.available,
			models.CommandBorrow:    s.borrow(),
			models.CommandReturn:    s.giveBack(),
			models.CommandDamage:    s.damage(),
			models.CommandMine:      s.mine,
			models.CommandLogout:    s.logout,
		},
	}
}
