package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/labtrack/internal/config"
	"github.com/mamadbah2/labtrack/internal/domain/models"
	"github.com/mamadbah2/labtrack/internal/repository/jsonfile"
	"github.com/mamadbah2/labtrack/internal/service/auth"
	"github.com/mamadbah2/labtrack/internal/service/inventory"
	"github.com/mamadbah2/labtrack/internal/service/reporting"
)

type fixture struct {
	svc   *Service
	store *inventory.Service
	dir   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()

	repo, err := jsonfile.NewFileRepository(filepath.Join(dir, "equipment.json"), "", logger)
	require.NoError(t, err)
	store := inventory.NewService(repo, logger)
	require.NoError(t, store.Load(context.Background()))

	users, err := config.ParseUsers(config.DefaultUsers + ",alice:pw:student,bob:pw:student")
	require.NoError(t, err)

	svc, err := NewService(auth.NewDirectory(config.AuthConfig{Users: users}, logger), store, reporting.NewService(logger), logger)
	require.NoError(t, err)
	return fixture{svc: svc, store: store, dir: dir}
}

func login(t *testing.T, f fixture, user, password string) Role {
	t.Helper()
	role, err := f.svc.Login(user, password)
	require.NoError(t, err)
	return role
}

func run(t *testing.T, role Role, kind models.CommandType, args ...string) (string, error) {
	t.Helper()
	return role.Handle(context.Background(), models.Command{Type: kind, Args: args})
}

func commandTypes(role Role) []models.CommandType {
	var out []models.CommandType
	for _, spec := range role.AvailableCommands() {
		out = append(out, spec.Type)
	}
	return out
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	staff := login(t, f, "staff1", "staff123")
	assert.Equal(t, models.RoleStaff, staff.Name())
	assert.Equal(t, "staff1", staff.Username())
	assert.Equal(t, []models.CommandType{
		models.CommandAdd, models.CommandBorrow, models.CommandReturn, models.CommandDamage,
		models.CommandList, models.CommandSearch, models.CommandCategory, models.CommandStatus,
		models.CommandHistory, models.CommandExport, models.CommandLogout,
	}, commandTypes(staff))

	student := login(t, f, "student1", "pass123")
	assert.Equal(t, models.RoleStudent, student.Name())
	assert.Equal(t, []models.CommandType{
		models.CommandAvailable, models.CommandBorrow, models.CommandReturn,
		models.CommandDamage, models.CommandMine, models.CommandLogout,
	}, commandTypes(student))

	_, err := f.svc.Login("staff1", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestStaffWorkflow(t *testing.T) {
	f := newFixture(t)
	staff := login(t, f, "staff1", "staff123")

	reply, err := run(t, staff, models.CommandAdd, "Microscope", "Optics", "5")
	require.NoError(t, err)
	assert.Equal(t, "Equipment added successfully!", reply)

	reply, err = run(t, staff, models.CommandAdd, "microscope", "Lenses", "1")
	require.NoError(t, err)
	assert.Equal(t, "Updated existing equipment. Category kept as Optics.", reply)

	reply, err = run(t, staff, models.CommandBorrow, "Microscope", "2", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "Borrowed successfully!", reply)

	rec, err := f.store.Find("Microscope")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.BorrowedBy("staff1"))

	reply, err = run(t, staff, models.CommandHistory, "MICROSCOPE")
	require.NoError(t, err)
	assert.Contains(t, reply, "BORROWED 2 by staff1 on 2024-03-01")

	reply, err = run(t, staff, models.CommandStatus, "partially available")
	require.NoError(t, err)
	assert.Contains(t, reply, "Name     : Microscope")

	reply, err = run(t, staff, models.CommandList)
	require.NoError(t, err)
	assert.Contains(t, reply, "1 items, 6 units: 4 available, 2 lent, 0 damaged.")

	_, err = run(t, staff, models.CommandSearch, "Telescope")
	assert.ErrorIs(t, err, models.ErrNotFound)

	out := filepath.Join(f.dir, "report.xlsx")
	reply, err = run(t, staff, models.CommandExport, out)
	require.NoError(t, err)
	assert.Contains(t, reply, out)
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestStudentWorkflow(t *testing.T) {
	f := newFixture(t)
	staff := login(t, f, "staff1", "staff123")
	_, err := run(t, staff, models.CommandAdd, "Pipette", "Glassware", "3")
	require.NoError(t, err)

	alice := login(t, f, "alice", "pw")
	bob := login(t, f, "bob", "pw")

	_, err = run(t, alice, models.CommandBorrow, "pipette", "2", "2024-04-01")
	require.NoError(t, err)
	_, err = run(t, bob, models.CommandBorrow, "Pipette", "1", "2024-04-01")
	require.NoError(t, err)

	reply, err := run(t, alice, models.CommandAvailable)
	require.NoError(t, err)
	assert.Equal(t, "No equipment available.", reply)

	reply, err = run(t, alice, models.CommandMine)
	require.NoError(t, err)
	assert.Contains(t, reply, "Borrowed  : 2")

	// bob cannot settle alice's balance
	_, err = run(t, bob, models.CommandReturn, "Pipette", "2", "2024-04-02")
	assert.ErrorIs(t, err, models.ErrValidation)

	reply, err = run(t, alice, models.CommandDamage, "Pipette", "1", "2024-04-02")
	require.NoError(t, err)
	assert.Equal(t, "Marked as damaged.", reply)
	reply, err = run(t, alice, models.CommandReturn, "Pipette", "1", "2024-04-03")
	require.NoError(t, err)
	assert.Equal(t, "Returned successfully!", reply)

	reply, err = run(t, alice, models.CommandMine)
	require.NoError(t, err)
	assert.Equal(t, "You have no borrowed equipment.", reply)

	_, err = run(t, alice, models.CommandAdd, "Beaker", "Glassware", "1")
	assert.ErrorIs(t, err, ErrUnsupportedCommand)

	reply, err = run(t, alice, models.CommandLogout)
	require.NoError(t, err)
	assert.Equal(t, "Goodbye, alice!", reply)
}

func TestArgumentValidation(t *testing.T) {
	f := newFixture(t)
	staff := login(t, f, "staff1", "staff123")
	_, err := run(t, staff, models.CommandAdd, "Scale", "Weighing", "2")
	require.NoError(t, err)

	tests := []struct {
		name string
		kind models.CommandType
		args []string
		want error
	}{
		{"missing args", models.CommandBorrow, []string{"Scale"}, ErrInvalidArguments},
		{"non numeric quantity", models.CommandBorrow, []string{"Scale", "two", "2024-01-01"}, ErrInvalidArguments},
		{"zero quantity", models.CommandBorrow, []string{"Scale", "0", "2024-01-01"}, models.ErrValidation},
		{"blank name", models.CommandAdd, []string{" ", "Weighing", "1"}, models.ErrValidation},
		{"blank category", models.CommandAdd, []string{"Scale", "", "1"}, models.ErrValidation},
		{"month out of range", models.CommandBorrow, []string{"Scale", "1", "2024-13-01"}, models.ErrValidation},
		{"wrong separator", models.CommandBorrow, []string{"Scale", "1", "2024/03/01"}, models.ErrValidation},
		{"blank date", models.CommandReturn, []string{"Scale", "1", " "}, models.ErrValidation},
		{"unknown command", models.CommandUnknown, nil, ErrUnsupportedCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, staff, tt.kind, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// lenient calendar: day 30 of February passes
	_, err = run(t, staff, models.CommandBorrow, "Scale", "1", "2024-02-30")
	assert.NoError(t, err)
}
