package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"go.uber.org/zap"

	"github.com/mamadbah2/labtrack/internal/domain/models"
	"github.com/mamadbah2/labtrack/internal/service/commands"
)

// Authenticator turns credentials into a role handle.
type Authenticator interface {
	Login(username, password string) (commands.Role, error)
}

// Shell is the line-based terminal front end.
type Shell struct {
	auth   Authenticator
	in     *bufio.Scanner
	out    io.Writer
	banner bool
	logger *zap.Logger
}

// NewShell wires a shell reading commands from in and writing replies to out.
func NewShell(auth Authenticator, in io.Reader, out io.Writer, banner bool, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		auth:   auth,
		in:     bufio.NewScanner(in),
		out:    out,
		banner: banner,
		logger: logger,
	}
}

// Run logs a user in and serves their menu until logout or end of input.
func (s *Shell) Run(ctx context.Context) error {
	if s.banner {
		s.println(figure.NewFigure("LabTrack", "standard", true).String())
	}
	s.println("===== LabTrack Inventory System =====")
	s.println("Please login to continue")

	role, ok := s.login()
	if !ok {
		return s.in.Err()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu(role)
		line, ok := s.readLine("Enter choice: ")
		if !ok {
			s.logger.Debug("input closed, ending session", zap.String("user", role.Username()))
			return s.in.Err()
		}

		cmd, ok := s.resolve(role, line)
		if !ok {
			s.println("Invalid choice.")
			continue
		}

		reply, err := role.Handle(ctx, cmd)
		if err != nil {
			s.println("Error: " + err.Error())
			continue
		}
		s.println(reply)

		if cmd.Type == models.CommandLogout {
			return nil
		}
	}
}

func (s *Shell) login() (commands.Role, bool) {
	for {
		s.println("")
		username, ok := s.readLine("Username: ")
		if !ok {
			return nil, false
		}
		password, ok := s.readLine("Password: ")
		if !ok {
			return nil, false
		}

		role, err := s.auth.Login(strings.TrimSpace(username), password)
		if err != nil {
			s.println(strings.ToUpper(err.Error()[:1]) + err.Error()[1:] + ".")
			continue
		}

		s.println(fmt.Sprintf("Login successful! Welcome, %s (%s)", role.Username(), role.Name()))
		return role, true
	}
}

func (s *Shell) printMenu(role commands.Role) {
	s.println("")
	s.println(fmt.Sprintf("===== %s MENU =====", role.Name()))
	for _, spec := range role.AvailableCommands() {
		s.println(fmt.Sprintf("%s. %s", spec.Key, spec.Label))
	}
}

// resolve maps a menu number or a command word to a command. Text after the
// command word fills the first argument ("/borrow Microscope") and the rest
// are prompted for.
func (s *Shell) resolve(role commands.Role, line string) (models.Command, bool) {
	line = strings.TrimSpace(line)
	parsed := models.ParseCommand(line)

	var spec *commands.CommandSpec
	for _, candidate := range role.AvailableCommands() {
		if candidate.Key == line || candidate.Type == parsed.Type {
			c := candidate
			spec = &c
			break
		}
	}
	if spec == nil {
		return models.Command{}, false
	}

	cmd := models.Command{Type: spec.Type, Raw: line}
	if parsed.Type == spec.Type && len(parsed.Args) <= len(spec.Prompts) {
		cmd.Args = append(cmd.Args, parsed.Args...)
	}

	for _, prompt := range spec.Prompts[len(cmd.Args):] {
		value, ok := s.readLine(fmt.Sprintf("Enter %s: ", prompt))
		if !ok {
			return models.Command{}, false
		}
		cmd.Args = append(cmd.Args, strings.TrimSpace(value))
	}
	return cmd, true
}

func (s *Shell) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return s.in.Text(), true
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}
