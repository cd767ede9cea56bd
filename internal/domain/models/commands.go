package models

import "strings"

// CommandType enumerates the operations a logged-in user can request.
type CommandType string

const (
	CommandAdd       CommandType = "add"
	CommandBorrow    CommandType = "borrow"
	CommandReturn    CommandType = "return"
	CommandDamage    CommandType = "damage"
	CommandList      CommandType = "list"
	CommandSearch    CommandType = "search"
	CommandCategory  CommandType = "category"
	CommandStatus    CommandType = "status"
	CommandHistory   CommandType = "history"
	CommandExport    CommandType = "export"
	CommandAvailable CommandType = "available"
	CommandMine      CommandType = "mine"
	CommandLogout    CommandType = "logout"
	CommandUnknown   CommandType = "unknown"
)

var knownCommands = map[CommandType]struct{}{
	CommandAdd: {}, CommandBorrow: {}, CommandReturn: {}, CommandDamage: {},
	CommandList: {}, CommandSearch: {}, CommandCategory: {}, CommandStatus: {},
	CommandHistory: {}, CommandExport: {}, CommandAvailable: {}, CommandMine: {},
	CommandLogout: {},
}

// Command is a parsed user instruction. Args keep their original casing and
// spacing, since equipment names may contain spaces.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommandType resolves a command word such as "borrow" or "/Borrow".
func ParseCommandType(word string) CommandType {
	head := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(word)), "/")
	if _, ok := knownCommands[CommandType(head)]; ok {
		return CommandType(head)
	}
	return CommandUnknown
}

// ParseCommand derives a Command from a single line of the form
// "/search microscope". Everything after the command word is one argument.
func ParseCommand(message string) Command {
	trimmed := strings.TrimSpace(message)
	cmd := Command{Type: CommandUnknown, Raw: message}
	if trimmed == "" {
		return cmd
	}

	head, rest, _ := strings.Cut(trimmed, " ")
	cmd.Type = ParseCommandType(head)
	if rest = strings.TrimSpace(rest); rest != "" {
		cmd.Args = []string{rest}
	}
	return cmd
}
