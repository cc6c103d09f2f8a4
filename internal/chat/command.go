package chat

import (
	"regexp"
	"strings"
)

// ParseKind tags the outcome of command parsing. Distinguishing "matched but
// invalid" from "didn't match" keeps malformed command-looking input away
// from the language model.
type ParseKind int

const (
	// Unrecognized means the input is free text for the model.
	Unrecognized ParseKind = iota
	// Recognized means a complete command was parsed.
	Recognized
	// Malformed means the input looked like a command but its arguments
	// were wrong; Correction holds the syntax hint to show the user.
	Malformed
)

// ParseResult is the tagged result of ParseCommand.
type ParseResult struct {
	Kind       ParseKind
	Command    Command
	Correction string
}

// Command is one of the structured chat instructions.
type Command interface {
	isCommand()
}

type LoginCommand struct {
	Email    string
	Password string
}

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

type BookCommand struct {
	Service string
	Date    string
	Time    string
}

type PatientCommand struct {
	Email string
}

type ApproveCommand struct {
	ID string
}

type CancelCommand struct {
	ID string
}

type RemindCommand struct {
	ID   string
	When string
}

type HelpCommand struct{}

type LogoutCommand struct{}

func (LoginCommand) isCommand()    {}
func (RegisterCommand) isCommand() {}
func (BookCommand) isCommand()     {}
func (PatientCommand) isCommand()  {}
func (ApproveCommand) isCommand()  {}
func (CancelCommand) isCommand()   {}
func (RemindCommand) isCommand()   {}
func (HelpCommand) isCommand()     {}
func (LogoutCommand) isCommand()   {}

var bookPattern = regexp.MustCompile(`(?i)book\s+(.+?)\s+on\s+(\d{4}-\d{2}-\d{2})\s+at\s+([\d:]+\s*(?:AM|PM)?)`)

func recognized(cmd Command) ParseResult {
	return ParseResult{Kind: Recognized, Command: cmd}
}

func malformed(correction string) ParseResult {
	return ParseResult{Kind: Malformed, Correction: correction}
}

func unrecognized() ParseResult {
	return ParseResult{Kind: Unrecognized}
}

// ParseCommand matches input against the command grammar in fixed priority
// order. Matching is case-insensitive; argument case is preserved. Admin
// commands never match for non-admin callers, so a patient typing
// "cancel my visit" reaches the model instead of an admin verb.
func ParseCommand(input string, caller CallerContext) ParseResult {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)

	switch {
	case lower == "login" || strings.HasPrefix(lower, "login "):
		return parseLogin(trimmed, lower, caller)
	case lower == "register" || strings.HasPrefix(lower, "register "):
		return parseRegister(trimmed, lower, caller)
	case lower == "book" || strings.HasPrefix(lower, "book "):
		return parseBook(trimmed, lower)
	}

	if caller.Role == RoleAdmin {
		if result, ok := parseAdmin(trimmed, lower); ok {
			return result
		}
	}

	switch lower {
	case "help":
		return recognized(HelpCommand{})
	case "logout":
		return recognized(LogoutCommand{})
	}
	return unrecognized()
}

func parseLogin(trimmed, lower string, caller CallerContext) ParseResult {
	// Identified callers get the "already logged in" notice regardless of
	// the arguments they typed.
	if caller.Identified() {
		return recognized(LoginCommand{})
	}
	if lower == "login" {
		return malformed(msgLoginUsage)
	}
	parts := strings.Fields(trimmed)
	if len(parts) < 3 {
		return malformed(msgLoginIncomplete)
	}
	return recognized(LoginCommand{
		Email:    parts[1],
		Password: strings.Join(parts[2:], " "),
	})
}

func parseRegister(trimmed, lower string, caller CallerContext) ParseResult {
	if caller.Identified() {
		return recognized(RegisterCommand{})
	}
	if lower == "register" {
		return malformed(msgRegisterUsage)
	}
	parts := strings.Fields(trimmed)
	if len(parts) < 4 {
		return malformed(msgRegisterIncomplete)
	}
	return recognized(RegisterCommand{
		Name:     parts[1],
		Email:    parts[2],
		Password: strings.Join(parts[3:], " "),
	})
}

func parseBook(trimmed, lower string) ParseResult {
	if lower == "book" {
		return malformed(msgBookUsage)
	}
	match := bookPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return malformed(msgBookInvalid)
	}
	return recognized(BookCommand{
		Service: strings.TrimSpace(match[1]),
		Date:    match[2],
		Time:    strings.TrimSpace(match[3]),
	})
}

func parseAdmin(trimmed, lower string) (ParseResult, bool) {
	switch {
	case strings.HasPrefix(lower, "patient "):
		email := strings.TrimSpace(trimmed[len("patient "):])
		if email == "" {
			return malformed(msgPatientUsage), true
		}
		return recognized(PatientCommand{Email: email}), true

	case strings.HasPrefix(lower, "approve "):
		id := strings.TrimSpace(trimmed[len("approve "):])
		if id == "" {
			return malformed(msgApproveUsage), true
		}
		return recognized(ApproveCommand{ID: id}), true

	case strings.HasPrefix(lower, "cancel "):
		id := strings.TrimSpace(trimmed[len("cancel "):])
		if id == "" {
			return malformed(msgCancelUsage), true
		}
		return recognized(CancelCommand{ID: id}), true

	case strings.HasPrefix(lower, "remind "):
		rest := trimmed[len("remind "):]
		parts := strings.SplitN(rest, " on ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return malformed(msgRemindUsage), true
		}
		return recognized(RemindCommand{
			ID:   strings.TrimSpace(parts[0]),
			When: strings.TrimSpace(parts[1]),
		}), true
	}
	return ParseResult{}, false
}
