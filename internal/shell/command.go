// Package shell is the interactive line-oriented front end.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// ErrUnknownCommand is returned for an unrecognised command word.
var ErrUnknownCommand = errors.New("unknown command")

// ErrUsage is returned when a command has the wrong arguments.
var ErrUsage = errors.New("wrong arguments")

// Kind identifies a shell command.
type Kind int

const (
	Help Kind = iota
	AddBank
	ListBanks
	Login
	Logout
	Deposit
	Withdraw
	Add
	Delete
	List
	Search
	Filter
	AddBudget
	ListBudget
	Summary
	History
	Exit
)

type spec struct {
	name    string
	minArgs int
	maxArgs int
	usage   string
	help    string
}

var specs = map[Kind]spec{
	Help:       {"help", 0, 0, "help", "show this list"},
	AddBank:    {"addBank", 2, 2, "addBank <balance> <currency>", "open a bank, e.g. addBank 1000 JPY"},
	ListBanks:  {"listBanks", 0, 0, "listBanks", "list bank accounts"},
	Login:      {"login", 1, 1, "login <bankId>", "work with one bank"},
	Logout:     {"logout", 0, 0, "logout", "stop working with the current bank"},
	Deposit:    {"deposit", 1, 1, "deposit <amount>", "add money to the current bank"},
	Withdraw:   {"withdraw", 1, 1, "withdraw <amount>", "take money from the current bank"},
	Add:        {"add", 3, 4, "add [tag] <category> <amount> <DD/MM/YYYY>", "record spending, e.g. add 'chicken rice' food 4.50 03/01/2025"},
	Delete:     {"delete", 1, 1, "delete <index>", "remove a transaction by its list index"},
	List:       {"list", 0, 1, "list [count]", "show recent transactions"},
	Search:     {"search", 1, 1, "search <keyword>", "find transactions by tag or category"},
	Filter:     {"filter", 2, 3, "filter category <CATEGORY> | filter cost <MIN> <MAX> | filter date <FROM> <TO>", "narrow transactions"},
	AddBudget:  {"addBudget", 3, 3, "addBudget <category> <amount> <month>", "set a monthly budget"},
	ListBudget: {"listBudget", 1, 1, "listBudget <month>", "show budgets for a month"},
	Summary:    {"summary", 1, 2, "summary <month> [currency]", "spending against budget for a month"},
	History:    {"history", 0, 1, "history [count]", "show recent activity"},
	Exit:       {"exit", 0, 0, "exit", "leave (also: bye)"},
}

var order = []Kind{Help, AddBank, ListBanks, Login, Logout, Deposit, Withdraw, Add, Delete, List, Search, Filter, AddBudget, ListBudget, Summary, History, Exit}

var byName = func() map[string]Kind {
	m := map[string]Kind{"bye": Exit}
	for k, s := range specs {
		m[strings.ToLower(s.name)] = k
	}
	return m
}()

func (k Kind) String() string {
	if s, ok := specs[k]; ok {
		return s.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Usage returns the argument synopsis for k.
func (k Kind) Usage() string { return specs[k].usage }

// Command is one parsed input line.
type Command struct {
	Kind Kind
	Args []string
}

// Parse tokenizes line and validates the command word and argument count.
// A blank line yields ok == false and no error.
func Parse(line string) (cmd Command, ok bool, err error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return Command{}, false, err
	}
	if len(tokens) == 0 {
		return Command{}, false, nil
	}
	kind, known := byName[strings.ToLower(tokens[0])]
	if !known {
		return Command{}, false, fmt.Errorf("%w: %q, type help for the list", ErrUnknownCommand, tokens[0])
	}
	args := tokens[1:]
	s := specs[kind]
	if len(args) < s.minArgs || len(args) > s.maxArgs {
		return Command{}, false, fmt.Errorf("%w: usage: %s", ErrUsage, s.usage)
	}
	return Command{Kind: kind, Args: args}, true, nil
}

// Tokenize splits line into shell words. Quotes group words and a
// backslash escapes the next character. When single quotes do not
// balance, as in "don't", apostrophes are taken literally.
func Tokenize(line string) ([]string, error) {
	tokens, err := shlex.Split(line)
	if err != nil && strings.Contains(line, "'") {
		tokens, err = shlex.Split(strings.ReplaceAll(line, "'", `\'`))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return tokens, nil
}

// HelpText lists every command with its usage.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, k := range order {
		s := specs[k]
		fmt.Fprintf(&b, "  %-50s %s\n", s.usage, s.help)
	}
	return b.String()
}
