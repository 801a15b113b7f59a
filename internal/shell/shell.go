package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/report"
	"github.com/trackstars/trackstars/internal/tracker"
)

const prompt = "> "

// Shell reads commands and runs them against a Tracker.
type Shell struct {
	tr  *tracker.Tracker
	out io.Writer
	log logrus.FieldLogger
}

// New returns a Shell writing to out.
func New(tr *tracker.Tracker, out io.Writer, log logrus.FieldLogger) *Shell {
	return &Shell{tr: tr, out: out, log: log}
}

// Run reads lines from in until exit, EOF or ctx is done. Command errors
// are printed and the loop continues.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Welcome to TrackStars. Type help for the list of commands.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd, ok, err := Parse(scanner.Text())
		if err != nil {
			s.printError(err)
			continue
		}
		if !ok {
			continue
		}
		exit, err := s.Execute(ctx, cmd)
		if err != nil {
			s.log.WithField("command", cmd.Kind.String()).WithError(err).Debug("Command failed")
			s.printError(err)
			if isInputError(err) {
				fmt.Fprintf(s.out, "Usage: %s\n", cmd.Kind.Usage())
			}
			continue
		}
		if exit {
			fmt.Fprintln(s.out, "Bye. See you again soon!")
			return nil
		}
	}
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

// Execute runs one command. It reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, cmd Command) (bool, error) {
	a := cmd.Args
	switch cmd.Kind {
	case Help:
		fmt.Fprint(s.out, HelpText())
	case Exit:
		return true, nil
	case AddBank:
		return false, s.addBank(ctx, a[0], a[1])
	case ListBanks:
		return false, report.Banks(s.out, s.tr.Banks(), s.tr.Current())
	case Login:
		return false, s.login(a[0])
	case Logout:
		if s.tr.Logout() {
			fmt.Fprintln(s.out, "Logged out.")
		} else {
			fmt.Fprintln(s.out, "You are not logged in.")
		}
	case Deposit, Withdraw:
		return false, s.moveMoney(ctx, cmd.Kind, a[0])
	case Add:
		return false, s.add(ctx, a)
	case Delete:
		return false, s.delete(ctx, a[0])
	case List:
		return false, s.list(a)
	case Search:
		entries, err := s.tr.Search(a[0])
		if err != nil {
			return false, err
		}
		return false, report.Transactions(s.out, fmt.Sprintf("Transactions matching %q:", a[0]), entries)
	case Filter:
		return false, s.filter(a)
	case AddBudget:
		return false, s.addBudget(ctx, a)
	case ListBudget:
		month, err := model.ParseMonth(a[0])
		if err != nil {
			return false, err
		}
		return false, report.Budgets(s.out, month, s.tr.Budgets(month))
	case Summary:
		return false, s.summary(a)
	case History:
		limit, err := optionalCount(a)
		if err != nil {
			return false, err
		}
		entries, err := s.tr.History(limit)
		if err != nil {
			return false, err
		}
		return false, report.History(s.out, entries)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
	}
	return false, nil
}

func (s *Shell) addBank(ctx context.Context, balanceArg, codeArg string) error {
	balance, err := model.ParseAmount(balanceArg)
	if err != nil {
		return err
	}
	code, err := currency.Parse(codeArg)
	if err != nil {
		return err
	}
	b, err := s.tr.AddBank(ctx, code, balance)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added %s\n", b)
	return nil
}

func (s *Shell) login(arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: bank id must be a number, got %q", ErrUsage, arg)
	}
	b, err := s.tr.Login(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Logged in to %s\n", b)
	return nil
}

func (s *Shell) moveMoney(ctx context.Context, kind Kind, arg string) error {
	amount, err := model.ParsePositiveAmount(arg)
	if err != nil {
		return err
	}
	var b *model.Bank
	if kind == Deposit {
		b, err = s.tr.Deposit(ctx, amount)
	} else {
		b, err = s.tr.Withdraw(ctx, amount)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "New balance: %s\n", currency.Format(b.Currency, b.Balance()))
	return nil
}

func (s *Shell) add(ctx context.Context, a []string) error {
	tag := ""
	if len(a) == 4 {
		tag, a = a[0], a[1:]
	}
	category, err := model.ParseCategory(a[0])
	if err != nil {
		return err
	}
	amount, err := model.ParsePositiveAmount(a[1])
	if err != nil {
		return err
	}
	date, err := model.ParseDate(a[2])
	if err != nil {
		return err
	}
	tx, err := s.tr.AddTransaction(ctx, tag, category, amount, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added transaction: %s\n", tx)
	return nil
}

func (s *Shell) delete(ctx context.Context, arg string) error {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: index must be a number, got %q", ErrUsage, arg)
	}
	tx, err := s.tr.DeleteTransaction(ctx, index)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted transaction: %s\n", tx)
	return nil
}

func (s *Shell) list(a []string) error {
	limit, err := optionalCount(a)
	if err != nil {
		return err
	}
	return report.Transactions(s.out, "Recent Transactions:", s.tr.Recent(limit))
}

func (s *Shell) filter(a []string) error {
	usage := fmt.Errorf("%w: usage: %s", ErrUsage, Filter.Usage())
	switch strings.ToLower(a[0]) {
	case "category":
		if len(a) != 2 {
			return usage
		}
		category, err := model.ParseCategory(a[1])
		if err != nil {
			return err
		}
		entries, err := s.tr.FilterCategory(category)
		if err != nil {
			return err
		}
		return report.Transactions(s.out, fmt.Sprintf("Transactions in %s:", category), entries)
	case "cost":
		if len(a) != 3 {
			return usage
		}
		lo, err := model.ParseAmount(a[1])
		if err != nil {
			return err
		}
		hi, err := model.ParseAmount(a[2])
		if err != nil {
			return err
		}
		entries, err := s.tr.FilterCost(lo, hi)
		if err != nil {
			return err
		}
		return report.Transactions(s.out, fmt.Sprintf("Transactions costing %s to %s:", lo.StringFixed(2), hi.StringFixed(2)), entries)
	case "date":
		if len(a) != 3 {
			return usage
		}
		from, err := model.ParseDate(a[1])
		if err != nil {
			return err
		}
		to, err := model.ParseDate(a[2])
		if err != nil {
			return err
		}
		entries, err := s.tr.FilterDate(from, to)
		if err != nil {
			return err
		}
		return report.Transactions(s.out, fmt.Sprintf("Transactions from %s to %s:", from.Short(), to.Short()), entries)
	default:
		return usage
	}
}

func (s *Shell) addBudget(ctx context.Context, a []string) error {
	category, err := model.ParseCategory(a[0])
	if err != nil {
		return err
	}
	amount, err := model.ParseAmount(a[1])
	if err != nil {
		return err
	}
	month, err := model.ParseMonth(a[2])
	if err != nil {
		return err
	}
	bgt, err := s.tr.SetBudget(ctx, category, amount, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Set %s\n", bgt)
	return nil
}

func (s *Shell) summary(a []string) error {
	month, err := model.ParseMonth(a[0])
	if err != nil {
		return err
	}
	var code *currency.Code
	if len(a) == 2 {
		c, err := currency.Parse(a[1])
		if err != nil {
			return err
		}
		code = &c
	}
	return report.Summary(s.out, s.tr.Summary(month, code))
}

func optionalCount(a []string) (int, error) {
	if len(a) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(a[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: count must be a positive number, got %q", ErrUsage, a[0])
	}
	return n, nil
}

var inputErrors = []error{
	currency.ErrInvalidCurrency,
	model.ErrInvalidCategory,
	model.ErrInvalidMonth,
	model.ErrInvalidDate,
	model.ErrInvalidAmount,
}

// isInputError reports whether err was caused by a malformed argument.
func isInputError(err error) bool {
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
