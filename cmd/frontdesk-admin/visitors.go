package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/domain/visitor"
)

const backendCommandTimeout = time.Minute

type listVisitorsOptions struct {
	Search string
	JSON   bool
}

func runListVisitors(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("visitors", flag.ContinueOnError)
	var opts listVisitorsOptions
	fs.StringVar(&opts.Search, "search", "", "case-insensitive match on name, purpose or department")
	fs.BoolVar(&opts.JSON, "json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, backendCommandTimeout)
	defer cancel()

	visitors, err := newBackendClient(cmdCtx).ListVisitors(ctx)
	if err != nil {
		return fmt.Errorf("list visitors: %w", err)
	}
	visitors = visitor.Filter(visitors, opts.Search)

	if opts.JSON {
		return writeJSON(cmdCtx.Out, visitors)
	}
	return printVisitors(cmdCtx.Out, visitors)
}

func printVisitors(w io.Writer, visitors []visitor.Visitor) error {
	if len(visitors) == 0 {
		return writeln(w, "(no visitors found)")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "ID\tNAME\tPURPOSE\tDEPARTMENT\tDATE\tTIME\n"); err != nil {
		return err
	}
	for _, v := range visitors {
		if err := writef(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.DisplayName(), v.EffectivePurpose(), v.EffectiveDepartment(), v.Date, v.Time); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nTotal visitors: %d\n", len(visitors))
}

func runActiveVisitors(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("active-visitors", flag.ContinueOnError)
	var signIn signInFlags
	signIn.register(fs)
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, backendCommandTimeout)
	defer cancel()
	cmdCtx.Ctx = ctx

	client := newBackendClient(cmdCtx)
	creds, err := signIn.credentials(cmdCtx, client)
	if err != nil {
		return err
	}
	accounts, err := client.ActiveVisitorAccounts(ctx, creds)
	if err != nil {
		return fmt.Errorf("list active visitors: %w", err)
	}
	if *asJSON {
		return writeJSON(cmdCtx.Out, accounts)
	}
	return printUsers(cmdCtx.Out, accounts)
}

func printUsers(w io.Writer, users []user.User) error {
	if len(users) == 0 {
		return writeln(w, "(no accounts found)")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "ID\tUSERNAME\tNAME\tEMAIL\tROLE\tSTATUS\n"); err != nil {
		return err
	}
	for _, u := range users {
		status := user.StatusInactive
		if u.IsActive {
			status = user.StatusActive
		}
		if err := writef(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.FullName(), u.Email, u.Role, status); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nTotal accounts: %d\n", len(users))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
