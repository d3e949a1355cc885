package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/service"
)

func runListUsers(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
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
	dir := service.NewUserDirectoryService(service.UserDirectoryServiceOptions{Users: client, Logger: cmdCtx.Logger})
	users, err := dir.List(ctx, creds)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if *asJSON {
		return writeJSON(cmdCtx.Out, users)
	}
	return printUsers(cmdCtx.Out, users)
}

// parseUserForm reads the add-user fields from flags named after the form.
func parseUserForm(fs *flag.FlagSet, args []string) (user.Form, error) {
	values := make(map[user.Field]*string, len(user.Specs))
	for _, spec := range user.Specs {
		usage := spec.Label
		if len(spec.Options) > 0 {
			usage += " (" + strings.Join(spec.Options, "|") + ")"
		}
		values[spec.Field] = fs.String(string(spec.Field), "", usage)
	}
	if err := fs.Parse(args); err != nil {
		return user.Form{}, err
	}

	var form user.Form
	for field, v := range values {
		if err := form.Update(field, *v); err != nil {
			return user.Form{}, err
		}
	}
	return form, nil
}

func runAddUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("add-user", flag.ContinueOnError)
	var signIn signInFlags
	signIn.register(fs)
	dryRun := fs.Bool("dry-run", false, "validate only; do not create the account")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	form, err := parseUserForm(fs, args)
	if err != nil {
		return err
	}

	if verr := form.Validate().Err(); verr != nil {
		return verr
	}
	req := form.ToCreateRequest()
	if *dryRun {
		return writef(cmdCtx.Out, "Would create %s (%s, active=%t)\n", req.Username, req.Role, req.IsActive)
	}
	if !*yes {
		ok, err := confirm(cmdCtx, fmt.Sprintf("Add user %s (%s %s, %s, %s)?", req.Username, req.FirstName, req.LastName, req.Role, form.Status))
		if err != nil {
			return err
		}
		if !ok {
			return writeln(cmdCtx.Out, "Cancelled; no account was created")
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, backendCommandTimeout)
	defer cancel()
	cmdCtx.Ctx = ctx

	client := newBackendClient(cmdCtx)
	creds, err := signIn.credentials(cmdCtx, client)
	if err != nil {
		return err
	}
	created, err := client.CreateUser(ctx, creds, req)
	if err != nil {
		return fmt.Errorf("create user %s: %w", req.Username, err)
	}
	cmdCtx.Logger.Info("user created", "id", created.ID, "username", created.Username, "role", created.Role)
	return writef(cmdCtx.Out, "Created user %d (%s)\n", created.ID, created.Username)
}

func runSetActive(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("set-active", flag.ContinueOnError)
	var signIn signInFlags
	signIn.register(fs)
	idFlag := fs.String("id", "", "account id")
	activeFlag := fs.String("active", "", "true to activate, false to deactivate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := strconv.Atoi(*idFlag)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid -id %q", *idFlag)
	}
	if *activeFlag == "" {
		return errors.New("-active is required")
	}
	active, err := strconv.ParseBool(*activeFlag)
	if err != nil {
		return fmt.Errorf("invalid -active %q", *activeFlag)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, backendCommandTimeout)
	defer cancel()
	cmdCtx.Ctx = ctx

	client := newBackendClient(cmdCtx)
	creds, err := signIn.credentials(cmdCtx, client)
	if err != nil {
		return err
	}
	dir := service.NewUserDirectoryService(service.UserDirectoryServiceOptions{Users: client, Logger: cmdCtx.Logger})
	updated, err := dir.SetActive(ctx, creds, id, active)
	if err != nil {
		return err
	}
	state := "deactivated"
	if updated.IsActive {
		state = "activated"
	}
	return writef(cmdCtx.Out, "User %d (%s) %s\n", updated.ID, updated.Username, state)
}

// confirm asks a yes/no question on In. Anything but y or yes declines.
func confirm(cmdCtx *commandContext, question string) (bool, error) {
	if err := writef(cmdCtx.Out, "%s [y/N]: ", question); err != nil {
		return false, err
	}
	if cmdCtx.In == nil {
		return false, nil
	}
	answer, err := bufio.NewReader(cmdCtx.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
