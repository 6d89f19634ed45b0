package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"booksite-backend/internal/domains/author/service"
)

const usageText = `usage: authorctl <command> [flags]

commands:
  migrate                                    apply pending schema migrations
  register -email E -username U -hash H [-avatar URL]
  get -id ID
  activate -token T
  set-avatar -id ID (-url URL | -clear)
  update -id ID [-email E] [-username U] [-hash H]
  delete -id ID
  find-avatar -term TERM
  find-token -token T
  verify-password -login LOGIN -password P
`

func usage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// app runs one command against the author service and prints its result
// as JSON.
type app struct {
	svc     service.ServiceInterface
	migrate func(ctx context.Context) error
	out     io.Writer
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	name, rest := args[0], args[1:]
	switch name {
	case "migrate":
		if err := a.migrate(ctx); err != nil {
			return err
		}
		return a.print(map[string]string{"status": "migrated"})
	case "register":
		return a.register(ctx, rest)
	case "get":
		return a.get(ctx, rest)
	case "activate":
		return a.activate(ctx, rest)
	case "set-avatar":
		return a.setAvatar(ctx, rest)
	case "update":
		return a.update(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "find-avatar":
		return a.findAvatar(ctx, rest)
	case "find-token":
		return a.findToken(ctx, rest)
	case "verify-password":
		return a.verifyPassword(ctx, rest)
	}
	usage(a.out)
	return fmt.Errorf("unknown command %q", name)
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// flagValue pairs a flag name with the value it parsed to.
type flagValue struct {
	name  string
	value string
}

// required returns an error naming the first empty flag, in argument order.
func required(values ...flagValue) error {
	for _, v := range values {
		if v.value == "" {
			return fmt.Errorf("-%s is required", v.name)
		}
	}
	return nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register", a.out)
	email := fs.String("email", "", "author email")
	username := fs.String("username", "", "author username")
	hash := fs.String("hash", "", "argon2i password hash")
	avatar := fs.String("avatar", "", "avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(flagValue{"email", *email}, flagValue{"username", *username}, flagValue{"hash", *hash}); err != nil {
		return err
	}

	in := service.RegisterInput{Email: *email, Username: *username, Hash: *hash}
	if *avatar != "" {
		in.AvatarURL = avatar
	}
	author, err := a.svc.Register(ctx, in)
	if err != nil {
		return err
	}
	return a.print(author)
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get", a.out)
	id := fs.String("id", "", "author id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(flagValue{"id", *id}); err != nil {
		return err
	}

	author, err := a.svc.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if author == nil {
		return fmt.Errorf("author %s not found", *id)
	}
	return a.print(author)
}

func (a *app) activate(ctx context.Context, args []string) error {
	fs := newFlagSet("activate", a.out)
	token := fs.String("token", "", "activation token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(flagValue{"token", *token}); err != nil {
		return err
	}

	author, err := a.svc.Activate(ctx, *token)
	if err != nil {
		return err
	}
	return a.print(author)
}

func (a *app) setAvatar(ctx context.Context, args []string) error {
	fs := newFlagSet("set-avatar", a.out)
	id := fs.String("id", "", "author id")
	url := fs.String("url", "", "new avatar URL")
	clearAvatar := fs.Bool("clear", false, "remove the avatar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(flagValue{"id", *id}); err != nil {
		return err
	}
	if (*url == "") == !*clearAvatar {
		return errors.New("exactly one of -url or -clear is required")
	}

	in := service.UpdateProfileInput{ClearAvatar: *clearAvatar}
	if *url != "" {
		in.AvatarURL = url
	}
	author, err := a.svc.UpdateProfile(ctx, *id, in)
	if err != nil {
		return err
	}
	return a.print(author)
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := newFlagSet("update", a.out)
	id := fs.String("id", "", "author id")
	email := fs.String("email", "", "new email")
	username := fs.String("username", "", "new username")
	hash := fs.String("hash", "", "new argon2i password hash")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(flagValue{"id", *id}); err != nil {
		return err
	}

	var in service.UpdateProfileInput
	if *email != "" {
		in.Email = email
	}
	if *username != "" {
		in.Username = username
	}
	if *hash != "" {
		in.Hash = hash
	}
	author, err := a.svc.UpdateProfile(ctx, *id, in)
	if err != nil {
		return err
	}
	return a.print(author)
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete", a.out)
	id := fs.String("id", "", "author id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(flagValue{"id", *id}); err != nil {
		return err
	}

	if err := a.svc.Delete(ctx, *id); err != nil {
		return err
	}
	return a.print(map[string]string{"deleted": *id})
}

func (a *app) findAvatar(ctx context.Context, args []string) error {
	fs := newFlagSet("find-avatar", a.out)
	term := fs.String("term", "", "substring of the avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	authors, err := a.svc.SearchByAvatarURL(ctx, *term)
	if err != nil {
		return err
	}
	return a.print(authors)
}

func (a *app) findToken(ctx context.Context, args []string) error {
	fs := newFlagSet("find-token", a.out)
	token := fs.String("token", "", "activation token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	authors, err := a.svc.SearchByActivationToken(ctx, *token)
	if err != nil {
		return err
	}
	return a.print(authors)
}

func (a *app) verifyPassword(ctx context.Context, args []string) error {
	fs := newFlagSet("verify-password", a.out)
	login := fs.String("login", "", "username or email")
	password := fs.String("password", "", "password to check")
	if err := fs.Parse(args); err != nil {
		return err
	}

	author, err := a.svc.Authenticate(ctx, *login, *password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		_ = a.print(map[string]bool{"valid": false})
		return err
	}
	if err != nil {
		return err
	}
	return a.print(map[string]any{"valid": true, "authorId": author.ID().String()})
}
