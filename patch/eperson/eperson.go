// Package eperson implements patch operations on user accounts.
package eperson

import (
	"context"
	"log/slog"
	"strings"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
)

// Resource is the patch resource name.
const Resource = "epersons"

func account(obj any) (*content.EPerson, error) {
	e, ok := obj.(*content.EPerson)
	if !ok {
		return nil, patch.BadRequest(patch.Unsupported)
	}
	return e, nil
}

// Password sets a new password. The value is the password itself or an
// object with new_password and current_password.
func Password(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	e, err := account(obj)
	if err != nil {
		return err
	}
	var password, current string
	if s, ok := patch.StringValue(op.Value); ok {
		password = s
	} else if fields, ok := patch.ObjectValue(op.Value); ok {
		password, _ = patch.StringValue(fields["new_password"])
		current, _ = patch.StringValue(fields["current_password"])
	} else {
		return patch.BadRequest("password must be a string or an object")
	}
	if password == "" {
		return patch.BadRequest("password is empty")
	}
	if current != "" && e.HasPassword() && !e.CheckPassword(current) {
		return patch.Forbidden("current password does not match")
	}
	if re := env.Config.PasswordPattern; re != nil && !re.MatchString(password) {
		return patch.Unprocessable("password does not match the required pattern")
	}
	if err := e.SetPassword(password); err != nil {
		return patch.Unprocessable("%v", err)
	}
	slogcontext.Log(ctx, slog.LevelInfo, "password changed", "eperson", e.ID().String())
	return nil
}

// CanLogin sets whether the account may log in.
func CanLogin(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	e, err := account(obj)
	if err != nil {
		return err
	}
	b, err := boolOf(op)
	if err != nil {
		return err
	}
	e.CanLogIn = b
	return nil
}

// Certificate sets whether the account needs a client certificate.
func Certificate(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	e, err := account(obj)
	if err != nil {
		return err
	}
	b, err := boolOf(op)
	if err != nil {
		return err
	}
	e.RequireCertificate = b
	return nil
}

func boolOf(op patch.Operation) (bool, error) {
	if patch.IsNull(op.Value) {
		return false, patch.BadRequest("%s needs a value", op.Path)
	}
	b, ok := patch.BoolValue(op.Value)
	if !ok {
		return false, patch.BadRequest("%s must be true or false", op.Path)
	}
	return b, nil
}

// Netid sets or clears the network id.
func Netid(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	e, err := account(obj)
	if err != nil {
		return err
	}
	if op.Op == patch.OpRemove {
		e.Netid = ""
		return nil
	}
	netid, ok := patch.StringValue(op.Value)
	if !ok {
		return patch.BadRequest("netid must be a string")
	}
	if other, found := env.Store.EPersonByNetid(netid); found && other != e {
		return patch.Unprocessable("netid %s is already in use", netid)
	}
	e.Netid = netid
	return nil
}

// Email changes the address of the account.
func Email(ctx context.Context, env *patch.Env, obj any, op patch.Operation) error {
	e, err := account(obj)
	if err != nil {
		return err
	}
	email, ok := patch.StringValue(op.Value)
	email = strings.TrimSpace(email)
	if !ok || email == "" {
		return patch.BadRequest("email must be a non-empty string")
	}
	if other, found := env.Store.EPersonByEmail(email); found && other != e {
		return patch.Unprocessable("email %s is already in use", email)
	}
	e.Email = email
	return nil
}

func init() {
	for _, d := range []patch.Definition{
		{Op: patch.OpAdd, Path: "/password", Perform: Password},
		{Op: patch.OpReplace, Path: "/password", Perform: Password},
		{Op: patch.OpReplace, Path: "/canLogin", Perform: CanLogin},
		{Op: patch.OpReplace, Path: "/certificate", Perform: Certificate},
		{Op: patch.OpAdd, Path: "/netid", Perform: Netid},
		{Op: patch.OpReplace, Path: "/netid", Perform: Netid},
		{Op: patch.OpRemove, Path: "/netid", Perform: Netid},
		{Op: patch.OpAdd, Path: "/email", Perform: Email},
		{Op: patch.OpReplace, Path: "/email", Perform: Email},
	} {
		d.Resource = Resource
		patch.Register(d)
	}
}
