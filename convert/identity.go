package convert

import (
	"context"

	"github.com/teranos/standoff/errors"
)

// Identity supplies the user whose namespace a document is converted into
type Identity interface {
	User(ctx context.Context) (string, error)
}

// StaticIdentity always answers with the same user
type StaticIdentity string

func (s StaticIdentity) User(context.Context) (string, error) {
	if s == "" {
		return "", errors.WithHint(
			errors.New("no user configured"),
			"set identity.user in am.toml, STANDOFF_USER, or pass --user",
		)
	}
	return string(s), nil
}

type userKey struct{}

// WithUser overrides the identity for one conversion, as the directory
// refresh does with each document's parent directory name.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func userFrom(ctx context.Context, identity Identity) (string, error) {
	if u, ok := ctx.Value(userKey{}).(string); ok && u != "" {
		return u, nil
	}
	if identity == nil {
		return StaticIdentity("").User(ctx)
	}
	return identity.User(ctx)
}
