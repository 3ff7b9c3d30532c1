// SPDX-License-Identifier: MIT

package jellyfin

import "context"

// Users lists all identities known to the upstream server.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "users", "/Users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserResolver selects the upstream identity used to scope item queries.
// The gateway resolves afresh on every call; implementations may add caching
// without touching call-sites.
type UserResolver interface {
	Resolve(ctx context.Context) (User, error)
}

// FirstUserResolver picks the first user in upstream-returned order. This is
// an explicit, simplistic policy, not a user-selection mechanism. An empty
// user list is a fatal precondition failure (upstream misconfiguration), not
// a transient condition.
type FirstUserResolver struct {
	Client *Client
}

func (r FirstUserResolver) Resolve(ctx context.Context) (User, error) {
	users, err := r.Client.Users(ctx)
	if err != nil {
		return User{}, err
	}
	if len(users) == 0 {
		return User{}, ErrNoUsers
	}
	return users[0], nil
}
