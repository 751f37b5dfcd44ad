package api

import (
	"context"
	"net/http"

	"github.com/luxurygifts/storefront/internal/user"
)

type UsersClient struct{ c *Client }

func NewUsersClient(c *Client) *UsersClient { return &UsersClient{c: c} }

func (uc *UsersClient) List(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := uc.c.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (uc *UsersClient) Get(ctx context.Context, userID string) (*user.User, error) {
	var u user.User
	if err := uc.c.do(ctx, http.MethodGet, "/users/"+userID, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (uc *UsersClient) Update(ctx context.Context, u user.User) (*user.User, error) {
	var updated user.User
	if err := uc.c.do(ctx, http.MethodPut, "/users/"+u.ID, nil, u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *UsersClient) Delete(ctx context.Context, userID string) error {
	return uc.c.do(ctx, http.MethodDelete, "/users/"+userID, nil, nil, nil)
}
