package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("username", "too short"), http.StatusBadRequest},
		{"not found", NotFound("group", "g1"), http.StatusNotFound},
		{"already member", &AlreadyMemberError{GroupID: "g1", UserID: "u1"}, http.StatusConflict},
		{"auth", &AuthError{Message: "bad password"}, http.StatusUnauthorized},
		{"forbidden", Forbidden("delete group"), http.StatusForbidden},
		{"transient", Store("get group", errors.New("conn reset")), http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("load: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"wrapped not found", fmt.Errorf("join: %w", NotFound("group", "")), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestStoreKeepsClassifiedErrors(t *testing.T) {
	nf := NotFound("share", "s1")
	assert.Same(t, nf, Store("get share", nf))
	assert.Nil(t, Store("noop", nil))

	wrapped := Store("list", errors.New("timeout"))
	assert.True(t, IsTransient(wrapped))
	assert.Equal(t, "list: timeout", wrapped.Error())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "username: too short", Validation("username", "too short").Error())
	assert.Equal(t, "name is required", Validation("", "name is required").Error())
	assert.Equal(t, `group "g1" not found`, NotFound("group", "g1").Error())
	assert.Equal(t, "invite code not found", NotFound("invite code", "").Error())
}
