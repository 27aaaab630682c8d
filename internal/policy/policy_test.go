package policy

import (
	"testing"

	"identity-service/internal/apperror"
	"identity-service/internal/model"

	"github.com/stretchr/testify/require"
)

var (
	admin = &model.Principal{UserID: 1, Email: "root@example.com", Role: model.RoleAdmin}
	alice = &model.Principal{UserID: 2, Email: "alice@example.com", Role: model.RoleUser}
)

func TestAuthorizeTable(t *testing.T) {
	cases := []struct {
		name string
		p    *model.Principal
		op   Operation
		t    Target
		want error
	}{
		{"list all admin", admin, ListAll, Target{}, nil},
		{"list all user", alice, ListAll, Target{}, apperror.ErrForbidden},
		{"filtered admin", admin, ListFiltered, Target{}, nil},
		{"filtered user", alice, ListFiltered, Target{}, apperror.ErrForbidden},
		{"inactive admin", admin, ListInactive, Target{}, nil},
		{"inactive user", alice, ListInactive, Target{}, apperror.ErrForbidden},
		{"profile user", alice, ReadProfile, Target{UserID: 2}, nil},
		{"read self", alice, ReadUser, Target{UserID: 2}, nil},
		{"read other", alice, ReadUser, Target{UserID: 3}, apperror.ErrForbidden},
		{"read other admin", admin, ReadUser, Target{UserID: 3}, nil},
		{"update self", alice, UpdateUser, Target{UserID: 2}, nil},
		{"update self password", alice, UpdateUser, Target{UserID: 2, ChangesPassword: true}, nil},
		{"update other", alice, UpdateUser, Target{UserID: 3}, apperror.ErrForbidden},
		{"admin update other", admin, UpdateUser, Target{UserID: 3}, nil},
		{"admin other password", admin, UpdateUser, Target{UserID: 3, ChangesPassword: true}, apperror.ErrForbidden},
		{"admin own password", admin, UpdateUser, Target{UserID: 1, ChangesPassword: true}, nil},
		{"role change self", alice, UpdateUser, Target{UserID: 2, ChangesRole: true}, apperror.ErrForbidden},
		{"role change admin", admin, UpdateUser, Target{UserID: 3, ChangesRole: true}, apperror.ErrForbidden},
		{"delete admin", admin, DeleteUser, Target{UserID: 3}, nil},
		{"delete self user", alice, DeleteUser, Target{UserID: 2}, apperror.ErrForbidden},
		{"unknown op", admin, Operation(99), Target{}, apperror.ErrForbidden},
		{"zero op", admin, Operation(0), Target{}, apperror.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.p, tc.op, tc.t)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthorizeNilPrincipal(t *testing.T) {
	for op := ListAll; op <= DeleteUser; op++ {
		err := Authorize(nil, op, Target{UserID: 1})
		require.ErrorIs(t, err, apperror.ErrUnauthenticated, op.String())
	}
}

func TestAuthorizeZeroTargetIsNotSelf(t *testing.T) {
	ghost := &model.Principal{UserID: 0, Role: model.RoleUser}
	require.ErrorIs(t, Authorize(ghost, ReadUser, Target{}), apperror.ErrForbidden)
}

func TestValidateInactiveDays(t *testing.T) {
	require.NoError(t, ValidateInactiveDays(0))
	require.NoError(t, ValidateInactiveDays(30))
	require.ErrorIs(t, ValidateInactiveDays(-1), apperror.ErrValidation)
}

func TestOperationString(t *testing.T) {
	require.Equal(t, "delete_user", DeleteUser.String())
	require.Equal(t, "unknown", Operation(42).String())
}
