package policy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/lexfirm/casedesk-backend/pkg/models"
)

func TestCan(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name   string
		caller Caller
		owner  uuid.UUID
		action Action
		allow  bool
	}{
		{name: "owner read", caller: Caller{ID: owner, Role: models.RoleLawyer}, owner: owner, action: ActionRead, allow: true},
		{name: "owner write", caller: Caller{ID: owner, Role: models.RoleLawyer}, owner: owner, action: ActionWrite, allow: true},
		{name: "owner delete", caller: Caller{ID: owner, Role: models.RoleLawyer}, owner: owner, action: ActionDelete, allow: true},
		{name: "non-owner read", caller: Caller{ID: other, Role: models.RoleLawyer}, owner: owner, action: ActionRead, allow: false},
		{name: "non-owner delete", caller: Caller{ID: other, Role: models.RoleLawyer}, owner: owner, action: ActionDelete, allow: false},
		{name: "paralegal non-owner read", caller: Caller{ID: other, Role: models.RoleParalegal}, owner: owner, action: ActionRead, allow: false},
		{name: "paralegal owner write", caller: Caller{ID: owner, Role: models.RoleParalegal}, owner: owner, action: ActionWrite, allow: true},
		{name: "admin read any", caller: Caller{ID: other, Role: models.RoleAdmin}, owner: owner, action: ActionRead, allow: true},
		{name: "admin delete any", caller: Caller{ID: other, Role: models.RoleAdmin}, owner: owner, action: ActionDelete, allow: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.caller, tc.owner, tc.action); got != tc.allow {
				t.Fatalf("Can(%v, %v, %q) = %v, want %v", tc.caller, tc.owner, tc.action, got, tc.allow)
			}
		})
	}
}
