package validator

import (
	"context"
	"testing"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestStaffValidator_ValidateCreate(t *testing.T) {
	v := NewStaffValidator()
	ctx := context.Background()

	tests := []struct {
		name string
		in   usecase.CreateStaffInput
		ok   bool
	}{
		{name: "ok", in: usecase.CreateStaffInput{Username: "budi.s", Password: "secret1", Phone: "+62 812-3456"}, ok: true},
		{name: "ok supervisor", in: usecase.CreateStaffInput{Username: "sari", Password: "secret1", Role: model.RoleSupervisor}, ok: true},
		{name: "short username", in: usecase.CreateStaffInput{Username: "ab", Password: "secret1"}},
		{name: "bad chars", in: usecase.CreateStaffInput{Username: "bu di", Password: "secret1"}},
		{name: "short password", in: usecase.CreateStaffInput{Username: "budi", Password: "123"}},
		{name: "bad phone", in: usecase.CreateStaffInput{Username: "budi", Password: "secret1", Phone: "call me"}},
		{name: "admin role", in: usecase.CreateStaffInput{Username: "budi", Password: "secret1", Role: model.RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCreate(ctx, tt.in)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, usecase.ErrInvalidInput)
		})
	}
}

func TestStaffValidator_ValidateUpdate(t *testing.T) {
	v := NewStaffValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.ValidateUpdate(ctx, usecase.UpdateStaffInput{}), usecase.ErrInvalidInput)
	assert.NoError(t, v.ValidateUpdate(ctx, usecase.UpdateStaffInput{Phone: ptr("")}))
	assert.NoError(t, v.ValidateUpdate(ctx, usecase.UpdateStaffInput{Role: ptr(model.RoleSupervisor)}))
	assert.ErrorIs(t, v.ValidateUpdate(ctx, usecase.UpdateStaffInput{Password: ptr("x")}), usecase.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateUpdate(ctx, usecase.UpdateStaffInput{Role: ptr(model.RoleAdmin)}), usecase.ErrInvalidInput)
}
