package datamodels

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateAnsibleRequest(t *testing.T) {
	tests := []struct {
		name    string
		module  string
		wantErr bool
	}{
		{name: "plain", module: "user"},
		{name: "dotted", module: "ansible.builtin.user"},
		{name: "underscore", module: "service_facts"},
		{name: "empty", module: "", wantErr: true},
		{name: "path traversal", module: "../../etc/passwd", wantErr: true},
		{name: "slash", module: "a/b", wantErr: true},
		{name: "trailing dot", module: "user.", wantErr: true},
		{name: "space", module: "us er", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(NewAnsibleRequest(tt.module, nil, false))
			if tt.wantErr {
				var verr validator.ValidationErrors
				assert.True(t, errors.As(err, &verr))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCloudInitRequest(t *testing.T) {
	assert.NoError(t, Validate(NewCloudInitRequest("ubuntu", "users_groups")))
	assert.Error(t, Validate(NewCloudInitRequest("", "debug")))
	assert.Error(t, Validate(NewCloudInitRequest("ubuntu", "cc-debug")))
}

func TestNewRequestsGetExecutionUID(t *testing.T) {
	a := NewAnsibleRequest("user", nil, true)
	b := NewAnsibleRequest("user", nil, true)
	assert.NotEqual(t, uuid.Nil, a.ExecutionUID)
	assert.NotEqual(t, a.ExecutionUID, b.ExecutionUID)
}

func TestValidModuleName(t *testing.T) {
	assert.True(t, ValidModuleName("debug"))
	assert.False(t, ValidModuleName("de bug"))
}
