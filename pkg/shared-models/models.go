package datamodels

import (
	"github.com/google/uuid"
)

// AnsibleRequest asks for one Ansible module run in a child interpreter.
type AnsibleRequest struct {
	Module       string    `json:"module" validate:"required,moduleName"`
	Args         []string  `json:"args,omitempty"`
	Strict       bool      `json:"strict"`
	ExecutionUID uuid.UUID `json:"exuid"`
}

// CloudInitRequest asks for one in-process config module run.
type CloudInitRequest struct {
	Distro       string    `json:"distro" validate:"required,moduleName"`
	Module       string    `json:"module" validate:"required,moduleName"`
	ExecutionUID uuid.UUID `json:"exuid"`
}

func NewAnsibleRequest(module string, args []string, strict bool) AnsibleRequest {
	return AnsibleRequest{Module: module, Args: args, Strict: strict, ExecutionUID: uuid.New()}
}

func NewCloudInitRequest(distro, module string) CloudInitRequest {
	return CloudInitRequest{Distro: distro, Module: module, ExecutionUID: uuid.New()}
}
