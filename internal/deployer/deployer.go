// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package deployer orchestrates the deploy and destroy passes over the
// configured functions. One function spec is fully processed before the next
// begins, and a failing spec never stops the rest of the pass.
package deployer

import (
	"context"
	"fmt"

	"github.com/apex/log"

	"github.com/chengjingfeng/lmdo/internal/config"
	"github.com/chengjingfeng/lmdo/internal/function"
	"github.com/chengjingfeng/lmdo/internal/naming"
	"github.com/chengjingfeng/lmdo/internal/role"
)

// Packager builds and removes local artifacts.
type Packager interface {
	InstallDependencies(ctx context.Context) error
	Package(functionName string) (string, error)
	Remove(path string)
}

// Uploader ships artifacts to object storage.
type Uploader interface {
	Upload(ctx context.Context, bucket, key, localPath string) error
}

// Roles manages the IAM roles functions run as.
type Roles interface {
	CreateFromDocument(ctx context.Context, name, policyPath string) (role.Reference, error)
	Delete(ctx context.Context, nameOrARN string) error
}

// Functions is the remote function surface the orchestrator drives.
type Functions interface {
	Get(ctx context.Context, deployedName string) (*function.RemoteState, error)
	Create(ctx context.Context, p function.CreateParams) error
	UpdateCode(ctx context.Context, deployedName, bucket, key string) error
	Delete(ctx context.Context, deployedName string) error
}

// Action describes what a pass did to one function.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionFailed  Action = "failed"
)

// Result is the per-function outcome of a pass. Err is set exactly when
// Action is ActionFailed.
type Result struct {
	Name   string
	Action Action
	Err    error
}

// Results is the outcome of a whole pass.
type Results []Result

// Failed reports whether any function in the pass failed.
func (rs Results) Failed() bool {
	for _, r := range rs {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Deployer drives the package, upload, create-or-update sequence.
type Deployer struct {
	cfg       *config.Config
	packager  Packager
	uploader  Uploader
	roles     Roles
	functions Functions
}

// New returns a Deployer for the given project configuration.
func New(cfg *config.Config, p Packager, u Uploader, r Roles, f Functions) *Deployer {
	return &Deployer{
		cfg:       cfg,
		packager:  p,
		uploader:  u,
		roles:     r,
		functions: f,
	}
}

// Deploy runs the deploy sequence for each spec, continuing past per-spec
// failures. An empty spec list is a no-op, not an error.
func (d *Deployer) Deploy(ctx context.Context, specs []config.FunctionSpec) Results {
	if len(specs) == 0 {
		log.Info("no functions configured, nothing to deploy")
		return nil
	}

	// The project tree is shared by every artifact, so vendor the
	// dependencies once up front. If that fails, every spec would ship a
	// broken artifact.
	if err := d.packager.InstallDependencies(ctx); err != nil {
		log.WithError(err).Error("failed to install dependencies")
		results := make(Results, 0, len(specs))
		for _, spec := range specs {
			results = append(results, Result{Name: spec.FunctionName, Action: ActionFailed, Err: err})
		}
		return results
	}

	results := make(Results, 0, len(specs))
	for _, spec := range specs {
		action, err := d.deployOne(ctx, spec)
		if err != nil {
			log.WithError(err).Errorf("failed to deploy %s", spec.FunctionName)
			results = append(results, Result{Name: spec.FunctionName, Action: ActionFailed, Err: err})
			continue
		}
		results = append(results, Result{Name: spec.FunctionName, Action: action})
	}
	return results
}

func (d *Deployer) deployOne(ctx context.Context, spec config.FunctionSpec) (Action, error) {
	projectID := d.cfg.ProjectID()
	deployedName := naming.FunctionName(projectID, spec.FunctionName)
	key := naming.ZipKey(projectID, spec.FunctionName)

	artifact, err := d.packager.Package(spec.FunctionName)
	if err != nil {
		return ActionFailed, err
	}
	defer d.packager.Remove(artifact)

	if err := d.uploader.Upload(ctx, spec.S3Bucket, key, artifact); err != nil {
		return ActionFailed, err
	}

	state, err := d.functions.Get(ctx, deployedName)
	if err != nil {
		return ActionFailed, err
	}

	if state != nil {
		if err := d.functions.UpdateCode(ctx, deployedName, spec.S3Bucket, key); err != nil {
			return ActionFailed, err
		}
		return ActionUpdated, nil
	}

	roleARN, err := d.resolveRole(ctx, spec)
	if err != nil {
		return ActionFailed, err
	}

	params := function.CreateParams{
		DeployedName: deployedName,
		Description:  fmt.Sprintf("Function deployed for service %s by lmdo", d.cfg.Service),
		Handler:      spec.Handler,
		Runtime:      spec.Runtime,
		MemorySize:   spec.MemorySize,
		Timeout:      spec.Timeout,
		RoleARN:      roleARN,
		Bucket:       spec.S3Bucket,
		Key:          key,
		Environment:  spec.EnvironmentVariables,
	}
	if spec.VpcConfig != nil {
		params.SubnetIDs = spec.VpcConfig.SubnetIds
		params.SecurityGroupIDs = spec.VpcConfig.SecurityGroupIds
	}

	if err := d.functions.Create(ctx, params); err != nil {
		return ActionFailed, err
	}
	return ActionCreated, nil
}

// resolveRole returns the ARN the function should run as. An explicit Role in
// the spec wins; otherwise a role is created from the spec's policy document.
func (d *Deployer) resolveRole(ctx context.Context, spec config.FunctionSpec) (string, error) {
	if spec.HasExplicitRole() {
		return spec.Role, nil
	}

	name := naming.RoleName(d.cfg.ProjectID(), spec.FunctionName)
	ref, err := d.roles.CreateFromDocument(ctx, name, spec.RolePolicyDocument)
	if err != nil {
		return "", err
	}
	return ref.ARN, nil
}

// Destroy deletes each spec's deployed function, continuing past per-spec
// failures. Roles are only deleted when this tool created them.
func (d *Deployer) Destroy(ctx context.Context, specs []config.FunctionSpec) Results {
	if len(specs) == 0 {
		log.Info("no functions configured, nothing to destroy")
		return nil
	}

	results := make(Results, 0, len(specs))
	for _, spec := range specs {
		if err := d.destroyOne(ctx, spec); err != nil {
			log.WithError(err).Errorf("failed to destroy %s", spec.FunctionName)
			results = append(results, Result{Name: spec.FunctionName, Action: ActionFailed, Err: err})
			continue
		}
		results = append(results, Result{Name: spec.FunctionName, Action: ActionDeleted})
	}
	return results
}

func (d *Deployer) destroyOne(ctx context.Context, spec config.FunctionSpec) error {
	projectID := d.cfg.ProjectID()
	deployedName := naming.FunctionName(projectID, spec.FunctionName)

	// Capture the role the function actually ran as before it goes away.
	state, err := d.functions.Get(ctx, deployedName)
	if err != nil {
		return err
	}

	if err := d.functions.Delete(ctx, deployedName); err != nil {
		return err
	}

	if spec.HasExplicitRole() {
		return nil
	}

	target := naming.RoleName(projectID, spec.FunctionName)
	if state != nil && state.RoleARN != "" {
		target = state.RoleARN
	}
	return d.roles.Delete(ctx, target)
}
