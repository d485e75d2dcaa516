// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package role creates and deletes the IAM execution roles backing deployed
// functions.
package role

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/tidwall/gjson"

	awsx "github.com/chengjingfeng/lmdo/internal/aws"
)

// API is the subset of the IAM client the manager needs. *iam.Client
// satisfies it.
type API interface {
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error)
}

// Reference identifies a role both ways the APIs want it: by name (IAM
// delete) and by ARN (Lambda create).
type Reference struct {
	Name string
	ARN  string
}

// Manager wraps role operations.
type Manager struct {
	iam API
}

// NewManager returns a Manager backed by the given IAM API.
func NewManager(api API) *Manager {
	return &Manager{iam: api}
}

// CreateFromDocument reads a trust-policy document from local disk and
// creates a role with it. If the role already exists it is reused.
func (m *Manager) CreateFromDocument(ctx context.Context, name, policyPath string) (Reference, error) {
	policy, err := os.ReadFile(policyPath)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to read policy document %s: %w", policyPath, err)
	}
	if !gjson.ValidBytes(policy) {
		return Reference{}, fmt.Errorf("policy document %s is not valid JSON", policyPath)
	}

	out, err := m.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 awsv2.String(name),
		AssumeRolePolicyDocument: awsv2.String(string(policy)),
	})
	if err != nil {
		if awsx.IsAlreadyExists(err) {
			log.Debugf("role %s already exists, reusing it", name)
			return m.lookup(ctx, name)
		}
		return Reference{}, fmt.Errorf("failed to create role %s: %w", name, err)
	}

	log.Infof("role %s has been created", name)
	return Reference{
		Name: awsv2.ToString(out.Role.RoleName),
		ARN:  awsv2.ToString(out.Role.Arn),
	}, nil
}

// Delete removes a role by name or ARN. A role that is already gone is not
// an error.
func (m *Manager) Delete(ctx context.Context, nameOrARN string) error {
	name := NameFromARN(nameOrARN)
	if name == "" {
		return nil
	}

	_, err := m.iam.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: awsv2.String(name)})
	if err != nil {
		if awsx.IsNotFound(err) {
			log.Debugf("role %s already gone", name)
			return nil
		}
		return fmt.Errorf("failed to delete role %s: %w", name, err)
	}

	log.Infof("role %s has been deleted", name)
	return nil
}

func (m *Manager) lookup(ctx context.Context, name string) (Reference, error) {
	out, err := m.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: awsv2.String(name)})
	if err != nil {
		return Reference{}, fmt.Errorf("failed to look up role %s: %w", name, err)
	}
	return Reference{
		Name: awsv2.ToString(out.Role.RoleName),
		ARN:  awsv2.ToString(out.Role.Arn),
	}, nil
}

// NameFromARN extracts the role name from an IAM role ARN
// (arn:aws:iam::<account>:role/<path...>/<name>). Plain names pass through.
func NameFromARN(s string) string {
	if !strings.HasPrefix(s, "arn:") {
		return s
	}
	idx := strings.LastIndex(s, "/")
	if idx < 0 || idx == len(s)-1 {
		return ""
	}
	return s[idx+1:]
}
