// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package function is the accessor for deployed Lambda functions. Every
// method is a narrow pass-through to one remote operation, translating names
// per the lmdo conventions and returning explicit errors.
package function

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	awsx "github.com/chengjingfeng/lmdo/internal/aws"
	"github.com/chengjingfeng/lmdo/internal/naming"
)

// API is the subset of the Lambda client the service needs. *lambda.Client
// satisfies it; tests substitute a fake. ListFunctions matches the SDK's
// paginator client interface.
type API interface {
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error)
	UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error)
	DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error)
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
	ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
	RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error)
}

// RemoteState is the slice of remote metadata deploy/destroy decisions need.
type RemoteState struct {
	FunctionARN  string
	RoleARN      string
	Runtime      string
	LastModified string
}

// CreateParams carries everything CreateFunction needs. All fields are
// resolved before this struct is built; nothing here falls back to defaults.
type CreateParams struct {
	DeployedName string
	Description  string
	Handler      string
	Runtime      string
	MemorySize   int
	Timeout      int
	RoleARN      string

	Bucket string
	Key    string

	SubnetIDs        []string
	SecurityGroupIDs []string
	Environment      map[string]string
}

// InvokeResult is the interesting part of an invocation response.
type InvokeResult struct {
	StatusCode      int32
	Payload         []byte
	FunctionError   string
	ExecutedVersion string
}

// Failed reports whether the function itself raised an error (as opposed to
// the invoke call failing).
func (r *InvokeResult) Failed() bool {
	return r.FunctionError != ""
}

// Summary is one row of a function listing.
type Summary struct {
	Name         string `json:"name"`
	Runtime      string `json:"runtime"`
	Handler      string `json:"handler"`
	MemorySize   int32  `json:"memory"`
	Timeout      int32  `json:"timeout"`
	Description  string `json:"description"`
	LastModified string `json:"modified"`
	ARN          string `json:"arn"`
	Role         string `json:"role"`
}

// Service wraps the remote function operations.
type Service struct {
	api API
}

// NewService returns a Service backed by the given Lambda API.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Get probes for a deployed function. A nil state with nil error means the
// function does not exist.
func (s *Service) Get(ctx context.Context, deployedName string) (*RemoteState, error) {
	out, err := s.api.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: awsv2.String(deployedName),
	})
	if err != nil {
		if awsx.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get function %s: %w", deployedName, err)
	}

	cfg := out.Configuration
	if cfg == nil {
		return nil, nil
	}

	return &RemoteState{
		FunctionARN:  awsv2.ToString(cfg.FunctionArn),
		RoleARN:      awsv2.ToString(cfg.Role),
		Runtime:      string(cfg.Runtime),
		LastModified: awsv2.ToString(cfg.LastModified),
	}, nil
}

// Create creates the function with its code pointing at the uploaded S3
// object.
func (s *Service) Create(ctx context.Context, p CreateParams) error {
	in := &lambda.CreateFunctionInput{
		FunctionName: awsv2.String(p.DeployedName),
		Description:  awsv2.String(p.Description),
		Handler:      awsv2.String(p.Handler),
		Runtime:      types.Runtime(p.Runtime),
		MemorySize:   awsv2.Int32(int32(p.MemorySize)),
		Timeout:      awsv2.Int32(int32(p.Timeout)),
		Role:         awsv2.String(p.RoleARN),
		Code: &types.FunctionCode{
			S3Bucket: awsv2.String(p.Bucket),
			S3Key:    awsv2.String(p.Key),
		},
	}

	if len(p.SubnetIDs) > 0 || len(p.SecurityGroupIDs) > 0 {
		in.VpcConfig = &types.VpcConfig{
			SubnetIds:        p.SubnetIDs,
			SecurityGroupIds: p.SecurityGroupIDs,
		}
	}
	if len(p.Environment) > 0 {
		in.Environment = &types.Environment{Variables: p.Environment}
	}

	if _, err := s.api.CreateFunction(ctx, in); err != nil {
		return fmt.Errorf("failed to create function %s: %w", p.DeployedName, err)
	}

	log.Infof("Lambda function %s has been created", p.DeployedName)
	return nil
}

// UpdateCode points an existing function at the freshly uploaded artifact.
func (s *Service) UpdateCode(ctx context.Context, deployedName, bucket, key string) error {
	_, err := s.api.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
		FunctionName: awsv2.String(deployedName),
		S3Bucket:     awsv2.String(bucket),
		S3Key:        awsv2.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to update function %s: %w", deployedName, err)
	}

	log.Infof("Lambda function %s has been updated", deployedName)
	return nil
}

// Delete removes a deployed function. A function that is already gone is not
// an error.
func (s *Service) Delete(ctx context.Context, deployedName string) error {
	_, err := s.api.DeleteFunction(ctx, &lambda.DeleteFunctionInput{
		FunctionName: awsv2.String(deployedName),
	})
	if err != nil {
		if awsx.IsNotFound(err) {
			log.Debugf("function %s already gone", deployedName)
			return nil
		}
		return fmt.Errorf("failed to delete function %s: %w", deployedName, err)
	}

	log.Infof("Lambda function %s has been deleted", deployedName)
	return nil
}

// Invoke calls the deployed function. async switches the invocation type to
// Event, in which case the payload of the result is empty.
func (s *Service) Invoke(ctx context.Context, deployedName string, payload []byte, async bool) (*InvokeResult, error) {
	invocationType := types.InvocationTypeRequestResponse
	if async {
		invocationType = types.InvocationTypeEvent
	}

	out, err := s.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   awsv2.String(deployedName),
		InvocationType: invocationType,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke function %s: %w", deployedName, err)
	}

	return &InvokeResult{
		StatusCode:      out.StatusCode,
		Payload:         out.Payload,
		FunctionError:   awsv2.ToString(out.FunctionError),
		ExecutedVersion: awsv2.ToString(out.ExecutedVersion),
	}, nil
}

// List returns the deployed functions whose names carry the given prefix,
// walking all pages. An empty prefix lists everything.
func (s *Service) List(ctx context.Context, prefix string) ([]Summary, error) {
	var results []Summary

	paginator := lambda.NewListFunctionsPaginator(s.api, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list functions: %w", err)
		}

		for _, fc := range page.Functions {
			name := awsv2.ToString(fc.FunctionName)
			if prefix != "" && !strings.HasPrefix(name, prefix) {
				continue
			}
			results = append(results, Summary{
				Name:         name,
				Runtime:      string(fc.Runtime),
				Handler:      awsv2.ToString(fc.Handler),
				MemorySize:   awsv2.ToInt32(fc.MemorySize),
				Timeout:      awsv2.ToInt32(fc.Timeout),
				Description:  awsv2.ToString(fc.Description),
				LastModified: awsv2.ToString(fc.LastModified),
				ARN:          awsv2.ToString(fc.FunctionArn),
				Role:         awsv2.ToString(fc.Role),
			})
		}
	}

	return results, nil
}

// AddPermission grants a principal the given action on the deployed
// function, under the lmdo statement-id convention.
func (s *Service) AddPermission(ctx context.Context, deployedName, principal, principalID, action string) error {
	statementID := naming.StatementID(deployedName, principalID)

	_, err := s.api.AddPermission(ctx, &lambda.AddPermissionInput{
		FunctionName: awsv2.String(deployedName),
		StatementId:  awsv2.String(statementID),
		Action:       awsv2.String(action),
		Principal:    awsv2.String(principal),
	})
	if err != nil {
		return fmt.Errorf("failed to add permission %s to %s: %w", statementID, deployedName, err)
	}

	log.Infof("Permission %s has been added for %s with principal %s", action, deployedName, principal)
	return nil
}

// RemovePermission drops the statement identified by the principal id. A
// statement that is already gone is not an error.
func (s *Service) RemovePermission(ctx context.Context, deployedName, principalID string) error {
	statementID := naming.StatementID(deployedName, principalID)

	_, err := s.api.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: awsv2.String(deployedName),
		StatementId:  awsv2.String(statementID),
	})
	if err != nil {
		if awsx.IsNotFound(err) {
			log.Debugf("permission %s already gone", statementID)
			return nil
		}
		return fmt.Errorf("failed to remove permission %s from %s: %w", statementID, deployedName, err)
	}

	log.Infof("Permission has been removed for %s", deployedName)
	return nil
}
