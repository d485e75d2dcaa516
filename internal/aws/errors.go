// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"errors"

	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
)

// IsNotFound reports whether err signals an absent remote resource. The
// typed exceptions cover the Lambda and IAM clients; the smithy fallback
// covers anything else that follows AWS error-code conventions.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var lambdaNF *lambdatypes.ResourceNotFoundException
	if errors.As(err, &lambdaNF) {
		return true
	}
	var iamNF *iamtypes.NoSuchEntityException
	if errors.As(err, &iamNF) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException", "NoSuchEntity", "NotFound", "NoSuchKey":
			return true
		}
	}

	return false
}

// IsAlreadyExists reports whether err signals a create collision with an
// existing resource.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}

	var iamExists *iamtypes.EntityAlreadyExistsException
	if errors.As(err, &iamExists) {
		return true
	}
	var lambdaConflict *lambdatypes.ResourceConflictException
	if errors.As(err, &lambdaConflict) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "EntityAlreadyExists", "ResourceConflictException":
			return true
		}
	}

	return false
}
