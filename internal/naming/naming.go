// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package naming holds the name-spacing conventions applied to every remote
// resource lmdo touches. Deployed names embed the project id so multiple
// projects can share one account without colliding.
package naming

import "fmt"

// FunctionName returns the deployed function name for a configured function.
func FunctionName(projectID, funcName string) string {
	return fmt.Sprintf("%s-%s", projectID, funcName)
}

// RoleName returns the name of the execution role lmdo creates when a spec
// does not supply its own.
func RoleName(projectID, funcName string) string {
	return fmt.Sprintf("lmdo-%s-%s", projectID, funcName)
}

// ZipKey returns the object key of the package artifact in S3. The local
// artifact file uses the same name.
func ZipKey(projectID, funcName string) string {
	return fmt.Sprintf("%s-%s.zip", projectID, funcName)
}

// StatementID returns the permission statement id for a deployed function and
// a caller-chosen principal id.
func StatementID(deployedName, principalID string) string {
	return fmt.Sprintf("stmt-%s-%s", deployedName, principalID)
}

// FunctionARN builds the invokable ARN of a deployed function.
func FunctionARN(region, accountID, deployedName string) string {
	return fmt.Sprintf("arn:aws:lambda:%s:%s:function:%s", region, accountID, deployedName)
}
