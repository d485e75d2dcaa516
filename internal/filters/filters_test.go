// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/chengjingfeng/lmdo/internal/attrs"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
		wantCount int
	}{
		{
			name:      "empty spec",
			spec:      "",
			wantCount: 0,
		},
		{
			name:      "single exact match filter",
			spec:      "name=demo-hello",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "demo-hello", Negate: false},
			},
		},
		{
			name:      "prefix match filter",
			spec:      "runtime^python",
			wantCount: 1,
			want: []Filter{
				{Key: "runtime", Operand: "^", Target: "python", Negate: false},
			},
		},
		{
			name:      "case insensitive match filter",
			spec:      "name~DEMO-HELLO",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "~", Target: "DEMO-HELLO", Negate: false},
			},
		},
		{
			name:      "negated exact match",
			spec:      "name!=demo-worker",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "demo-worker", Negate: true},
			},
		},
		{
			name:      "negated prefix match",
			spec:      "runtime!^node",
			wantCount: 1,
			want: []Filter{
				{Key: "runtime", Operand: "^", Target: "node", Negate: true},
			},
		},
		{
			name:      "multiple filters",
			spec:      "name=demo-hello,runtime^python",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "demo-hello", Negate: false},
				{Key: "runtime", Operand: "^", Target: "python", Negate: false},
			},
		},
		{
			name:      "greater than numeric",
			spec:      "memory>128",
			wantCount: 1,
			want: []Filter{
				{Key: "memory", Operand: ">", Target: "128", Negate: false},
			},
		},
		{
			name:      "less than numeric",
			spec:      "timeout<300",
			wantCount: 1,
			want: []Filter{
				{Key: "timeout", Operand: "<", Target: "300", Negate: false},
			},
		},
		{
			name:      "contains operand",
			spec:      "name@hello",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "@", Target: "hello", Negate: false},
			},
		},
		{
			name:      "regex operand",
			spec:      "name/^demo-.*",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "/", Target: "^demo-.*", Negate: false},
			},
		},
		{
			name:      "invalid filter skipped",
			spec:      "name=demo-hello,invalid-filter,runtime^python",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "demo-hello", Negate: false},
				{Key: "runtime", Operand: "^", Target: "python", Negate: false},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "name=demo-hello|runtime^python",
			delimiter: "|",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "demo-hello", Negate: false},
				{Key: "runtime", Operand: "^", Target: "python", Negate: false},
			},
		},
		{
			name:      "key with dots",
			spec:      "vpc.subnets@subnet-0abc",
			wantCount: 1,
			want: []Filter{
				{Key: "vpc.subnets", Operand: "@", Target: "subnet-0abc", Negate: false},
			},
		},
		{
			name:      "empty target",
			spec:      "name=",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "", Negate: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("LMDO_FILTER_DELIM", tt.delimiter)
			}

			got := BuildFilters(tt.spec)
			assert.Len(t, got, tt.wantCount)
			if tt.want != nil {
				for i, filter := range tt.want {
					assert.Equal(t, filter.Key, got[i].Key)
					assert.Equal(t, filter.Operand, got[i].Operand)
					assert.Equal(t, filter.Target, got[i].Target)
					assert.Equal(t, filter.Negate, got[i].Negate)
				}
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{
			name:   "exact match true",
			value:  "demo-hello",
			filter: Filter{Operand: "=", Target: "demo-hello", Negate: false},
			want:   true,
		},
		{
			name:   "exact match false",
			value:  "demo-hello",
			filter: Filter{Operand: "=", Target: "demo-worker", Negate: false},
			want:   false,
		},
		{
			name:   "negated exact match true",
			value:  "demo-hello",
			filter: Filter{Operand: "=", Target: "demo-worker", Negate: true},
			want:   true,
		},
		{
			name:   "negated exact match false",
			value:  "demo-hello",
			filter: Filter{Operand: "=", Target: "demo-hello", Negate: true},
			want:   false,
		},
		{
			name:   "prefix match true",
			value:  "python3.12",
			filter: Filter{Operand: "^", Target: "python", Negate: false},
			want:   true,
		},
		{
			name:   "prefix match false",
			value:  "nodejs20.x",
			filter: Filter{Operand: "^", Target: "python", Negate: false},
			want:   false,
		},
		{
			name:   "case insensitive match true",
			value:  "DEMO-HELLO",
			filter: Filter{Operand: "~", Target: "demo-hello", Negate: false},
			want:   true,
		},
		{
			name:   "case insensitive match false",
			value:  "demo-hello-v2",
			filter: Filter{Operand: "~", Target: "demo-hello", Negate: false},
			want:   false,
		},
		{
			name:   "contains true",
			value:  "demo-hello-handler",
			filter: Filter{Operand: "@", Target: "hello", Negate: false},
			want:   true,
		},
		{
			name:   "contains false",
			value:  "demo-worker",
			filter: Filter{Operand: "@", Target: "hello", Negate: false},
			want:   false,
		},
		{
			name:   "negated contains true",
			value:  "demo-worker",
			filter: Filter{Operand: "@", Target: "hello", Negate: true},
			want:   true,
		},
		{
			name:   "regex match true",
			value:  "demo-hello-v1",
			filter: Filter{Operand: "/", Target: "^demo-.*-v\\d+$", Negate: false},
			want:   true,
		},
		{
			name:   "regex match false",
			value:  "worker",
			filter: Filter{Operand: "/", Target: "^demo-.*", Negate: false},
			want:   false,
		},
		{
			name:   "negated regex match",
			value:  "worker",
			filter: Filter{Operand: "/", Target: "^demo-.*", Negate: true},
			want:   true,
		},
		{
			name:   "greater than string true",
			value:  "z",
			filter: Filter{Operand: ">", Target: "a", Negate: false},
			want:   true,
		},
		{
			name:   "greater than string false",
			value:  "a",
			filter: Filter{Operand: ">", Target: "z", Negate: false},
			want:   false,
		},
		{
			name:   "less than string true",
			value:  "a",
			filter: Filter{Operand: "<", Target: "z", Negate: false},
			want:   true,
		},
		{
			name:   "invalid regex",
			value:  "demo-hello",
			filter: Filter{Operand: "/", Target: "[invalid", Negate: false},
			want:   false,
		},
		{
			name:   "unsupported operand",
			value:  "demo-hello",
			filter: Filter{Operand: "?", Target: "demo-hello", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkStringOperand(tt.value, tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{
			name:   "exact match true",
			value:  128,
			filter: Filter{Operand: "=", Target: "128", Negate: false},
			want:   true,
		},
		{
			name:   "exact match false",
			value:  128,
			filter: Filter{Operand: "=", Target: "256", Negate: false},
			want:   false,
		},
		{
			name:   "negated equal true",
			value:  128,
			filter: Filter{Operand: "=", Target: "256", Negate: true},
			want:   true,
		},
		{
			name:   "negated equal false",
			value:  128,
			filter: Filter{Operand: "=", Target: "128", Negate: true},
			want:   false,
		},
		{
			name:   "greater than true",
			value:  512,
			filter: Filter{Operand: ">", Target: "128", Negate: false},
			want:   true,
		},
		{
			name:   "greater than false",
			value:  128,
			filter: Filter{Operand: ">", Target: "512", Negate: false},
			want:   false,
		},
		{
			name:   "less than true",
			value:  128,
			filter: Filter{Operand: "<", Target: "512", Negate: false},
			want:   true,
		},
		{
			name:   "less than false",
			value:  512,
			filter: Filter{Operand: "<", Target: "128", Negate: false},
			want:   false,
		},
		{
			name:   "float value with integer target",
			value:  128.5,
			filter: Filter{Operand: ">", Target: "128", Negate: false},
			want:   true,
		},
		{
			name:   "invalid target",
			value:  128,
			filter: Filter{Operand: "=", Target: "invalid", Negate: false},
			want:   false,
		},
		{
			name:   "unsupported operand",
			value:  128,
			filter: Filter{Operand: "^", Target: "128", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkNumericOperand(tt.value, tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		filter Filter
		want   bool
	}{
		{
			name:   "slice contains true",
			value:  []any{"subnet-0abc", "subnet-0def"},
			filter: Filter{Operand: "@", Target: "subnet-0abc", Negate: false},
			want:   true,
		},
		{
			name:   "slice contains false",
			value:  []any{"subnet-0abc", "subnet-0def"},
			filter: Filter{Operand: "@", Target: "subnet-0123", Negate: false},
			want:   false,
		},
		{
			name:   "slice not contains true",
			value:  []any{"subnet-0abc", "subnet-0def"},
			filter: Filter{Operand: "@", Target: "subnet-0123", Negate: true},
			want:   true,
		},
		{
			name:   "slice not contains false",
			value:  []any{"subnet-0abc", "subnet-0def"},
			filter: Filter{Operand: "@", Target: "subnet-0abc", Negate: true},
			want:   false,
		},
		{
			name:   "map key exists true",
			value:  map[string]any{"STAGE": "prod", "REGION": "us-east-1"},
			filter: Filter{Operand: "@", Target: "STAGE", Negate: false},
			want:   true,
		},
		{
			name:   "map key exists false",
			value:  map[string]any{"STAGE": "prod", "REGION": "us-east-1"},
			filter: Filter{Operand: "@", Target: "BUCKET", Negate: false},
			want:   false,
		},
		{
			name:   "map key not exists true",
			value:  map[string]any{"STAGE": "prod", "REGION": "us-east-1"},
			filter: Filter{Operand: "@", Target: "BUCKET", Negate: true},
			want:   true,
		},
		{
			name:   "map key not exists false",
			value:  map[string]any{"STAGE": "prod", "REGION": "us-east-1"},
			filter: Filter{Operand: "@", Target: "STAGE", Negate: true},
			want:   false,
		},
		{
			name:   "unsupported type",
			value:  128,
			filter: Filter{Operand: "@", Target: "demo", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkContainsOperand(tt.value, tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   float64
		wantOk bool
	}{
		{
			name:   "float64",
			value:  128.5,
			want:   128.5,
			wantOk: true,
		},
		{
			name:   "float32",
			value:  float32(128.5),
			want:   128.5,
			wantOk: true,
		},
		{
			name:   "int",
			value:  128,
			want:   128,
			wantOk: true,
		},
		{
			name:   "int64",
			value:  int64(128),
			want:   128,
			wantOk: true,
		},
		{
			name:   "int32",
			value:  int32(128),
			want:   128,
			wantOk: true,
		},
		{
			name:   "uint",
			value:  uint(128),
			want:   128,
			wantOk: true,
		},
		{
			name:   "uint64",
			value:  uint64(128),
			want:   128,
			wantOk: true,
		},
		{
			name:   "string",
			value:  "128",
			want:   0,
			wantOk: false,
		},
		{
			name:   "nil",
			value:  nil,
			want:   0,
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toFloat64(tt.value)
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestApplyFilters(t *testing.T) {
	testData := `
	{
		"name": "demo-hello",
		"runtime": "python3.12",
		"handler": "handler.handler",
		"memory": 128,
		"timeout": 180,
		"layers": ["layer-one", "layer-two"],
		"environment": {"STAGE": "prod"},
		"description": null,
		"vpc": {"subnets": ["subnet-0abc"]}
	}
	`

	attrList := attrs.AttrList{
		{Key: "name", OutputKey: "name", Include: true},
		{Key: "runtime", OutputKey: "runtime", Include: true},
		{Key: "memory", OutputKey: "memory", Include: true},
		{Key: "layers", OutputKey: "layers", Include: true},
		{Key: "environment", OutputKey: "environment", Include: true},
		{Key: "description", OutputKey: "description", Include: true},
		{Key: "vpc", OutputKey: "vpc", Include: true},
	}

	tests := []struct {
		name    string
		filters []Filter
		want    bool
	}{
		{
			name:    "no filters",
			filters: []Filter{},
			want:    true,
		},
		{
			name: "single filter match",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "demo-hello", Negate: false},
			},
			want: true,
		},
		{
			name: "single filter no match",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "demo-worker", Negate: false},
			},
			want: false,
		},
		{
			name: "multiple filters all match",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "demo-hello", Negate: false},
				{Key: "runtime", Operand: "^", Target: "python", Negate: false},
			},
			want: true,
		},
		{
			name: "multiple filters one fails",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "demo-hello", Negate: false},
				{Key: "runtime", Operand: "^", Target: "node", Negate: false},
			},
			want: false,
		},
		{
			name: "missing attribute key continues",
			filters: []Filter{
				{Key: "nonexistent", Operand: "=", Target: "value", Negate: false},
			},
			want: true,
		},
		{
			name: "numeric comparison",
			filters: []Filter{
				{Key: "memory", Operand: ">", Target: "64", Negate: false},
			},
			want: true,
		},
		{
			name: "null value filter fails",
			filters: []Filter{
				{Key: "description", Operand: "=", Target: "value", Negate: false},
			},
			want: false,
		},
		{
			name: "unsupported type with equals operator passes",
			filters: []Filter{
				{Key: "vpc", Operand: "=", Target: "value", Negate: false},
			},
			want: true,
		},
		{
			name: "map value with contains operator",
			filters: []Filter{
				{Key: "environment", Operand: "@", Target: "STAGE", Negate: false},
			},
			want: true,
		},
		{
			name: "array value with contains operator",
			filters: []Filter{
				{Key: "layers", Operand: "@", Target: "layer-one", Negate: false},
			},
			want: true,
		},
		{
			name: "array type with equals operator passes",
			filters: []Filter{
				{Key: "layers", Operand: "=", Target: "layer-one", Negate: false},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := gjson.Parse(testData)
			got := applyFilters(result, attrList, tt.filters)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterDataset(t *testing.T) {
	testData := `
	[
		{
			"name": "demo-hello",
			"runtime": "python3.12",
			"memory": 128
		},
		{
			"name": "demo-worker",
			"runtime": "python3.12",
			"memory": 512
		},
		{
			"name": "billing-report",
			"runtime": "nodejs20.x",
			"memory": 256
		}
	]
	`

	attrList := attrs.AttrList{
		{Key: "name", OutputKey: "name", Include: true},
		{Key: "runtime", OutputKey: "runtime", Include: true},
		{Key: "memory", OutputKey: "memory", Include: true},
	}

	tests := []struct {
		name      string
		spec      string
		wantCount int
		wantNames []string
	}{
		{
			name:      "no filters",
			spec:      "",
			wantCount: 3,
			wantNames: []string{"demo-hello", "demo-worker", "billing-report"},
		},
		{
			name:      "prefix filter",
			spec:      "name^demo-",
			wantCount: 2,
			wantNames: []string{"demo-hello", "demo-worker"},
		},
		{
			name:      "exact match filter",
			spec:      "name=billing-report",
			wantCount: 1,
			wantNames: []string{"billing-report"},
		},
		{
			name:      "no matches",
			spec:      "name=nonexistent",
			wantCount: 0,
		},
		{
			name:      "multiple filters",
			spec:      "name^demo-,memory>256",
			wantCount: 1,
			wantNames: []string{"demo-worker"},
		},
		{
			name:      "numeric filter",
			spec:      "memory<256",
			wantCount: 1,
			wantNames: []string{"demo-hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := gjson.Parse(testData)
			got := FilterDataset(candidates, attrList, tt.spec)
			assert.Len(t, got, tt.wantCount)
			for i, expected := range tt.wantNames {
				assert.Equal(t, expected, got[i]["name"])
			}
		})
	}
}
