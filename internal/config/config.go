// Copyright © 2025 Cheng Jingfeng
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/chengjingfeng/lmdo/internal/workspace"
)

// DefaultFileName is the project configuration file lmdo looks for in the
// working directory.
const DefaultFileName = "lmdo.yaml"

// ErrNotFound indicates no configuration file could be resolved. Callers that
// treat a missing config as optional can test for it with errors.Is.
var ErrNotFound = errors.New("config file not found")

// Defaults applied once at load time. Values present in the file win.
const (
	DefaultMemorySize       = 128
	DefaultTimeout          = 180
	DefaultRuntime          = "python3.12"
	DefaultVendorDir        = "vendor"
	DefaultRequirementsFile = "requirements.txt"
)

// DefaultExcludes are glob patterns never shipped inside a package artifact.
var DefaultExcludes = []string{
	"*.pyc",
	".git",
	".gitignore",
	".lmdo",
	"__pycache__",
	"tests",
	"vendor-test",
}

// VpcConfig mirrors the VPC attachment block of a function spec.
type VpcConfig struct {
	SubnetIds        []string `yaml:"SubnetIds"`
	SecurityGroupIds []string `yaml:"SecurityGroupIds"`
}

// FunctionSpec is the declarative description of one deployable function.
// Field names follow the config file keys verbatim.
type FunctionSpec struct {
	FunctionName         string            `yaml:"FunctionName"`
	S3Bucket             string            `yaml:"S3Bucket"`
	Handler              string            `yaml:"Handler"`
	MemorySize           int               `yaml:"MemorySize"`
	Runtime              string            `yaml:"Runtime"`
	Timeout              int               `yaml:"Timeout"`
	Role                 string            `yaml:"Role"`
	RolePolicyDocument   string            `yaml:"RolePolicyDocument"`
	VpcConfig            *VpcConfig        `yaml:"VpcConfig"`
	EnvironmentVariables map[string]string `yaml:"EnvironmentVariables"`
}

// HasExplicitRole reports whether the spec supplies its own role rather than
// expecting lmdo to create one from the policy document.
func (fs FunctionSpec) HasExplicitRole() bool {
	return fs.Role != ""
}

// Config is the validated project configuration. It is loaded once and passed
// explicitly to whoever needs it; nothing reads it through package globals.
type Config struct {
	Source string `yaml:"-"`

	Service          string         `yaml:"Service"`
	Profile          string         `yaml:"Profile"`
	Region           string         `yaml:"Region"`
	TempDir          string         `yaml:"TempDir"`
	VendorDir        string         `yaml:"VendorDir"`
	RequirementsFile string         `yaml:"RequirementsFile"`
	Excludes         []string       `yaml:"Excludes"`
	Lambda           []FunctionSpec `yaml:"Lambda"`
}

// ProjectID is the name-spacing prefix applied to every deployed resource.
func (c *Config) ProjectID() string {
	return c.Service
}

// Path resolves the config file location. LMDO_CFG overrides the default
// lmdo.yaml in the current directory.
func Path() (string, error) {
	candidate := os.Getenv("LMDO_CFG")
	if candidate == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		candidate = filepath.Join(cwd, DefaultFileName)
	}

	info, err := os.Stat(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, candidate)
	}
	if info.IsDir() {
		return "", fmt.Errorf("config path points to a directory: %s", candidate)
	}

	log.Debugf("using config file: %s", candidate)
	return candidate, nil
}

// Load reads, defaults and validates the project configuration. An explicit
// path wins over Path() resolution.
func Load(cfgFilePath ...string) (*Config, error) {
	path := ""
	if len(cfgFilePath) > 0 && cfgFilePath[0] != "" {
		path = cfgFilePath[0]
	} else {
		var err error
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Config{Source: path}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults is the single place runtime defaults are resolved. After it
// runs, every spec carries concrete values and no downstream code falls back.
func (c *Config) applyDefaults() {
	if c.TempDir == "" {
		c.TempDir = workspace.Dir()
	}
	if c.VendorDir == "" {
		c.VendorDir = DefaultVendorDir
	}
	if v, ok := os.LookupEnv("PIP_VENDOR_FOLDER"); ok && v != "" {
		c.VendorDir = v
	}
	if c.RequirementsFile == "" {
		c.RequirementsFile = DefaultRequirementsFile
	}
	if f, ok := os.LookupEnv("PIP_REQUIREMENTS_FILE"); ok && f != "" {
		c.RequirementsFile = f
	}
	if len(c.Excludes) == 0 {
		c.Excludes = append([]string(nil), DefaultExcludes...)
	}

	for i := range c.Lambda {
		lm := &c.Lambda[i]
		if lm.MemorySize == 0 {
			lm.MemorySize = DefaultMemorySize
		}
		if lm.Timeout == 0 {
			lm.Timeout = DefaultTimeout
		}
		if lm.Runtime == "" {
			lm.Runtime = DefaultRuntime
		}
	}
}

// Validate checks the loaded document. An empty Lambda list is legal; deploy
// treats it as a no-op.
func (c *Config) Validate() error {
	if c.Service == "" {
		return fmt.Errorf("%s: Service is required", c.Source)
	}

	for _, lm := range c.Lambda {
		if lm.FunctionName == "" {
			return fmt.Errorf("%s: every Lambda entry requires a FunctionName", c.Source)
		}
		if lm.S3Bucket == "" {
			return fmt.Errorf("%s: function %s requires an S3Bucket", c.Source, lm.FunctionName)
		}
		if lm.Handler == "" {
			return fmt.Errorf("%s: function %s requires a Handler", c.Source, lm.FunctionName)
		}
		if lm.Role == "" && lm.RolePolicyDocument == "" {
			return fmt.Errorf("%s: function %s requires either Role or RolePolicyDocument",
				c.Source, lm.FunctionName)
		}
	}

	return nil
}
