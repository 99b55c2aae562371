// Package runtimeconfig defines the extension runtime's own configuration:
// which directories to scan as descriptor roots and which vendor alias
// prefixes to honor alongside the canonical "extrt/" layout. Validated with
// go-playground/validator/v10 the same way the teacher validates its
// pipeline configuration (internal/config/validator.go).
package runtimeconfig

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// VendorAliasConfig is one configured legacy contract-name prefix remap.
type VendorAliasConfig struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`
}

// Config is the runtime's own bootstrap configuration: where to look for
// descriptor files and which legacy path prefixes to also scan.
type Config struct {
	// Roots lists filesystem directories scanned as descriptor roots, in
	// addition to any embed.FS registered directly via descriptor.AddRoot.
	Roots []string `yaml:"roots" validate:"dive,required"`
	// VendorAliases lists legacy module-path prefixes of a contract's name
	// that should also be scanned for, e.g. remapping a renamed module's
	// old import path (the "org.apache" -> "com.alibaba" analogue).
	VendorAliases []VendorAliasConfig `yaml:"vendor_aliases" validate:"dive"`
	// DescriptorRootPrefix overrides the canonical "extrt" resource path
	// prefix; must be a slash-free path segment.
	DescriptorRootPrefix string `yaml:"descriptor_root_prefix" validate:"omitempty,path_segment"`
}

var pathSegmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("path_segment", func(fl validator.FieldLevel) bool {
			return pathSegmentPattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Default returns a Config with no extra roots and the canonical "extrt"
// prefix only.
func Default() Config {
	return Config{DescriptorRootPrefix: "extrt"}
}

// Parse decodes YAML bytes into a Config and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, streamyerrors.NewUsageError("runtimeconfig.Parse", fmt.Sprintf("invalid yaml: %v", err))
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate runs struct-tag validation and the config's own cross-field
// rules.
func Validate(cfg Config) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		return streamyerrors.NewUsageError("runtimeconfig.Validate", err.Error())
	}
	for _, alias := range cfg.VendorAliases {
		if alias.From == cfg.DescriptorRootPrefix {
			return streamyerrors.NewUsageError("runtimeconfig.Validate", "vendor alias \"from\" cannot equal the canonical descriptor root prefix")
		}
	}
	return nil
}
