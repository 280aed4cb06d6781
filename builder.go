// File: nabeghe/configurator-go/builder.go
package configurator

import (
	"fmt"
)

// ValidatorFunc defines the signature for a function that can validate a
// Store instance. It receives the fully constructed *Store and should
// return an error if validation fails.
type ValidatorFunc func(s *Store) error

// Builder provides a fluent interface for building stores.
type Builder struct {
	opts           Options
	structDefaults map[string]any
	err            error
	validators     []ValidatorFunc
}

// NewBuilder creates a new store builder. Without a path the built store
// is memory-only.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithPath sets the directory for persisted section files.
func (b *Builder) WithPath(path string) *Builder {
	b.opts.Path = path
	return b
}

// WithFormat selects the section file format. Unknown names fail the
// build.
func (b *Builder) WithFormat(format string) *Builder {
	if _, ok := codecFor(format); !ok {
		b.err = fmt.Errorf("unsupported format %q", format)
		return b
	}
	b.opts.Format = format
	return b
}

// WithCodec sets a custom section file codec.
func (b *Builder) WithCodec(c Codec) *Builder {
	b.opts.Codec = c
	return b
}

// WithDefaults sets the whole per-section defaults table.
func (b *Builder) WithDefaults(defaults map[string]map[string]any) *Builder {
	b.opts.Defaults = defaults
	return b
}

// WithSectionDefaults sets one section's defaults.
func (b *Builder) WithSectionDefaults(section string, defaults map[string]any) *Builder {
	if b.opts.Defaults == nil {
		b.opts.Defaults = make(map[string]map[string]any)
	}
	b.opts.Defaults[section] = defaults
	return b
}

// WithDefaultsStruct derives one section's defaults from a tagged struct.
// Conversion runs at Build time with the tag name of the selected format,
// so ordering relative to WithFormat does not matter. Defaults set
// explicitly for the same section win.
func (b *Builder) WithDefaultsStruct(section string, v any) *Builder {
	if b.structDefaults == nil {
		b.structDefaults = make(map[string]any)
	}
	b.structDefaults[section] = v
	return b
}

// WithInitialConfig pre-seeds sections that are never file-loaded.
func (b *Builder) WithInitialConfig(config map[string]map[string]any) *Builder {
	b.opts.InitialConfig = config
	return b
}

// WithSection pre-seeds one section.
func (b *Builder) WithSection(name string, values map[string]any) *Builder {
	if b.opts.InitialConfig == nil {
		b.opts.InitialConfig = make(map[string]map[string]any)
	}
	b.opts.InitialConfig[name] = values
	return b
}

// WithSharedCache selects the process-shared metadata cache backend.
func (b *Builder) WithSharedCache() *Builder {
	b.opts.UseSharedCache = true
	return b
}

// WithCache sets an explicit metadata cache backend.
func (b *Builder) WithCache(c MetadataCache) *Builder {
	b.opts.Cache = c
	return b
}

// WithValidator adds a validation function run at the end of Build.
// Validators run in the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Store with all specified options.
func (b *Builder) Build() (*Store, error) {
	if b.err != nil {
		return nil, b.err
	}

	tag := b.opts.Format
	if b.opts.Codec != nil {
		tag = b.opts.Codec.Format()
	}
	if tag == "" {
		tag = FormatTOML
	}
	for section, v := range b.structDefaults {
		m, err := sectionFromStruct(v, tag)
		if err != nil {
			return nil, fmt.Errorf("failed to derive defaults for section %q: %w", section, err)
		}
		if b.opts.Defaults == nil {
			b.opts.Defaults = make(map[string]map[string]any)
		}
		if _, exists := b.opts.Defaults[section]; !exists {
			b.opts.Defaults[section] = m
		}
	}

	s := New(b.opts)
	for _, validator := range b.validators {
		if err := validator(s); err != nil {
			return nil, fmt.Errorf("store validation failed: %w", err)
		}
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Store {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("store build failed: %v", err))
	}
	return s
}
