package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/crucible-build/shrinkwrap/publish"
)

// Config represents a shrinkwrap.yaml configuration file.
type Config struct {
	Tool      ToolSection        `yaml:"tool"`
	Groups    []GroupSection     `yaml:"groups"`
	Libraries []ClasspathSection `yaml:"libraries"`
	Options   OptionsSection     `yaml:"options"`
	Includes  []string           `yaml:"include"`
	Rules     []string           `yaml:"rules"`
	Timeout   Duration           `yaml:"timeout"`
	Snapshot  SnapshotSection    `yaml:"snapshot"`
	Publish   *PublishSection    `yaml:"publish,omitempty"`
}

// ToolSection configures the JVM child process that hosts the shrinker.
type ToolSection struct {
	// Java is the JVM launcher binary. Defaults to "java" on PATH.
	Java string `yaml:"java"`
	// Jar is the path to the shrinker jar (required).
	Jar string `yaml:"jar"`
	// JVMArgs are options passed to the JVM before -jar (e.g. -Xmx2g).
	JVMArgs []string `yaml:"jvm_args"`
	// WorkDir is the child's working directory. Empty inherits ours.
	WorkDir string `yaml:"work_dir"`
}

// GroupSection pairs input file sets with the outputs they are
// processed into. Order within the file is preserved all the way to
// the tool's argument vector.
type GroupSection struct {
	Inputs  []ClasspathSection `yaml:"inputs"`
	Outputs []OutputSection    `yaml:"outputs"`
}

// ClasspathSection is one input or library entry. Files accepts either
// a single path or a list of paths.
type ClasspathSection struct {
	Files  StringList `yaml:"files"`
	Filter string     `yaml:"filter"`
}

// OutputSection is one output target. Exactly one of Archive or
// Directory must be set; the serializer enforces this.
type OutputSection struct {
	Archive   string `yaml:"archive"`
	Directory string `yaml:"directory"`
	Filter    string `yaml:"filter"`
}

// OptionsSection holds the optional single-file shrinker options.
// Empty fields emit nothing.
type OptionsSection struct {
	ApplyMapping                 string `yaml:"apply_mapping"`
	ObfuscationDictionary        string `yaml:"obfuscation_dictionary"`
	ClassObfuscationDictionary   string `yaml:"class_obfuscation_dictionary"`
	PackageObfuscationDictionary string `yaml:"package_obfuscation_dictionary"`
	PrintConfiguration           string `yaml:"print_configuration"`
	PrintMapping                 string `yaml:"print_mapping"`
	PrintSeeds                   string `yaml:"print_seeds"`
	PrintUsage                   string `yaml:"print_usage"`
	Dump                         string `yaml:"dump"`
}

// SnapshotSection configures where the run snapshot record is written.
type SnapshotSection struct {
	// Path of the snapshot file. Empty defaults to
	// .shrinkwrap/last-run.bin next to the config file.
	Path string `yaml:"path"`
}

// PublishSection configures report upload to S3-compatible storage.
// Omitting the section disables publishing.
type PublishSection struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	// Destination is a combined "bucket/prefix" shorthand for the two
	// fields above. Explicit bucket/prefix win when both are given.
	Destination string `yaml:"destination"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// BucketPrefix resolves the effective bucket and key prefix,
// unpacking the destination shorthand when the explicit fields are
// unset.
func (p *PublishSection) BucketPrefix() (bucket, prefix string) {
	if p.Bucket != "" {
		return p.Bucket, p.Prefix
	}
	return publish.ParseS3Path(p.Destination)
}

// StringList accepts either a YAML scalar or a YAML sequence of
// strings, so single-file entries read naturally:
//
//	files: build/libs/app.jar
//	files: [a.jar, b.jar]
type StringList []string

// UnmarshalYAML implements scalar-or-sequence decoding.
func (l *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate checks the parts of the config the serializer cannot:
// tool settings and the publish section. Structural group/output
// validation is deferred to serialize time.
func (c *Config) Validate() error {
	if c.Tool.Jar == "" {
		return errors.New("tool.jar is required")
	}
	if c.Publish != nil && c.Publish.Bucket == "" && c.Publish.Destination == "" {
		return errors.New("publish.bucket or publish.destination is required when publish is configured")
	}
	return nil
}
