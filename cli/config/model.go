package config

import (
	"path/filepath"

	"github.com/crucible-build/shrinkwrap/args"
	"github.com/crucible-build/shrinkwrap/runtime"
)

// DefaultSnapshotPath is used when no snapshot.path is configured,
// resolved relative to the config file's directory.
const DefaultSnapshotPath = ".shrinkwrap/last-run.bin"

// resolvePath makes path absolute relative to baseDir. Absolute paths
// and empty strings pass through unchanged.
func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func resolvePaths(baseDir string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	resolved := make([]string, len(paths))
	for i, p := range paths {
		resolved[i] = resolvePath(baseDir, p)
	}
	return resolved
}

// BuildModel constructs the argument model from the config, resolving
// relative paths against baseDir (the config file's directory).
// Structural validation happens at serialize time, not here.
func (c *Config) BuildModel(baseDir string) *args.Model {
	model := &args.Model{}

	for _, gc := range c.Groups {
		group := model.AddGroup()
		for _, in := range gc.Inputs {
			group.AddInput(resolvePaths(baseDir, in.Files), in.Filter)
		}
		for _, out := range gc.Outputs {
			group.AddOutput(args.OutputEntry{
				Archive:   resolvePath(baseDir, out.Archive),
				Directory: resolvePath(baseDir, out.Directory),
				Filter:    out.Filter,
			})
		}
	}

	for _, lib := range c.Libraries {
		model.AddLibrary(resolvePaths(baseDir, lib.Files), lib.Filter)
	}

	model.SetFileOptions(args.FileOptions{
		ApplyMapping:                 resolvePath(baseDir, c.Options.ApplyMapping),
		ObfuscationDictionary:        resolvePath(baseDir, c.Options.ObfuscationDictionary),
		ClassObfuscationDictionary:   resolvePath(baseDir, c.Options.ClassObfuscationDictionary),
		PackageObfuscationDictionary: resolvePath(baseDir, c.Options.PackageObfuscationDictionary),
		PrintConfiguration:           resolvePath(baseDir, c.Options.PrintConfiguration),
		PrintMapping:                 resolvePath(baseDir, c.Options.PrintMapping),
		PrintSeeds:                   resolvePath(baseDir, c.Options.PrintSeeds),
		PrintUsage:                   resolvePath(baseDir, c.Options.PrintUsage),
		Dump:                         resolvePath(baseDir, c.Options.Dump),
	})

	for _, inc := range c.Includes {
		model.AddInclude(resolvePath(baseDir, inc))
	}
	for _, rule := range c.Rules {
		model.AddRule(rule)
	}

	return model
}

// BuildToolConfig constructs the child process settings. ToolArgs is
// left empty; the orchestrator fills it from the serialized model.
func (c *Config) BuildToolConfig(baseDir string) *runtime.ToolConfig {
	java := c.Tool.Java
	if java == "" {
		java = "java"
	}
	return &runtime.ToolConfig{
		JavaBinary: java,
		ToolJar:    resolvePath(baseDir, c.Tool.Jar),
		JVMArgs:    c.Tool.JVMArgs,
		WorkDir:    resolvePath(baseDir, c.Tool.WorkDir),
	}
}

// SnapshotPath returns the resolved snapshot file path, applying the
// default when unset.
func (c *Config) SnapshotPath(baseDir string) string {
	path := c.Snapshot.Path
	if path == "" {
		path = DefaultSnapshotPath
	}
	return resolvePath(baseDir, path)
}

// ReportPaths returns the configured report file paths that are worth
// archiving after a successful run. Only set options are included; the
// publisher additionally skips files the tool never wrote.
func (c *Config) ReportPaths(baseDir string) []string {
	var paths []string
	for _, p := range []string{
		c.Options.PrintMapping,
		c.Options.PrintSeeds,
		c.Options.PrintUsage,
		c.Options.PrintConfiguration,
	} {
		if p != "" {
			paths = append(paths, resolvePath(baseDir, p))
		}
	}
	return paths
}
