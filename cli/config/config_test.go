package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "shrinkwrap.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
tool:
  java: /usr/lib/jvm/bin/java
  jar: /opt/proguard/lib/proguard.jar
  jvm_args: ["-Xmx2g"]

groups:
  - inputs:
      - files: build/libs/app.jar
        filter: "!META-INF/**"
    outputs:
      - archive: build/libs/app-min.jar

libraries:
  - files: [/jmods/java.base.jmod, /jmods/java.logging.jmod]

options:
  print_mapping: build/mapping.txt
  print_seeds: build/seeds.txt

include:
  - base-rules.pro

rules:
  - "-dontwarn kotlin.**"

timeout: 30m

snapshot:
  path: build/last-run.bin

publish:
  bucket: reports
  prefix: shrinkwrap
  s3_path_style: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.Tool.Jar != "/opt/proguard/lib/proguard.jar" {
		t.Errorf("unexpected tool.jar: %q", cfg.Tool.Jar)
	}
	if len(cfg.Tool.JVMArgs) != 1 || cfg.Tool.JVMArgs[0] != "-Xmx2g" {
		t.Errorf("unexpected jvm_args: %v", cfg.Tool.JVMArgs)
	}
	if len(cfg.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(cfg.Groups))
	}
	group := cfg.Groups[0]
	if len(group.Inputs) != 1 || len(group.Inputs[0].Files) != 1 {
		t.Fatalf("unexpected group inputs: %+v", group.Inputs)
	}
	if group.Inputs[0].Filter != "!META-INF/**" {
		t.Errorf("unexpected input filter: %q", group.Inputs[0].Filter)
	}
	if len(cfg.Libraries) != 1 || len(cfg.Libraries[0].Files) != 2 {
		t.Errorf("unexpected libraries: %+v", cfg.Libraries)
	}
	if cfg.Options.PrintMapping != "build/mapping.txt" {
		t.Errorf("unexpected print_mapping: %q", cfg.Options.PrintMapping)
	}
	if cfg.Timeout.Duration != 30*time.Minute {
		t.Errorf("unexpected timeout: %v", cfg.Timeout.Duration)
	}
	if cfg.Publish == nil || cfg.Publish.Bucket != "reports" || !cfg.Publish.S3PathStyle {
		t.Errorf("unexpected publish section: %+v", cfg.Publish)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "tool: [unclosed")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "invalid shrinkwrap.yaml") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	// A typo'd option key must fail loudly, not silently drop the
	// report file it was meant to configure.
	path := writeConfig(t, `
tool:
  jar: /opt/proguard.jar
options:
  print_maping: build/mapping.txt
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for an unknown key")
	}
	if !strings.Contains(err.Error(), "print_maping") {
		t.Errorf("error should name the unknown key: %v", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error for an empty file: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("empty config should fail validation, not loading")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("PROGUARD_HOME", "/opt/proguard")
	path := writeConfig(t, `
tool:
  jar: ${PROGUARD_HOME}/lib/proguard.jar
publish:
  bucket: ${REPORT_BUCKET:-reports}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.Tool.Jar != "/opt/proguard/lib/proguard.jar" {
		t.Errorf("env var not expanded: %q", cfg.Tool.Jar)
	}
	if cfg.Publish.Bucket != "reports" {
		t.Errorf("default not applied: %q", cfg.Publish.Bucket)
	}
}

func TestStringList_Scalar(t *testing.T) {
	path := writeConfig(t, `
tool:
  jar: tool.jar
groups:
  - inputs:
      - files: single.jar
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	files := cfg.Groups[0].Inputs[0].Files
	if len(files) != 1 || files[0] != "single.jar" {
		t.Errorf("expected scalar to decode as one-element list, got %v", files)
	}
}

func TestValidate_MissingJar(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for missing tool.jar")
	}
}

func TestValidate_PublishWithoutBucket(t *testing.T) {
	cfg := &Config{
		Tool:    ToolSection{Jar: "tool.jar"},
		Publish: &PublishSection{Prefix: "shrinkwrap"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for publish without bucket")
	}
}

func TestValidate_PublishDestinationSuffices(t *testing.T) {
	cfg := &Config{
		Tool:    ToolSection{Jar: "tool.jar"},
		Publish: &PublishSection{Destination: "reports/shrinkwrap"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPublishSection_BucketPrefix(t *testing.T) {
	tests := []struct {
		name    string
		section PublishSection
		bucket  string
		prefix  string
	}{
		{"explicit fields", PublishSection{Bucket: "reports", Prefix: "shrinkwrap"}, "reports", "shrinkwrap"},
		{"destination shorthand", PublishSection{Destination: "reports/shrinkwrap"}, "reports", "shrinkwrap"},
		{"destination bucket only", PublishSection{Destination: "reports"}, "reports", ""},
		{"destination deep prefix", PublishSection{Destination: "reports/a/b"}, "reports", "a/b"},
		{"explicit wins over destination", PublishSection{Bucket: "explicit", Destination: "reports/shrinkwrap"}, "explicit", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, prefix := tt.section.BucketPrefix()
			if bucket != tt.bucket || prefix != tt.prefix {
				t.Errorf("BucketPrefix() = (%q, %q), expected (%q, %q)",
					bucket, prefix, tt.bucket, tt.prefix)
			}
		})
	}
}
