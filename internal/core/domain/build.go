package domain

import (
	"fmt"
	"strings"
)

// Fixed build facts packaged with every ad binary.
const (
	// BuildGroup is the declared group identifier.
	BuildGroup = "dev.ua.ikeepcalm"

	// BuildEncoding is the source and resource encoding for every compilation task.
	BuildEncoding = "UTF-8"

	// BuildEntryPoint is the fully qualified entry point named by the manifest.
	BuildEntryPoint = "dev.ua.ikeepcalm.Main"

	// ManifestMainClass is the manifest attribute naming the entry point.
	ManifestMainClass = "Main-Class"

	// TestPlatform is the runner the test task delegates to.
	TestPlatform = "junit-platform"
)

// DependencyScope restricts where a dependency is visible.
type DependencyScope string

// Dependency scopes.
const (
	// ScopeTest limits a dependency to test compilation and execution.
	ScopeTest DependencyScope = "test"

	// ScopeMain makes a dependency part of the packaged artifact.
	ScopeMain DependencyScope = "main"
)

// DependencyKind distinguishes a version platform from a code-carrying module.
type DependencyKind string

// Dependency kinds.
const (
	// KindBOM fixes versions for a family of modules without providing code.
	KindBOM DependencyKind = "bom"

	// KindEngine is a test engine module.
	KindEngine DependencyKind = "engine"
)

// Dependency is a single dependency coordinate.
type Dependency struct {
	Group    string          `json:"group"`
	Artifact string          `json:"artifact"`
	Version  string          `json:"version,omitempty"`
	Scope    DependencyScope `json:"scope"`
	Kind     DependencyKind  `json:"kind"`
}

// Coordinate returns the group:artifact[:version] form.
func (d Dependency) Coordinate() string {
	if d.Version == "" {
		return d.Group + ":" + d.Artifact
	}
	return d.Group + ":" + d.Artifact + ":" + d.Version
}

// BuildDescriptor captures the declarative build intent of the project:
// what it is called, how it compiles, how it tests and how it is packaged.
type BuildDescriptor struct {
	Group        string            `json:"group"`
	Version      string            `json:"version"`
	Encoding     string            `json:"encoding"`
	TestPlatform string            `json:"test_platform"`
	Dependencies []Dependency      `json:"dependencies"`
	Manifest     map[string]string `json:"manifest"`
}

// DefaultBuildDescriptor returns the descriptor for the given binary version.
func DefaultBuildDescriptor(version string) BuildDescriptor {
	return BuildDescriptor{
		Group:        BuildGroup,
		Version:      version,
		Encoding:     BuildEncoding,
		TestPlatform: TestPlatform,
		Dependencies: []Dependency{
			{
				Group:    "org.junit",
				Artifact: "junit-bom",
				Version:  "5.10.0",
				Scope:    ScopeTest,
				Kind:     KindBOM,
			},
			{
				Group:    "org.junit.jupiter",
				Artifact: "junit-jupiter",
				Scope:    ScopeTest,
				Kind:     KindEngine,
			},
		},
		Manifest: map[string]string{
			ManifestMainClass: BuildEntryPoint,
		},
	}
}

// EntryPoint returns the manifest's entry point attribute.
func (b BuildDescriptor) EntryPoint() string {
	return b.Manifest[ManifestMainClass]
}

// TestDependencies returns the dependencies visible in the given scope.
func (b BuildDescriptor) TestDependencies(scope DependencyScope) []Dependency {
	var deps []Dependency
	for _, d := range b.Dependencies {
		if d.Scope == scope {
			deps = append(deps, d)
		}
	}
	return deps
}

// Validate checks the descriptor against the fixed build facts.
func (b BuildDescriptor) Validate() error {
	var problems []string

	if b.Group != BuildGroup {
		problems = append(problems, fmt.Sprintf("group %q, want %q", b.Group, BuildGroup))
	}
	if b.Encoding != BuildEncoding {
		problems = append(problems, fmt.Sprintf("encoding %q, want %q", b.Encoding, BuildEncoding))
	}
	if b.EntryPoint() != BuildEntryPoint {
		problems = append(problems, fmt.Sprintf("entry point %q, want %q", b.EntryPoint(), BuildEntryPoint))
	}

	var boms, engines int
	for _, d := range b.Dependencies {
		if d.Scope != ScopeTest {
			problems = append(problems, fmt.Sprintf("dependency %s is not test scoped", d.Coordinate()))
			continue
		}
		switch d.Kind {
		case KindBOM:
			boms++
		case KindEngine:
			engines++
		default:
			problems = append(problems, fmt.Sprintf("dependency %s has unknown kind %q", d.Coordinate(), d.Kind))
		}
	}
	if boms != 1 || engines != 1 || len(b.Dependencies) != 2 {
		problems = append(problems, fmt.Sprintf("want exactly one BOM and one engine, got %d and %d", boms, engines))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidBuild, strings.Join(problems, "; "))
	}
	return nil
}
