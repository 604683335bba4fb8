package api

import (
	"regexp"
	"strings"
)

// ProjectFileExtension is appended to project file names that lack it.
const ProjectFileExtension = ".gpr"

var nonSpaceWhitespace = regexp.MustCompile("[\t\n\v\f\r]+")

// BuildRequest is the configuration of a gprbuild build step. Free-text
// fields are normalized on construction and by the setters: runs of
// non-space whitespace become a single space and the result is trimmed.
type BuildRequest struct {
	// InstallationName selects the GNAT installation to build with.
	InstallationName string `toml:"installation" json:"installation" mapstructure:"installation" validate:"required"`
	// Proj is the project file, always carrying the .gpr extension when set.
	Proj string `toml:"proj" json:"proj" mapstructure:"proj"`
	// Switches are extra gprbuild switches, shell-tokenized at build time.
	Switches string `toml:"switches" json:"switches" mapstructure:"switches"`
	// Names are the main units to build, shell-tokenized at build time.
	Names string `toml:"names" json:"names" mapstructure:"names"`
}

// NewBuildRequest returns a normalized build request.
func NewBuildRequest(installation, proj, switches, names string) *BuildRequest {
	r := &BuildRequest{InstallationName: installation}
	r.SetProj(proj)
	r.SetSwitches(switches)
	r.SetNames(names)
	return r
}

func (r *BuildRequest) SetInstallationName(name string) {
	r.InstallationName = name
}

func (r *BuildRequest) SetProj(proj string) {
	proj = normalize(proj)
	if proj != "" && !strings.HasSuffix(proj, ProjectFileExtension) {
		proj += ProjectFileExtension
	}
	r.Proj = proj
}

func (r *BuildRequest) SetSwitches(switches string) {
	r.Switches = normalize(switches)
}

func (r *BuildRequest) SetNames(names string) {
	r.Names = normalize(names)
}

// Normalize re-applies the field rules, for requests populated by a decoder
// rather than through the constructor.
func (r *BuildRequest) Normalize() {
	r.SetProj(r.Proj)
	r.SetSwitches(r.Switches)
	r.SetNames(r.Names)
}

// Validate checks that the request names an installation.
func (r *BuildRequest) Validate() error {
	return validate.Struct(r)
}

func normalize(s string) string {
	return strings.TrimSpace(nonSpaceWhitespace.ReplaceAllString(s, " "))
}
