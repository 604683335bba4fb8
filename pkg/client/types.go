package client

import (
	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/tools"
)

// BuildResponse is the response struct for the `build` function.
type BuildResponse = api.BuildStepResponse

// OptionsResponse is the response struct for the `installations` function.
type OptionsResponse = []tools.Option

// InstallationsResponse is the response struct for the `set installations`
// function.
type InstallationsResponse = []api.Installation
