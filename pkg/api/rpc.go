package api

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// ~~~~~~ Request payloads ~~~~~~
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~

// BuildStepRequest is the request struct for the `build` function.
type BuildStepRequest struct {
	BuildRequest `mapstructure:",squash"`

	// Workspace is the directory gprbuild runs in. The daemon allocates one
	// under its work directory when empty.
	Workspace string `json:"workspace,omitempty"`
	// Node selects the tool locations configured for a node.
	Node string `json:"node,omitempty"`
	// Env is layered over the daemon's own environment.
	Env map[string]string `json:"env,omitempty"`
}

// ValidateHomeRequest is the request struct for the `validate` function.
type ValidateHomeRequest struct {
	Home string `json:"home"`
}

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// ~~~~~~ Response payloads ~~~~~~
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~

// BuildStepResponse is the response struct for the `build` function.
type BuildStepResponse struct {
	RunID            string `json:"run_id" mapstructure:"run_id"`
	Workspace        string `json:"workspace" mapstructure:"workspace"`
	InvocationResult `mapstructure:",squash"`
}
