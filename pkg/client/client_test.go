package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/rpc"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Output
	Output = &buf
	t.Cleanup(func() { Output = prev })
	return &buf
}

func TestNewAddsScheme(t *testing.T) {
	require.Equal(t, "http://localhost:8052", New("localhost:8052").endpoint)
	require.Equal(t, "https://ci.example.com", New("https://ci.example.com/").endpoint)
}

func TestParseBuildResponse(t *testing.T) {
	out := captureOutput(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/build", r.URL.Path)
		ow := rpc.NewOutputWriter(w, r)
		_, _ = ow.StdoutWriter().Write([]byte("Bind\n   [gprbind]      main.bexch\n"))
		ow.WriteResult(&api.BuildStepResponse{
			RunID:            "c5j1q3r0000000000000",
			Workspace:        "/work",
			InvocationResult: api.InvocationResult{ExitStatus: 0, Outcome: api.ResultSuccess},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	r, err := c.Build(context.Background(), &api.BuildStepRequest{BuildRequest: api.BuildRequest{InstallationName: "gnat1"}})
	require.NoError(t, err)

	resp, err := ParseBuildResponse(r)
	require.NoError(t, err)
	require.Equal(t, "c5j1q3r0000000000000", resp.RunID)
	require.Equal(t, api.ResultSuccess, resp.Outcome)
	require.Contains(t, out.String(), "[gprbind]      main.bexch")
}

func TestParseErrorChunk(t *testing.T) {
	captureOutput(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rpc.NewOutputWriter(w, r).WriteError("gprbuild failed with exit status 4")
	}))
	defer srv.Close()

	r, err := New(srv.URL).Build(context.Background(), &api.BuildStepRequest{})
	require.NoError(t, err)

	_, err = ParseBuildResponse(r)
	require.EqualError(t, err, "gprbuild failed with exit status 4")
}

func TestTruncatedResponse(t *testing.T) {
	captureOutput(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = rpc.NewOutputWriter(w, r).WriteProgress([]byte("partial"))
	}))
	defer srv.Close()

	r, err := New(srv.URL).Installations(context.Background(), "gnat1")
	require.NoError(t, err)

	_, err = ParseOptionsResponse(r)
	require.Error(t, err)
}

func TestNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(srv.URL).SetInstallations(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestSelectedIsEscaped(t *testing.T) {
	captureOutput(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gnat 2021", r.URL.Query().Get("selected"))
		rpc.NewOutputWriter(w, r).WriteResult([]interface{}{})
	}))
	defer srv.Close()

	r, err := New(srv.URL).Installations(context.Background(), "gnat 2021")
	require.NoError(t, err)
	opts, err := ParseOptionsResponse(r)
	require.NoError(t, err)
	require.Empty(t, opts)
}
