package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/logrusorgru/aurora"
	"github.com/mitchellh/mapstructure"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/logging"
	"github.com/gnatci/gprstep/pkg/rpc"
)

// Client is the API client that performs all operations
// against a gprstep daemon.
type Client struct {
	// client used to send and receive http requests.
	client   *http.Client
	endpoint string
}

// New initializes a new API client. Endpoints without a scheme are
// assumed to be plain HTTP.
func New(endpoint string) *Client {
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")

	logging.S().Debugw("gprstep client initialized", "addr", endpoint)

	return &Client{
		client:   &http.Client{},
		endpoint: endpoint,
	}
}

// Close the transport used by the client
func (c *Client) Close() error {
	if t, ok := c.client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// Build sends `build` request to the daemon.
// The Body in the response implement an io.ReadCloser and it's up to the caller to
// close it.
// The response is a stream of `Chunk` protocol messages. See `ParseBuildResponse()` for specifics.
func (c *Client) Build(ctx context.Context, r *api.BuildStepRequest) (io.ReadCloser, error) {
	return c.requestJSON(ctx, "POST", "/build", r)
}

// Installations sends an `installations` request to the daemon, listing the
// configured installations with selected marked.
func (c *Client) Installations(ctx context.Context, selected string) (io.ReadCloser, error) {
	path := "/installations"
	if selected != "" {
		path += "?selected=" + url.QueryEscape(selected)
	}
	return c.request(ctx, "GET", path, nil)
}

// SetInstallations replaces the installations configured on the daemon.
func (c *Client) SetInstallations(ctx context.Context, insts []api.Installation) (io.ReadCloser, error) {
	return c.requestJSON(ctx, "POST", "/installations", insts)
}

// ValidateHome asks the daemon whether home is a GNAT installation
// directory on its machine.
func (c *Client) ValidateHome(ctx context.Context, home string) (io.ReadCloser, error) {
	return c.requestJSON(ctx, "POST", "/installations/validate", &api.ValidateHomeRequest{Home: home})
}

// Output is where response parsers print progress and section headers.
var Output io.Writer = os.Stdout

func parseGeneric(r io.ReadCloser, fnProgress, fnResult func(interface{}) error) error {
	defer r.Close()

	var once sync.Once

	for dec := json.NewDecoder(r); ; {
		var chunk rpc.Chunk
		err := dec.Decode(&chunk)
		if err == io.EOF {
			return errors.New("unexpected end of response")
		}
		if err != nil {
			return err
		}

		switch chunk.Type {
		case rpc.ChunkTypeProgress:
			once.Do(func() {
				fmt.Fprintln(Output, aurora.Bold(aurora.Cyan("\n>>> Server output:\n")))
			})

			err = fnProgress(chunk.Payload)
			if err != nil {
				return err
			}

		case rpc.ChunkTypeError:
			fmt.Fprintln(Output, aurora.Bold(aurora.BrightRed("\n>>> Error:\n")))
			if chunk.Error == nil {
				return errors.New("daemon reported an error without a message")
			}
			return errors.New(chunk.Error.Msg)

		case rpc.ChunkTypeResult:
			fmt.Fprintln(Output, aurora.Bold(aurora.BrightGreen("\n>>> Result:\n")))
			return fnResult(chunk.Payload)

		default:
			return errors.New("unknown message type")
		}
	}
}

func printProgress(progress interface{}) error {
	s, ok := progress.(string)
	if !ok {
		return fmt.Errorf("unexpected progress payload of type %T", progress)
	}
	m, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}

	_, err = Output.Write(m)
	return err
}

// ParseBuildResponse parses a response from a `build` call
func ParseBuildResponse(r io.ReadCloser) (BuildResponse, error) {
	var resp BuildResponse
	err := parseGeneric(
		r,
		printProgress,
		func(result interface{}) error {
			return mapstructure.Decode(result, &resp)
		},
	)
	return resp, err
}

// ParseOptionsResponse parses a response from an `installations` call
func ParseOptionsResponse(r io.ReadCloser) (OptionsResponse, error) {
	var resp OptionsResponse
	err := parseGeneric(
		r,
		printProgress,
		func(result interface{}) error {
			return mapstructure.Decode(result, &resp)
		},
	)
	return resp, err
}

// ParseInstallationsResponse parses a response from a `set installations`
// call
func ParseInstallationsResponse(r io.ReadCloser) (InstallationsResponse, error) {
	var resp InstallationsResponse
	err := parseGeneric(
		r,
		printProgress,
		func(result interface{}) error {
			return mapstructure.Decode(result, &resp)
		},
	)
	return resp, err
}

// ParseValidateResponse parses a response from a `validate` call
func ParseValidateResponse(r io.ReadCloser) error {
	return parseGeneric(
		r,
		printProgress,
		func(result interface{}) error {
			return nil
		},
	)
}

func (c *Client) requestJSON(ctx context.Context, method string, path string, v interface{}) (io.ReadCloser, error) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(v); err != nil {
		return nil, err
	}
	return c.request(ctx, method, path, &body)
}

func (c *Client) request(ctx context.Context, method string, path string, body io.Reader) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("daemon responded to %s %s with %s", method, path, resp.Status)
	}
	return resp.Body, nil
}
