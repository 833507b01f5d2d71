package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/tlgen/am"
	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/tdjson"
)

var callTimeout time.Duration

// CallCmd sends a single request through a tdjson bridge
var CallCmd = &cobra.Command{
	Use:   "call <request-json>",
	Short: "Send one request to a tdjson bridge",
	Long: `Connect to the tdjson bridge at runtime.url, create a client, send the
request and print the correlated response.

Examples:
  tlgen call '{"@type":"getOption","name":"version"}'
  tlgen call '{"@type":"testSquareInt","x":7}' --timeout 5s`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	CallCmd.Flags().DurationVar(&callTimeout, "timeout", 30*time.Second, "Give up after this long")
}

func runCall(cmd *cobra.Command, args []string) error {
	var request map[string]any
	if err := json.Unmarshal([]byte(args[0]), &request); err != nil {
		return errors.WithHint(errors.Wrap(err, "request is not a JSON object"),
			`requests look like {"@type":"getOption","name":"version"}`)
	}
	if _, ok := request["@type"].(string); !ok {
		return errors.New(`request has no "@type"`)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
	defer cancel()

	response, err := callBridge(ctx, currentConfig().Runtime, request)
	if err != nil {
		return err
	}

	var pretty any
	if err := json.Unmarshal(response, &pretty); err != nil {
		return errors.Wrap(err, "bridge returned invalid JSON")
	}
	data, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// callBridge opens a session on the configured bridge, sends request on a
// fresh client and closes the session again.
func callBridge(ctx context.Context, rt am.RuntimeConfig, request map[string]any) (json.RawMessage, error) {
	transport, err := tdjson.DialWebSocket(ctx, rt.URL)
	if err != nil {
		return nil, errors.WithHint(err, "start a tdjson bridge or set runtime.url")
	}

	session := tdjson.NewSession(transport,
		tdjson.WithReceiveTimeout(rt.ReceiveTimeout()),
		tdjson.WithRateLimit(rt.RequestsPerSecond, rt.Burst),
	)
	defer session.Close()
	session.Start(ctx)

	clientID, err := session.CreateClient(ctx)
	if err != nil {
		return nil, err
	}
	return session.Send(ctx, clientID, request)
}

// remoteTDLibVersion asks the bridge for the version of its TDLib
func remoteTDLibVersion(ctx context.Context, rt am.RuntimeConfig) (string, error) {
	response, err := callBridge(ctx, rt, map[string]any{"@type": "getOption", "name": "version"})
	if err != nil {
		return "", err
	}

	var option struct {
		Type  string `json:"@type"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(response, &option); err != nil {
		return "", errors.Wrap(err, "unexpected getOption response")
	}
	if option.Type != "optionValueString" {
		return "", errors.Newf("unexpected getOption response type %q", option.Type)
	}
	return option.Value, nil
}
