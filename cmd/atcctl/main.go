// Command atcctl is a thin HTTP client over atc-server, for scripting
// session lifecycle and tool dispatch from a shell.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "atcctl",
	Short: "Command-line client for the atc-server HTTP API",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "http://127.0.0.1:7171", "atc-server base URL")
	rootCmd.AddCommand(createSessionCmd, dispatchCmd, historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var createSessionCmd = &cobra.Command{
	Use:   "create-session",
	Short: "Create a new session and print its id",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := request(http.MethodPost, "/v1/sessions/", nil)
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <sessionID> <toolName> <argsJSON>",
	Short: "Dispatch a tool call against a session",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload any
		if err := json.Unmarshal([]byte(args[2]), &payload); err != nil {
			return fmt.Errorf("invalid argument JSON: %w", err)
		}
		path := fmt.Sprintf("/v1/sessions/%s/tools/%s", args[0], args[1])
		body, err := request(http.MethodPost, path, []byte(args[2]))
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <sessionID>",
	Short: "Print a session's message or tool-event history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := request(http.MethodGet, "/v1/sessions/"+args[0]+"/history", nil)
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

func request(method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, serverAddr+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, out)
	}
	return out, nil
}
