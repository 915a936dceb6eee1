// Package main provides a command-line client for poking the
// cultivation API during development
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverAddr string
	userID     string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "cultivation-client",
	Short: "Cultivation API client for exercising the server",
}

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Character operations",
}

var characterCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a character for the configured user",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(http.MethodPost, "/api/characters/", map[string]any{"name": args[0]})
	},
}

var characterGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configured user's character",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(http.MethodGet, "/api/characters/me", nil)
	},
}

var cultivateCmd = &cobra.Command{
	Use:   "cultivate",
	Short: "Cultivation session operations",
}

var cultivateStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a cultivation session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		techniqueID, _ := cmd.Flags().GetString("technique")
		location, _ := cmd.Flags().GetString("location")
		return call(http.MethodPost, "/api/cultivation/start", map[string]any{
			"technique_id": techniqueID,
			"location":     location,
		})
	},
}

var cultivateEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active cultivation session",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(http.MethodPost, "/api/cultivation/end", nil)
	},
}

var cultivateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cultivation session with derived progress",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(http.MethodGet, "/api/cultivation/status", nil)
	},
}

var beastCmd = &cobra.Command{
	Use:   "beast",
	Short: "Beast operations",
}

var beastListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured user's beasts",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(http.MethodGet, "/api/beasts/mybeasts", nil)
	},
}

var beastCaptureCmd = &cobra.Command{
	Use:   "capture [template_id]",
	Short: "Attempt a beast capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		return call(http.MethodPost, "/api/beasts/capture", map[string]any{
			"template_id": args[0],
			"location":    location,
		})
	},
}

var realmsCmd = &cobra.Command{
	Use:   "realms",
	Short: "List the secret realm catalog",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(http.MethodGet, "/api/secret-realms/realms", nil)
	},
}

// call issues one request and pretty-prints the JSON response
func call(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, serverAddr+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "server base URL")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "dev-user", "user ID sent as X-User-ID")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	cultivateStartCmd.Flags().String("technique", "", "technique ID for the efficiency bonus")
	cultivateStartCmd.Flags().String("location", "", "cultivation location")
	beastCaptureCmd.Flags().String("location", "", "capture location, matched against the habitat")

	characterCmd.AddCommand(characterCreateCmd, characterGetCmd)
	cultivateCmd.AddCommand(cultivateStartCmd, cultivateEndCmd, cultivateStatusCmd)
	beastCmd.AddCommand(beastListCmd, beastCaptureCmd)
	rootCmd.AddCommand(characterCmd, cultivateCmd, beastCmd, realmsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
