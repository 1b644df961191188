package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/ncecere/mymentor/server"
)

var (
	askServerURL string
	askTimeout   time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Send one question to a running server",
	Long: `Send one question to a running My Mentor server and print the
status code and JSON response. Example:
  mymentor ask "Hello AI, can you hear me?"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.OutOrStdout(), askServerURL, args[0], askTimeout)
	},
}

func init() {
	askCmd.Flags().StringVar(&askServerURL, "server", envOr("MENTOR_SERVER", "http://127.0.0.1:8000"), "My Mentor server URL")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "Request timeout")
	rootCmd.AddCommand(askCmd)
}

func runAsk(out io.Writer, serverURL, question string, timeout time.Duration) error {
	url := strings.TrimRight(serverURL, "/") + server.PathAsk

	agent := fiber.Post(url).
		JSON(server.AskRequest{Question: &question}).
		Timeout(timeout)

	var body map[string]any
	code, _, errs := agent.Struct(&body)
	if len(errs) > 0 {
		return fmt.Errorf("posting to %s: %w", url, errs[0])
	}

	pretty, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Status Code: %d\n", code)
	fmt.Fprintf(out, "Response: %s\n", pretty)

	if code != fiber.StatusOK {
		return fmt.Errorf("server answered %d", code)
	}
	return nil
}
