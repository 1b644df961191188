// My Mentor
//
// A small HTTP relay that answers students' questions with a chat
// completion API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mymentor",
	Short: "My Mentor - question relay for a chat completion API",
	Long: `My Mentor forwards questions to a chat completion API and returns the answer.

  mymentor serve                          Start the HTTP server
  mymentor ask "What is a prime number?"  Send one question to a running server`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
