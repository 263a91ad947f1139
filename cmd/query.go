package cmd

import (
	"fmt"
	"strings"

	"github.com/kayz/kbmcp/internal/knowledge"
	"github.com/kayz/kbmcp/internal/security"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search internal documents and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		out := newKnowledgeClient().Search(commandContext(cmd), query, searchLimit)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

var getCmd = &cobra.Command{
	Use:   "get <doc-id>",
	Short: "Print a document by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := security.ValidateDocID(args[0]); err != nil {
			return err
		}
		out := newKnowledgeClient().Retrieve(commandContext(cmd), args[0])
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the knowledge assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		out := newKnowledgeClient().Ask(commandContext(cmd), question)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", knowledge.DefaultSearchLimit,
		"Max number of results to return")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(askCmd)
}
