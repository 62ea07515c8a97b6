package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete <citation>",
	Aliases: []string{"d"},
	Short:   "Delete an entry and its attachments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		citation := args[0]
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		refs, err := s.GetFiles(citation)
		if err != nil {
			return err
		}
		if err := s.Delete(citation); err != nil {
			return err
		}
		if err := fileSet().RemoveAll(refs); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", citation)
		return nil
	},
}
