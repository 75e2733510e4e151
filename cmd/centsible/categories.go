package main

import (
	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/model"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category vocabulary",
		Long:  `List the categories the import guesser assigns. Edits may use any name, but these are the defaults reports group by.`,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, category := range model.Categories() {
				cmd.Println(category)
			}
		},
	}
}
