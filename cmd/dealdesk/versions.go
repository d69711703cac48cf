package main

import (
	"dealdesk/internal/models"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <deal-id>",
	Short: "История версий сделки",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := current.store()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		versions, err := store.ListVersions(cmd.Context(), id)
		if err != nil {
			return err
		}
		for _, v := range versions {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%s\t%d поз.\n", v.Number, v.State, v.AuthorCompanyID, v.CreatedAt.Format("02.01.2006 15:04"), len(v.Items))
		}
		return nil
	},
}

func decisionCmd(use, short string, accept bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <deal-id> <version>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := current.loadedStore(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			number, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("Некорректный номер версии: %q", args[1])
			}
			if accept {
				return store.AcceptVersion(cmd.Context(), id, number)
			}
			return store.RejectVersion(cmd.Context(), id, number)
		},
	}
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <deal-id>",
	Short: "Отозвать последнюю предложенную версию",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := current.store()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return store.DeleteLastVersion(cmd.Context(), id)
	},
}

var proposeComments string

var proposeCmd = &cobra.Command{
	Use:   "propose <deal-id>",
	Short: "Предложить новую версию сделки с текущими позициями",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := current.loadedStore(cmd.Context())
		if err != nil {
			return err
		}
		deal, err := lookup(store, args[0])
		if err != nil {
			return err
		}
		comments := deal.Comments
		if cmd.Flags().Changed("comments") {
			comments = proposeComments
		}
		v, err := store.CreateNewVersion(cmd.Context(), deal.ID, models.VersionProposal{Items: deal.Items, Comments: comments})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Предложена версия %d\n", v.Number)
		return nil
	},
}

func init() {
	proposeCmd.Flags().StringVar(&proposeComments, "comments", "", "комментарий к версии")
	rootCmd.AddCommand(
		versionsCmd,
		proposeCmd,
		decisionCmd("accept", "Принять версию сделки", true),
		decisionCmd("reject", "Отклонить версию сделки", false),
		withdrawCmd,
	)
}
