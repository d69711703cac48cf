package main

import (
	"dealdesk/internal/notify"
	"errors"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Следить за лентой событий и обновлять сделки",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !current.cfg.Feed.Enabled || current.cfg.Feed.WSUrl == "" {
			return errors.New("Лента событий отключена в конфигурации.")
		}
		store, err := current.loadedStore(cmd.Context())
		if err != nil {
			return err
		}

		feed := notify.New(current.cfg.Feed.WSUrl, current.cfg.API.Token, current.log)
		if err := feed.Connect(cmd.Context()); err != nil {
			return err
		}
		defer feed.Close()

		store.HandleEvents(cmd.Context(), feed.Events())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
