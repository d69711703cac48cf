package main

import (
	"context"
	"dealdesk/internal/mockapi"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var mockAddr string

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Запустить тестовый сервер сделок",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mockapi.New(mockapi.Options{
			BasePath:  current.cfg.API.BasePath,
			CompanyID: current.cfg.Company.ID,
			Log:       current.log,
		})
		srv.Seed()

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/", srv.Handler())

		httpSrv := &http.Server{
			Addr:              mockAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			<-cmd.Context().Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(ctx)
		}()

		current.log.WithComponent("mockapi").WithField("addr", mockAddr).Info("Тестовый сервер запущен.")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		current.log.WithComponent("mockapi").Info("Тестовый сервер остановлен.")
		return nil
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", ":8080", "адрес сервера")
	rootCmd.AddCommand(mockCmd)
}
