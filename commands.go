package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studyplanner/internal/console"
	"studyplanner/internal/handlers"
	"studyplanner/internal/models"
	"studyplanner/internal/planner"
)

func menuCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive numbered menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, flags)
		},
	}
}

func runMenu(cmd *cobra.Command, flags *globalFlags) error {
	a, err := openApp(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer a.Close()

	return console.New(a.store, cmd.InOrStdin(), cmd.OutOrStdout(), a.recorder).Run(cmd.Context())
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr != "" {
				a.cfg.Addr = addr
			}

			h := handlers.New(a.store, a.recorder, a.logger)
			srv := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           h.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", "addr", a.cfg.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			return a.store.Save(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	return cmd
}

func listCmd(flags *globalFlags) *cobra.Command {
	var incomplete, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks := a.store.All()
			if asJSON {
				if incomplete {
					tasks = a.store.Incomplete()
				}
				models.SortForDisplay(tasks)
				return writeJSON(cmd, tasks)
			}

			console.WriteTasks(cmd.OutOrStdout(), tasks, !incomplete)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&incomplete, "incomplete", "i", false, "Hide completed tasks")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

func planCmd(flags *globalFlags) *cobra.Command {
	var minutes int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Suggest tasks for the available study time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			plan := planner.Generate(a.store.All(), minutes)
			a.recorder.Plan(string(plan.Outcome))

			if asJSON {
				return writeJSON(cmd, plan)
			}
			console.WritePlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Available study time in minutes")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	cmd.MarkFlagRequired("minutes")

	return cmd
}

func importSampleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import-sample",
		Short: "Replace all tasks with the sample dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.ImportSample(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sample data imported.")
			return nil
		},
	}
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
