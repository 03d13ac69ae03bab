/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dtsynthetic/postman-dynatrace-converter/filepathparser"
	"github.com/dtsynthetic/postman-dynatrace-converter/store"
)

const defaultStorePath = "~/." + appName + "/notes.db"

// storeCmd represents the store command
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep key/value notes in a local store",
	Long: `The store command manages free-form key/value notes kept in a local SQLite
database, for example environment URLs or tokens used while preparing monitors.

Examples:
  postman-dynatrace-converter store set baseUrl https://api.example.com
  postman-dynatrace-converter store get baseUrl
  postman-dynatrace-converter store export --format json`,
}

var errKeyNotFound = errors.New("Key not found.")

var storeSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value under a key",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := strings.TrimSpace(args[0])
		value := strings.TrimSpace(args[1])
		err := withStore(viper.GetString("storePath"), func(storeClient store.IStoreClient) error {
			if err := storeClient.Set(cmd.Context(), key, value); err != nil {
				return fmt.Errorf("Please enter both key and value: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored: %s -> %s\n", key, value)
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored under a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(viper.GetString("storePath"), func(storeClient store.IStoreClient) error {
			value, found, err := storeClient.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("Error reading key: %w", err)
			}
			if !found {
				return errKeyNotFound
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored key and value",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(viper.GetString("storePath"), func(storeClient store.IStoreClient) error {
			if err := listNotes(cmd.Context(), storeClient, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("Error listing keys: %w", err)
			}
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a stored key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(viper.GetString("storePath"), func(storeClient store.IStoreClient) error {
			deleted, err := storeClient.Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("Error deleting key: %w", err)
			}
			if !deleted {
				return errKeyNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", strings.TrimSpace(args[0]))
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	},
}

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to clear all stored data?") {
			log.Info("Clear cancelled")
			return
		}
		err := withStore(viper.GetString("storePath"), func(storeClient store.IStoreClient) error {
			if _, err := storeClient.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("Error clearing store: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Local storage cleared.")
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	},
}

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored key and value as YAML or JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		err := withStore(viper.GetString("storePath"), func(storeClient store.IStoreClient) error {
			if err := storeClient.Export(cmd.Context(), store.ExportFormat(strings.ToLower(format)), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("Error exporting store: %w", err)
			}
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	},
}

// withStore opens the store, runs action and closes the store before
// returning the first error.
func withStore(storePath string, action func(storeClient store.IStoreClient) error) error {
	storePath, err := filepathparser.EnsureParentDir(storePath)
	if err != nil {
		return fmt.Errorf("Error getting store path: %w", err)
	}

	storeClient, err := store.NewStoreClient(storePath, log)
	if err != nil {
		return fmt.Errorf("Error opening store: %w", err)
	}

	actionErr := action(storeClient)
	if err := storeClient.Close(); err != nil && actionErr == nil {
		return fmt.Errorf("Error closing store: %w", err)
	}
	return actionErr
}

func listNotes(ctx context.Context, storeClient store.IStoreClient, w io.Writer) error {
	entries, err := storeClient.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Stored Items:")
	if len(entries) == 0 {
		fmt.Fprintln(w, "No data stored.")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(w, "%s: %s\n", entry.Key, entry.Value)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeSetCmd, storeGetCmd, storeListCmd, storeDeleteCmd, storeClearCmd, storeExportCmd)

	storeCmd.PersistentFlags().String("storePath", defaultStorePath, "SQLite file holding the stored notes")
	viper.BindPFlag("storePath", storeCmd.PersistentFlags().Lookup("storePath"))

	storeClearCmd.Flags().Bool("yes", false, "Clear without asking for confirmation")
	storeExportCmd.Flags().String("format", string(store.ExportFormatYAML), "Export format (yaml or json)")
}

