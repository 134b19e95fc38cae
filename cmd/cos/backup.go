package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/backup"
)

var (
	backupDir  string
	backupKeep int
)

// backupCmd snapshots the sqlite store
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the sqlite store and prune old snapshots",
	Long: `Writes a consistent copy of the sqlite database into --dir and keeps the
newest --keep snapshots. Only the sqlite storage engine can be backed up.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [snapshot]",
	Short: "Replace the store with a snapshot (default: the newest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupRestore,
}

func init() {
	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Snapshot directory (default: <data_path>/backups)")
	backupCmd.Flags().IntVar(&backupKeep, "keep", 10, "Number of snapshots to keep")

	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}

func resolveBackupDir() (string, error) {
	if cfg.Storage.Engine != "sqlite" {
		return "", fmt.Errorf("backup needs the sqlite storage engine, not %q", cfg.Storage.Engine)
	}
	if backupDir != "" {
		return backupDir, nil
	}
	return filepath.Join(cfg.Storage.DataPath, "backups"), nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	dir, err := resolveBackupDir()
	if err != nil {
		return err
	}

	info, err := backup.Snapshot(cmd.Context(), cfg.DBPath(), dir, time.Now())
	if err != nil {
		return err
	}
	logger.Info("backup created", zap.String("path", info.Path), zap.Int64("size", info.Size))

	removed, err := backup.Prune(dir, backupKeep)
	for _, path := range removed {
		logger.Debug("pruned backup", zap.String("path", path))
	}
	if err != nil {
		logger.Warn("failed to prune backups", zap.Error(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", info.Path, info.Size)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	dir, err := resolveBackupDir()
	if err != nil {
		return err
	}
	snapshots, err := backup.List(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No backups.")
		return nil
	}
	for _, s := range snapshots {
		fmt.Fprintf(out, "%s  %10d  %s\n", s.Timestamp.Format(time.RFC3339), s.Size, s.Path)
	}
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	dir, err := resolveBackupDir()
	if err != nil {
		return err
	}

	var snapshot string
	if len(args) == 1 {
		snapshot = args[0]
	} else {
		latest, err := backup.Latest(dir)
		if errors.Is(err, backup.ErrNoSnapshots) {
			return fmt.Errorf("no snapshots in %s", dir)
		}
		if err != nil {
			return err
		}
		snapshot = latest.Path
	}

	if err := backup.Restore(cmd.Context(), snapshot, cfg.DBPath()); err != nil {
		return err
	}
	logger.Info("backup restored", zap.String("snapshot", snapshot), zap.String("target", cfg.DBPath()))
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", snapshot)
	return nil
}
