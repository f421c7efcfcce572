package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyeonwoo/shoplens/internal/infrastructure/cache"
)

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	fc, err := fileCache(cmd)
	if err != nil {
		return err
	}
	info := fc.Stats()
	fmt.Printf("entries: %d\nsize:    %d bytes\nttl:     %s\ndir:     %s\n",
		info.FileCount, info.TotalBytes, info.TTL, info.Dir)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	fc, err := fileCache(cmd)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d cache entries\n", fc.Clear())
	return nil
}

// fileCache opens the file backend regardless of the configured backend:
// the Redis backend expires entries on its own and needs no maintenance.
func fileCache(cmd *cobra.Command) (*cache.FileCache, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cache.NewFile(cfg.Cache.Dir, cfg.Cache.TTL.Std())
}
