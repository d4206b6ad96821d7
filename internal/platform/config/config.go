package config

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	DataPath  string
	StorePath string
	DBPath    string
}

func New(dataPath string) (Config, error) {
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	store := filepath.Join(dataPath, ".fastlog")
	return Config{
		DataPath:  dataPath,
		StorePath: store,
		DBPath:    filepath.Join(store, "fastlog.db"),
	}, nil
}
