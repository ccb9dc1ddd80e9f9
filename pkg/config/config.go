package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pg-sharding/pgbatch/pkg/batchlog"
	"gopkg.in/yaml.v2"
)

const (
	defaultAutoPrepareMinUses = 5
	defaultMaxAutoPrepared    = 256
)

type Batch struct {
	LogLevel string `json:"log_level" toml:"log_level" yaml:"log_level"`

	// DefaultErrorBarrier is the batch-level default a command's
	// Inherit barrier resolves against.
	DefaultErrorBarrier bool `json:"default_error_barrier" toml:"default_error_barrier" yaml:"default_error_barrier"`

	AutoPrepareMinUses int `json:"auto_prepare_min_uses" toml:"auto_prepare_min_uses" yaml:"auto_prepare_min_uses"`
	MaxAutoPrepared    int `json:"max_auto_prepared" toml:"max_auto_prepared" yaml:"max_auto_prepared"`
}

var cfgBatch = Batch{
	AutoPrepareMinUses: defaultAutoPrepareMinUses,
	MaxAutoPrepared:    defaultMaxAutoPrepared,
}

func LoadBatchCfg(cfgPath string) error {
	file, err := os.Open(cfgPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := initBatchConfig(file, cfgPath); err != nil {
		return err
	}

	if cfgBatch.AutoPrepareMinUses <= 0 {
		cfgBatch.AutoPrepareMinUses = defaultAutoPrepareMinUses
	}
	if cfgBatch.MaxAutoPrepared <= 0 {
		cfgBatch.MaxAutoPrepared = defaultMaxAutoPrepared
	}

	if err := batchlog.UpdateZeroLogLevel(cfgBatch.LogLevel); err != nil {
		return err
	}

	configBytes, err := json.MarshalIndent(cfgBatch, "", "  ")
	if err != nil {
		return err
	}

	log.Println("Running config:", string(configBytes))
	return nil
}

func initBatchConfig(file *os.File, filepath string) error {
	if strings.HasSuffix(filepath, ".toml") {
		_, err := toml.NewDecoder(file).Decode(&cfgBatch)
		return err
	}
	if strings.HasSuffix(filepath, ".yaml") {
		return yaml.NewDecoder(file).Decode(&cfgBatch)
	}
	if strings.HasSuffix(filepath, ".json") {
		return json.NewDecoder(file).Decode(&cfgBatch)
	}
	return fmt.Errorf("unknown config format type: %s. Use .toml, .yaml or .json suffix in filename", filepath)
}

func BatchConfig() *Batch {
	return &cfgBatch
}
