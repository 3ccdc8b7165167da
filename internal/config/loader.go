package config

import (
	"errors"
	"fmt"

	"tourism-pipeline/internal/model"

	"github.com/spf13/viper"
)

// LoadJob returns the default job with any overrides found in
// <configPath>/pipeline.yaml. A missing file is not an error.
func LoadJob(configPath string) (model.PipelineJobSpec, error) {
	// Start with default
	job := model.DefaultJob()

	v := viper.New()
	v.SetConfigName("pipeline")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return job, fmt.Errorf("failed to read pipeline.yaml: %w", err)
		}
		fmt.Println("No pipeline.yaml found, using defaults")
		return job, nil
	}
	fmt.Printf("Loaded %s\n", v.ConfigFileUsed())

	// Override defaults if values exist
	if v.IsSet("output.file") {
		job.Export.File = v.GetString("output.file")
	}
	if v.IsSet("merge.mode") {
		job.MergeMode = v.GetString("merge.mode")
	}
	if v.IsSet("store.db") {
		job.Store.DB = v.GetString("store.db")
	}

	for i := range job.Sources {
		src := &job.Sources[i]
		prefix := "sources." + src.Name + "."
		if v.IsSet(prefix + "data") {
			src.URL = v.GetString(prefix + "data")
		}
		if v.IsSet(prefix + "metadata") {
			src.MetadataURL = v.GetString(prefix + "metadata")
		}
		if v.IsSet(prefix + "type") {
			src.Type = v.GetString(prefix + "type")
		}
		if v.IsSet(prefix + "link") {
			src.Link = v.GetString(prefix + "link")
		}
	}

	return job, nil
}
