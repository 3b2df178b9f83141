package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"

	"github.com/fanlar-test/backend/internal/domain/questionbank"
)

var ErrEmptyCatalog = errors.New("subject catalog lists no subjects")

type catalogFile struct {
	Subjects []questionbank.Subject `mapstructure:"subjects"`
}

// LoadCatalog reads the subject catalog from a YAML file. A missing file
// yields the built-in catalog.
func LoadCatalog(path string) (*questionbank.Catalog, error) {
	if path == "" {
		return questionbank.DefaultCatalog(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return questionbank.DefaultCatalog(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return questionbank.DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("error loading subject catalog: %w", err)
	}

	var file catalogFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("error unmarshalling subject catalog: %w", err)
	}

	catalog := questionbank.NewCatalog(file.Subjects)
	if len(catalog.Subjects()) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyCatalog)
	}
	return catalog, nil
}
