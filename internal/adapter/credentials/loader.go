package credentials

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"fxconvert/pkg/logger"
)

var (
	ErrNotFound = errors.New("api key not found")
	ErrEmptyKey = errors.New("api key file is empty")
)

// Loader yields the API key or ErrNotFound when its source does not exist.
type Loader interface {
	Load() (string, error)
}

// BinaryFileLoader reads a key stored as raw UTF-8 bytes.
type BinaryFileLoader struct {
	Path string
}

func (l BinaryFileLoader) Load() (string, error) {
	data, err := os.ReadFile(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key file %s: %w", l.Path, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%s: %w", l.Path, ErrEmptyKey)
	}
	return key, nil
}

// TextFileLoader reads the first line of a plain text key file. When MigrateTo
// is set, the key is also written there in binary form so later runs pick it
// up through a BinaryFileLoader.
type TextFileLoader struct {
	Path      string
	MigrateTo string
	Log       *logger.Logger
}

func (l TextFileLoader) Load() (string, error) {
	data, err := os.ReadFile(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key file %s: %w", l.Path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	var key string
	if scanner.Scan() {
		key = strings.TrimSpace(scanner.Text())
	}
	if key == "" {
		return "", fmt.Errorf("%s: %w", l.Path, ErrEmptyKey)
	}

	if l.MigrateTo != "" {
		if err := Migrate(key, l.MigrateTo); err != nil {
			if l.Log != nil {
				l.Log.Warn("Failed to migrate api key to binary file", "path", l.MigrateTo, "error", err)
			}
		} else if l.Log != nil {
			l.Log.Info("Migrated api key to binary file", "path", l.MigrateTo)
		}
	}

	return key, nil
}

// Migrate writes key to path as raw bytes, replacing any previous content.
func Migrate(key, path string) error {
	if err := os.WriteFile(path, []byte(key), 0o600); err != nil {
		return fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	return nil
}

// Chain tries each loader in order. ErrNotFound moves on to the next loader,
// any other error stops the search.
type Chain []Loader

func (c Chain) Load() (string, error) {
	for _, loader := range c {
		key, err := loader.Load()
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		return key, nil
	}
	return "", ErrNotFound
}

// NewFileChain is the default lookup: binary file first, then the text file
// with migration into the binary path.
func NewFileChain(binaryPath, textPath string, log *logger.Logger) Chain {
	return Chain{
		BinaryFileLoader{Path: binaryPath},
		TextFileLoader{Path: textPath, MigrateTo: binaryPath, Log: log},
	}
}
