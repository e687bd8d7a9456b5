// Package file loads question banks from YAML documents on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"traffic-quiz/internal/domain"
)

// BankLoader resolves a bank ID to <dir>/<id>.yaml (or .yml).
type BankLoader struct {
	dir string
}

func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bankID == "" || strings.ContainsAny(bankID, `/\`) || strings.Contains(bankID, "..") {
		return domain.Bank{}, fmt.Errorf("bank id %q: %w", bankID, domain.ErrBankNotFound)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		bank, err := ReadBank(filepath.Join(l.dir, bankID+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Bank{}, err
		}
		if bank.ID == "" {
			bank.ID = bankID
		}
		return bank, nil
	}
	return domain.Bank{}, fmt.Errorf("bank %q in %s: %w", bankID, l.dir, domain.ErrBankNotFound)
}

// ReadBank decodes a single YAML bank document. Unknown fields are rejected.
func ReadBank(path string) (domain.Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Bank{}, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var bank domain.Bank
	if err := dec.Decode(&bank); err != nil {
		return domain.Bank{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return bank, nil
}

// WriteBank encodes bank as YAML at path.
func WriteBank(path string, bank domain.Bank) error {
	data, err := yaml.Marshal(bank)
	if err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
