package core

import (
	"context"
	"strings"
)

// Programmes manages the list of programme names offered to clients. The
// list is advisory: the Validator never consults it.
type Programmes struct {
	store ProgrammeStore
}

// NewProgrammes creates a Programmes facade over store.
func NewProgrammes(store ProgrammeStore) *Programmes {
	return &Programmes{store: store}
}

func (p *Programmes) List(ctx context.Context) ([]string, error) {
	return p.store.ListProgrammes(ctx)
}

// Add stores a new programme name. Names are trimmed and must be non-empty.
func (p *Programmes) Add(ctx context.Context, name string) error {
	name, err := programmeName(name)
	if err != nil {
		return err
	}
	return p.store.AddProgramme(ctx, name)
}

// Rename changes oldName to newName. Renaming an unknown programme is a no-op.
// Students already recorded under oldName are not touched.
func (p *Programmes) Rename(ctx context.Context, oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName, err := programmeName(newName)
	if err != nil {
		return err
	}
	return p.store.RenameProgramme(ctx, oldName, newName)
}

func (p *Programmes) Delete(ctx context.Context, name string) error {
	return p.store.DeleteProgramme(ctx, strings.TrimSpace(name))
}

func programmeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError(ColProgramme, "Programme name is required.")
	}
	if len(name) > 100 {
		return "", newValidationError(ColProgramme, "Programme name must be at most 100 characters.")
	}
	return name, nil
}
